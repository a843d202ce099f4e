package wire

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Response decoding errors.
var (
	ErrInvalidResponse = errors.New("invalid gateway response")
)

// TokenResponse carries the anti-forgery token from the token endpoint.
type TokenResponse struct {
	Token string
}

// ChallengeResponse carries the gateway's answer to the login challenge.
type ChallengeResponse struct {
	ServerNonce string
	Salt        string
	Iterations  int
}

// AuthResponse carries the gateway's final authentication answer: its own
// proof plus the advertised RSA public key and the signature over it.
type AuthResponse struct {
	ServerSignature string
	PubKeySignature string
	Modulus         string
	Exponent        string
}

// ErrorResponse is a gateway <error> document. WaitTime is the lockout
// duration in minutes for rate-limited logins, zero otherwise.
type ErrorResponse struct {
	Code     int
	WaitTime int
}

// StatusResponse is a bare acknowledgement ("OK") from control endpoints.
type StatusResponse struct {
	OK bool
}

type rawError struct {
	XMLName  xml.Name `xml:"error"`
	Code     string   `xml:"code"`
	WaitTime string   `xml:"waittime"`
}

type rawResponse struct {
	XMLName         xml.Name `xml:"response"`
	Text            string   `xml:",chardata"`
	Token           string   `xml:"token"`
	ServerNonce     string   `xml:"servernonce"`
	Salt            string   `xml:"salt"`
	Iterations      string   `xml:"iterations"`
	ServerSignature string   `xml:"serversignature"`
	PubKeySignature string   `xml:"rsapubkeysignature"`
	Modulus         string   `xml:"rsan"`
	Exponent        string   `xml:"rsae"`
}

// DecodeResponse decodes a gateway response body into the appropriate
// message type. Callers switch on the returned concrete type.
func DecodeResponse(data []byte) (interface{}, error) {
	// Error documents use a different root element; try that shape first.
	var rawErr rawError
	if err := xml.Unmarshal(data, &rawErr); err == nil {
		return decodeError(rawErr)
	}

	var raw rawResponse
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	switch {
	case raw.ServerSignature != "" || raw.PubKeySignature != "":
		return &AuthResponse{
			ServerSignature: raw.ServerSignature,
			PubKeySignature: raw.PubKeySignature,
			Modulus:         raw.Modulus,
			Exponent:        raw.Exponent,
		}, nil

	case raw.ServerNonce != "" || raw.Salt != "":
		iterations, err := strconv.Atoi(strings.TrimSpace(raw.Iterations))
		if err != nil {
			return nil, fmt.Errorf("%w: bad iteration count %q", ErrInvalidResponse, raw.Iterations)
		}
		return &ChallengeResponse{
			ServerNonce: raw.ServerNonce,
			Salt:        raw.Salt,
			Iterations:  iterations,
		}, nil

	case raw.Token != "":
		return &TokenResponse{Token: raw.Token}, nil

	case strings.TrimSpace(raw.Text) == "OK":
		return &StatusResponse{OK: true}, nil

	default:
		return nil, fmt.Errorf("%w: unrecognized response shape", ErrInvalidResponse)
	}
}

func decodeError(raw rawError) (*ErrorResponse, error) {
	resp := &ErrorResponse{}

	if raw.Code != "" {
		code, err := strconv.Atoi(strings.TrimSpace(raw.Code))
		if err != nil {
			return nil, fmt.Errorf("%w: bad error code %q", ErrInvalidResponse, raw.Code)
		}
		resp.Code = code
	}

	if raw.WaitTime != "" {
		wait, err := strconv.Atoi(strings.TrimSpace(raw.WaitTime))
		if err != nil {
			return nil, fmt.Errorf("%w: bad wait time %q", ErrInvalidResponse, raw.WaitTime)
		}
		resp.WaitTime = wait
	}

	return resp, nil
}
