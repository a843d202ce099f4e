package transport

import (
	"context"
	"net/http"
)

// Verification token header names. The base name must be written exactly
// as below; responses are read case-insensitively.
const (
	// VerificationTokenHeader carries the anti-forgery token on outgoing
	// requests and on most responses.
	VerificationTokenHeader = "__RequestVerificationToken"

	// VerificationTokenHeaderOne is the alternate variant some firmware
	// uses on the final authentication response.
	VerificationTokenHeaderOne = "__RequestVerificationTokenone"
)

// Response is the result of a single gateway request.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the full response body.
	Body []byte
}

// HeaderValue reads a response header by name, case-insensitively.
// Returns the empty string when the header is absent.
func (r *Response) HeaderValue(name string) string {
	// http.Header.Get canonicalizes both the stored and the lookup key,
	// which gives the case-insensitive match the firmware requires.
	return r.Header.Get(name)
}

// Client is the narrow transport interface the login orchestrator consumes.
// Implemented by HTTPClient.
type Client interface {
	// Do issues a single request against the gateway. The path is joined
	// to the client's base URL. A nil header map and nil body are valid.
	Do(ctx context.Context, method, path string, header http.Header, body []byte) (*Response, error)
}

// Compile-time interface satisfaction check.
var _ Client = (*HTTPClient)(nil)
