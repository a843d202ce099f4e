package login

import (
	"fmt"
)

// Kind classifies a login failure.
type Kind int

const (
	// KindSession means the initial session could not be established.
	KindSession Kind = iota

	// KindProtocol means an expected token or header was missing, or the
	// gateway sent a response the protocol does not allow here.
	KindProtocol

	// KindRateLimit means the gateway issued a login lockout.
	KindRateLimit

	// KindCrypto means a derivation or comparison could not be computed,
	// e.g. a malformed salt.
	KindCrypto

	// KindIdentity means the gateway failed the server-proof or
	// public-key signature check.
	KindIdentity
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSession:
		return "SessionError"
	case KindProtocol:
		return "ProtocolError"
	case KindRateLimit:
		return "RateLimitError"
	case KindCrypto:
		return "CryptoError"
	case KindIdentity:
		return "IdentityError"
	default:
		return "UnknownError"
	}
}

// Error is a typed login failure. It carries the taxonomy kind, the state
// the attempt failed in, and, for rate limits, the device-issued wait time.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// State is the state the attempt was in when it failed.
	State State

	// Reason is a short human-readable description.
	Reason string

	// WaitMinutes is the gateway-issued lockout duration for KindRateLimit.
	WaitMinutes int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("login %s in state %s", e.Kind, e.State)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Kind == KindRateLimit {
		msg += fmt.Sprintf(" (wait %d minutes)", e.WaitMinutes)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func failure(kind Kind, state State, reason string, err error) *Error {
	return &Error{Kind: kind, State: state, Reason: reason, Err: err}
}

func rateLimited(state State, waitMinutes int) *Error {
	return &Error{
		Kind:        KindRateLimit,
		State:       state,
		Reason:      "gateway issued login lockout",
		WaitMinutes: waitMinutes,
	}
}
