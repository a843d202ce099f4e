package log

import (
	"time"
)

// Event represents a login-protocol event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// AttemptID uniquely identifies the login attempt (UUID).
	AttemptID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// State is the orchestrator state the event was captured in.
	State string `cbor:"4,keyasint,omitempty"`

	// Gateway is the gateway base URL or host.
	Gateway string `cbor:"5,keyasint,omitempty"`

	// Endpoint is the request path for Request/Response events.
	Endpoint string `cbor:"6,keyasint,omitempty"`

	// Status is the HTTP status code for Response events.
	Status int `cbor:"7,keyasint,omitempty"`

	// Detail is a short human-readable note (never key material).
	Detail string `cbor:"8,keyasint,omitempty"`

	// Error is the failure description for Error events.
	Error string `cbor:"9,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryStateChange marks an orchestrator state transition.
	CategoryStateChange Category = 0
	// CategoryRequest marks an outgoing gateway request.
	CategoryRequest Category = 1
	// CategoryResponse marks an incoming gateway response.
	CategoryResponse Category = 2
	// CategoryError marks an attempt failure.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryStateChange:
		return "state_change"
	case CategoryRequest:
		return "request"
	case CategoryResponse:
		return "response"
	case CategoryError:
		return "error"
	default:
		return "unknown"
	}
}
