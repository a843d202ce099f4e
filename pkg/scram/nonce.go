package scram

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NonceSize is the size of a client nonce in bytes before hex encoding.
const NonceSize = 32

// NewNonce returns a fresh hex-encoded client nonce with 256 bits of
// entropy from the system CSPRNG. Every call produces a new value.
func NewNonce() (string, error) {
	buf := make([]byte, NonceSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
