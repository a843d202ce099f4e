package scram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// KeySize is the size of every derived key and digest in bytes.
const KeySize = 32

// Key derivation labels. The label separates the client and server key
// domains from the same salted secret.
const (
	LabelClientKey = "Client Key"
	LabelServerKey = "Server Key"
)

// Derivation errors.
var (
	ErrInvalidSalt       = errors.New("invalid salt encoding")
	ErrInvalidIterations = errors.New("iteration count must be positive")
	ErrInvalidPublicKey  = errors.New("invalid public key encoding")
)

// DeriveKey derives a purpose-scoped 32-byte key from the password.
//
// The password is stretched with PBKDF2-SHA256 using the hex-decoded salt
// and the given iteration count, then separated into the labelled domain
// with HMAC-SHA256(saltedSecret, label). DeriveKey is deterministic:
// identical inputs always produce identical output.
func DeriveKey(password, saltHex string, iterations int, label string) ([]byte, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSalt, err)
	}
	if iterations < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}

	salted := pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New)

	mac := hmac.New(sha256.New, salted)
	mac.Write([]byte(label))
	return mac.Sum(nil), nil
}

// AuthMessage builds the HMAC message signed by both parties. By protocol
// definition the server nonce appears twice.
func AuthMessage(clientNonce, serverNonce string) string {
	return clientNonce + "," + serverNonce + "," + serverNonce
}

// Equal compares two hex-encoded digests in constant time.
// Malformed hex never compares equal.
func Equal(aHex, bHex string) bool {
	a, err := hex.DecodeString(aHex)
	if err != nil {
		return false
	}
	b, err := hex.DecodeString(bHex)
	if err != nil {
		return false
	}
	return hmac.Equal(a, b)
}
