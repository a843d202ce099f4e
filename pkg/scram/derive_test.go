package scram

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestNewNonce(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		nonce, err := NewNonce()
		if err != nil {
			t.Fatalf("NewNonce() error: %v", err)
		}
		if len(nonce) != NonceSize*2 {
			t.Fatalf("nonce length = %d, want %d", len(nonce), NonceSize*2)
		}
		if _, err := hex.DecodeString(nonce); err != nil {
			t.Fatalf("nonce is not valid hex: %v", err)
		}
		if seen[nonce] {
			t.Fatalf("nonce repeated: %s", nonce)
		}
		seen[nonce] = true
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	first, err := DeriveKey("admin", "aabb", 1000, LabelClientKey)
	if err != nil {
		t.Fatalf("DeriveKey() error: %v", err)
	}
	if len(first) != KeySize {
		t.Fatalf("key length = %d, want %d", len(first), KeySize)
	}

	for i := 0; i < 5; i++ {
		again, err := DeriveKey("admin", "aabb", 1000, LabelClientKey)
		if err != nil {
			t.Fatalf("DeriveKey() error on repeat: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("DeriveKey not deterministic:\nfirst: %x\nagain: %x", first, again)
		}
	}
}

func TestDeriveKey_LabelSeparation(t *testing.T) {
	clientKey, err := DeriveKey("admin", "aabb", 1000, LabelClientKey)
	if err != nil {
		t.Fatalf("DeriveKey(client) error: %v", err)
	}
	serverKey, err := DeriveKey("admin", "aabb", 1000, LabelServerKey)
	if err != nil {
		t.Fatalf("DeriveKey(server) error: %v", err)
	}
	if bytes.Equal(clientKey, serverKey) {
		t.Error("client and server keys must differ")
	}
}

func TestDeriveKey_InvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		salt       string
		iterations int
		want       error
	}{
		{"odd length salt", "aab", 1000, ErrInvalidSalt},
		{"non-hex salt", "zzzz", 1000, ErrInvalidSalt},
		{"zero iterations", "aabb", 0, ErrInvalidIterations},
		{"negative iterations", "aabb", -5, ErrInvalidIterations},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DeriveKey("admin", tt.salt, tt.iterations, LabelClientKey)
			if !errors.Is(err, tt.want) {
				t.Errorf("DeriveKey() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAuthMessage_ServerNonceTwice(t *testing.T) {
	msg := AuthMessage("cn", "sn")
	if msg != "cn,sn,sn" {
		t.Errorf("AuthMessage = %q, want %q", msg, "cn,sn,sn")
	}
	if strings.Count(msg, "sn") != 2 {
		t.Errorf("server nonce must appear twice in %q", msg)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"equal", "aabbcc", "aabbcc", true},
		{"different", "aabbcc", "aabbcd", false},
		{"different length", "aabb", "aabbcc", false},
		{"malformed left", "zz", "aabb", false},
		{"malformed right", "aabb", "zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
