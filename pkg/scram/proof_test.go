package scram

import (
	"bytes"
	"crypto/rand"
	"strings"
	"testing"
)

// Golden vectors computed once from the documented PBKDF2/HMAC parameters:
// password "admin", salt aabb, 1000 iterations, deterministic nonces.
const (
	goldenPassword   = "admin"
	goldenSalt       = "aabb"
	goldenIterations = 1000

	goldenClientProof = "3ca17ddf8a2c96f95e45aa7d3d9fd768d7f1cedf3ff263c23a23ab8ad1b9d91b"
	goldenServerProof = "50d7e7a379b71e660d2d26730feef94573a0833845260f5918a6058a57e9de9a"
	goldenPubKeySig   = "1db168edc8c4220e22cbb6147b929300c886bf587794339f10b5a9a67861b5b4"

	// 1024-bit test modulus, hex.
	goldenModulus = "d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0" +
		"d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0" +
		"d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0" +
		"d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0d0"
)

func goldenNonces() (string, string) {
	clientNonce := strings.Repeat("ab", 32)
	serverNonce := clientNonce + strings.Repeat("cd", 32)
	return clientNonce, serverNonce
}

func TestClientProof_GoldenVector(t *testing.T) {
	clientNonce, serverNonce := goldenNonces()

	proof, err := ClientProof(clientNonce, serverNonce, goldenSalt, goldenIterations, goldenPassword)
	if err != nil {
		t.Fatalf("ClientProof() error: %v", err)
	}
	if proof != goldenClientProof {
		t.Errorf("ClientProof = %s, want %s", proof, goldenClientProof)
	}
}

func TestServerProof_GoldenVector(t *testing.T) {
	clientNonce, serverNonce := goldenNonces()

	proof, err := ServerProof(clientNonce, serverNonce, goldenSalt, goldenIterations, goldenPassword)
	if err != nil {
		t.Fatalf("ServerProof() error: %v", err)
	}
	if proof != goldenServerProof {
		t.Errorf("ServerProof = %s, want %s", proof, goldenServerProof)
	}
}

func TestPublicKeySignature_GoldenVector(t *testing.T) {
	clientNonce, serverNonce := goldenNonces()

	sig, err := PublicKeySignature(clientNonce, serverNonce, goldenSalt, goldenIterations, goldenPassword, goldenModulus)
	if err != nil {
		t.Fatalf("PublicKeySignature() error: %v", err)
	}
	if sig != goldenPubKeySig {
		t.Errorf("PublicKeySignature = %s, want %s", sig, goldenPubKeySig)
	}
}

func TestServerProof_Symmetry(t *testing.T) {
	// Two independent parties with the same inputs must compute the same
	// proof; this is what makes mutual verification possible.
	clientNonce, serverNonce := goldenNonces()

	ours, err := ServerProof(clientNonce, serverNonce, goldenSalt, goldenIterations, goldenPassword)
	if err != nil {
		t.Fatalf("ServerProof() error: %v", err)
	}
	theirs, err := ServerProof(clientNonce, serverNonce, goldenSalt, goldenIterations, goldenPassword)
	if err != nil {
		t.Fatalf("ServerProof() error: %v", err)
	}
	if !Equal(ours, theirs) {
		t.Errorf("independently computed server proofs differ: %s vs %s", ours, theirs)
	}
}

func TestXORWords_SelfInverse(t *testing.T) {
	for i := 0; i < 50; i++ {
		key := make([]byte, KeySize)
		sig := make([]byte, KeySize)
		if _, err := rand.Read(key); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		if _, err := rand.Read(sig); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}

		recovered := xorWords(xorWords(key, sig), sig)
		if !bytes.Equal(recovered, key) {
			t.Fatalf("XOR not self-inverse:\nkey:       %x\nrecovered: %x", key, recovered)
		}
	}
}

func TestClientProof_InvalidSalt(t *testing.T) {
	clientNonce, serverNonce := goldenNonces()
	if _, err := ClientProof(clientNonce, serverNonce, "nothex", goldenIterations, goldenPassword); err == nil {
		t.Error("ClientProof should reject malformed salt")
	}
}

func TestPublicKeySignature_InvalidKey(t *testing.T) {
	clientNonce, serverNonce := goldenNonces()
	if _, err := PublicKeySignature(clientNonce, serverNonce, goldenSalt, goldenIterations, goldenPassword, "zz"); err == nil {
		t.Error("PublicKeySignature should reject malformed public key hex")
	}
}
