package scram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// ClientProof computes the proof the client sends in the final login phase.
//
//	clientKey = DeriveKey(password, salt, iterations, "Client Key")
//	storedKey = SHA-256(clientKey)
//	signature = HMAC-SHA256(storedKey, authMessage)
//	proof     = clientKey XOR signature
//
// The result is hex-encoded. XOR is self-inverse, so the gateway recovers
// clientKey from the proof and the signature it computes itself.
func ClientProof(clientNonce, serverNonce, saltHex string, iterations int, password string) (string, error) {
	clientKey, err := DeriveKey(password, saltHex, iterations, LabelClientKey)
	if err != nil {
		return "", err
	}

	storedKey := sha256.Sum256(clientKey)

	mac := hmac.New(sha256.New, storedKey[:])
	mac.Write([]byte(AuthMessage(clientNonce, serverNonce)))
	signature := mac.Sum(nil)

	return hex.EncodeToString(xorWords(clientKey, signature)), nil
}

// ServerProof computes the proof the gateway is expected to return.
//
//	serverKey = DeriveKey(password, salt, iterations, "Server Key")
//	proof     = HMAC-SHA256(serverKey, authMessage)
func ServerProof(clientNonce, serverNonce, saltHex string, iterations int, password string) (string, error) {
	serverKey, err := DeriveKey(password, saltHex, iterations, LabelServerKey)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, serverKey)
	mac.Write([]byte(AuthMessage(clientNonce, serverNonce)))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// PublicKeySignature computes the expected signature over the gateway's
// advertised RSA public key modulus.
//
//	serverKey = DeriveKey(password, salt, iterations, "Server Key")
//	signature = HMAC-SHA256(hexDecode(publicKeyHex), serverKey)
//
// Unlike ServerProof, the HMAC is keyed with the public key bytes and the
// server key is the message. The asymmetry is part of the protocol.
func PublicKeySignature(clientNonce, serverNonce, saltHex string, iterations int, password, publicKeyHex string) (string, error) {
	serverKey, err := DeriveKey(password, saltHex, iterations, LabelServerKey)
	if err != nil {
		return "", err
	}

	pubKey, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	mac := hmac.New(sha256.New, pubKey)
	mac.Write(serverKey)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// xorWords XORs two 32-byte buffers as eight 32-bit big-endian words,
// matching the hash algorithm's internal word representation.
func xorWords(a, b []byte) []byte {
	out := make([]byte, KeySize)
	for i := 0; i < KeySize; i += 4 {
		w := binary.BigEndian.Uint32(a[i:]) ^ binary.BigEndian.Uint32(b[i:])
		binary.BigEndian.PutUint32(out[i:], w)
	}
	return out
}
