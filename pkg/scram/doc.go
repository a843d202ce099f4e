// Package scram implements the cryptographic core of the GateLink login
// protocol: nonce generation, password-based key derivation, and the
// challenge-response proofs exchanged with the gateway.
//
// # Protocol
//
// The gateway login is a SCRAM-style (Salted Challenge Response
// Authentication Mechanism) exchange. Neither party ever transmits the
// password; instead both derive keys from it and prove possession:
//
//  1. The client sends a fresh random nonce.
//  2. The gateway answers with its own nonce, a salt, and a PBKDF2
//     iteration count.
//  3. The client sends a proof computed from the derived client key.
//  4. The gateway answers with its own proof plus a keyed signature over
//     its advertised RSA public key, which the client verifies before
//     trusting the session.
//
// # Cryptographic Parameters
//
//   - KDF: PBKDF2 with HMAC-SHA256, 32-byte output
//   - Key separation: HMAC-SHA256 over the labels "Client Key" / "Server Key"
//   - MAC: HMAC-SHA256
//   - Proof: clientKey XOR HMAC(SHA256(clientKey), authMessage), XORed as
//     eight 32-bit big-endian words
//
// All functions are pure and safe for concurrent use. Proof comparisons go
// through Equal, which is constant-time.
package scram
