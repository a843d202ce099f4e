// Package login drives the GateLink login protocol against a gateway.
//
// # Overview
//
// A login attempt is a strictly sequential state machine; every phase's
// inputs depend on the previous phase's outputs, so no two network
// exchanges of one attempt ever overlap:
//
//	Idle -> SessionInit -> TokenFetch -> PhaseOneSent -> PhaseOneReceived
//	     -> ProofComputed -> PhaseTwoSent -> PhaseTwoReceived -> Verified
//
// Any phase can instead end in Failed with a typed Error describing what
// went wrong (session setup, protocol violation, device rate limit,
// cryptographic input, or identity mismatch).
//
// # Protocol Flow
//
//  1. GET the device root to establish the session cookie.
//  2. GET the token endpoint; after the fixed 32-character prefix is
//     stripped, the remainder of the returned token becomes the
//     anti-forgery header for the next request.
//  3. POST username, client nonce, and mode to the challenge endpoint.
//  4. The gateway answers with its nonce, a salt, an iteration count,
//     and a rotated verification token header.
//  5. POST the client proof and final nonce to the authentication endpoint.
//  6. Verify the gateway's proof and its signature over the advertised
//     RSA public key; on success persist the key and return the session.
//
// Login is a single blocking call: it resolves only once the state machine
// reaches Verified or Failed, and the returned session token is final.
// No retries are ever performed: gateway lockout counters are cumulative
// and retrying a rate-limited login makes the lockout worse.
//
// Multiple attempts against different gateways may run concurrently; they
// share no mutable state except the injected key store, which serializes
// writers itself.
package login
