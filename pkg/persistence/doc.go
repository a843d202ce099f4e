// Package persistence stores the trusted gateway key material that survives
// across login attempts.
//
// After a successful login the orchestrator persists the RSA public key the
// gateway advertised and proved ownership of. The key is overwritten by each
// new successful login (last writer wins) and is absent until the first
// success. The store is injected into the orchestrator explicitly; there is
// no process-wide global.
package persistence
