// Package log provides structured protocol logging for GateLink.
//
// This package defines the Logger interface and Event type for capturing
// login-protocol events: state transitions, requests, responses, and
// failures. It is separate from operational logging (slog): protocol
// capture provides a complete machine-readable trace of each login attempt
// for debugging and analysis. Passwords, derived keys, and proofs never
// appear in events.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/gatelink/login.glog")
//
//	// Both: use MultiLogger
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// Events are CBOR-encoded with integer keys in the file format; Reader
// streams them back with optional filtering.
package log
