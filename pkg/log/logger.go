package log

// Logger receives protocol events from a login attempt. Implementations
// must be safe for concurrent use; a Log call that blocks stalls the
// attempt that produced the event.
type Logger interface {
	Log(event Event)
}

// Func adapts a plain function to the Logger interface.
type Func func(Event)

// Log calls f with the event.
func (f Func) Log(event Event) { f(event) }

// NoopLogger drops every event. The orchestrator substitutes it when no
// logger is configured.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var (
	_ Logger = Func(nil)
	_ Logger = NoopLogger{}
)
