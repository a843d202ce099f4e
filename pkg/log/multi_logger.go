package log

// MultiLogger fans each event out to several sinks, typically a console
// SlogAdapter next to a FileLogger.
type MultiLogger struct {
	sinks []Logger
}

// NewMultiLogger combines loggers into one. Nil entries are skipped, so
// callers can pass optional sinks without checking them first.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	m := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			m.sinks = append(m.sinks, l)
		}
	}
	return m
}

// Log delivers the event to every sink in order.
func (m *MultiLogger) Log(event Event) {
	for _, sink := range m.sinks {
		sink.Log(event)
	}
}

var _ Logger = (*MultiLogger)(nil)
