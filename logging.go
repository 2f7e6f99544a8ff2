package settings

import "time"

// LookupLogEvent describes one layer lookup for logging.
type LookupLogEvent struct {
	Layer    string
	Path     string
	Duration time.Duration
	Found    bool
	Err      error
}

// LookupLogger records layer lookup events.
type LookupLogger interface {
	LogLookup(LookupLogEvent)
}

// LookupLoggerFunc adapts a function to LookupLogger.
type LookupLoggerFunc func(LookupLogEvent)

// LogLookup implements LookupLogger.
func (f LookupLoggerFunc) LogLookup(event LookupLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLookupLogger struct{}

func (noopLookupLogger) LogLookup(LookupLogEvent) {}
