package log

// Logger receives discovery events. Implementations must be safe for
// concurrent use and must not block for long: the resolver calls Log on
// its event loop.
type Logger interface {
	Log(event Event)
}

// NoopLogger discards every event.
type NoopLogger struct{}

func (NoopLogger) Log(Event) {}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Event)

func (f LoggerFunc) Log(event Event) { f(event) }
