package log

import "slices"

// MultiLogger forwards each event to several loggers, in order.
// A typical pairing is a FileLogger for capture and a SlogAdapter for the
// console.
type MultiLogger []Logger

// NewMultiLogger combines loggers, dropping nil entries.
func NewMultiLogger(loggers ...Logger) MultiLogger {
	return slices.DeleteFunc(slices.Clone(loggers), func(l Logger) bool { return l == nil })
}

func (m MultiLogger) Log(event Event) {
	for _, l := range m {
		l.Log(event)
	}
}
