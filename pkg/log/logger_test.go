package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	logger := NoopLogger{}

	event := Event{
		Timestamp:  time.Now(),
		ResolverID: "test-res",
		Direction:  DirectionIn,
		Layer:      LayerTransport,
		Category:   CategoryMessage,
	}
	logger.Log(event)

	event.Packet = NewPacketEvent([]byte{1, 2, 3})
	logger.Log(event)

	event.Packet = nil
	event.Query = &QueryEvent{Name: "_matter._tcp.local", Type: "PTR"}
	logger.Log(event)

	event.Query = nil
	event.Result = &ResultEvent{Kind: "OPERATIONAL", Port: 5540}
	logger.Log(event)

	event.Result = nil
	event.StateChange = &StateChangeEvent{Entity: StateEntityAttempt, NewState: "pending"}
	logger.Log(event)

	event.StateChange = nil
	event.Error = &ErrorEventData{Message: "test error"}
	logger.Log(event)
}

func TestLoggerInterfaceSatisfaction(t *testing.T) {
	var _ Logger = NoopLogger{}
	var _ Logger = &NoopLogger{}
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}

func TestLoggerFunc(t *testing.T) {
	var got []string
	logger := LoggerFunc(func(e Event) { got = append(got, e.ResolverID) })

	logger.Log(Event{ResolverID: "res-1"})
	logger.Log(Event{ResolverID: "res-2"})

	if len(got) != 2 || got[0] != "res-1" || got[1] != "res-2" {
		t.Errorf("got %v", got)
	}
}
