package log

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// ErrTruncated is returned when a log stream ends inside an event, as
// happens when a resolver dies mid-write.
var ErrTruncated = errors.New("log truncated")

// eventCodec holds the CBOR modes shared by writers and readers.
// Events are self-delimiting data items written back to back.
type eventCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var codec = sync.OnceValue(func() eventCodec {
	// Core deterministic encoding; timestamps as RFC 3339 strings keep
	// nanoseconds, which float epoch times would round away.
	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	enc, err := encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor encoder mode: %v", err))
	}

	// Unknown keys from newer writers are skipped.
	dec, err := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("log: cbor decoder mode: %v", err))
	}
	return eventCodec{enc: enc, dec: dec}
})

// EncodeEvent encodes one event.
func EncodeEvent(event Event) ([]byte, error) {
	return codec().enc.Marshal(event)
}

// DecodeEvent decodes one event.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	if err := codec().dec.Unmarshal(data, &event); err != nil {
		return Event{}, err
	}
	return event, nil
}

// eventStream decodes consecutive events from r.
type eventStream struct {
	dec   *cbor.Decoder
	count int
}

func newEventStream(r io.Reader) *eventStream {
	return &eventStream{dec: codec().dec.NewDecoder(r)}
}

// next returns the following event, io.EOF at a clean end of stream and
// ErrTruncated when the stream stops inside an event.
func (s *eventStream) next() (Event, error) {
	var event Event
	err := s.dec.Decode(&event)
	switch {
	case err == nil:
		s.count++
		return event, nil
	case errors.Is(err, io.EOF):
		return Event{}, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return Event{}, fmt.Errorf("%w after %d events", ErrTruncated, s.count)
	default:
		return Event{}, fmt.Errorf("event %d: %w", s.count+1, err)
	}
}
