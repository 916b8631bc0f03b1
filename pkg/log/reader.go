package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Filter selects events. Unset fields match everything.
type Filter struct {
	ResolverID string
	Direction  *Direction
	Layer      *Layer
	Category   *Category

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time

	// Instance is compared case-insensitively.
	Instance string
}

// Match reports whether event passes every set criterion.
func (f Filter) Match(event Event) bool {
	switch {
	case f.ResolverID != "" && event.ResolverID != f.ResolverID:
		return false
	case f.Direction != nil && event.Direction != *f.Direction:
		return false
	case f.Layer != nil && event.Layer != *f.Layer:
		return false
	case f.Category != nil && event.Category != *f.Category:
		return false
	case f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart):
		return false
	case f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd):
		return false
	case f.Instance != "" && !strings.EqualFold(event.Instance, f.Instance):
		return false
	}
	return true
}

// Reader iterates over the events of a capture, skipping those the
// filter rejects.
type Reader struct {
	stream *eventStream
	closer io.Closer
	filter Filter
}

// NewReader opens the capture file at path.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens the capture file at path with a filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	r := NewStreamReader(f, filter)
	r.closer = f
	return r, nil
}

// NewStreamReader reads events from r, which the caller closes.
func NewStreamReader(r io.Reader, filter Filter) *Reader {
	return &Reader{stream: newEventStream(r), filter: filter}
}

// Next returns the next matching event, or io.EOF after the last one.
// A capture cut short inside an event yields an error wrapping
// ErrTruncated.
func (r *Reader) Next() (Event, error) {
	for {
		event, err := r.stream.next()
		if err != nil {
			return Event{}, err
		}
		if r.filter.Match(event) {
			return event, nil
		}
	}
}

// Close closes the file opened by NewReader or NewFilteredReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
