package log

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
)

// FileLogger appends events to a capture file. Writes are buffered; Flush
// or Close makes them visible to readers.
type FileLogger struct {
	mu     sync.Mutex
	file   *os.File
	buf    *bufio.Writer
	err    error // first failure, reported by Err
	broken bool  // a write failed; later events are dropped
	closed bool
}

// NewFileLogger opens path for appending, creating it if needed.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &FileLogger{file: f, buf: bufio.NewWriter(f)}, nil
}

// Log encodes and buffers the event. Events after Close, and every event
// after a write failure, are dropped; see Err.
func (l *FileLogger) Log(event Event) {
	data, err := EncodeEvent(event)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.broken {
		return
	}
	if err != nil {
		l.fail(fmt.Errorf("encode event: %w", err))
		return
	}
	if _, err := l.buf.Write(data); err != nil {
		l.broken = true
		l.fail(err)
	}
}

func (l *FileLogger) fail(err error) {
	if l.err == nil {
		l.err = err
	}
}

// Flush writes buffered events to the file.
func (l *FileLogger) Flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	if err := l.buf.Flush(); err != nil {
		l.broken = true
		l.fail(err)
		return err
	}
	return nil
}

// Err returns the first error that made the logger drop events.
func (l *FileLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close flushes and closes the file. Calling it again is a no-op.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return errors.Join(l.buf.Flush(), l.file.Close())
}
