package log

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func readAll(t *testing.T, path string) []Event {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	r := NewStreamReader(bytes.NewReader(data), Filter{})
	var events []Event
	for {
		event, err := r.Next()
		if errors.Is(err, io.EOF) {
			return events
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		events = append(events, event)
	}
}

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file was not created: %v", err)
	}
}

func TestFileLoggerMissingDirectory(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "test.dlog"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestFileLoggerBuffersUntilFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	defer logger.Close()

	logger.Log(Event{
		Timestamp:  time.Now(),
		ResolverID: "res-123",
		Direction:  DirectionIn,
		Layer:      LayerTransport,
		Category:   CategoryMessage,
		Packet:     &PacketEvent{Size: 100, Data: []byte{1, 2, 3}},
	})

	if events := readAll(t, path); len(events) != 0 {
		t.Fatalf("expected nothing on disk before Flush, got %d events", len(events))
	}
	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	events := readAll(t, path)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ResolverID != "res-123" {
		t.Errorf("ResolverID: got %q, want %q", events[0].ResolverID, "res-123")
	}
	if events[0].Packet == nil || events[0].Packet.Size != 100 {
		t.Errorf("Packet: got %+v", events[0].Packet)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	for _, id := range []string{"res-1", "res-2"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: time.Now(), ResolverID: id})
		if err := logger.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}

	events := readAll(t, path)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ResolverID != "res-1" || events[1].ResolverID != "res-2" {
		t.Errorf("unexpected order: %q, %q", events[0].ResolverID, events[1].ResolverID)
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	const numGoroutines = 10
	const eventsPerGoroutine = 100

	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				logger.Log(Event{
					Timestamp:  time.Now(),
					ResolverID: fmt.Sprintf("res-%d", i),
					Layer:      LayerTransport,
				})
			}
		}()
	}
	wg.Wait()
	logger.Close()

	if got := len(readAll(t, path)); got != numGoroutines*eventsPerGoroutine {
		t.Errorf("event count: got %d, want %d", got, numGoroutines*eventsPerGoroutine)
	}
	if err := logger.Err(); err != nil {
		t.Errorf("unexpected logger error: %v", err)
	}
}

func TestFileLoggerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	logger.Log(Event{Timestamp: time.Now(), ResolverID: "res-123"})

	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	// Dropped after close.
	logger.Log(Event{Timestamp: time.Now(), ResolverID: "res-456"})
	if err := logger.Flush(); err != nil {
		t.Errorf("Flush after Close failed: %v", err)
	}

	if events := readAll(t, path); len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}

func TestFileLoggerWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.dlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	// Closing the file underneath makes the next flush fail.
	logger.file.Close()

	logger.Log(Event{Timestamp: time.Now(), ResolverID: "res-1"})
	if err := logger.Flush(); err == nil {
		t.Fatal("expected Flush to fail")
	}
	if logger.Err() == nil {
		t.Error("expected Err to report the failure")
	}
}

func TestReaderTruncatedCapture(t *testing.T) {
	var buf bytes.Buffer
	for _, id := range []string{"res-1", "res-2"} {
		data, err := EncodeEvent(Event{Timestamp: time.Now(), ResolverID: id})
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		buf.Write(data)
	}
	data := buf.Bytes()[:buf.Len()-3]

	r := NewStreamReader(bytes.NewReader(data), Filter{})
	if _, err := r.Next(); err != nil {
		t.Fatalf("first event: %v", err)
	}
	_, err := r.Next()
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close of stream reader failed: %v", err)
	}
}
