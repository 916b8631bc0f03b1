// Package commands implements the dnssd log commands and result printing.
package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [res:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	resID := shortenID(event.ResolverID)

	var typeLabel string
	switch {
	case event.Packet != nil:
		typeLabel = "Packet"
	case event.Query != nil:
		typeLabel = "Query"
	case event.Result != nil:
		typeLabel = "Result"
	case event.StateChange != nil:
		typeLabel = "State"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [res:%s] %-3s %s %s", ts, resID, event.Direction, event.Layer, typeLabel)
	if event.Instance != "" {
		fmt.Fprintf(w, " %s", event.Instance)
	}
	fmt.Fprintln(w)

	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Remote: %s", event.RemoteAddr)
		if event.Interface != 0 {
			fmt.Fprintf(w, " (if %d)", event.Interface)
		}
		fmt.Fprintln(w)
	}

	switch {
	case event.Packet != nil:
		formatPacketDetails(w, event.Packet)
	case event.Query != nil:
		formatQueryDetails(w, event.Query)
	case event.Result != nil:
		formatResultDetails(w, event.Result)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenID returns the first 8 characters of a resolver ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatPacketDetails(w io.Writer, p *log.PacketEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", p.Size)
	if len(p.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(p.Data))
		if p.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
}

func formatQueryDetails(w io.Writer, q *log.QueryEvent) {
	fmt.Fprintf(w, "  Question: %s %s", q.Name, q.Type)
	if q.Unicast {
		fmt.Fprint(w, " QU")
	}
	fmt.Fprintln(w)
	if q.Retry > 0 {
		fmt.Fprintf(w, "  Retry: %d\n", q.Retry)
	}
}

func formatResultDetails(w io.Writer, r *log.ResultEvent) {
	fmt.Fprintf(w, "  Kind: %s\n", r.Kind)
	fmt.Fprintf(w, "  Host: %s:%d\n", r.HostName, r.Port)
	if len(r.Addresses) > 0 {
		fmt.Fprintf(w, "  Addresses: %s\n", strings.Join(r.Addresses, ", "))
	}
	if len(r.TXT) > 0 {
		keys := slices.Sorted(maps.Keys(r.TXT))
		pairs := make([]string, len(keys))
		for i, k := range keys {
			pairs[i] = k + "=" + r.TXT[k]
		}
		fmt.Fprintf(w, "  TXT: %s\n", strings.Join(pairs, " "))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// ParseLayer parses a layer name (case-insensitive).
func ParseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "record":
		return log.LayerRecord, nil
	case "resolver":
		return log.LayerResolver, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, record, or resolver)", s)
	}
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "result":
		return log.CategoryResult, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, result, state, or error)", s)
	}
}

// RunView prints the events of the log file at path that match filter.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, log.ErrTruncated) {
			fmt.Fprintf(output, "-- %v --\n", err)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}
}
