package commands

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Resolvers         map[string]*ResolverStats
	Errors            int
	Truncated         bool
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// ResolverStats holds statistics for one resolver instance.
type ResolverStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Queries   int
	Retries   int
	Results   int

	// Instances counts results per instance name.
	Instances map[string]int
}

// CollectStats reads the log file at path and aggregates it.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Resolvers:         make(map[string]*ResolverStats),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, log.ErrTruncated) {
			stats.Truncated = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	rs, ok := s.Resolvers[event.ResolverID]
	if !ok {
		rs = &ResolverStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			Instances: make(map[string]int),
		}
		s.Resolvers[event.ResolverID] = rs
	}
	rs.Events++
	if event.Timestamp.After(rs.LastSeen) {
		rs.LastSeen = event.Timestamp
	}

	switch {
	case event.Query != nil:
		rs.Queries++
		if event.Query.Retry > 0 {
			rs.Retries++
		}
	case event.Result != nil:
		rs.Results++
		rs.Instances[event.Instance]++
	case event.Error != nil:
		s.Errors++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Discovery Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerRecord, log.LayerResolver} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryResult, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Resolvers: %d\n", len(stats.Resolvers))
	if len(stats.Resolvers) > 0 {
		type resolverInfo struct {
			id    string
			stats *ResolverStats
		}
		infos := make([]resolverInfo, 0, len(stats.Resolvers))
		for id, rs := range stats.Resolvers {
			infos = append(infos, resolverInfo{id, rs})
		}
		sort.Slice(infos, func(i, j int) bool {
			return infos[i].stats.FirstSeen.Before(infos[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, r := range infos {
			duration := r.stats.LastSeen.Sub(r.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(r.id), r.stats.Events, duration)
			fmt.Fprintf(w, "           Queries: %d (%d retries)\n", r.stats.Queries, r.stats.Retries)
			fmt.Fprintf(w, "           Results: %d\n", r.stats.Results)
			for _, instance := range slices.Sorted(maps.Keys(r.stats.Instances)) {
				fmt.Fprintf(w, "             %s: %d\n", instance, r.stats.Instances[instance])
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
	if stats.Truncated {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warning: log ends inside an event")
	}
}
