package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
)

func TestStatsCountsByLayerAndCategory(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerRecord, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerResolver, Category: log.CategoryResult},
		{Timestamp: ts, Layer: log.LayerResolver, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "test"}},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"TRANSPORT:", "RECORD:", "RESOLVER:", "MESSAGE:", "RESULT:", "ERROR:", "Total Events: 4", "Errors: 1"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestStatsPerResolver(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	instance := "0000000000000001-0000000000000002"
	events := []log.Event{
		{Timestamp: ts, ResolverID: "res-aaaa-bbbb", Query: &log.QueryEvent{Name: instance + "._matter._tcp.local.", Type: "SRV", Unicast: true}},
		{Timestamp: ts.Add(time.Second), ResolverID: "res-aaaa-bbbb", Query: &log.QueryEvent{Name: instance + "._matter._tcp.local.", Type: "SRV", Retry: 1}},
		{Timestamp: ts.Add(2 * time.Second), ResolverID: "res-aaaa-bbbb", Instance: instance, Result: &log.ResultEvent{Kind: "OPERATIONAL", Port: 5540}},
		{Timestamp: ts, ResolverID: "res-cccc-dddd", Query: &log.QueryEvent{Name: "_matterc._udp.local.", Type: "PTR"}},
	}
	path := createTestLogFile(t, events)

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if len(stats.Resolvers) != 2 {
		t.Fatalf("expected 2 resolvers, got %d", len(stats.Resolvers))
	}
	rs := stats.Resolvers["res-aaaa-bbbb"]
	if rs.Queries != 2 || rs.Retries != 1 || rs.Results != 1 {
		t.Errorf("unexpected resolver stats: %+v", rs)
	}
	if rs.Instances[instance] != 1 {
		t.Errorf("expected one result for %s, got %d", instance, rs.Instances[instance])
	}
	if got := rs.LastSeen.Sub(rs.FirstSeen); got != 2*time.Second {
		t.Errorf("expected 2s span, got %s", got)
	}

	var buf bytes.Buffer
	printStats(&buf, stats)
	output := buf.String()
	if !strings.Contains(output, "Resolvers: 2") {
		t.Errorf("expected resolver count, got:\n%s", output)
	}
	if !strings.Contains(output, "[res-aaaa] 3 events") {
		t.Errorf("expected resolver details, got:\n%s", output)
	}
	if !strings.Contains(output, "Queries: 2 (1 retries)") {
		t.Errorf("expected query counts, got:\n%s", output)
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	if !strings.Contains(output, "Total Events: 0") {
		t.Errorf("expected zero events, got:\n%s", output)
	}
	if strings.Contains(output, "Time Range") {
		t.Errorf("empty file should not show a time range, got:\n%s", output)
	}
}
