// Package log provides structured discovery event logging.
//
// This package defines the Logger interface and Event types for capturing
// discovery events at the transport, record and resolver layers. It is
// separate from operational logging (slog): the event log is a complete
// machine-readable trace of queries, answers and results.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	cfg.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For capture: write to binary file
//	cfg.EventLogger, _ = log.NewFileLogger("/var/log/dnssd/resolver.dlog")
//
//	// Both: use MultiLogger
//	cfg.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Transport: raw datagrams sent and received (PacketEvent)
//   - Record: questions sent (QueryEvent)
//   - Resolver: delivered nodes (ResultEvent), attempt lifecycle
//     (StateChangeEvent)
//
// Errors at any layer have a dedicated event type.
//
// # File Format
//
// Log files are a stream of CBOR-encoded events. The dnssd log command
// views, filters and summarizes them.
package log
