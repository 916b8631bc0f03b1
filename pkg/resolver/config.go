package resolver

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/log"
	"github.com/project-chip/connectedhomeip-sub057/pkg/scheduler"
	"github.com/project-chip/connectedhomeip-sub057/pkg/timer"
)

// Default cache settings.
const (
	DefaultCacheSize = 32
	DefaultCacheTTL  = 2 * time.Minute
)

// Config configures a Resolver.
type Config struct {
	// Scheduler configures retries and the attempt capacity.
	Scheduler scheduler.Config

	// QueryPort is the destination port of queries.
	QueryPort uint16

	// CacheSize bounds the nodes a Runner caches. Zero disables caching.
	CacheSize int

	// CacheTTL is how long a resolved node stays cached.
	CacheTTL time.Duration

	// LocalMRP are the local retransmission defaults used to flag sleepy nodes.
	LocalMRP discovery.MRPHints

	// Logger for debug output (optional).
	Logger *slog.Logger

	// EventLogger captures discovery events (optional).
	EventLogger log.Logger
}

// DefaultConfig returns the default resolver configuration.
func DefaultConfig() Config {
	return Config{
		Scheduler: scheduler.DefaultConfig(),
		QueryPort: discovery.MDNSPort,
		CacheSize: DefaultCacheSize,
		CacheTTL:  DefaultCacheTTL,
		LocalMRP:  discovery.DefaultMRPHints(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.QueryPort == 0 {
		return fmt.Errorf("resolver: query port must be set")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("resolver: negative cache size %d", c.CacheSize)
	}
	if c.CacheSize > 0 && c.CacheTTL <= 0 {
		return fmt.Errorf("resolver: cache TTL must be positive")
	}
	return nil
}

// Option customizes a Resolver.
type Option func(*Resolver)

// WithClock sets the clock used for scheduling.
func WithClock(clock timer.Clock) Option {
	return func(r *Resolver) {
		r.clock = clock
	}
}

// WithTimer sets the timer that wakes the resolver for retries.
func WithTimer(t timer.Timer) Option {
	return func(r *Resolver) {
		r.timer = t
	}
}

// WithDispatch routes datagrams and timer callbacks through dispatch, which
// must run them on the resolver's goroutine. The default runs them on the
// calling goroutine.
func WithDispatch(dispatch func(func())) Option {
	return func(r *Resolver) {
		r.dispatch = dispatch
	}
}

// WithResolverID sets the ID that tags logged events.
func WithResolverID(id string) Option {
	return func(r *Resolver) {
		r.id = id
	}
}
