package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/project-chip/connectedhomeip-sub057/pkg/discovery"
	"github.com/project-chip/connectedhomeip-sub057/pkg/timer"
)

// DefaultCapacity bounds the number of concurrent attempts.
const DefaultCapacity = 8

// Config configures a Scheduler. Zero fields select the defaults.
type Config struct {
	// Capacity is the maximum number of pending attempts.
	Capacity int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the delay between retries.
	MaxDelay time.Duration

	// Multiplier is the backoff growth factor.
	Multiplier float64

	// Jitter adds up to this fraction of each delay at random.
	// Default: 0 (deterministic).
	Jitter float64

	// MaxRetries is the number of retries after the first send.
	// NoRetries sends once and expires after InitialDelay.
	MaxRetries int
}

// NoRetries is the MaxRetries value for attempts that are sent once.
const NoRetries = -1

// DefaultConfig returns the default scheduler configuration.
func DefaultConfig() Config {
	return Config{
		Capacity:     DefaultCapacity,
		InitialDelay: InitialDelay,
		MaxDelay:     MaxDelay,
		Multiplier:   Multiplier,
		MaxRetries:   MaxRetries,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Capacity <= 0 {
		c.Capacity = d.Capacity
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = max(d.MaxDelay, c.InitialDelay)
	}
	if c.Multiplier < 1 {
		c.Multiplier = d.Multiplier
	}
	if c.Jitter < 0 {
		c.Jitter = 0
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = d.MaxRetries
	}
	return c
}

// retries returns the retry budget; negative MaxRetries means none.
func (c Config) retries() int {
	return max(c.MaxRetries, 0)
}

// Type distinguishes resolve attempts from browse attempts.
type Type uint8

const (
	// TypeResolve looks up the SRV record of one operational peer.
	TypeResolve Type = iota + 1

	// TypeBrowse looks up instances matching a filter.
	TypeBrowse
)

// String returns the attempt type name.
func (t Type) String() string {
	switch t {
	case TypeResolve:
		return "RESOLVE"
	case TypeBrowse:
		return "BROWSE"
	default:
		return "UNKNOWN"
	}
}

// Attempt is one outstanding resolve or browse.
type Attempt struct {
	Type Type

	// Peer is set for resolve attempts.
	Peer discovery.PeerID

	// Kind is the service a browse targets; KindOperational for resolves.
	Kind   discovery.Kind
	Filter discovery.Filter

	// FirstSendDone is false until the first query went out.
	FirstSendDone bool
	NextSendAt    time.Time

	// RetryCount is the number of retries sent.
	RetryCount int

	backoff Backoff
}

// UnicastResponse reports whether this send asks for a unicast answer,
// which only the first send of an attempt does.
func (a Attempt) UnicastResponse() bool {
	return !a.FirstSendDone
}

// String returns a short description of the attempt.
func (a Attempt) String() string {
	if a.Type == TypeResolve {
		return fmt.Sprintf("%s %s", a.Type, a.Peer)
	}
	return fmt.Sprintf("%s %s %s", a.Type, a.Kind, a.Filter)
}

func (a *Attempt) reset(now time.Time) {
	a.FirstSendDone = false
	a.NextSendAt = now
	a.RetryCount = 0
	a.backoff.Reset()
}

// Scheduler tracks pending attempts.
type Scheduler struct {
	config   Config
	clock    timer.Clock
	attempts []*Attempt

	// Resolves that ran out of retries, reported by TakeExpired
	expired []discovery.PeerID
}

// New creates a scheduler. A nil clock uses the system clock.
func New(config Config, clock timer.Clock) *Scheduler {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	return &Scheduler{
		config: config.withDefaults(),
		clock:  clock,
	}
}

// Config returns the effective configuration.
func (s *Scheduler) Config() Config {
	return s.config
}

// MarkPendingResolve schedules a resolve for peer to be sent now.
// Marking a peer that is already pending restarts its schedule.
func (s *Scheduler) MarkPendingResolve(peer discovery.PeerID) error {
	return s.mark(func(a *Attempt) bool {
		return a.Type == TypeResolve && a.Peer == peer
	}, Attempt{Type: TypeResolve, Peer: peer, Kind: discovery.KindOperational})
}

// MarkPendingBrowse schedules a browse for (kind, filter) to be sent now.
// Identical requests collapse onto one attempt.
func (s *Scheduler) MarkPendingBrowse(kind discovery.Kind, filter discovery.Filter) error {
	return s.mark(func(a *Attempt) bool {
		return a.Type == TypeBrowse && a.Kind == kind && a.Filter == filter
	}, Attempt{Type: TypeBrowse, Kind: kind, Filter: filter})
}

func (s *Scheduler) mark(match func(*Attempt) bool, attempt Attempt) error {
	now := s.clock.Now()
	if i := slices.IndexFunc(s.attempts, match); i >= 0 {
		s.attempts[i].reset(now)
		return nil
	}

	if len(s.attempts) >= s.config.Capacity {
		return fmt.Errorf("%w: %d attempts pending", discovery.ErrResourceExhausted, len(s.attempts))
	}

	attempt.NextSendAt = now
	attempt.backoff = NewBackoff(s.config)
	s.attempts = append(s.attempts, &attempt)
	return nil
}

// NextScheduled returns the earliest attempt that is due and advances its
// schedule. The returned copy describes the send it was returned for.
// Due attempts without retries left are removed instead.
func (s *Scheduler) NextScheduled() (Attempt, bool) {
	now := s.clock.Now()

	for {
		i := s.earliestDue(now)
		if i < 0 {
			return Attempt{}, false
		}
		a := s.attempts[i]

		if a.FirstSendDone && a.RetryCount >= s.config.retries() {
			s.attempts = slices.Delete(s.attempts, i, i+1)
			if a.Type == TypeResolve {
				s.expired = append(s.expired, a.Peer)
			}
			continue
		}

		if a.FirstSendDone {
			a.RetryCount++
		}
		out := *a
		a.FirstSendDone = true
		a.NextSendAt = now.Add(a.backoff.Next())
		return out, true
	}
}

func (s *Scheduler) earliestDue(now time.Time) int {
	best := -1
	for i, a := range s.attempts {
		if a.NextSendAt.After(now) {
			continue
		}
		if best < 0 || a.NextSendAt.Before(s.attempts[best].NextSendAt) {
			best = i
		}
	}
	return best
}

// TakeExpired returns and forgets the resolves that ran out of retries.
func (s *Scheduler) TakeExpired() []discovery.PeerID {
	expired := s.expired
	s.expired = nil
	return expired
}

// CompleteResolve removes the resolve for peer. It returns false when no
// such attempt is pending, which marks late or duplicate answers.
func (s *Scheduler) CompleteResolve(peer discovery.PeerID) bool {
	return s.remove(func(a *Attempt) bool {
		return a.Type == TypeResolve && a.Peer == peer
	}) > 0
}

// CompleteBrowse removes the browses of kind whose filter satisfies match.
func (s *Scheduler) CompleteBrowse(kind discovery.Kind, match func(discovery.Filter) bool) bool {
	return s.remove(func(a *Attempt) bool {
		return a.Type == TypeBrowse && a.Kind == kind && match(a.Filter)
	}) > 0
}

// CancelResolve removes the resolve for peer without reporting it.
func (s *Scheduler) CancelResolve(peer discovery.PeerID) bool {
	return s.CompleteResolve(peer)
}

// CancelBrowse removes every browse of kind and returns how many there were.
func (s *Scheduler) CancelBrowse(kind discovery.Kind) int {
	return s.remove(func(a *Attempt) bool {
		return a.Type == TypeBrowse && a.Kind == kind
	})
}

func (s *Scheduler) remove(match func(*Attempt) bool) int {
	n := len(s.attempts)
	s.attempts = slices.DeleteFunc(s.attempts, match)
	return n - len(s.attempts)
}

// HasResolve reports whether a resolve for peer is pending.
func (s *Scheduler) HasResolve(peer discovery.PeerID) bool {
	return slices.ContainsFunc(s.attempts, func(a *Attempt) bool {
		return a.Type == TypeResolve && a.Peer == peer
	})
}

// HasBrowse reports whether a browse of kind with filter is pending.
func (s *Scheduler) HasBrowse(kind discovery.Kind, filter discovery.Filter) bool {
	return slices.ContainsFunc(s.attempts, func(a *Attempt) bool {
		return a.Type == TypeBrowse && a.Kind == kind && a.Filter == filter
	})
}

// TimeUntilNextResponse returns the time until the earliest attempt needs
// attention, zero if one is already due. ok is false with nothing pending.
func (s *Scheduler) TimeUntilNextResponse() (d time.Duration, ok bool) {
	if len(s.attempts) == 0 {
		return 0, false
	}
	now := s.clock.Now()
	next := s.attempts[0].NextSendAt
	for _, a := range s.attempts[1:] {
		if a.NextSendAt.Before(next) {
			next = a.NextSendAt
		}
	}
	return max(next.Sub(now), 0), true
}

// Len returns the number of pending attempts.
func (s *Scheduler) Len() int {
	return len(s.attempts)
}

// Pending returns copies of the pending attempts, earliest first.
func (s *Scheduler) Pending() []Attempt {
	out := make([]Attempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		out = append(out, *a)
	}
	slices.SortStableFunc(out, func(a, b Attempt) int {
		return a.NextSendAt.Compare(b.NextSendAt)
	})
	return out
}

// Clear removes every attempt and forgets expired resolves.
func (s *Scheduler) Clear() {
	s.attempts = nil
	s.expired = nil
}
