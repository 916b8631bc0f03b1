package scheduler

import (
	"math/rand"
	"time"
)

// Backoff defaults.
const (
	// InitialDelay is the delay between the first send and the first retry.
	InitialDelay = 1 * time.Second

	// MaxDelay caps the delay between two retries.
	MaxDelay = 16 * time.Second

	// Multiplier is the factor by which the delay grows.
	Multiplier = 2.0

	// MaxRetries is the number of retries after the first send.
	MaxRetries = 4
)

// Backoff calculates the delays between the sends of one attempt.
type Backoff struct {
	// Current delay (before jitter)
	current time.Duration

	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64

	attempts int

	// Random source for jitter, nil without jitter
	rng *rand.Rand
}

// NewBackoff creates a backoff from the delay settings of cfg.
func NewBackoff(cfg Config) Backoff {
	b := Backoff{
		current:    cfg.InitialDelay,
		initial:    cfg.InitialDelay,
		max:        cfg.MaxDelay,
		multiplier: cfg.Multiplier,
		jitter:     cfg.Jitter,
	}
	if b.jitter > 0 {
		b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return b
}

// Next returns the next delay (with jitter) and advances the backoff.
func (b *Backoff) Next() time.Duration {
	delay := b.addJitter(b.current)

	b.attempts++
	b.current = min(time.Duration(float64(b.current)*b.multiplier), b.max)

	return delay
}

// Reset returns the backoff to the initial delay.
func (b *Backoff) Reset() {
	b.current = b.initial
	b.attempts = 0
}

// Attempts returns the number of delays handed out since the last reset.
func (b *Backoff) Attempts() int {
	return b.attempts
}

// Current returns the next base delay (without jitter).
func (b *Backoff) Current() time.Duration {
	return b.current
}

func (b *Backoff) addJitter(d time.Duration) time.Duration {
	if b.rng == nil {
		return d
	}
	return d + time.Duration(float64(d)*b.jitter*b.rng.Float64())
}

// Sequence returns the base delays between the sends of an attempt that is
// never answered, one per retry.
func Sequence(cfg Config) []time.Duration {
	cfg = cfg.withDefaults()
	b := NewBackoff(Config{InitialDelay: cfg.InitialDelay, MaxDelay: cfg.MaxDelay, Multiplier: cfg.Multiplier})

	seq := make([]time.Duration, 0, cfg.retries())
	for range cfg.retries() {
		seq = append(seq, b.Next())
	}
	return seq
}
