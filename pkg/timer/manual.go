package timer

import (
	"sync"
	"time"
)

// Manual is a Clock and Timer whose time only moves on Advance.
type Manual struct {
	mu       sync.Mutex
	now      time.Time
	deadline time.Time
	fn       func()
	armed    bool
	starts   int
}

// NewManual creates a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Start arms the timer relative to the manual time.
func (m *Manual) Start(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadline = m.now.Add(max(d, 0))
	m.fn = fn
	m.armed = true
	m.starts++
}

// Stop disarms the timer.
func (m *Manual) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.armed = false
	m.fn = nil
}

// Armed returns the time left until the timer fires.
func (m *Manual) Armed() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.armed {
		return 0, false
	}
	return m.deadline.Sub(m.now), true
}

// Starts returns how many times Start was called.
func (m *Manual) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}

// Advance moves time forward by d. Each time the timer comes due on the
// way, time stops at its deadline and the callback runs, so a callback that
// re-arms the timer is fired again if its new deadline is still within d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for m.armed && !m.deadline.After(target) {
		m.now = m.deadline
		fn := m.fn
		m.armed = false
		m.fn = nil

		m.mu.Unlock()
		fn()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

var (
	_ Clock = (*Manual)(nil)
	_ Timer = (*Manual)(nil)
)
