package timer

import (
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Timer runs at most one callback after a delay.
type Timer interface {
	// Start arms the timer, replacing any callback that has not run yet.
	Start(d time.Duration, fn func())

	// Stop disarms the timer.
	Stop()
}

// AfterFunc is a Timer backed by time.AfterFunc.
type AfterFunc struct {
	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	dispatch   func(func())
}

// NewAfterFunc creates a timer that hands fired callbacks to dispatch.
// A nil dispatch runs callbacks on the timer goroutine.
func NewAfterFunc(dispatch func(func())) *AfterFunc {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &AfterFunc{dispatch: dispatch}
}

// Start arms the timer.
func (a *AfterFunc) Start(d time.Duration, fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
	}
	a.generation++
	gen := a.generation

	a.timer = time.AfterFunc(max(d, 0), func() {
		a.dispatch(func() {
			if a.current(gen) {
				fn()
			}
		})
	})
}

// Stop disarms the timer. A callback already handed to dispatch is dropped.
func (a *AfterFunc) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.generation++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *AfterFunc) current(gen uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation == gen
}

var _ Timer = (*AfterFunc)(nil)
