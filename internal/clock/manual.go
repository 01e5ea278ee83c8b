package clock

import (
	"sync"
	"time"
)

// Manual is a virtual Clock for tests: Now() returns whatever time was last
// set, and After fires only when the test explicitly Advances past a
// waiter's deadline. This lets pruner tests exercise end-of-day behavior
// without sleeping in real time.
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []manualWaiter
}

type manualWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewManual returns a Manual clock initialized to start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After registers a waiter that fires once the clock is advanced to or past
// now+d. The returned channel receives exactly one value, buffered so
// Advance never blocks on a waiter nobody is reading from yet.
func (m *Manual) After(d time.Duration) <-chan time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan time.Time, 1)
	deadline := m.now.Add(d)
	if !deadline.After(m.now) {
		ch <- m.now
		return ch
	}
	m.waiters = append(m.waiters, manualWaiter{deadline: deadline, ch: ch})
	return ch
}

// Set moves the clock directly to t, firing any waiters whose deadline has
// now passed.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
	m.fireLocked()
}

// Advance moves the clock forward by d, firing any waiters whose deadline
// has now passed.
func (m *Manual) Advance(d time.Duration) {
	m.Set(m.now.Add(d))
}

// Waiting returns the number of waiters registered through After whose
// deadline the clock has not yet reached. Tests use this to synchronize with a
// background goroutine's first call to After before calling Advance, since
// otherwise Advance could race ahead of the goroutine registering its wait.
func (m *Manual) Waiting() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.waiters)
}

func (m *Manual) fireLocked() {
	remaining := m.waiters[:0]
	for _, w := range m.waiters {
		if !w.deadline.After(m.now) {
			w.ch <- m.now
			continue
		}
		remaining = append(remaining, w)
	}
	m.waiters = remaining
}
