package testutil

import (
	"sync"
	"time"
)

// FixedClock is a settable clock for tests.
//
// Ledger operations stamp generated dates from the clock, so a FixedClock
// makes invoice and transaction dates assertable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at the given calendar date (UTC noon).
func NewFixedClock(year int, month time.Month, day int) *FixedClock {
	return &FixedClock{now: time.Date(year, month, day, 12, 0, 0, 0, time.UTC)}
}

// Now returns the frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// AddDays advances the clock by n days.
func (c *FixedClock) AddDays(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, n)
}
