package testutil

import (
	"sync"
	"time"
)

// FrozenClock provides a fixed wall-clock time source for tests.
//
// Capacity ledgers and alert cooldowns key off the current time; freezing
// it makes the same scenario produce byte-identical results across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FrozenClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFrozenClock creates a clock pinned at t.
func NewFrozenClock(t time.Time) *FrozenClock {
	return &FrozenClock{now: t}
}

// Now returns the pinned time. Pass as e.g. sim.WithNow(clock.Now).
func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the pinned time forward by d.
//
// Used to step past alert cooldown windows without sleeping.
func (c *FrozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set pins the clock to a new absolute time.
func (c *FrozenClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
