package sim

import "sync/atomic"

// Clock is a monotonic logical clock stamping schedule entries and log
// lines with a strictly increasing seq. Ordering inside a run is defined
// by graph structure and edge priority, never by wall-clock timestamps;
// the seq makes that order explicit and replayable in golden snapshots.
//
// Thread-safe via atomics, although a run is strictly single-threaded.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
