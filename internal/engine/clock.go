package engine

import (
	"sync"
	"time"
)

// Clock abstracts time retrieval so engine bookkeeping is deterministic in
// tests. The engine stamps its own clock only for create/delete bookkeeping
// when the payload carries no timestamp; field-change timestamps always come
// from the writing device and are never generated here.
type Clock interface {
	Now() time.Time
}

// SystemClock returns the actual current time.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock returns a settable fixed time for deterministic tests.
//
// Thread-safety: FixedClock is safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

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

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// millis converts a time to the engine's millisecond timestamp unit.
func millis(t time.Time) int64 {
	return t.UnixMilli()
}
