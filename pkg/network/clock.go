package network

import (
	"sync"
	"time"
)

// Clock supplies the wrapping millisecond time.
type Clock interface {
	TimeMs() uint32
}

// ManualClock is a Clock advanced explicitly, for tests and simulations.
type ManualClock struct {
	mu  sync.Mutex
	now uint32
}

// NewManualClock returns a clock starting at start.
func NewManualClock(start uint32) *ManualClock {
	return &ManualClock{now: start}
}

// TimeMs returns the current time.
func (c *ManualClock) TimeMs() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by ms, wrapping at 2^32.
func (c *ManualClock) Advance(ms uint32) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += ms
	return c.now
}

// Set moves the clock to t.
func (c *ManualClock) Set(t uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock that reads 0 now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// TimeMs returns the milliseconds since creation, truncated to 32 bits.
func (c *SystemClock) TimeMs() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
