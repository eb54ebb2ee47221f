package clock

import "sync/atomic"

// Counter holds the remaining seconds shared between the clock goroutine,
// the controller that resets it and the UI that samples it.
type Counter struct {
	v atomic.Uint32
}

// Load returns the current value.
func (c *Counter) Load() uint32 {
	return c.v.Load()
}

// Store overwrites the current value.
func (c *Counter) Store(n uint32) {
	c.v.Store(n)
}

// Decrement subtracts one unless the counter is already zero.
// It reports whether the value changed.
func (c *Counter) Decrement() bool {
	for {
		cur := c.v.Load()
		if cur == 0 {
			return false
		}
		if c.v.CompareAndSwap(cur, cur-1) {
			return true
		}
	}
}
