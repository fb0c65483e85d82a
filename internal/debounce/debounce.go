// Package debounce coalesces bursts of triggers so that only the last one
// within a window runs.
package debounce

import (
	"sync"
	"time"
)

// Coalescer runs the last function passed to Trigger once the window has
// elapsed without another Trigger. It is safe for concurrent use.
type Coalescer struct {
	window time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

// New creates a Coalescer with the given window.
func New(window time.Duration) *Coalescer {
	return &Coalescer{window: window}
}

// Window returns the coalescing window.
func (c *Coalescer) Window() time.Duration {
	return c.window
}

// Trigger schedules fn to run after the window, superseding any pending
// trigger. It returns false once the Coalescer is stopped.
func (c *Coalescer) Trigger(fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return false
	}
	c.cancelLocked()

	gen := c.gen
	c.timer = time.AfterFunc(c.window, func() {
		c.mu.Lock()
		current := c.gen == gen && !c.stopped
		if current {
			c.timer = nil
		}
		c.mu.Unlock()

		// a later Trigger, Flush or Cancel won the race
		if !current {
			return
		}
		fn()
	})
	return true
}

// Flush drops any pending trigger and runs fn immediately on the calling
// goroutine. It returns false once the Coalescer is stopped.
func (c *Coalescer) Flush(fn func()) bool {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return false
	}
	c.cancelLocked()
	c.mu.Unlock()

	fn()
	return true
}

// Pending reports whether a trigger is waiting for its window to elapse.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Stop drops the pending trigger and rejects every later one.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.stopped = true
}

func (c *Coalescer) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
