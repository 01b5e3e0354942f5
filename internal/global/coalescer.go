package global

import (
	"sync"
	"time"
)

const defaultCoalesceWindow = 250 * time.Millisecond

// RefreshTrigger is emitted when the coalesce window closes after one or
// more session file changes.
type RefreshTrigger struct {
	Changes int // file change notifications folded into this trigger
}

// Coalescer batches rapid file-change notifications into single refresh
// triggers. Notifications arriving faster than the window are accumulated
// and one trigger is emitted after a quiet period. Triggers landing while a
// merge pass is in flight are dropped by the aggregator guard, so the
// coalescer never queues.
type Coalescer struct {
	mu      sync.Mutex
	pending int
	timer   *time.Timer
	window  time.Duration
	out     chan<- RefreshTrigger
	closed  bool
}

// NewCoalescer creates a coalescer emitting on out. A zero window selects
// the default.
func NewCoalescer(window time.Duration, out chan<- RefreshTrigger) *Coalescer {
	if window == 0 {
		window = defaultCoalesceWindow
	}
	return &Coalescer{window: window, out: out}
}

// Note records one file-change notification and restarts the quiet timer.
func (c *Coalescer) Note() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending++
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.window, c.flush)
}

// flush emits the coalesced trigger and resets state. Called by the timer
// when the quiet window closes.
func (c *Coalescer) flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.pending == 0 {
		return
	}
	trigger := RefreshTrigger{Changes: c.pending}
	c.pending = 0
	c.timer = nil

	select {
	case c.out <- trigger:
	default:
		// Channel full; the consumer is already due a refresh.
	}
}

// Stop cancels any pending flush. Call on shutdown before closing out.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
