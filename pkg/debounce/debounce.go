// Package debounce provides a rate-limiting wrapper for callbacks that
// fire on bursts of input. The wrapped function runs once the burst has
// been quiet for the configured wait, with the arguments of the most
// recent call. Execution is fire-and-forget: no return value propagates.
package debounce

import (
	"sync"
	"time"
)

// Func is the callback shape accepted by a Debouncer.
type Func func(args ...interface{})

// Debouncer delays execution of fn until no Call has arrived within wait.
// Each Call cancels the previously scheduled execution. Safe for
// concurrent use.
type Debouncer struct {
	mu      sync.Mutex
	wait    time.Duration
	fn      Func
	timer   *time.Timer
	pending []interface{}
	armed   bool
	stopped bool
}

// New creates a Debouncer around fn with the given wait window.
func New(wait time.Duration, fn Func) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Call schedules fn to run after the wait window, replacing any pending
// execution and its arguments.
func (d *Debouncer) Call(args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = args
	d.armed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	args := d.pending
	d.armed = false
	d.pending = nil
	d.mu.Unlock()

	d.fn(args...)
}

// Flush runs any pending execution immediately instead of waiting out
// the window. No-op when nothing is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.fire()
}

// Cancel discards any pending execution. Unlike Stop, the Debouncer
// keeps accepting calls.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armed = false
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Stop cancels any pending execution and rejects further calls.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.armed = false
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
}

// Pending reports whether an execution is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}
