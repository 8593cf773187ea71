// Package debounce delays an action until input has been quiet for a while.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used by live search
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs only the last triggered function, once the delay has
// elapsed without another trigger.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// New creates a Debouncer; a non-positive delay uses DefaultDelay
func New(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured quiet period
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn, cancelling any pending call
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending call, if any
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
