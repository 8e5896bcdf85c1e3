package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the quiescence window used when none is
// configured.
const DefaultDebounceDuration = 300 * time.Millisecond

// Debouncer delays a callback until its trigger has been quiet for the
// configured duration. Each Trigger cancels the previously scheduled
// firing and schedules a new one, so a rapid burst collapses into a
// single invocation after the burst ends.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer with the given quiescence window.
// A non-positive duration falls back to DefaultDebounceDuration.
func NewDebouncer(d time.Duration) *Debouncer {
	if d <= 0 {
		d = DefaultDebounceDuration
	}
	return &Debouncer{duration: d}
}

// Duration returns the configured quiescence window.
func (d *Debouncer) Duration() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duration
}

// Trigger schedules fn to run after the quiescence window, replacing
// any previously scheduled callback.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending callback without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
