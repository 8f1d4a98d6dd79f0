package popup

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is how long input must settle before it is
// applied, so a burst of keystrokes produces a single persisted write.
const DefaultDebounceDuration = 300 * time.Millisecond

// Debouncer coalesces rapid triggers into one callback invocation.
type Debouncer struct {
	mu       sync.Mutex
	duration time.Duration
	timer    *time.Timer
}

// NewDebouncer creates a debouncer with the given settle duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	if duration <= 0 {
		duration = DefaultDebounceDuration
	}
	return &Debouncer{duration: duration}
}

// Trigger schedules fn after the settle duration, replacing any pending
// callback from an earlier trigger.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel drops any pending callback.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Duration returns the settle duration.
func (d *Debouncer) Duration() time.Duration {
	return d.duration
}
