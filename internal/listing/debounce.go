package listing

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls into one. Each Schedule cancels the
// pending timer and starts a new one, so only the last scheduled function
// runs, after a quiet period of the configured duration.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arranges for fn to run after the quiet period, cancelling any
// previously scheduled function. fn runs on a timer goroutine.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels the pending function, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
