package wizard

import (
	"sync"
	"time"
)

// Scheduler runs f once after d. The returned function cancels the run and
// reports whether it was still pending.
type Scheduler func(d time.Duration, f func()) (cancel func() bool)

// TimerScheduler is the wall-clock Scheduler.
func TimerScheduler(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// debouncer collapses bursts of triggers into one call of fn after the
// burst has been quiet for delay. At most one call is pending at a time.
type debouncer struct {
	mu       sync.Mutex
	schedule Scheduler
	delay    time.Duration
	fn       func()
	cancel   func() bool
	gen      uint64
	stopped  bool
}

func newDebouncer(schedule Scheduler, delay time.Duration, fn func()) *debouncer {
	return &debouncer{schedule: schedule, delay: delay, fn: fn}
}

// trigger reschedules the pending call.
func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.gen++
	gen := d.gen
	d.cancel = d.schedule(d.delay, func() { d.fire(gen) })
}

func (d *debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen || d.cancel == nil {
		d.mu.Unlock()
		return
	}
	d.cancel = nil
	d.mu.Unlock()
	d.fn()
}

// flush runs a pending call now. It reports whether one was pending.
func (d *debouncer) flush() bool {
	d.mu.Lock()
	if d.stopped || d.cancel == nil {
		d.mu.Unlock()
		return false
	}
	d.cancel()
	d.cancel = nil
	d.gen++
	d.mu.Unlock()
	d.fn()
	return true
}

// stop cancels a pending call and ignores every later trigger.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
}

// drop cancels a pending call without stopping future triggers.
func (d *debouncer) drop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.gen++
}
