package testutil

import (
	"sync"
	"time"
)

// ManualScheduler collects scheduled callbacks and runs them only when the
// test says so. Its Schedule method fits wizard.WithScheduler.
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*scheduled
	delays  []time.Duration
}

type scheduled struct {
	fn        func()
	cancelled bool
	fired     bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Schedule registers f and returns its cancel function.
func (s *ManualScheduler) Schedule(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := &scheduled{fn: f}
	s.pending = append(s.pending, job)
	s.delays = append(s.delays, d)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if job.cancelled || job.fired {
			return false
		}
		job.cancelled = true
		return true
	}
}

// Pending returns how many callbacks are scheduled and not yet cancelled or fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, j := range s.pending {
		if !j.cancelled && !j.fired {
			n++
		}
	}
	return n
}

// Scheduled returns how many callbacks were ever scheduled.
func (s *ManualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// LastDelay returns the delay of the most recent Schedule call.
func (s *ManualScheduler) LastDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.delays) == 0 {
		return 0
	}
	return s.delays[len(s.delays)-1]
}

// FireAll runs every live callback on the calling goroutine and returns how
// many ran.
func (s *ManualScheduler) FireAll() int {
	s.mu.Lock()
	var live []*scheduled
	for _, j := range s.pending {
		if !j.cancelled && !j.fired {
			j.fired = true
			live = append(live, j)
		}
	}
	s.mu.Unlock()
	for _, j := range live {
		j.fn()
	}
	return len(live)
}
