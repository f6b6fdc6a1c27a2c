// Package autosave coalesces bursts of document edits into a single
// deferred save after a quiet period.
package autosave

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long the scheduler waits after the last observed
// change before firing a save.
const DefaultQuietPeriod = time.Second

// Scheduler debounces save requests. Every Note resets the quiet-period
// timer; when it elapses the save function runs once on a timer goroutine.
// A closed scheduler drops pending work so nothing writes to released state.
type Scheduler struct {
	mu     sync.Mutex
	timer  *time.Timer
	quiet  time.Duration
	save   func()
	closed bool
}

// NewScheduler creates a scheduler invoking save after quiet elapses without
// further Note calls. A non-positive quiet uses DefaultQuietPeriod.
func NewScheduler(quiet time.Duration, save func()) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Scheduler{quiet: quiet, save: save}
}

// Note records that the document changed, scheduling (or rescheduling) the
// deferred save.
func (s *Scheduler) Note() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, s.fire)
}

func (s *Scheduler) fire() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	save := s.save
	s.mu.Unlock()
	save()
}

// Flush runs a pending save immediately, if any.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	pending := s.timer != nil && s.timer.Stop()
	s.timer = nil
	closed := s.closed
	save := s.save
	s.mu.Unlock()
	if pending && !closed {
		save()
	}
}

// Close cancels any pending save. The scheduler cannot be reused.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
