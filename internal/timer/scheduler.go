// Package timer provides tick-driven delayed callbacks for scene engines.
//
// Engines never start goroutines or wall-clock timers. Instead each engine owns
// a Scheduler that is advanced by the presentation's update tick, so delayed
// transitions run on the same thread as input handling and can be cancelled
// when the scene is torn down.
package timer

import (
	"sort"
	"time"
)

// Scheduler runs callbacks once a virtual clock passes their due time.
// It is not safe for concurrent use.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	tasks []*task
}

type task struct {
	id  uint64
	due time.Duration
	fn  func()
}

// Handle identifies a scheduled task.
type Handle struct {
	s  *Scheduler
	id uint64
}

// New creates an empty scheduler at virtual time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// After schedules fn to run once the clock has advanced by d.
// A non-positive d runs fn on the next Advance call.
func (s *Scheduler) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	s.seq++
	s.tasks = append(s.tasks, &task{id: s.seq, due: s.now + d, fn: fn})
	return Handle{s: s, id: s.seq}
}

// Advance moves the clock forward by dt and runs every task that has come due,
// in due order (ties in scheduling order). Tasks scheduled by a callback run in
// the same call if they are already due. Returns the number of tasks run.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt > 0 {
		s.now += dt
	}

	ran := 0
	for {
		next := s.popDue()
		if next == nil {
			return ran
		}
		next.fn()
		ran++
	}
}

// popDue removes and returns the earliest due task, or nil.
func (s *Scheduler) popDue() *task {
	if len(s.tasks) == 0 {
		return nil
	}
	sort.SliceStable(s.tasks, func(i, j int) bool {
		if s.tasks[i].due != s.tasks[j].due {
			return s.tasks[i].due < s.tasks[j].due
		}
		return s.tasks[i].id < s.tasks[j].id
	})
	if s.tasks[0].due > s.now {
		return nil
	}
	t := s.tasks[0]
	s.tasks = s.tasks[1:]
	return t
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	s.tasks = nil
}

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// Now returns the scheduler's virtual clock.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Cancel removes the task if it has not run yet.
// Returns true if a pending task was removed.
func (h Handle) Cancel() bool {
	if h.s == nil {
		return false
	}
	for i, t := range h.s.tasks {
		if t.id == h.id {
			h.s.tasks = append(h.s.tasks[:i], h.s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Pending reports whether the task is still scheduled.
func (h Handle) Pending() bool {
	if h.s == nil {
		return false
	}
	for _, t := range h.s.tasks {
		if t.id == h.id {
			return true
		}
	}
	return false
}
