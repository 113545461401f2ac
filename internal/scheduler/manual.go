package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler driven by an explicit clock. Tasks only run
// from Advance, on the calling goroutine, in due-time order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	max   int
	tasks map[uint64]*manualTask
}

type manualTask struct {
	id  uint64
	at  time.Duration
	run Task
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: make(map[uint64]*manualTask)}
}

// WithCapacity bounds pending tasks the same way TimerScheduler does.
func (s *ManualScheduler) WithCapacity(max int) *ManualScheduler {
	s.max = max
	return s
}

func (s *ManualScheduler) Schedule(delay time.Duration, task Task) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.tasks) >= s.max {
		return nil, ErrCapacity
	}
	s.seq++
	t := &manualTask{id: s.seq, at: s.now + delay, run: task}
	s.tasks[t.id] = t
	return &manualHandle{s: s, id: t.id}, nil
}

// Advance moves the clock forward by d and runs every task that became due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*manualTask
	for id, t := range s.tasks {
		if t.at <= s.now {
			due = append(due, t)
			delete(s.tasks, id)
		}
	}
	s.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].id < due[j].id
		}
		return due[i].at < due[j].at
	})
	for _, t := range due {
		t.run(context.Background())
	}
}

func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

type manualHandle struct {
	s  *ManualScheduler
	id uint64
}

func (h *manualHandle) Cancel() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if _, ok := h.s.tasks[h.id]; !ok {
		return false
	}
	delete(h.s.tasks, h.id)
	return true
}
