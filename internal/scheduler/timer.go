package scheduler

import (
	"context"
	"sync"
	"time"
)

// TimerScheduler runs one-shot tasks on runtime timers, with an upper bound
// on the number of tasks waiting to fire.
type TimerScheduler struct {
	mu       sync.Mutex
	max      int
	nextID   uint64
	timers   map[uint64]*time.Timer
	stopped  bool
	running  sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	onChange func(pending int)
}

// NewTimerScheduler bounds pending tasks to max. A max of zero or less means unbounded.
func NewTimerScheduler(max int) *TimerScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TimerScheduler{
		max:    max,
		timers: make(map[uint64]*time.Timer),
		ctx:    ctx,
		cancel: cancel,
	}
}

// OnPendingChange registers a callback invoked with the pending count after every change.
func (s *TimerScheduler) OnPendingChange(fn func(pending int)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *TimerScheduler) Schedule(delay time.Duration, task Task) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil, ErrStopped
	}
	if s.max > 0 && len(s.timers) >= s.max {
		return nil, ErrCapacity
	}

	s.nextID++
	id := s.nextID
	s.timers[id] = time.AfterFunc(delay, func() {
		if !s.claim(id) {
			return
		}
		defer s.running.Done()
		task(s.ctx)
	})
	s.notifyLocked()

	return &timerHandle{s: s, id: id}, nil
}

// claim removes the timer from the pending set; false means it was cancelled first.
func (s *TimerScheduler) claim(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	s.running.Add(1)
	s.notifyLocked()
	return true
}

func (s *TimerScheduler) cancelTask(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(s.timers, id)
	s.notifyLocked()
	return true
}

// Pending returns the number of tasks waiting to fire.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending task, rejects new ones and waits for running tasks to return.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.notifyLocked()
	s.mu.Unlock()

	s.cancel()
	s.running.Wait()
}

func (s *TimerScheduler) notifyLocked() {
	if s.onChange != nil {
		s.onChange(len(s.timers))
	}
}

type timerHandle struct {
	s  *TimerScheduler
	id uint64
}

func (h *timerHandle) Cancel() bool {
	return h.s.cancelTask(h.id)
}
