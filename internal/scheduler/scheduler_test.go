package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestManualScheduler_Advance(t *testing.T) {
	var tests = []struct {
		name     string
		advance  []time.Duration
		cancel   bool
		expected int32
	}{
		{name: "not yet due", advance: []time.Duration{4 * time.Second}, expected: 0},
		{name: "due exactly", advance: []time.Duration{5 * time.Second}, expected: 1},
		{name: "due across steps", advance: []time.Duration{3 * time.Second, 3 * time.Second}, expected: 1},
		{name: "runs once", advance: []time.Duration{5 * time.Second, 10 * time.Second}, expected: 1},
		{name: "cancelled never runs", advance: []time.Duration{10 * time.Second}, cancel: true, expected: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewManualScheduler()
			var runs atomic.Int32

			h, err := s.Schedule(5*time.Second, func(ctx context.Context) { runs.Add(1) })
			require.NoError(t, err)
			if tt.cancel {
				require.True(t, h.Cancel())
				require.False(t, h.Cancel())
			}
			for _, d := range tt.advance {
				s.Advance(d)
			}

			require.Equal(t, tt.expected, runs.Load())
		})
	}
}

func TestManualScheduler_OrderAndCapacity(t *testing.T) {
	s := NewManualScheduler().WithCapacity(2)
	var order []string

	_, err := s.Schedule(2*time.Second, func(ctx context.Context) { order = append(order, "late") })
	require.NoError(t, err)
	_, err = s.Schedule(time.Second, func(ctx context.Context) { order = append(order, "early") })
	require.NoError(t, err)
	_, err = s.Schedule(time.Second, func(ctx context.Context) {})
	require.ErrorIs(t, err, ErrCapacity)

	s.Advance(5 * time.Second)
	require.Equal(t, []string{"early", "late"}, order)
	require.Zero(t, s.Pending())
}

func TestTimerScheduler_RunsTask(t *testing.T) {
	s := NewTimerScheduler(0)
	defer s.Stop()
	done := make(chan struct{})

	_, err := s.Schedule(time.Millisecond, func(ctx context.Context) { close(done) })
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
	require.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTimerScheduler_CancelPreventsRun(t *testing.T) {
	s := NewTimerScheduler(0)
	defer s.Stop()
	var runs atomic.Int32

	h, err := s.Schedule(50*time.Millisecond, func(ctx context.Context) { runs.Add(1) })
	require.NoError(t, err)
	require.True(t, h.Cancel())

	time.Sleep(100 * time.Millisecond)
	require.Zero(t, runs.Load())
	require.Zero(t, s.Pending())
}

func TestTimerScheduler_Capacity(t *testing.T) {
	s := NewTimerScheduler(1)
	defer s.Stop()
	var pending atomic.Int32
	s.OnPendingChange(func(n int) { pending.Store(int32(n)) })

	_, err := s.Schedule(time.Hour, func(ctx context.Context) {})
	require.NoError(t, err)
	require.Equal(t, int32(1), pending.Load())

	_, err = s.Schedule(time.Hour, func(ctx context.Context) {})
	require.ErrorIs(t, err, ErrCapacity)
}

func TestTimerScheduler_StopCancelsPending(t *testing.T) {
	s := NewTimerScheduler(0)
	var runs atomic.Int32

	_, err := s.Schedule(20*time.Millisecond, func(ctx context.Context) { runs.Add(1) })
	require.NoError(t, err)

	s.Stop()
	time.Sleep(50 * time.Millisecond)

	require.Zero(t, runs.Load())
	_, err = s.Schedule(time.Millisecond, func(ctx context.Context) {})
	require.ErrorIs(t, err, ErrStopped)
}
