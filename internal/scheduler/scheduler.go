package scheduler

import (
	"context"
	"errors"
	"time"
)

var (
	ErrCapacity = errors.New("scheduler: too many pending tasks")
	ErrStopped  = errors.New("scheduler: stopped")
)

type Task func(ctx context.Context)

// Handle identifies a scheduled task. Cancel reports true only if the task
// was stopped before it started running; a cancelled task never runs.
type Handle interface {
	Cancel() bool
}

type Scheduler interface {
	Schedule(delay time.Duration, task Task) (Handle, error)
}
