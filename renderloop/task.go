package renderloop

import (
	"context"
	"sync/atomic"
)

const (
	statePending int32 = iota
	stateRunning
	stateDone
	stateCanceled
)

// Task is a unit of work queued on a Loop.
type Task struct {
	ctx     context.Context
	fn      func(context.Context) error
	state   atomic.Int32
	awaited atomic.Bool
	done    chan struct{}
	err     error
}

func newTask(ctx context.Context, fn func(context.Context) error) *Task {
	return &Task{ctx: ctx, fn: fn, done: make(chan struct{})}
}

func (t *Task) finish(err error) {
	t.err = err
	t.state.Store(stateDone)
	close(t.done)
}

// Cancel prevents the task from running if it has not been dequeued yet and
// reports whether it did.
func (t *Task) Cancel() bool {
	if !t.state.CompareAndSwap(statePending, stateCanceled) {
		return false
	}
	t.err = ErrCanceled
	close(t.done)
	return true
}

// Done is closed once the task finished or was cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finished and returns its error, ErrCanceled,
// or ctx.Err() if ctx ends first. Waiting does not cancel the task.
func (t *Task) Wait(ctx context.Context) error {
	t.awaited.Store(true)
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Canceled reports whether the task was cancelled before running.
func (t *Task) Canceled() bool { return t.state.Load() == stateCanceled }
