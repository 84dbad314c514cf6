// Package renderloop runs board mutations on a single dedicated goroutine.
//
// Palettes, composites and layer lists are not synchronized; every write to
// them goes through one Loop. Logic goroutines submit work either fire and
// forget (Submit) or awaitable (Do, Call). A task always runs to
// completion once dequeued; it can only be cancelled while still queued.
package renderloop

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/gogpu/artboard"
)

// Sentinel errors for the renderloop package.
var (
	// ErrClosed is returned for submissions after Close.
	ErrClosed = errors.New("renderloop: loop closed")

	// ErrQueueFull is returned by Submit when the queue has no free slot.
	ErrQueueFull = errors.New("renderloop: queue full")

	// ErrCanceled is the result of a task cancelled before it ran.
	ErrCanceled = errors.New("renderloop: task canceled")
)

// PanicError carries a panic recovered from a task in strict mode.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("renderloop: task panicked: %v", e.Value)
}

// DefaultQueueSize is the task buffer size used when WithQueueSize is not given.
const DefaultQueueSize = 256

// Option configures a Loop.
type Option func(*options)

type options struct {
	queueSize int
	strict    bool
}

// WithQueueSize sets how many tasks may wait in the queue.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// WithStrict makes task panics observable: they are returned as *PanicError
// to Do and Wait callers and the first one is kept for Err. Without it,
// panics are recovered and logged.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

type loopKey struct{}

// Loop owns the render goroutine.
//
// Thread safety: Loop is safe for concurrent use.
type Loop struct {
	queue   chan *Task
	closing chan struct{}
	wg      sync.WaitGroup

	// mu orders submissions against Close so that every accepted task is
	// either run or drained.
	mu      sync.RWMutex
	running atomic.Bool

	strict   bool
	errMu    sync.Mutex
	firstErr error

	executed atomic.Uint64
}

// New starts a loop goroutine.
func New(opts ...Option) *Loop {
	o := options{queueSize: DefaultQueueSize}
	for _, opt := range opts {
		opt(&o)
	}
	l := &Loop{
		queue:   make(chan *Task, o.queueSize),
		closing: make(chan struct{}),
		strict:  o.strict,
	}
	l.running.Store(true)
	l.wg.Add(1)
	go l.run()
	artboard.Logger().Info("renderloop: started", "queue", o.queueSize, "strict", o.strict)
	return l
}

func (l *Loop) run() {
	defer l.wg.Done()
	for {
		select {
		case t := <-l.queue:
			l.execute(t)
		case <-l.closing:
			l.drain()
			return
		}
	}
}

// drain runs every task still queued when Close was called.
func (l *Loop) drain() {
	for {
		select {
		case t := <-l.queue:
			l.execute(t)
		default:
			return
		}
	}
}

func (l *Loop) execute(t *Task) {
	if !t.state.CompareAndSwap(statePending, stateRunning) {
		return
	}
	t.finish(l.call(t.ctx, t.fn))
	l.executed.Add(1)
	if t.err != nil && !t.awaited.Load() {
		artboard.Logger().Debug("renderloop: task failed", "err", t.err)
	}
}

// call runs fn, converting a panic according to the loop policy.
func (l *Loop) call(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		pe := &PanicError{Value: r, Stack: debug.Stack()}
		if !l.strict {
			artboard.Logger().Warn("renderloop: recovered task panic", "panic", r)
			err = nil
			return
		}
		l.errMu.Lock()
		if l.firstErr == nil {
			l.firstErr = pe
		}
		l.errMu.Unlock()
		err = pe
	}()
	return fn(ctx)
}

// InLoop reports whether ctx belongs to a task running on some loop.
func InLoop(ctx context.Context) bool {
	_, ok := ctx.Value(loopKey{}).(*Loop)
	return ok
}

func (l *Loop) onLoop(ctx context.Context) bool {
	owner, _ := ctx.Value(loopKey{}).(*Loop)
	return owner == l
}

func (l *Loop) taskContext(parent context.Context) context.Context {
	return context.WithValue(context.WithoutCancel(parent), loopKey{}, l)
}

// Submit queues fn without waiting for it. It never blocks: when the queue
// is full it returns ErrQueueFull. Errors returned by fn are only visible
// through the returned Task.
func (l *Loop) Submit(fn func(ctx context.Context) error) (*Task, error) {
	t := newTask(l.taskContext(context.Background()), fn)
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.running.Load() {
		return nil, ErrClosed
	}
	select {
	case l.queue <- t:
		return t, nil
	default:
		return nil, ErrQueueFull
	}
}

// Do runs fn on the loop and waits for it.
//
// Called from inside a task of the same loop, fn runs inline. If ctx is
// done before the task is dequeued, the task is cancelled and ctx.Err() is
// returned; once started it always completes and its result is returned.
func (l *Loop) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if l.onLoop(ctx) {
		return l.call(ctx, fn)
	}
	t := newTask(l.taskContext(ctx), fn)
	t.awaited.Store(true)
	if err := l.enqueue(ctx, t); err != nil {
		return err
	}
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		if t.Cancel() {
			return ctx.Err()
		}
		<-t.done
		return t.err
	}
}

func (l *Loop) enqueue(ctx context.Context, t *Task) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.running.Load() {
		return ErrClosed
	}
	select {
	case l.queue <- t:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call runs fn on l and returns its result, with the semantics of Do.
// Use it to read state back from the loop, e.g. a pixel just painted.
func Call[T any](ctx context.Context, l *Loop, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := l.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = fn(ctx)
		return err
	})
	return out, err
}

// Err returns the first panic recovered in strict mode, or nil.
func (l *Loop) Err() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	return l.firstErr
}

// Pending returns the number of queued tasks. Approximate under concurrency.
func (l *Loop) Pending() int { return len(l.queue) }

// Executed returns the number of tasks run so far, inline calls excluded.
func (l *Loop) Executed() uint64 { return l.executed.Load() }

// IsRunning reports whether the loop accepts tasks.
func (l *Loop) IsRunning() bool { return l.running.Load() }

// Close stops accepting tasks, runs the ones already queued and waits for
// the goroutine to exit. Close is safe to call multiple times. It must not
// be called from inside a task.
func (l *Loop) Close() {
	l.mu.Lock()
	if !l.running.CompareAndSwap(true, false) {
		l.mu.Unlock()
		return
	}
	close(l.closing)
	l.mu.Unlock()

	l.wg.Wait()
	artboard.Logger().Info("renderloop: stopped", "executed", l.executed.Load())
}
