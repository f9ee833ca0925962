package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Do when the loop is no longer running.
var ErrStopped = errors.New("eventloop: stopped")

// Timer is a handle to a callback scheduled with AfterFunc.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented
	// the callback from running. Stop must be called on the loop.
	Stop() bool
}

// Scheduler schedules callbacks to run on the loop after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Executor is the full loop contract used by the core.
type Executor interface {
	Scheduler

	// Post queues fn to run on the loop. Safe to call from any goroutine.
	Post(fn func())
}

// Runner is an Executor that can also run work synchronously for callers
// outside the loop.
type Runner interface {
	Executor

	// Do runs fn on the loop and waits for it to finish.
	Do(ctx context.Context, fn func()) error
}

// Loop is the production event loop.
//
// Its queue is unbounded, so Post never blocks. Work running on the loop
// can post follow-up work no matter how much is already waiting.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	stopped bool

	wake chan struct{}
	done chan struct{}
}

// New creates a loop. It does nothing until Run is called.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Run executes queued work until ctx is cancelled. Queued work that has not
// started when ctx is cancelled is dropped.
func (l *Loop) Run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.pending = nil
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.wake:
		}

		for {
			batch := l.take()
			if len(batch) == 0 {
				break
			}
			for i, fn := range batch {
				if ctx.Err() != nil {
					return
				}
				batch[i] = nil
				fn()
			}
		}
	}
}

// take removes and returns everything queued so far.
func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.pending
	l.pending = nil
	return batch
}

// Post queues fn to run on the loop. It never blocks. After the loop has
// stopped, fn is discarded.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Do runs fn on the loop and waits for it to finish.
// It must not be called from the loop itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	finished := make(chan struct{})
	l.Post(func() {
		defer close(finished)
		fn()
	})

	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AfterFunc schedules fn to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// The cancelled flag is only touched on the loop, so a Stop
			// that raced with expiry still wins.
			if t.cancelled || t.fired {
				return
			}
			t.fired = true
			fn()
		})
	})
	return t
}

// loopTimer is the Timer returned by Loop.AfterFunc.
type loopTimer struct {
	timer     *time.Timer
	cancelled bool
	fired     bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}
