package singlequeue

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/notify/core/logger"
)

// Listener consumes events delivered by a Queue.
// A non-nil error is returned to the caller that performed the delivery;
// the listener stays attached.
type Listener[T any] func(T) error

// Queue delivers events to at most one listener at a time. While no
// listener is attached, emitted events accumulate in an unbounded FIFO
// backlog that is flushed to the next listener on Subscribe.
//
// It is safe for concurrent use. Deliveries are serialized: the listener is
// never called concurrently with itself, and Emit or Subscribe from another
// goroutine waits for the delivery in progress to finish.
type Queue[T any] struct {
	mu       sync.Mutex
	idle     *sync.Cond // signalled when a delivery run ends
	listener Listener[T]
	pending  []T

	delivering bool
	deliverer  int64 // goroutine running the current delivery

	logger         *slog.Logger
	backlogWarning int

	emitted   atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
}

// Stats provides backlog and delivery counters for monitoring and debugging.
type Stats struct {
	Pending   int   // Events waiting for a listener
	Attached  bool  // Whether a listener is attached
	Emitted   int64 // Total Emit calls
	Delivered int64 // Total successful deliveries
	Failed    int64 // Total deliveries the listener rejected
}

// New creates a Queue with no listener and an empty backlog.
//
// Example:
//
//	q := singlequeue.New[Command](singlequeue.WithBacklogWarning(1000))
//
//	// Producers may start before the consumer exists.
//	q.Emit(Command{Name: "reload"})
//
//	// The backlog is flushed, in order, before Subscribe returns.
//	err := q.Subscribe(func(c Command) error {
//	    return execute(c)
//	})
func New[T any](opts ...Option) *Queue[T] {
	o := newOptions(opts)
	q := &Queue[T]{
		logger:         o.logger,
		backlogWarning: o.backlogWarning,
	}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// Subscribe attaches fn as the only listener, replacing any previous one,
// and flushes the backlog to it in FIFO order before returning.
//
// If a delivery fails during the flush, the flush stops, the failed event is
// consumed, the events after it stay queued and the error is returned.
// fn stays attached. Subscribe panics if fn is nil.
//
// Called from inside the listener, Subscribe swaps the listener and returns;
// the delivery already running flushes the backlog to fn.
func (q *Queue[T]) Subscribe(fn Listener[T]) error {
	if fn == nil {
		panic("singlequeue: nil listener")
	}

	gid := goroutineID()

	q.mu.Lock()
	reentrant := q.delivering && q.deliverer == gid
	if !reentrant {
		q.waitIdle()
	}
	q.listener = fn
	backlog := len(q.pending)

	if reentrant || backlog == 0 {
		q.mu.Unlock()
		q.logger.Debug("listener attached", logger.Component("singlequeue"), logger.Count("backlog", backlog))
		return nil
	}

	q.logger.Debug("listener attached", logger.Component("singlequeue"), logger.Count("backlog", backlog))
	q.begin(gid)
	return q.drain()
}

// Unsubscribe detaches the current listener. Subsequent events are queued.
// It is a no-op when no listener is attached. It never waits for a delivery
// in progress; that delivery stops after the current event.
func (q *Queue[T]) Unsubscribe() {
	q.mu.Lock()
	if q.listener == nil {
		q.mu.Unlock()
		return
	}
	q.listener = nil
	q.mu.Unlock()

	q.logger.Debug("listener detached", logger.Component("singlequeue"))
}

// Emit delivers event to the attached listener before returning, or queues
// it when no listener is attached.
//
// If the listener fails, the event is consumed, the listener stays attached
// and the error is returned wrapped in ErrListenerFailed or ErrListenerPanic.
// Events queued behind a failed flush are delivered before event.
//
// With no listener attached Emit never blocks. Called from inside the
// listener, Emit queues event and returns; the delivery already running
// delivers it next.
func (q *Queue[T]) Emit(event T) error {
	q.emitted.Add(1)
	gid := goroutineID()

	q.mu.Lock()
	if q.delivering && q.deliverer == gid {
		q.pending = append(q.pending, event)
		q.mu.Unlock()
		return nil
	}

	// Buffering never waits for a running delivery.
	if q.listener != nil {
		q.waitIdle()
	}
	q.pending = append(q.pending, event)

	if q.listener == nil {
		n := len(q.pending)
		q.mu.Unlock()
		q.warnBacklog(n)
		return nil
	}

	q.begin(gid)
	return q.drain()
}

func (q *Queue[T]) warnBacklog(n int) {
	if q.backlogWarning > 0 && n%q.backlogWarning == 0 {
		q.logger.Warn("backlog is growing with no listener attached",
			logger.Component("singlequeue"),
			logger.Count("pending", n))
	}
}

// PendingCount returns the number of events waiting for a listener.
func (q *Queue[T]) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Attached reports whether a listener is attached.
func (q *Queue[T]) Attached() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.listener != nil
}

// Stats returns a snapshot of the queue's counters.
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	pending, attached := len(q.pending), q.listener != nil
	q.mu.Unlock()

	return Stats{
		Pending:   pending,
		Attached:  attached,
		Emitted:   q.emitted.Load(),
		Delivered: q.delivered.Load(),
		Failed:    q.failed.Load(),
	}
}

// waitIdle blocks until no delivery is running. q.mu must be held.
func (q *Queue[T]) waitIdle() {
	for q.delivering {
		q.idle.Wait()
	}
}

// begin marks the calling goroutine as the deliverer. q.mu must be held.
func (q *Queue[T]) begin(gid int64) {
	q.delivering = true
	q.deliverer = gid
}

// drain delivers queued events while a listener is attached, stopping at the
// first failure. It must be called with q.mu held after begin; it returns
// with q.mu released and waiters woken.
func (q *Queue[T]) drain() error {
	var err error

	for q.listener != nil && len(q.pending) > 0 {
		event := q.pending[0]
		var zero T
		q.pending[0] = zero
		q.pending = q.pending[1:]
		fn := q.listener
		q.mu.Unlock()

		callErr := safeCall(fn, event)

		q.mu.Lock()
		if callErr != nil {
			q.failed.Add(1)
			err = callErr
			break
		}
		q.delivered.Add(1)
	}

	if len(q.pending) == 0 {
		q.pending = nil
	}
	pending := len(q.pending)
	q.delivering = false
	q.deliverer = 0
	q.idle.Broadcast()
	q.mu.Unlock()

	if err != nil {
		q.logger.Error("delivery failed",
			logger.Component("singlequeue"),
			logger.Count("pending", pending),
			logger.Error(err))
	}
	return err
}

// safeCall invokes fn and converts a returned error or a panic into a
// wrapped error.
func safeCall[T any](fn Listener[T], event T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrListenerPanic, r)
		}
	}()

	if err = fn(event); err != nil {
		return fmt.Errorf("%w: %w", ErrListenerFailed, err)
	}
	return nil
}
