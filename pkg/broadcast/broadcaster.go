package broadcast

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/notify/core/logger"
)

// Listener receives events emitted by a Broadcaster.
// A non-nil error aborts the remaining fan-out of that Emit call.
type Listener[T any] func(T) error

// Subscription is a single listener registration returned by Subscribe.
// Unsubscribe matches on the handle's identity, so subscribing the same
// listener twice produces two independent registrations.
type Subscription[T any] struct {
	fn     Listener[T]
	owner  *Broadcaster[T]
	active atomic.Bool
}

// Unsubscribe removes the registration from its broadcaster.
// Calling it more than once is a no-op.
func (s *Subscription[T]) Unsubscribe() {
	if s == nil || s.owner == nil {
		return
	}
	s.owner.Unsubscribe(s)
}

// Active reports whether the registration still receives events.
func (s *Subscription[T]) Active() bool {
	return s != nil && s.active.Load()
}

// Broadcaster fans events out to its subscribers synchronously, in
// registration order. Events emitted while nobody is subscribed are lost.
// It is safe for concurrent use.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers []*Subscription[T] // copy-on-write; Emit iterates a snapshot
	logger      *slog.Logger

	emitted   atomic.Int64
	delivered atomic.Int64
	failed    atomic.Int64
}

// Stats provides delivery counters for monitoring and debugging.
type Stats struct {
	Subscribers int   // Current number of registrations
	Emitted     int64 // Total Emit calls
	Delivered   int64 // Total successful listener invocations
	Failed      int64 // Total listener invocations that returned an error or panicked
}

// New creates an empty Broadcaster.
//
// Example:
//
//	builds := broadcast.New[BuildFinished](broadcast.WithLogger(log))
//	sub := builds.Subscribe(func(e BuildFinished) error {
//	    return notifyBrowser(e)
//	})
//	defer sub.Unsubscribe()
//
//	err := builds.Emit(BuildFinished{Duration: elapsed})
func New[T any](opts ...Option) *Broadcaster[T] {
	o := newOptions(opts)
	return &Broadcaster[T]{logger: o.logger}
}

// Subscribe appends fn to the subscriber list and returns its registration.
// Subscribe panics if fn is nil.
func (b *Broadcaster[T]) Subscribe(fn Listener[T]) *Subscription[T] {
	if fn == nil {
		panic("broadcast: nil listener")
	}

	sub := &Subscription[T]{fn: fn, owner: b}
	sub.active.Store(true)

	b.mu.Lock()
	b.subscribers = append(b.subscribers, sub)
	n := len(b.subscribers)
	b.mu.Unlock()

	b.logger.Debug("listener subscribed", logger.Component("broadcast"), logger.Count("subscribers", n))
	return sub
}

// Unsubscribe removes the first occurrence of sub. Nil, foreign or already
// removed subscriptions are ignored.
func (b *Broadcaster[T]) Unsubscribe(sub *Subscription[T]) {
	if sub == nil {
		return
	}

	b.mu.Lock()
	i := slices.Index(b.subscribers, sub)
	if i < 0 {
		b.mu.Unlock()
		return
	}
	// Never mutate the backing array in place: an in-flight Emit may be
	// iterating it.
	next := make([]*Subscription[T], 0, len(b.subscribers)-1)
	next = append(next, b.subscribers[:i]...)
	next = append(next, b.subscribers[i+1:]...)
	b.subscribers = next
	sub.active.Store(false)
	n := len(next)
	b.mu.Unlock()

	b.logger.Debug("listener unsubscribed", logger.Component("broadcast"), logger.Count("subscribers", n))
}

// Emit invokes every current subscriber with event, in registration order,
// and returns once all of them have returned.
//
// The subscriber list is snapshotted when Emit starts: listeners added during
// the fan-out are not called, listeners removed before their turn are skipped.
// The first failing listener stops the fan-out; its error is returned wrapped
// in ErrListenerFailed, or ErrListenerPanic if it panicked.
func (b *Broadcaster[T]) Emit(event T) error {
	b.mu.RLock()
	subs := b.subscribers
	b.mu.RUnlock()

	b.emitted.Add(1)

	for i, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		if err := safeCall(sub.fn, event); err != nil {
			b.failed.Add(1)
			b.logger.Error("listener failed, fan-out aborted",
				logger.Component("broadcast"),
				logger.Count("position", i),
				logger.Count("skipped", len(subs)-i-1),
				logger.Error(err))
			return err
		}
		b.delivered.Add(1)
	}

	return nil
}

// Len returns the number of active registrations.
func (b *Broadcaster[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Stats returns a snapshot of the broadcaster's counters.
func (b *Broadcaster[T]) Stats() Stats {
	return Stats{
		Subscribers: b.Len(),
		Emitted:     b.emitted.Load(),
		Delivered:   b.delivered.Load(),
		Failed:      b.failed.Load(),
	}
}

// safeCall invokes fn and converts a returned error or a panic into a
// wrapped error. This is the single point of panic recovery for listeners.
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
