package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notify/core/logger"
	"github.com/dmitrymomot/notify/pkg/broadcast"
	"github.com/dmitrymomot/notify/pkg/singlequeue"
)

// Relay is a Broadcaster whose events also reach Relays in other processes.
//
// Emit delivers to local subscribers immediately and queues the event for
// publishing. Publishing and receiving happen while Run is active; events
// emitted before Run, or while the transport is failing, wait in an
// outbound backlog and are published in order once the transport recovers.
type Relay[T any] struct {
	transport Transport
	local     *broadcast.Broadcaster[T]
	outbound  *singlequeue.Queue[Envelope[T]]

	origin         string
	logger         *slog.Logger
	retryInterval  time.Duration
	publishTimeout time.Duration

	// held is an envelope whose publish failed. It goes out before the
	// outbound backlog, which buffers while held is set.
	heldMu sync.Mutex
	held   *Envelope[T]

	running   atomic.Bool
	published atomic.Int64
	received  atomic.Int64
	skipped   atomic.Int64
	dropped   atomic.Int64
}

// Stats combines the local and outbound counters with transport counters.
type Stats struct {
	Local     broadcast.Stats   // Local fan-out
	Outbound  singlequeue.Stats // Outbound backlog
	Published int64             // Envelopes handed to the transport
	Received  int64             // Envelopes from other origins emitted locally
	Skipped   int64             // Own or malformed envelopes ignored on receive
	Dropped   int64             // Events that could not be encoded or were rejected for good
	Running   bool
}

// New creates a Relay over transport.
//
// Example:
//
//	builds := relay.New[BuildFinished](redistransport.New(client, "notify:events"),
//	    relay.WithLogger(log),
//	)
//	builds.Subscribe(func(e BuildFinished) error {
//	    return reloadBrowser(e)
//	})
//
//	g.Go(func() error { return builds.Run(ctx) })
func New[T any](transport Transport, opts ...Option) *Relay[T] {
	o := newOptions(opts)
	return &Relay[T]{
		transport: transport,
		local:     broadcast.New[T](broadcast.WithLogger(o.logger)),
		outbound: singlequeue.New[Envelope[T]](
			singlequeue.WithLogger(o.logger),
			singlequeue.WithBacklogWarning(o.backlogWarning),
		),
		origin:         o.origin,
		logger:         o.logger,
		retryInterval:  o.retryInterval,
		publishTimeout: o.publishTimeout,
	}
}

// Subscribe registers fn for events emitted locally and received from
// other processes.
func (r *Relay[T]) Subscribe(fn broadcast.Listener[T]) *broadcast.Subscription[T] {
	return r.local.Subscribe(fn)
}

// Unsubscribe removes a registration returned by Subscribe.
func (r *Relay[T]) Unsubscribe(sub *broadcast.Subscription[T]) {
	r.local.Unsubscribe(sub)
}

// Emit delivers event to local subscribers and queues it for publishing.
// The event is queued even if a local listener fails; the returned error
// only reports the local fan-out. Publish failures are logged and retried
// by Run.
func (r *Relay[T]) Emit(event T) error {
	err := r.local.Emit(event)

	env := NewEnvelope(r.origin, event)
	if pubErr := r.outbound.Emit(env); pubErr != nil {
		r.logger.Warn("publish failed, event held for retry",
			logger.Component("relay"),
			logger.ID("envelope_id", env.ID),
			logger.Count("pending", r.PendingCount()),
			logger.Error(pubErr))
	}
	return err
}

// Run publishes queued events and emits received ones until ctx is done.
// It returns nil on cancellation, or the error that stopped the transport.
func (r *Relay[T]) Run(ctx context.Context) error {
	if r.transport == nil {
		return ErrNilTransport
	}
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)

	r.logger.InfoContext(ctx, "relay started",
		logger.Component("relay"),
		logger.ID("origin", r.origin),
		logger.Count("pending", r.PendingCount()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.publishLoop(ctx) })
	g.Go(func() error { return r.receiveLoop(ctx) })

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}

	r.logger.Info("relay stopped",
		logger.Component("relay"),
		logger.Count("pending", r.PendingCount()),
		logger.Error(err))
	return err
}

// PendingCount returns the number of events waiting to be published,
// including one held back by a failed publish.
func (r *Relay[T]) PendingCount() int {
	n := r.outbound.PendingCount()
	r.heldMu.Lock()
	if r.held != nil {
		n++
	}
	r.heldMu.Unlock()
	return n
}

// Origin returns the identifier stamped on envelopes published by r.
func (r *Relay[T]) Origin() string {
	return r.origin
}

// Stats returns a snapshot of the relay's counters.
func (r *Relay[T]) Stats() Stats {
	return Stats{
		Local:     r.local.Stats(),
		Outbound:  r.outbound.Stats(),
		Published: r.published.Load(),
		Received:  r.received.Load(),
		Skipped:   r.skipped.Load(),
		Dropped:   r.dropped.Load(),
		Running:   r.running.Load(),
	}
}

// Healthcheck reports whether Run is active and the transport is accepting
// publications. A backlog held back by a failing transport is unhealthy.
func (r *Relay[T]) Healthcheck(context.Context) error {
	if !r.running.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrNotRunning)
	}
	if !r.outbound.Attached() {
		return errors.Join(ErrHealthcheckFailed,
			fmt.Errorf("%w: %d events pending", ErrPublishFailed, r.PendingCount()))
	}
	return nil
}

// publishLoop keeps the outbound listener attached while ctx is alive.
// A failed publish holds its envelope and detaches the listener; the ticker
// republishes the held envelope, then reattaches and flushes the backlog.
func (r *Relay[T]) publishLoop(ctx context.Context) error {
	publish := func(env Envelope[T]) error {
		return r.publish(ctx, env)
	}
	defer r.outbound.Unsubscribe()

	r.resume(ctx, publish, 0)

	ticker := time.NewTicker(r.retryInterval)
	defer ticker.Stop()

	retries := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if r.outbound.Attached() {
				retries = 0
				continue
			}
			retries++
			r.resume(ctx, publish, retries)
		}
	}
}

// resume publishes the held envelope, if any, and reattaches publish.
func (r *Relay[T]) resume(ctx context.Context, publish singlequeue.Listener[Envelope[T]], retries int) {
	err := r.publishHeld(ctx)
	if err == nil {
		err = r.outbound.Subscribe(publish)
	}
	if err != nil {
		r.logger.Warn("publish failed, will retry",
			logger.Component("relay"),
			logger.RetryCount(retries),
			logger.Count("pending", r.PendingCount()),
			logger.Duration(r.retryInterval),
			logger.Error(err))
	}
}

func (r *Relay[T]) publishHeld(ctx context.Context) error {
	r.heldMu.Lock()
	env := r.held
	r.held = nil
	r.heldMu.Unlock()

	if env == nil {
		return nil
	}
	return r.publish(ctx, *env)
}

// publish hands env to the transport. Envelopes that can never be published
// are dropped. On any other failure env is held and the outbound listener
// detached, so later events buffer behind it.
func (r *Relay[T]) publish(ctx context.Context, env Envelope[T]) error {
	data, err := env.Encode()
	if err != nil {
		r.drop(env, err)
		return nil
	}

	pubCtx, cancel := context.WithTimeout(ctx, r.publishTimeout)
	defer cancel()

	err = r.transport.Publish(pubCtx, data)
	switch {
	case err == nil:
		r.published.Add(1)
		return nil
	case errors.Is(err, ErrPermanent):
		r.drop(env, err)
		return nil
	}

	r.heldMu.Lock()
	r.held = &env
	r.heldMu.Unlock()
	r.outbound.Unsubscribe()

	return fmt.Errorf("%w: %w", ErrPublishFailed, err)
}

func (r *Relay[T]) drop(env Envelope[T], err error) {
	r.dropped.Add(1)
	r.logger.Error("event dropped",
		logger.Component("relay"),
		logger.ID("envelope_id", env.ID),
		logger.Error(err))
}

func (r *Relay[T]) receiveLoop(ctx context.Context) error {
	err := r.transport.Receive(ctx, r.handleIncoming)
	switch {
	case ctx.Err() != nil:
		return nil
	case err == nil, errors.Is(err, ErrTransportClosed):
		return ErrTransportClosed
	default:
		return fmt.Errorf("%w: %w", ErrReceiveFailed, err)
	}
}

func (r *Relay[T]) handleIncoming(data []byte) {
	env, err := Decode[T](data)
	if err != nil {
		r.skipped.Add(1)
		r.logger.Warn("malformed envelope skipped",
			logger.Component("relay"),
			logger.Count("size", len(data)),
			logger.Error(err))
		return
	}
	if env.Origin == r.origin {
		r.skipped.Add(1)
		return
	}

	r.received.Add(1)
	if err := r.local.Emit(env.Payload); err != nil {
		r.logger.Error("received event failed locally",
			logger.Component("relay"),
			logger.ID("envelope_id", env.ID),
			logger.ID("origin", env.Origin),
			logger.Error(err))
	}
}
