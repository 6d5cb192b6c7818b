package relay

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrymomot/notify/pkg/broadcast"
)

// MemoryHub connects MemoryTransports within one process.
// It is useful in tests and in single-binary deployments that still want the
// Relay API.
type MemoryHub struct {
	bus *broadcast.Broadcaster[[]byte]
}

// NewMemoryHub creates an empty hub.
func NewMemoryHub() *MemoryHub {
	return &MemoryHub{bus: broadcast.New[[]byte]()}
}

// Transport returns a new transport attached to the hub.
func (h *MemoryHub) Transport() *MemoryTransport {
	return &MemoryTransport{
		hub:  h,
		done: make(chan struct{}),
	}
}

// Receivers returns the number of transports currently receiving.
func (h *MemoryHub) Receivers() int {
	return h.bus.Len()
}

// MemoryTransport is an in-process Transport. Publish delivers synchronously
// to every receiving transport of the same hub, including the publisher.
type MemoryTransport struct {
	hub       *MemoryHub
	done      chan struct{}
	closeOnce sync.Once
}

var _ Transport = (*MemoryTransport)(nil)

// Publish delivers a copy of data to every receiver on the hub.
func (t *MemoryTransport) Publish(ctx context.Context, data []byte) error {
	if t.closed() {
		return ErrTransportClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return t.hub.bus.Emit(slices.Clone(data))
}

// Receive calls fn for every publication on the hub until ctx is done or the
// transport is closed.
func (t *MemoryTransport) Receive(ctx context.Context, fn func(data []byte)) error {
	if t.closed() {
		return ErrTransportClosed
	}

	sub := t.hub.bus.Subscribe(func(data []byte) error {
		fn(data)
		return nil
	})
	defer sub.Unsubscribe()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.done:
		return ErrTransportClosed
	}
}

// Close detaches the transport from the hub. It is safe to call more than once.
func (t *MemoryTransport) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

func (t *MemoryTransport) closed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
