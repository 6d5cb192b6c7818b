package relay

import "context"

// Transport moves encoded envelopes between processes.
// Implementations are passive wires: the Relay owns encoding, retries and
// origin filtering. A transport delivers a process's own publications back to
// its receivers; the Relay drops them by origin.
type Transport interface {
	// Publish sends one encoded envelope to every receiver on the wire.
	Publish(ctx context.Context, data []byte) error

	// Receive calls fn for every envelope arriving on the wire until ctx is
	// done or the transport fails. fn is called from a single goroutine.
	Receive(ctx context.Context, fn func(data []byte)) error

	// Close releases resources and makes further Publish and Receive calls
	// fail with ErrTransportClosed.
	Close() error
}
