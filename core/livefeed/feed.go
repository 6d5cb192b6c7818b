package livefeed

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/notify/core/logger"
	"github.com/dmitrymomot/notify/pkg/broadcast"
)

// Source is anything clients can follow: a broadcast.Broadcaster or a
// relay.Relay.
type Source[T any] interface {
	Subscribe(fn broadcast.Listener[T]) *broadcast.Subscription[T]
}

// feed is one client's subscription. The listener never blocks the emitter:
// events that do not fit the buffer are dropped for this client only.
type feed[T any] struct {
	events  chan T
	sub     *broadcast.Subscription[T]
	dropped atomic.Int64
}

// attach subscribes a buffered feed to src. The events channel is never
// closed, since a concurrent Emit may still hold the listener.
func attach[T any](src Source[T], size int, log *slog.Logger, transport string) *feed[T] {
	f := &feed[T]{events: make(chan T, size)}
	f.sub = src.Subscribe(func(event T) error {
		select {
		case f.events <- event:
		default:
			n := f.dropped.Add(1)
			log.Warn("client too slow, event dropped",
				logger.Component("livefeed"),
				slog.String("transport", transport),
				slog.Int64("dropped", n))
		}
		return nil
	})
	return f
}

func (f *feed[T]) close(log *slog.Logger, transport string, start time.Time) {
	f.sub.Unsubscribe()
	log.Debug("client disconnected",
		logger.Component("livefeed"),
		slog.String("transport", transport),
		slog.Int64("dropped", f.dropped.Load()),
		logger.Elapsed(start))
}
