package redistransport

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/notify/integration/relay"
)

// ErrSubscriptionClosed is returned by Receive when Redis closes the
// subscription channel underneath it.
var ErrSubscriptionClosed = errors.New("redis subscription closed")

// Config holds the channel name loaded from the environment.
type Config struct {
	Channel string `env:"RELAY_REDIS_CHANNEL" envDefault:"notify:events"`
}

// Transport carries relay envelopes over Redis PUBLISH / SUBSCRIBE.
// It does not own the client; closing the transport leaves it open.
type Transport struct {
	client  *redis.Client
	channel string

	done      chan struct{}
	closeOnce sync.Once
}

var _ relay.Transport = (*Transport)(nil)

// New creates a transport publishing to and subscribing on channel.
func New(client *redis.Client, channel string) *Transport {
	return &Transport{
		client:  client,
		channel: channel,
		done:    make(chan struct{}),
	}
}

// Publish sends data to every subscriber of the channel.
func (t *Transport) Publish(ctx context.Context, data []byte) error {
	if t.closed() {
		return relay.ErrTransportClosed
	}
	return t.client.Publish(ctx, t.channel, data).Err()
}

// Receive subscribes to the channel and calls fn for every message until
// ctx is done or the transport is closed.
func (t *Transport) Receive(ctx context.Context, fn func(data []byte)) error {
	if t.closed() {
		return relay.ErrTransportClosed
	}

	pubsub := t.client.Subscribe(ctx, t.channel)
	defer pubsub.Close()

	// Wait for the subscription confirmation so no publication after this
	// point is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.done:
			return relay.ErrTransportClosed
		case msg, ok := <-messages:
			if !ok {
				return ErrSubscriptionClosed
			}
			fn([]byte(msg.Payload))
		}
	}
}

// Close stops active Receive calls and rejects further use.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

func (t *Transport) closed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
