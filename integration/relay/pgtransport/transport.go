package pgtransport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/notify/integration/relay"
)

// MaxPayloadSize is the largest NOTIFY payload PostgreSQL accepts, exclusive.
const MaxPayloadSize = 8000

// ErrPayloadTooLarge is returned by Publish for envelopes PostgreSQL would
// reject. It wraps relay.ErrPermanent, so the Relay drops such envelopes.
var ErrPayloadTooLarge = fmt.Errorf("%w: notification payload too large", relay.ErrPermanent)

// Config holds the channel name loaded from the environment.
type Config struct {
	Channel string `env:"RELAY_PG_CHANNEL" envDefault:"notify_events"`
}

// Transport carries relay envelopes over PostgreSQL NOTIFY / LISTEN.
// Receive holds one pool connection for as long as it runs.
type Transport struct {
	pool    *pgxpool.Pool
	channel string

	done      chan struct{}
	closeOnce sync.Once
}

var _ relay.Transport = (*Transport)(nil)

// New creates a transport notifying and listening on channel.
func New(pool *pgxpool.Pool, channel string) *Transport {
	return &Transport{
		pool:    pool,
		channel: channel,
		done:    make(chan struct{}),
	}
}

// Publish sends data with pg_notify.
func (t *Transport) Publish(ctx context.Context, data []byte) error {
	if t.closed() {
		return relay.ErrTransportClosed
	}
	if len(data) >= MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(data))
	}

	_, err := t.pool.Exec(ctx, "SELECT pg_notify($1, $2)", t.channel, string(data))
	return err
}

// Receive LISTENs on the channel and calls fn for every notification until
// ctx is done or the transport is closed.
func (t *Transport) Receive(ctx context.Context, fn func(data []byte)) error {
	if t.closed() {
		return relay.ErrTransportClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-t.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	conn, err := t.pool.Acquire(ctx)
	if err != nil {
		return t.stopErr(ctx, err)
	}
	defer t.release(conn)

	if _, err := conn.Exec(ctx, "LISTEN "+t.identifier()); err != nil {
		return t.stopErr(ctx, err)
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return t.stopErr(ctx, err)
		}
		fn([]byte(n.Payload))
	}
}

// Close stops active Receive calls and rejects further use.
func (t *Transport) Close() error {
	t.closeOnce.Do(func() { close(t.done) })
	return nil
}

// release unlistens before returning the connection to the pool.
// A connection broken by cancellation is discarded by the pool.
func (t *Transport) release(conn *pgxpool.Conn) {
	if !conn.Conn().IsClosed() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, _ = conn.Exec(ctx, "UNLISTEN "+t.identifier())
		cancel()
	}
	conn.Release()
}

// stopErr maps errors caused by Close or cancellation to their cause.
func (t *Transport) stopErr(ctx context.Context, err error) error {
	if t.closed() {
		return relay.ErrTransportClosed
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (t *Transport) identifier() string {
	return pgx.Identifier{t.channel}.Sanitize()
}

func (t *Transport) closed() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
