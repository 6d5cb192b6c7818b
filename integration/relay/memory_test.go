package relay_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notify/integration/relay"
)

func TestMemoryTransport_PublishReachesEveryReceiver(t *testing.T) {
	t.Parallel()

	hub := relay.NewMemoryHub()
	publisher := hub.Transport()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan string, 4)
	for range 2 {
		tr := hub.Transport()
		go func() { _ = tr.Receive(ctx, func(data []byte) { got <- string(data) }) }()
	}
	require.Eventually(t, func() bool { return hub.Receivers() == 2 }, time.Second, 5*time.Millisecond)

	payload := []byte("reload")
	require.NoError(t, publisher.Publish(ctx, payload))
	payload[0] = 'X'

	assert.Equal(t, "reload", <-got)
	assert.Equal(t, "reload", <-got)
}

func TestMemoryTransport_Close(t *testing.T) {
	t.Parallel()

	hub := relay.NewMemoryHub()
	tr := hub.Transport()

	done := make(chan error, 1)
	go func() { done <- tr.Receive(context.Background(), func([]byte) {}) }()
	require.Eventually(t, func() bool { return hub.Receivers() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, tr.Close())
	require.NoError(t, tr.Close(), "close is idempotent")

	select {
	case err := <-done:
		assert.ErrorIs(t, err, relay.ErrTransportClosed)
	case <-time.After(time.Second):
		t.Fatal("receive did not return after close")
	}
	assert.Equal(t, 0, hub.Receivers())

	assert.ErrorIs(t, tr.Publish(context.Background(), []byte("x")), relay.ErrTransportClosed)
	assert.ErrorIs(t, tr.Receive(context.Background(), func([]byte) {}), relay.ErrTransportClosed)
}

func TestMemoryTransport_PublishCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := relay.NewMemoryHub().Transport().Publish(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
