package server_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notify/core/server"
)

func hello(w http.ResponseWriter, _ *http.Request) {
	_, _ = io.WriteString(w, "hello")
}

// waitRunning polls until the server accepts requests and returns its base URL.
func waitRunning(t *testing.T, srv *server.Server) string {
	t.Helper()

	var url string
	require.Eventually(t, func() bool {
		url = "http://" + srv.Addr()
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)
	return url
}

func TestServer_RunServesAndStops(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, http.HandlerFunc(hello))() }()

	url := waitRunning(t, srv)
	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "hello", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	_, err = http.Get(url)
	assert.Error(t, err)
}

func TestServer_StartTwice(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = srv.Start(ctx, http.HandlerFunc(hello)) }()
	waitRunning(t, srv)

	assert.ErrorIs(t, srv.Start(ctx, http.HandlerFunc(hello)), server.ErrServerAlreadyRunning)
	require.NoError(t, srv.Stop())
}

func TestServer_StopWhenNotRunning(t *testing.T) {
	t.Parallel()

	assert.NoError(t, server.New(":0").Stop())
}

func TestServer_BindError(t *testing.T) {
	t.Parallel()

	first := server.New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Start(ctx, http.HandlerFunc(hello)) }()
	waitRunning(t, first)
	defer func() { _ = first.Stop() }()

	second := server.New(first.Addr())
	err := second.Start(ctx, http.HandlerFunc(hello))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, context.Canceled)
}

func TestServer_StreamsEndOnCancel(t *testing.T) {
	t.Parallel()

	srv := server.New("127.0.0.1:0", server.WithShutdownTimeout(5*time.Second))
	ctx, cancel := context.WithCancel(context.Background())

	stream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/stream" {
			hello(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})

	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, stream)() }()
	url := waitRunning(t, srv)

	resp, err := http.Get(url + "/stream")
	require.NoError(t, err)
	defer resp.Body.Close()

	start := time.Now()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second, "shutdown does not wait for the full timeout")
	case <-time.After(4 * time.Second):
		t.Fatal("server did not stop")
	}
}
