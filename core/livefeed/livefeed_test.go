package livefeed_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notify/core/livefeed"
	"github.com/dmitrymomot/notify/integration/relay"
	"github.com/dmitrymomot/notify/pkg/broadcast"
)

type BuildFinished struct {
	Bundle string `json:"bundle"`
	Ms     int    `json:"ms"`
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocket_StreamsEvents(t *testing.T) {
	t.Parallel()

	b := broadcast.New[BuildFinished]()
	srv := httptest.NewServer(livefeed.WebSocket[BuildFinished](b))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	require.Equal(t, 1, b.Len(), "subscribed before the handshake completes")

	want := []BuildFinished{{Bundle: "app.js", Ms: 120}, {Bundle: "vendor.js", Ms: 80}}
	for _, e := range want {
		require.NoError(t, b.Emit(e))
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for _, e := range want {
		var got BuildFinished
		require.NoError(t, conn.ReadJSON(&got))
		assert.Equal(t, e, got)
	}

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return b.Len() == 0 }, 2*time.Second, 10*time.Millisecond,
		"listener is removed when the client goes away")
}

func TestWebSocket_DropsClientsThatStopAnsweringPings(t *testing.T) {
	t.Parallel()

	b := broadcast.New[BuildFinished]()
	srv := httptest.NewServer(livefeed.WebSocket[BuildFinished](b, livefeed.WithKeepAlive(20*time.Millisecond)))
	defer srv.Close()

	// Reading answers pings with pongs.
	responsive, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer responsive.Close()
	go func() {
		for {
			if _, _, err := responsive.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// Never reads, so never answers.
	silent, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer silent.Close()

	assert.Eventually(t, func() bool { return b.Len() == 1 }, 2*time.Second, 10*time.Millisecond,
		"silent client is dropped after its read deadline")
	assert.Never(t, func() bool { return b.Len() == 0 }, 200*time.Millisecond, 20*time.Millisecond,
		"responsive client stays connected")
}

func TestWebSocket_OriginPolicy(t *testing.T) {
	t.Parallel()

	foreign := http.Header{"Origin": []string{"http://evil.example"}}

	tests := []struct {
		name       string
		opts       []livefeed.Option
		wantStatus int
	}{
		{name: "same origin by default", wantStatus: http.StatusForbidden},
		{name: "allow any origin", opts: []livefeed.Option{livefeed.WithAllowAnyOrigin()}, wantStatus: http.StatusSwitchingProtocols},
		{
			name: "custom check",
			opts: []livefeed.Option{livefeed.WithOriginCheck(func(r *http.Request) bool {
				return r.Header.Get("Origin") == "http://trusted.example"
			})},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := broadcast.New[int]()
			srv := httptest.NewServer(livefeed.WebSocket[int](b, tt.opts...))
			defer srv.Close()

			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv), foreign)
			require.NotNil(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if err == nil {
				_ = conn.Close()
			}
			assert.Eventually(t, func() bool { return b.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
		})
	}
}

func TestWebSocket_FollowsRelay(t *testing.T) {
	t.Parallel()

	r := relay.New[BuildFinished](relay.NewMemoryHub().Transport())
	srv := httptest.NewServer(livefeed.WebSocket[BuildFinished](r))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, r.Emit(BuildFinished{Bundle: "app.js"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got BuildFinished
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "app.js", got.Bundle)
}

// readEvent reads lines up to the blank line that terminates an SSE block.
func readEvent(t *testing.T, r *bufio.Reader) []string {
	t.Helper()

	var lines []string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSuffix(line, "\n")
		if line == "" {
			return lines
		}
		lines = append(lines, line)
	}
}

func openStream(t *testing.T, url string) (*bufio.Reader, *http.Response, context.CancelFunc) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return bufio.NewReader(resp.Body), resp, cancel
}

func TestSSE_StreamsEvents(t *testing.T) {
	t.Parallel()

	b := broadcast.New[BuildFinished]()
	srv := httptest.NewServer(livefeed.SSE[BuildFinished](b, livefeed.WithEventName("build")))
	defer srv.Close()

	stream, resp, cancel := openStream(t, srv.URL)
	defer cancel()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
	assert.Equal(t, []string{": connected"}, readEvent(t, stream))
	require.Equal(t, 1, b.Len())

	require.NoError(t, b.Emit(BuildFinished{Bundle: "app.js", Ms: 95}))
	assert.Equal(t, []string{
		"event: build",
		`data: {"bundle":"app.js","ms":95}`,
	}, readEvent(t, stream))

	cancel()
	assert.Eventually(t, func() bool { return b.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSSE_KeepAlive(t *testing.T) {
	t.Parallel()

	b := broadcast.New[int]()
	srv := httptest.NewServer(livefeed.SSE[int](b, livefeed.WithKeepAlive(20*time.Millisecond)))
	defer srv.Close()

	stream, _, cancel := openStream(t, srv.URL)
	defer cancel()

	assert.Equal(t, []string{": connected"}, readEvent(t, stream))
	assert.Equal(t, []string{": keepalive"}, readEvent(t, stream))

	require.NoError(t, b.Emit(7))
	assert.Equal(t, []string{"data: 7"}, lastEvent(t, stream))
}

// lastEvent skips keep-alive comments and returns the next event block.
func lastEvent(t *testing.T, r *bufio.Reader) []string {
	t.Helper()

	for {
		lines := readEvent(t, r)
		if len(lines) == 1 && lines[0] == ": keepalive" {
			continue
		}
		return lines
	}
}
