package livefeed

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultBufferSize = 16
	defaultKeepAlive  = 30 * time.Second
	writeWait         = 10 * time.Second
)

type options struct {
	logger      *slog.Logger
	bufferSize  int
	checkOrigin func(r *http.Request) bool
	eventName   string
	keepAlive   time.Duration
}

// Option configures a feed handler.
type Option func(*options)

// WithLogger sets the logger for connection lifecycle and dropped events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBufferSize sets how many events may wait for a slow client before
// new ones are dropped for that client.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithOriginCheck sets the WebSocket origin policy. By default only
// same-origin requests are upgraded.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(o *options) {
		o.checkOrigin = fn
	}
}

// WithAllowAnyOrigin accepts WebSocket upgrades from any origin.
func WithAllowAnyOrigin() Option {
	return func(o *options) {
		o.checkOrigin = func(*http.Request) bool {
			return true
		}
	}
}

// WithEventName sets the SSE "event:" field sent with every event.
func WithEventName(name string) Option {
	return func(o *options) {
		o.eventName = name
	}
}

// WithKeepAlive sets the interval of SSE keep-alive comments and WebSocket
// pings. Zero disables them.
func WithKeepAlive(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.keepAlive = d
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		bufferSize: defaultBufferSize,
		keepAlive:  defaultKeepAlive,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
