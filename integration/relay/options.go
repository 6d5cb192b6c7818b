package relay

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	defaultRetryInterval  = time.Second
	defaultPublishTimeout = 5 * time.Second
	defaultBacklogWarning = 1000
)

type options struct {
	logger         *slog.Logger
	origin         string
	retryInterval  time.Duration
	publishTimeout time.Duration
	backlogWarning int
}

// Option configures a Relay.
type Option func(*options)

// WithLogger sets the logger for transport errors and skipped envelopes.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOrigin sets the identifier stamped on published envelopes. Envelopes
// carrying it are ignored on receive. Defaults to a random UUID.
func WithOrigin(origin string) Option {
	return func(o *options) {
		if origin != "" {
			o.origin = origin
		}
	}
}

// WithRetryInterval sets how long the relay waits before republishing after
// a transport failure.
func WithRetryInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.retryInterval = d
		}
	}
}

// WithPublishTimeout bounds a single Publish call.
func WithPublishTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.publishTimeout = d
		}
	}
}

// WithBacklogWarning logs a warning each time the unpublished backlog
// reaches a multiple of n. Zero disables the warning.
func WithBacklogWarning(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.backlogWarning = n
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		origin:         uuid.New().String(),
		retryInterval:  defaultRetryInterval,
		publishTimeout: defaultPublishTimeout,
		backlogWarning: defaultBacklogWarning,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
