package broadcast

import (
	"io"
	"log/slog"
)

type options struct {
	logger *slog.Logger
}

// Option configures a Broadcaster.
type Option func(*options)

// WithLogger configures structured logging for subscription changes and
// listener failures. Logging is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
