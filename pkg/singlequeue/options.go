package singlequeue

import (
	"io"
	"log/slog"
)

type options struct {
	logger         *slog.Logger
	backlogWarning int
}

// Option configures a Queue.
type Option func(*options)

// WithLogger configures structured logging for attach/detach, backlog
// warnings and delivery failures. Logging is discarded by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBacklogWarning logs a warning every time the unattended backlog grows
// to a multiple of n events. The backlog itself stays unbounded.
// Set to 0 (default) to disable.
func WithBacklogWarning(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.backlogWarning = n
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
