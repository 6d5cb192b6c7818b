package health

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/notify/core/logger"
)

// Check reports whether a dependency is usable.
type Check func(context.Context) error

// Liveness indicates if the service process is running.
// Always returns "ALIVE" with 200 OK. No dependency checks.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ALIVE")
}

// Readiness verifies all service dependencies are functioning.
// Returns "READY" if all checks pass within timeout, 503 Service Unavailable
// if any fails. A zero timeout leaves the request deadline in charge.
//
// Example:
//
//	mux.Handle("GET /health/ready", health.Readiness(log, 2*time.Second,
//		redis.Healthcheck(client),
//		builds.Healthcheck,
//	))
func Readiness(log *slog.Logger, timeout time.Duration, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.ErrorContext(ctx, "readiness check failed",
					logger.Component("health"),
					logger.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "READY")
	}
}
