package feedhub

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/notify/core/health"
	"github.com/dmitrymomot/notify/core/livefeed"
	"github.com/dmitrymomot/notify/core/logger"
)

const readinessTimeout = 2 * time.Second

// Handler returns the HTTP routes:
//
//	GET  /live          WebSocket feed
//	GET  /events        Server-Sent Events feed
//	POST /publish       emit the JSON request body
//	GET  /health/live   liveness probe
//	GET  /health/ready  readiness probe
func (a *App) Handler() http.Handler {
	feedOpts := []livefeed.Option{
		livefeed.WithLogger(a.logger),
		livefeed.WithBufferSize(a.config.ClientBuffer),
		livefeed.WithEventName(a.config.EventName),
	}
	if a.config.AllowAnyOrigin {
		feedOpts = append(feedOpts, livefeed.WithAllowAnyOrigin())
	}

	mux := http.NewServeMux()
	mux.Handle("GET /live", livefeed.WebSocket[json.RawMessage](a.relay, feedOpts...))
	mux.Handle("GET /events", livefeed.SSE[json.RawMessage](a.relay, feedOpts...))
	mux.HandleFunc("POST /publish", a.publish)
	mux.HandleFunc("GET /health/live", health.Liveness)
	mux.Handle("GET /health/ready", health.Readiness(a.logger, readinessTimeout, a.checks...))
	return mux
}

func (a *App) publish(w http.ResponseWriter, r *http.Request) {
	body := r.Body
	if a.config.MaxEventBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, a.config.MaxEventBytes)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		if maxErr := (*http.MaxBytesError)(nil); errors.As(err, &maxErr) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if !json.Valid(data) {
		http.Error(w, "body must be valid JSON", http.StatusBadRequest)
		return
	}

	// Local listeners are live feeds that never fail; an error here is
	// logged and the event is still relayed.
	if err := a.relay.Emit(json.RawMessage(data)); err != nil {
		a.logger.ErrorContext(r.Context(), "local delivery failed",
			logger.Component("feedhub"),
			logger.Error(err))
	}
	w.WriteHeader(http.StatusAccepted)
}
