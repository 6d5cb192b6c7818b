package livefeed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrymomot/notify/core/logger"
)

// SSE returns a handler that streams every event of src to the client as
// Server-Sent Events with JSON data.
func SSE[T any](src Source[T], opts ...Option) http.HandlerFunc {
	o := newOptions(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		start := time.Now()
		f := attach(src, o.bufferSize, o.logger, "sse")
		defer f.close(o.logger, "sse", start)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		_, _ = fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		var keepAlive <-chan time.Time
		if o.keepAlive > 0 {
			ticker := time.NewTicker(o.keepAlive)
			defer ticker.Stop()
			keepAlive = ticker.C
		}

		for {
			select {
			case <-r.Context().Done():
				return

			case <-keepAlive:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				flusher.Flush()

			case event := <-f.events:
				data, err := json.Marshal(event)
				if err != nil {
					o.logger.Error("event skipped, cannot encode",
						logger.Component("livefeed"),
						logger.Error(err))
					continue
				}
				if err := writeEvent(w, o.eventName, data); err != nil {
					return
				}
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w io.Writer, name string, data []byte) error {
	if name != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", name); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
