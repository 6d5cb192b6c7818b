package livefeed

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/notify/core/logger"
)

// WebSocket returns a handler that upgrades the request and streams every
// event of src to the client as a JSON text frame. Messages from the client
// are read and discarded; the stream ends when the client goes away or stops
// answering pings.
func WebSocket[T any](src Source[T], opts ...Option) http.HandlerFunc {
	o := newOptions(opts)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     o.checkOrigin,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Subscribe before the handshake completes so the client misses
		// nothing emitted after its dial returns.
		f := attach(src, o.bufferSize, o.logger, "websocket")
		defer f.close(o.logger, "websocket", start)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already replied with an HTTP error.
			o.logger.Debug("websocket upgrade rejected",
				logger.Component("livefeed"),
				logger.Error(err))
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// A client that misses two pings in a row is treated as gone.
		var pongWait time.Duration
		if o.keepAlive > 0 {
			pongWait = 2 * o.keepAlive
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
		}

		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
				if pongWait > 0 {
					_ = conn.SetReadDeadline(time.Now().Add(pongWait))
				}
			}
		}()

		var ping <-chan time.Time
		if o.keepAlive > 0 {
			ticker := time.NewTicker(o.keepAlive)
			defer ticker.Stop()
			ping = ticker.C
		}

		for {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				return

			case <-ping:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}

			case event := <-f.events:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(event); err != nil {
					o.logger.Debug("websocket write failed",
						logger.Component("livefeed"),
						logger.Error(err))
					return
				}
			}
		}
	}
}
