// Package livefeed streams events from a broadcast.Broadcaster or a
// relay.Relay to browsers over WebSocket or Server-Sent Events.
//
// Each connection subscribes its own listener for as long as the client is
// connected. The listener hands events to a small per-connection buffer, so
// a slow client never delays the emitter or other clients; when the buffer
// is full, events are dropped for that client and a warning is logged.
//
// # Usage
//
//	builds := broadcast.New[BuildFinished]()
//
//	mux := http.NewServeMux()
//	mux.Handle("/live", livefeed.WebSocket[BuildFinished](builds, livefeed.WithLogger(log)))
//	mux.Handle("/events", livefeed.SSE[BuildFinished](builds,
//		livefeed.WithEventName("build"),
//		livefeed.WithKeepAlive(15*time.Second),
//	))
//
// In the browser:
//
//	const es = new EventSource("/events");
//	es.addEventListener("build", () => location.reload());
//
// WebSocket upgrades are same-origin only unless WithAllowAnyOrigin or
// WithOriginCheck is given.
package livefeed
