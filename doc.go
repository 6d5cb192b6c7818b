// Package notify is a typed, in-process event toolkit with optional
// cross-process and browser delivery.
//
// The module is organized in layers:
//
//   - pkg/broadcast: Broadcaster[T], synchronous fan-out to every subscriber
//   - pkg/singlequeue: Queue[T], one consumer with a FIFO backlog while detached
//   - integration/relay: Relay[T], a Broadcaster shared across processes
//     through Redis, PostgreSQL or an in-memory hub
//   - core/livefeed: WebSocket and SSE handlers following a Broadcaster or Relay
//   - app/feedhub, cmd/feedhub: a standalone service built from the above
//
// Supporting packages provide configuration (core/config), logging
// (core/logger), health probes (core/health), the HTTP server (core/server)
// and database connections (integration/database).
package notify
