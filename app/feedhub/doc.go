// Package feedhub is a ready-made service around relay and livefeed: it
// accepts JSON events over HTTP, shares them with other feedhub instances
// through Redis or PostgreSQL, and streams them to browsers.
//
// # Configuration
//
//	RELAY_TRANSPORT           memory (default), redis or postgres
//	REDIS_URL                 required for redis
//	RELAY_REDIS_CHANNEL       default notify:events
//	PG_CONN_URL               required for postgres
//	RELAY_PG_CHANNEL          default notify_events
//	SERVER_ADDR               default :8080
//	FEEDHUB_SSE_EVENT         SSE event name, default message
//	FEEDHUB_MAX_EVENT_BYTES   publish body limit, default 65536
//	FEEDHUB_ALLOW_ANY_ORIGIN  accept cross-origin WebSocket clients
//	LOG_LEVEL                 debug, info (default), warn or error
//	LOG_FORMAT                json (default), text or tint
//	LOG_NO_COLOR              disable tint colors
//
// # Usage
//
//	app, err := feedhub.NewApp(ctx)
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
//
// Publish from any instance and every connected browser receives it:
//
//	curl -X POST localhost:8080/publish -d '{"bundle":"app.js"}'
package feedhub
