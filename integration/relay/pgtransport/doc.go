// Package pgtransport implements relay.Transport on PostgreSQL NOTIFY and
// LISTEN, for deployments that already run PostgreSQL and have no broker.
//
//	pool, err := pg.Connect(ctx, pgCfg)
//	if err != nil {
//		return err
//	}
//	builds := relay.New[BuildFinished](pgtransport.New(pool, "notify_events"))
//
// Notifications are limited to MaxPayloadSize bytes; larger envelopes fail
// with ErrPayloadTooLarge, which wraps relay.ErrPermanent, and the relay
// drops them. Keep payloads small or send references instead of documents.
//
// Notifications sent inside a transaction are delivered on commit. Like
// Redis pub/sub, receivers that are not listening miss them.
package pgtransport
