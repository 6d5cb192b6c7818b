// Package relay extends a broadcast.Broadcaster across process boundaries.
//
// A Relay behaves like a Broadcaster for local subscribers and additionally
// publishes every emitted event through a Transport. Events arriving from
// other processes are emitted to local subscribers. Each relay stamps its
// envelopes with an origin and ignores envelopes carrying its own origin, so
// a process never sees its events twice.
//
// # Transports
//
// The Transport interface is a passive wire carrying encoded envelopes:
//
//   - MemoryHub / MemoryTransport: in-process, for tests and single binaries
//   - redistransport: Redis PUBLISH / SUBSCRIBE
//   - pgtransport: PostgreSQL NOTIFY / LISTEN
//
// # Usage
//
//	client, err := redis.Connect(ctx, redisCfg)
//	if err != nil {
//		return err
//	}
//
//	builds := relay.New[BuildFinished](redistransport.New(client, "notify:events"),
//		relay.WithLogger(log),
//		relay.WithRetryInterval(2*time.Second),
//	)
//	builds.Subscribe(func(e BuildFinished) error {
//		log.Info("bundle rebuilt", "bundle", e.Bundle)
//		return nil
//	})
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(func() error { return builds.Run(ctx) })
//
//	_ = builds.Emit(BuildFinished{Bundle: "app.js"})
//
// # Delivery
//
// Local delivery follows broadcast semantics: synchronous, in registration
// order, lost when nobody is subscribed. Remote delivery is at-least-once
// from the publisher's side: outbound events are held in a
// singlequeue.Queue until the transport accepts them, and a failed publish
// is held and retried every RetryInterval ahead of later events. Errors
// wrapping ErrPermanent, such as an oversized NOTIFY payload, are not
// retried: the event is dropped and counted in Stats.Dropped. Whether a receiver gets an event depends
// on the transport; Redis and PostgreSQL pub/sub drop messages for
// receivers that are not listening.
//
// # Wire Format
//
// Envelopes are JSON objects with id, origin, payload and created_at fields.
// Undecodable envelopes are logged and skipped.
package relay
