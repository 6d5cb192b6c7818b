// Package redistransport implements relay.Transport on Redis pub/sub.
//
//	var (
//		redisCfg redis.Config
//		cfg      redistransport.Config
//	)
//	config.MustLoad(&redisCfg)
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, redisCfg)
//	if err != nil {
//		return err
//	}
//	builds := relay.New[BuildFinished](redistransport.New(client, cfg.Channel))
//
// Redis pub/sub is fire-and-forget: messages published while a relay is not
// subscribed are not delivered to it.
package redistransport
