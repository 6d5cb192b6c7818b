// Package redis provides Redis client initialization and health checking for
// the Redis relay transport.
//
// This package wraps go-redis/redis with URL validation, connection
// verification and retry logic for transient network issues.
//
// # Configuration
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//	}
//
// Both redis:// and rediss:// (TLS) URLs are accepted.
//
// # Usage Example
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	transport := redistransport.New(client, "notify:events")
//	builds := relay.New[BuildFinished](transport)
//
// # Health Checking
//
//	check := redis.Healthcheck(client)
//	if err := check(ctx); err != nil {
//		// errors.Is(err, redis.ErrHealthcheckFailed)
//	}
//
// # Error Handling
//
//   - ErrEmptyConnectionURL: no connection URL was provided
//   - ErrFailedToParseRedisConnString: the URL is malformed or uses another scheme
//   - ErrRedisNotReady: PING did not succeed within the retry budget
//   - ErrHealthcheckFailed: a health check PING failed
//
// Connect retries with exponential backoff (RetryInterval, then doubling) and
// aborts early when the context or ConnectTimeout expires.
package redis
