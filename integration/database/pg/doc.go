// Package pg provides PostgreSQL connection pool setup and health checking
// for the LISTEN/NOTIFY relay transport.
//
// This package wraps pgx's pgxpool with connection verification and
// exponential backoff retry logic, so services restarting together do not
// fail on a database that is still starting up.
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//	}
//
// A listening relay holds one pool connection for as long as it runs, so
// MaxOpenConns must leave room for publishers.
//
// # Usage Example
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	transport := pgtransport.New(pool, "notify_events")
//
// # Error Handling
//
//   - ErrEmptyConnectionString: no connection string was provided
//   - ErrFailedToParseDBConfig: the connection string could not be parsed
//   - ErrFailedToOpenDBConnection: the pool could not be created or pinged
//   - ErrHealthcheckFailed: a health check ping failed
package pg
