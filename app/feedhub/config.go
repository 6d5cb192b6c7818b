package feedhub

import (
	"time"

	"github.com/dmitrymomot/notify/core/logger"
	"github.com/dmitrymomot/notify/core/server"
)

// Transport names accepted by RELAY_TRANSPORT.
const (
	TransportMemory   = "memory"
	TransportRedis    = "redis"
	TransportPostgres = "postgres"
)

type Config struct {
	Server server.Config
	Log    logger.Config

	AppName        string        `env:"APP_NAME" envDefault:"feedhub"`
	Transport      string        `env:"RELAY_TRANSPORT" envDefault:"memory"`
	RetryInterval  time.Duration `env:"RELAY_RETRY_INTERVAL" envDefault:"1s"`
	EventName      string        `env:"FEEDHUB_SSE_EVENT" envDefault:"message"`
	MaxEventBytes  int64         `env:"FEEDHUB_MAX_EVENT_BYTES" envDefault:"65536"`
	AllowAnyOrigin bool          `env:"FEEDHUB_ALLOW_ANY_ORIGIN" envDefault:"false"`
	ClientBuffer   int           `env:"FEEDHUB_CLIENT_BUFFER" envDefault:"16"`
}
