package feedhub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/notify/core/config"
	"github.com/dmitrymomot/notify/core/health"
	"github.com/dmitrymomot/notify/core/logger"
	"github.com/dmitrymomot/notify/core/server"
	"github.com/dmitrymomot/notify/integration/database/pg"
	"github.com/dmitrymomot/notify/integration/database/redis"
	"github.com/dmitrymomot/notify/integration/relay"
	"github.com/dmitrymomot/notify/integration/relay/pgtransport"
	"github.com/dmitrymomot/notify/integration/relay/redistransport"
)

// App relays opaque JSON events between feedhub instances and streams them
// to browsers.
type App struct {
	config    Config
	logger    *slog.Logger
	server    *server.Server
	transport relay.Transport
	relay     *relay.Relay[json.RawMessage]
	checks    []health.Check
	closers   []func()
}

type AppOption func(*App) error

// NewApp loads configuration from the environment, applies opts, and
// connects the configured transport.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	app := &App{config: cfg}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.logger == nil {
		app.logger = logger.NewFromConfig(app.config.Log,
			logger.WithAttrs(slog.String("service", app.config.AppName)))
	}

	if app.transport == nil {
		t, err := app.connect(ctx)
		if err != nil {
			app.close()
			return nil, err
		}
		app.transport = t
	}
	app.closers = append(app.closers, func() { _ = app.transport.Close() })

	app.relay = relay.New[json.RawMessage](app.transport,
		relay.WithLogger(app.logger),
		relay.WithRetryInterval(app.config.RetryInterval),
	)
	app.checks = append(app.checks, app.relay.Healthcheck)

	if app.server == nil {
		s, err := server.NewFromConfig(app.config.Server, server.WithLogger(app.logger))
		if err != nil {
			app.close()
			return nil, err
		}
		app.server = s
	}

	return app, nil
}

func WithConfig(cfg Config) AppOption {
	return func(app *App) error {
		app.config = cfg
		return nil
	}
}

func WithLogger(logger *slog.Logger) AppOption {
	return func(app *App) error {
		if logger == nil {
			return fmt.Errorf("%w: logger", ErrNilDependency)
		}
		app.logger = logger
		return nil
	}
}

func WithServer(server *server.Server) AppOption {
	return func(app *App) error {
		if server == nil {
			return fmt.Errorf("%w: server", ErrNilDependency)
		}
		app.server = server
		return nil
	}
}

// WithTransport uses t instead of the transport named by RELAY_TRANSPORT.
// The app closes it on shutdown.
func WithTransport(t relay.Transport) AppOption {
	return func(app *App) error {
		if t == nil {
			return fmt.Errorf("%w: transport", ErrNilDependency)
		}
		app.transport = t
		return nil
	}
}

// Relay exposes the event relay so in-process producers can emit directly.
func (a *App) Relay() *relay.Relay[json.RawMessage] {
	return a.relay
}

// Addr returns the HTTP address, resolved once the server is running.
func (a *App) Addr() string {
	return a.server.Addr()
}

// Run serves HTTP and runs the relay until ctx is canceled or either fails,
// then releases the transport and database connections.
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	a.logger.InfoContext(ctx, "feedhub starting",
		slog.String("transport", a.config.Transport),
		logger.ID("origin", a.relay.Origin()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.relay.Run(ctx) })
	g.Go(a.server.Run(ctx, a.Handler()))
	return g.Wait()
}

func (a *App) connect(ctx context.Context) (relay.Transport, error) {
	switch a.config.Transport {
	case "", TransportMemory:
		return relay.NewMemoryHub().Transport(), nil

	case TransportRedis:
		var (
			dbCfg redis.Config
			cfg   redistransport.Config
		)
		if err := config.Load(&dbCfg); err != nil {
			return nil, err
		}
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		a.checks = append(a.checks, redis.Healthcheck(client))
		a.closers = append(a.closers, func() { _ = client.Close() })
		return redistransport.New(client, cfg.Channel), nil

	case TransportPostgres:
		var (
			dbCfg pg.Config
			cfg   pgtransport.Config
		)
		if err := config.Load(&dbCfg); err != nil {
			return nil, err
		}
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, dbCfg)
		if err != nil {
			return nil, err
		}
		a.checks = append(a.checks, pg.Healthcheck(pool))
		a.closers = append(a.closers, pool.Close)
		return pgtransport.New(pool, cfg.Channel), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransport, a.config.Transport)
	}
}

// close releases resources in reverse order of acquisition.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
