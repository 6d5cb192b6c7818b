// Package logger provides the slog logger constructor and the attribute
// helpers shared by the notify packages.
//
// Every package in this module logs through a *slog.Logger injected with a
// WithLogger option. The helpers here keep attribute keys consistent across
// broadcasters, queues, relays and live feeds.
//
// # Constructing a Logger
//
//	var cfg logger.Config // LOG_LEVEL, LOG_FORMAT
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg, logger.WithAttrs(slog.String("service", "feedhub")))
//
// # Attribute Helpers
//
//	log.Error("listener failed",
//		logger.Component("broadcast"),
//		logger.Count("position", 2),
//		logger.Error(err),
//	)
//
//	log.Info("relay started",
//		logger.Component("relay"),
//		logger.ID("origin", relay.Origin()),
//		logger.Count("pending", relay.PendingCount()),
//	)
//
//	log.Warn("outbound publish failed",
//		logger.Channel("notify:events"),
//		logger.RetryCount(attempt),
//		logger.Duration(time.Since(start)),
//	)
//
// # Nil Safety
//
// Error, Errors, ID and Channel return an empty slog.Attr for nil or empty
// input. slog drops empty attributes, so callers never need nil checks:
//
//	log.Info("delivery finished", logger.Error(err)) // no "error" key when err == nil
//
// # Grouping
//
//	log.Info("relay stopped",
//		logger.Group("stats",
//			slog.Int64("published", stats.Published),
//			slog.Int64("received", stats.Received),
//		),
//	)
package logger
