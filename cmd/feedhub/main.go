package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/notify/app/feedhub"
	"github.com/dmitrymomot/notify/core/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := feedhub.NewApp(ctx)
	if err != nil {
		slog.Error("failed to initialize feedhub", logger.Error(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		slog.Error("feedhub stopped", logger.Error(err))
		os.Exit(1)
	}
}
