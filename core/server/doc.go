// Package server wraps http.Server with graceful shutdown, environment
// configuration and errgroup-friendly lifecycle management.
//
// # Basic Usage
//
//	srv := server.New(":8080",
//		server.WithLogger(log),
//		server.WithShutdownTimeout(10*time.Second),
//	)
//
//	g, ctx := errgroup.WithContext(ctx)
//	g.Go(srv.Run(ctx, mux))
//	g.Go(func() error { return builds.Run(ctx) })
//	if err := g.Wait(); err != nil {
//		log.Error("service stopped", logger.Error(err))
//	}
//
// # Configuration
//
//	var cfg server.Config // SERVER_ADDR, SERVER_*_TIMEOUT, SERVER_TLS_*
//	config.MustLoad(&cfg)
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//
// TLS is enabled when both SERVER_TLS_CERT_FILE and SERVER_TLS_KEY_FILE are
// set. The write timeout defaults to zero because WebSocket and SSE
// responses stay open for the lifetime of the client.
//
// # Lifecycle
//
// Start binds synchronously, so an address in use is reported at once, and
// Addr returns the bound address (useful with ":0" in tests). Requests carry
// the Start context: canceling it ends streaming handlers and lets Stop
// drain the remaining connections within the shutdown timeout.
package server
