// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//
// Usage:
//
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(log, 2*time.Second,
//		pg.Healthcheck(pool),
//		builds.Healthcheck,
//	))
//
// Dependency checks follow the func(context.Context) error signature
// returned by the database packages' Healthcheck helpers.
package health
