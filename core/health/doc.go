// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: process is running (no dependency checks)
//   - Readiness: all dependencies are available
//   - NoContent: returns 204 for minimal overhead
//
// Usage:
//
//	mux.Handle("GET /health/live", health.Liveness())
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//	))
//	mux.Handle("GET /ping", health.NoContent())
//
// Dependency checks follow the func(context.Context) error signature, which
// is exactly what the pg and redis integrations' Healthcheck constructors
// return.
package health
