package health

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/quotaguard/core/logger"
)

// Check is a single dependency probe.
type Check func(context.Context) error

// Liveness indicates the service process is running. Always returns "ALIVE"
// with 200 OK and performs no dependency checks.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ALIVE")
	}
}

// NoContent returns HTTP 204 without a body. Ideal for high-frequency
// checks.
func NoContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// Readiness verifies all service dependencies are functioning. Returns
// "READY" if every check passes, 503 Service Unavailable on the first
// failure.
//
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//	))
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "READY")
	}
}
