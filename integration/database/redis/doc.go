// Package redis provides Redis client initialization and health checking
// for the shared rate limit counters.
//
// Connect validates the connection URL, dials with retry and backoff, and
// verifies connectivity with a ping before returning, so a returned client
// is known good at startup. Runtime outages are handled downstream by the
// rate limiter's in-process fallback.
//
//	cfg := redis.Config{
//		ConnectionURL: os.Getenv("REDIS_URL"),
//		RetryAttempts: 3,
//		RetryInterval: 5 * time.Second,
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
// Healthcheck produces a probe function for readiness endpoints:
//
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := redis.Healthcheck(client)(r.Context()); err != nil {
//			http.Error(w, "Redis unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
package redis
