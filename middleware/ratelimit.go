package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrymomot/quotaguard/pkg/clientip"
	"github.com/dmitrymomot/quotaguard/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Limiter is the rate limiting implementation to use
	Limiter ratelimiter.Checker
	// KeyExtractor defines how to extract the rate limiting key from requests (default: client IP)
	KeyExtractor func(r *http.Request) string
	// ErrorHandler defines how to handle rate limit violations (default: 429 JSON body)
	ErrorHandler func(w http.ResponseWriter, r *http.Request, result *ratelimiter.Result)
	// SetHeaders determines whether to include rate limit information in response headers
	SetHeaders bool
}

// RateLimit creates a rate limiting middleware with the provided
// configuration. The limiter's own failure semantics apply: a shared store
// outage degrades to the in-process fallback inside the limiter, never to an
// unthrottled pass-through here.
// Panics if no limiter is provided.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Limiter == nil {
		panic("middleware: rate limit requires a limiter")
	}
	if cfg.KeyExtractor == nil {
		cfg.KeyExtractor = func(r *http.Request) string {
			return clientip.GetIP(r)
		}
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultRateLimitError
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			result, err := cfg.Limiter.Check(r.Context(), cfg.KeyExtractor(r))
			if err != nil {
				// Empty identity or equivalent misuse; nothing to throttle on.
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if cfg.SetHeaders {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
			}

			if !result.Allowed() {
				cfg.ErrorHandler(w, r, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func defaultRateLimitError(w http.ResponseWriter, r *http.Request, result *ratelimiter.Result) {
	retryAfter := int(result.RetryAfter().Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests. Please slow down.",
		"retry_after": retryAfter,
	})
}
