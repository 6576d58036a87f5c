package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrymomot/quotaguard/core/feature"
	"github.com/dmitrymomot/quotaguard/core/usage"
	"github.com/dmitrymomot/quotaguard/pkg/resettime"
)

// QuotaConfig configures the feature quota middleware.
type QuotaConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Enforcer makes the quota decision and records the consumed use
	Enforcer usage.Checker
	// Feature is the metered feature this route consumes
	Feature feature.Key
	// UserExtractor extracts the verified caller identity; empty string means
	// unauthenticated and is rejected before any quota work
	UserExtractor func(r *http.Request) string
	// ResetFormatter renders reset times for the denial payload (optional)
	ResetFormatter *resettime.Formatter
	// ErrorHandler overrides the denial response (default: 429/402-style JSON)
	ErrorHandler func(w http.ResponseWriter, r *http.Request, decision *usage.Decision)
}

// Quota creates middleware that gates a route behind a feature quota. The
// quota use is consumed before the handler runs; a denied or failed check
// never reaches the handler.
//
// Enforcement failures return 500: quota counts are billing relevant and
// there is no safe fallback, so the route fails closed.
// Panics if the enforcer, feature, or user extractor is missing.
func Quota(cfg QuotaConfig) func(http.Handler) http.Handler {
	if cfg.Enforcer == nil {
		panic("middleware: quota requires an enforcer")
	}
	if !cfg.Feature.Valid() {
		panic("middleware: quota requires a known feature key")
	}
	if cfg.UserExtractor == nil {
		panic("middleware: quota requires a user extractor")
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(w http.ResponseWriter, r *http.Request, decision *usage.Decision) {
			writeQuotaDenial(w, r, decision, cfg.ResetFormatter)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			userID := cfg.UserExtractor(r)
			if userID == "" {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			decision, err := cfg.Enforcer.CheckAndConsume(r.Context(), userID, cfg.Feature)
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !decision.Allowed {
				cfg.ErrorHandler(w, r, decision)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// quotaDenialBody is the machine-readable denial payload.
type quotaDenialBody struct {
	Error    string `json:"error"`
	Message  string `json:"message"`
	Feature  string `json:"feature"`
	Current  int    `json:"current,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	ResetsAt string `json:"resets_at,omitempty"`
	ResetsIn string `json:"resets_in,omitempty"`
}

func writeQuotaDenial(w http.ResponseWriter, r *http.Request, decision *usage.Decision, formatter *resettime.Formatter) {
	body := quotaDenialBody{
		Error:   string(decision.Reason),
		Feature: decision.Feature.String(),
	}

	switch decision.Reason {
	case usage.ReasonNoSubscription:
		body.Message = "An active subscription is required for this feature."
	case usage.ReasonFeatureNotInTier:
		body.Message = "This feature is not included in your plan."
	case usage.ReasonLimitExceeded:
		body.Message = "You have used up this feature's quota for the current period."
		body.Current = decision.Current
		body.Limit = decision.Limit
		if !decision.ResetAt.IsZero() {
			body.ResetsAt = decision.ResetAt.Format(time.RFC3339)
			if formatter != nil {
				body.ResetsIn = formatter.Format(r.Header.Get("Accept-Language"), decision.ResetAt, time.Now())
			}
		}
	default:
		body.Message = "This feature is not available."
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(body)
}
