package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit rejects requests beyond perMinute with 429. Reconciliation runs
// are heavy full recomputes, so the trigger endpoint is throttled globally
// rather than per client.
func RateLimit(perMinute int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSONError(w, http.StatusTooManyRequests, "rate_limited", "too many reconciliation runs requested")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
