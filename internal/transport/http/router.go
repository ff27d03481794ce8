package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cohortcompare/internal/platform/middleware"
)

// NewRouter wires all endpoints. Run triggers sit behind authentication and
// a global rate limit; reads are open.
func NewRouter(h *Handler, auth *middleware.Authenticator, runsPerMinute int) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/runs/latest", h.handleLatestRun)
	r.Get("/runs/{runID}", h.handleGetRun)
	r.Get("/runs/{runID}/discrepancies", h.handleDiscrepancies)

	r.Group(func(r chi.Router) {
		r.Use(auth.Require)
		r.Use(middleware.RateLimit(runsPerMinute))
		r.Post("/runs", h.handleTriggerRun)
	})

	return r
}
