package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tarmac/internal/history"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// ledger, if non-nil, adds the ingest-run routes; sseHandler, if non-nil,
// is mounted at GET /events. Both inside the auth group.
func NewRouter(svc *Service, ledger history.Ledger, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, ledger)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Get("/flights", h.ListFlights)
	r.Get("/flights/{id}", h.GetFlight)
	r.Post("/query", h.RunQuery)

	if ledger != nil {
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}/errors", h.GetRunErrors)
	}

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
