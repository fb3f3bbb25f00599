package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tarmac/internal/apperr"
	"github.com/starford/tarmac/internal/history"
	"github.com/starford/tarmac/internal/models"
	"github.com/starford/tarmac/internal/query"
)

// Handler holds the API route handlers.
type Handler struct {
	svc    *Service
	ledger history.Ledger
}

// NewHandler creates a new Handler. ledger may be nil when the history
// ledger is not configured; the runs routes are then not mounted.
func NewHandler(svc *Service, ledger history.Ledger) *Handler {
	return &Handler{svc: svc, ledger: ledger}
}

// ListFlights handles GET /api/flights. Every query parameter except limit
// and offset is treated as a case-insensitive equality filter on the named
// field, matching the query engine's semantics.
func (h *Handler) ListFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	var filter map[string]any
	for key, vals := range q {
		if key == "limit" || key == "offset" || len(vals) == 0 {
			continue
		}
		if filter == nil {
			filter = make(map[string]any)
		}
		filter[key] = vals[0]
	}

	res, err := h.svc.Query(query.Spec{Filter: filter})
	if err != nil {
		slog.Error("list flights failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	flights := res.Results
	total := res.Count
	if offset > 0 {
		if offset > len(flights) {
			offset = len(flights)
		}
		flights = flights[offset:]
	}
	if limit > 0 && limit < len(flights) {
		flights = flights[:limit]
	}
	if flights == nil {
		flights = []models.Flight{}
	}

	writeJSON(w, http.StatusOK, FlightListResponse{Flights: flights, Total: total})
}

// GetFlight handles GET /api/flights/{id}.
func (h *Handler) GetFlight(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("flight id is required"))
		return
	}
	flight, err := h.svc.Get(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get flight failed", slog.String("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, flight)
}

// RunQuery handles POST /api/query: one QuerySpec in, one result out.
func (h *Handler) RunQuery(w http.ResponseWriter, r *http.Request) {
	var spec QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid query body: "+err.Error()))
		return
	}

	res, err := h.svc.Query(spec)
	if err != nil {
		// Evaluation errors are caller mistakes (bad bounds), not server faults.
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
