package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/tarmac/internal/history"
)

// ListRuns handles GET /api/runs: recorded ingest runs, most recent first.
// A limit query parameter caps the listing; non-positive means all.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	runs, err := h.ledger.ListRuns(limit)
	if err != nil {
		slog.Error("list runs failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
}

// GetRunErrors handles GET /api/runs/{id}/errors: the rejection messages of
// one recorded run, in recorded order.
func (h *Handler) GetRunErrors(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("run id is required"))
		return
	}
	msgs, err := h.ledger.RunErrors(id)
	if err != nil {
		slog.Error("run errors failed", slog.String("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if msgs == nil {
		msgs = []string{}
	}
	writeJSON(w, http.StatusOK, RunErrorsResponse{RunID: id, Errors: msgs})
}
