package api

import (
	"github.com/starford/tarmac/internal/history"
	"github.com/starford/tarmac/internal/models"
	"github.com/starford/tarmac/internal/query"
)

// FlightListResponse wraps a flight listing.
type FlightListResponse struct {
	Flights []models.Flight `json:"flights"`
	Total   int             `json:"total"`
}

// QueryRequest is the request body for POST /api/query.
type QueryRequest = query.Spec

// QueryResponse is the result payload for one evaluated query.
type QueryResponse = query.Result

// RunListResponse wraps an ingest-run listing.
type RunListResponse struct {
	Runs []history.Run `json:"runs"`
}

// RunErrorsResponse carries one run's rejection messages.
type RunErrorsResponse struct {
	RunID  string   `json:"run_id"`
	Errors []string `json:"errors"`
}
