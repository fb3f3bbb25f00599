package api

import (
	"strings"
	"sync"
	"time"

	"github.com/starford/tarmac/internal/apperr"
	"github.com/starford/tarmac/internal/metrics"
	"github.com/starford/tarmac/internal/models"
	"github.com/starford/tarmac/internal/query"
	"github.com/starford/tarmac/internal/store"
)

// Service serves a read-only, reloadable snapshot of the flight store.
//
// The snapshot is replaced wholesale on Reload; individual records are
// never mutated, so handing out the shared slice is safe.
type Service struct {
	dbPath string
	m      *metrics.Metrics

	mu      sync.RWMutex
	flights []models.Flight
}

// NewService creates a service over the database file at dbPath.
// m may be nil when metrics are not collected (tests, mcp mode).
func NewService(dbPath string, m *metrics.Metrics) *Service {
	return &Service{dbPath: dbPath, m: m}
}

// Reload replaces the snapshot from the database file and returns the new
// record count.
func (s *Service) Reload() (int, error) {
	flights, err := store.LoadDB(s.dbPath)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	s.flights = flights
	s.mu.Unlock()

	if s.m != nil {
		s.m.FlightsLoaded.Set(float64(len(flights)))
		s.m.StoreReloads.Inc()
	}
	return len(flights), nil
}

// Flights returns the current snapshot.
func (s *Service) Flights() []models.Flight {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flights
}

// Get returns the first record whose flight_id matches, case-insensitively.
func (s *Service) Get(flightID string) (*models.Flight, error) {
	for _, f := range s.Flights() {
		if strings.EqualFold(f.FlightID, flightID) {
			return &f, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Query evaluates one spec against the current snapshot.
func (s *Service) Query(spec query.Spec) (query.Result, error) {
	start := time.Now()
	res, err := query.Evaluate(s.Flights(), spec)
	if s.m != nil {
		s.m.QueriesRun.Inc()
		s.m.QueryDuration.Observe(time.Since(start).Seconds())
	}
	return res, err
}
