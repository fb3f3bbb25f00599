// Package metrics defines the Prometheus collectors exposed by serve mode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for the flight API.
type Metrics struct {
	FlightsLoaded prometheus.Gauge
	StoreReloads  prometheus.Counter
	QueriesRun    prometheus.Counter
	QueryDuration prometheus.Histogram
}

// New registers the collectors on reg under the given namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FlightsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "flights_loaded",
			Help:      "Number of flight records currently loaded from the store.",
		}),
		StoreReloads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_reloads_total",
			Help:      "Total number of store reloads triggered by the watcher.",
		}),
		QueriesRun: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of queries evaluated by the API.",
		}),
		QueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time taken to evaluate one query.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
