package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bike_counter"

// Fetch outcomes and cache results used as label values.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the Prometheus collectors for fetching, caching and asset builds.
type Metrics struct {
	Fetches          *prometheus.CounterVec // labels: outcome={success,empty,error}
	FetchDuration    prometheus.Histogram
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss,error}
	MalformedRecords prometheus.Counter
	AssetBuilds      *prometheus.CounterVec // labels: outcome={success,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Seattle open data queries by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of Seattle open data queries, excluding the fetch deferral.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Monthly bike count cache lookups by result.",
		}, []string{"result"}),
		MalformedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_records_total",
			Help:      "Counter records skipped because a count or date did not parse.",
		}),
		AssetBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "asset_builds_total",
			Help:      "Static asset builds by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Fetches,
		m.FetchDuration,
		m.CacheLookups,
		m.MalformedRecords,
		m.AssetBuilds,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
