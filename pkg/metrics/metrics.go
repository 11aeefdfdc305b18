package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	ExtractionsTotal    *prometheus.CounterVec
	FetchesTotal        *prometheus.CounterVec
	FetchDuration       *prometheus.HistogramVec
	CacheLookupsTotal   *prometheus.CounterVec
	ItemsExtracted      *prometheus.GaugeVec
)

var once sync.Once

// Init registers the collectors with the default registry. Calling it more
// than once is a no-op.
func Init() {
	once.Do(register)
}

func register() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_extractions_total",
			Help: "Extraction runs by winning strategy and outcome.",
		},
		[]string{"strategy", "outcome"}, // outcome: ok, no_match, fetch_failure
	)

	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_fetches_total",
			Help: "Upstream fetches by document kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listings_fetch_duration_seconds",
			Help:    "Duration of upstream fetches.",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"kind"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_cache_lookups_total",
			Help: "Freshness cache lookups by result.",
		},
		[]string{"result"}, // hit, miss, error
	)

	ItemsExtracted = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "listings_items",
			Help: "Number of items returned by the latest extraction, for the default organization or \"other\".",
		},
		[]string{"org_id"},
	)
}
