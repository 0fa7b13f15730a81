// Package metrics defines Prometheus metrics for graphcrawl.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphcrawl_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphcrawl_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphcrawl_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "graphcrawl_fetch_duration_seconds",
			Help:    "Neighbor lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	FetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphcrawl_fetches_total",
			Help: "Total neighbor lookups by outcome",
		},
		[]string{"outcome"},
	)

	TraversalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "graphcrawl_traversals_total",
			Help: "Total traversals by outcome",
		},
		[]string{"outcome"},
	)

	LevelSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "graphcrawl_level_size",
			Help:    "Number of nodes discovered per closed level",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	ActiveWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphcrawl_active_workers",
			Help: "Level workers currently expanding nodes",
		},
	)

	StreamConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "graphcrawl_stream_connections",
			Help: "Active WebSocket level streams",
		},
	)
)

// Fetch outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeFetchError  = "fetch_error"
	OutcomeDecodeError = "decode_error"
	OutcomeCanceled    = "canceled"
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		FetchDuration, FetchesTotal, TraversalsTotal,
		LevelSize, ActiveWorkers, StreamConnections,
	)
}
