package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reels_server_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reels_server_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reels_server_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Catalog build metrics
var (
	CatalogBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reels_server_catalog_builds_total",
			Help: "Total number of catalog builds",
		},
	)

	CatalogBuildErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reels_server_catalog_build_errors_total",
			Help: "Total number of failed catalog builds",
		},
	)

	CatalogBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reels_server_catalog_build_duration_seconds",
			Help:    "Catalog build duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	CatalogLastBuildTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reels_server_catalog_last_build_timestamp",
			Help: "Unix timestamp of the last completed catalog build",
		},
	)

	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reels_server_catalog_entries",
			Help: "Number of entries in the current catalog",
		},
	)

	CatalogFolders = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reels_server_catalog_folders",
			Help: "Number of distinct folders in the current catalog",
		},
	)
)

// Sidecar cache metrics
var (
	CacheLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reels_server_cache_loads_total",
			Help: "Total number of sidecar cache load attempts",
		},
		[]string{"result"}, // "hit", "miss", "invalid"
	)

	CacheSaveErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reels_server_cache_save_errors_total",
			Help: "Total number of failed sidecar cache writes",
		},
	)
)

// Search metrics
var (
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reels_server_search_queries_total",
			Help: "Total number of search queries",
		},
		[]string{"endpoint"}, // "feed", "suggest"
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reels_server_search_duration_seconds",
			Help:    "Search filter and ranking duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"endpoint"},
	)

	SearchResultsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reels_server_search_results_returned",
			Help:    "Number of entries matched before pagination",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"endpoint"},
	)
)

// Streaming metrics
var (
	StreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reels_server_stream_requests_total",
			Help: "Total number of streaming requests",
		},
		[]string{"kind"}, // "full", "range", "unsatisfiable", "not_found"
	)

	StreamBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reels_server_stream_bytes_total",
			Help: "Total number of file bytes served by range responses",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reels_server_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
