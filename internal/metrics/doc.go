// Package metrics defines the Prometheus metrics exported by the server:
// HTTP request counters and latencies, catalog build and sidecar cache
// outcomes, search query timings, and streamed byte counts. Metrics are
// registered via promauto at package load; InitializeMetrics pre-populates
// label combinations and Collector keeps the catalog gauges current.
package metrics
