package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, result := range []string{"hit", "miss", "invalid"} {
		CacheLoadsTotal.WithLabelValues(result)
	}

	for _, endpoint := range []string{"feed", "suggest"} {
		SearchQueriesTotal.WithLabelValues(endpoint)
		SearchDuration.WithLabelValues(endpoint)
		SearchResultsReturned.WithLabelValues(endpoint)
	}

	for _, kind := range []string{"full", "range", "unsatisfiable", "not_found"} {
		StreamRequestsTotal.WithLabelValues(kind)
	}
}
