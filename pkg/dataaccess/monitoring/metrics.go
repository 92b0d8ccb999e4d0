package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreLatency is the duration of store queries.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_store_latency",
			Help: "Duration of store queries",
		},
		[]string{"dal", "query", "backend", "collection"},
	)

	// StoreTotalRequests is the total number of store requests.
	StoreTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_store_total_requests",
			Help: "Total number of store requests",
		},
		[]string{"dal", "query", "backend", "collection"},
	)
)

// Observe counts a store request and returns a function that records its latency.
func Observe(dal, query, backend, collection string) func() {
	StoreTotalRequests.WithLabelValues(dal, query, backend, collection).Inc()
	t := prometheus.NewTimer(StoreLatency.WithLabelValues(dal, query, backend, collection))
	return func() {
		t.ObserveDuration()
	}
}
