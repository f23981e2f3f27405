// Package metrics exposes Prometheus collectors shared by the HTTP layer and
// the record store client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts HTTP requests by method, route and status.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// StoreCallsTotal counts record store calls by operation and outcome.
	StoreCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_store_calls_total",
			Help: "Total number of record store calls",
		},
		[]string{"operation", "outcome"},
	)
	// BatchDeleteItems counts individual deletions issued by batch deletes.
	BatchDeleteItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_batch_delete_items_total",
			Help: "Individual deletions issued by batch deletes",
		},
		[]string{"outcome"},
	)
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// OutcomeOf maps an error to an outcome label.
func OutcomeOf(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
