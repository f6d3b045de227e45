// Package metrics defines Prometheus metrics for the inventory server.
//
// Metric naming follows Prometheus conventions:
//   - inventory_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts handled requests by route pattern, method and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Total HTTP requests by route, method and status code.",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDurationSeconds is a histogram of request latency by route.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// SignInsTotal counts sign-in attempts by method (password, sso) and outcome.
	SignInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_sign_ins_total",
			Help: "Total sign-in attempts by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	// ResourceMutationsTotal counts successful writes by resource kind and operation.
	ResourceMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_resource_mutations_total",
			Help: "Total resource writes by kind and operation.",
		},
		[]string{"kind", "op"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		SignInsTotal,
		ResourceMutationsTotal,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records metrics for one completed HTTP request. route is the
// matched mux pattern, never the raw path, to keep cardinality bounded.
func RecordRequest(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPRequestDurationSeconds.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordSignIn records a single sign-in attempt.
func RecordSignIn(method, outcome string) {
	SignInsTotal.WithLabelValues(method, outcome).Inc()
}

// RecordMutation records a single successful resource write.
func RecordMutation(kind, op string) {
	ResourceMutationsTotal.WithLabelValues(kind, op).Inc()
}
