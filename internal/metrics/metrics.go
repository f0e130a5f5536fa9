// Package metrics provides Prometheus metrics for the intlakaa server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by route pattern and status code.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intlakaa",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration measures HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "intlakaa",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LeadsCreated counts submitted lead requests.
	LeadsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "intlakaa",
			Name:      "leads_created_total",
			Help:      "Total number of lead requests submitted through the public form",
		},
	)

	// RateLimited counts requests rejected by a rate limiter.
	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "intlakaa",
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by rate limiting",
		},
		[]string{"group"},
	)

	// InvitesPurged counts pending accounts removed by the invite sweep.
	InvitesPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "intlakaa",
			Name:      "invites_purged_total",
			Help:      "Total number of never-activated invited accounts removed",
		},
	)
)

// RecordRequest records one served HTTP request.
func RecordRequest(method, route, status string, seconds float64) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(seconds)
}
