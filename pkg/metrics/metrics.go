package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestTotal counts handled HTTP requests by route, method and status.
	RequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citysafe_http_requests_total",
		Help: "Total HTTP requests handled by the stub server.",
	}, []string{"path", "method", "status"})

	// RequestDuration observes request latency by route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "citysafe_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})

	// ReportsSubmitted counts reports accepted by the stub server.
	ReportsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citysafe_reports_submitted_total",
		Help: "Reports accepted via POST /reports.",
	})
)
