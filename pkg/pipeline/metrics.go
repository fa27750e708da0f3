package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resourceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_resource_requests_total",
		Help: "Total resource read requests by resource and outcome",
	}, []string{"resource", "outcome"}) // outcome: "hit", "miss", "error"

	resourceRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mcp_resource_request_duration_seconds",
		Help:    "Resource read duration in seconds by resource",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"resource"})

	resourceErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mcp_resource_errors_total",
		Help: "Total classified resource read errors by resource and kind",
	}, []string{"resource", "kind"})
)
