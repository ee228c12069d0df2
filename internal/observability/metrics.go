package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rideshare_bff"

var (
	RemoteCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "remote_calls_total", Help: "Calls made to the ride-sharing API"},
		[]string{"operation", "status"},
	)
	RemoteCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Ride-sharing API latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	ValidationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "validation_failures_total", Help: "Requests rejected before reaching the API"},
		[]string{"kind"},
	)
	ActionsRefusedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "actions_refused_total", Help: "Actions refused because one of the same kind was in flight"},
		[]string{"action"},
	)
	RefreshesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: namespace, Name: "refreshes_skipped_total", Help: "Refreshes ignored while another was running"},
	)
	ActivityTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "activity_total", Help: "Completed user activity by action"},
		[]string{"action"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
