// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call names used as the "call" label.
const (
	CallToken  = "token"
	CallSearch = "search"
)

// Upstream call outcomes used as the "outcome" label.
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "bad_status"
	OutcomeFailed    = "failed"
	OutcomeMalformed = "malformed"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_proxy_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "food_proxy_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "food_proxy_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Upstream (FatSecret) call metrics
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "food_proxy_upstream_calls_total",
			Help: "Total number of calls to the FatSecret API by call and outcome",
		},
		[]string{"call", "outcome"},
	)

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "food_proxy_upstream_call_duration_seconds",
			Help:    "FatSecret API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"call"},
	)

	// Items dropped by the food_type filter
	FilteredFoodsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "food_proxy_filtered_foods_total",
			Help: "Total number of upstream foods removed by the food_type filter",
		},
	)
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(call, outcome string, seconds float64) {
	UpstreamCallsTotal.WithLabelValues(call, outcome).Inc()
	UpstreamCallDuration.WithLabelValues(call).Observe(seconds)
}
