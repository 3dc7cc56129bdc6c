// Package metrics holds the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPDuration observes request latency per route and status class.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cartshare",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// InviteTransitions counts invite state-machine transitions by target
	// state (accepted, declined, cancelled) plus "sent" for creation.
	InviteTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartshare",
		Name:      "invite_transitions_total",
		Help:      "Invite lifecycle transitions.",
	}, []string{"to"})

	// CapacityRejections counts writes refused by a cardinality cap.
	CapacityRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartshare",
		Name:      "capacity_rejections_total",
		Help:      "Operations rejected by the collaborator or item cap.",
	}, []string{"limit"})

	// RateLimited counts requests refused by the API rate limiter.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "cartshare",
		Name:      "rate_limited_requests_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)
