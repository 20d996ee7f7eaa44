// Package metrics exposes the Prometheus collectors for the backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AttemptsRecorded counts mastery samples written, by quiz difficulty.
	AttemptsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studyloop",
		Subsystem: "mastery",
		Name:      "attempts_recorded_total",
		Help:      "Number of assessment attempts recorded as mastery samples.",
	}, []string{"difficulty"})

	// AttemptsRejected counts attempts that failed normalization.
	AttemptsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "studyloop",
		Subsystem: "mastery",
		Name:      "attempts_rejected_total",
		Help:      "Number of raw attempts rejected by the result adapters.",
	})

	// RecommendationsServed counts next-step recommendations, by action.
	RecommendationsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studyloop",
		Subsystem: "mastery",
		Name:      "recommendations_served_total",
		Help:      "Number of next-step recommendations served.",
	}, []string{"action"})

	// HTTPRequests counts requests by route, method, and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studyloop",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests processed.",
	}, []string{"route", "method", "status"})

	// HTTPRequestDuration observes request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "studyloop",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)
