// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// View Session Metrics
	ViewSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guestmap_view_sessions_active",
			Help: "Current number of open map view sessions",
		},
	)

	ViewSessionsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guestmap_view_sessions_opened_total",
			Help: "Total number of map view sessions opened",
		},
	)

	ViewSessionsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestmap_view_sessions_closed_total",
			Help: "Total number of map view sessions closed",
		},
		[]string{"reason"}, // client, expired, shutdown
	)

	// Location Metrics
	LocationResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestmap_location_resolutions_total",
			Help: "Location resolutions by source and outcome",
		},
		[]string{"source", "outcome"}, // source: device, ip; outcome: success, failure
	)

	GeoIPLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestmap_geoip_lookups_total",
			Help: "IP geolocation lookups by provider and result",
		},
		[]string{"provider", "result"}, // result: success, error, cache_hit, private, rate_limited
	)

	// Submission Metrics
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestmap_submissions_total",
			Help: "Message submissions by outcome",
		},
		[]string{"outcome"}, // sent, failed, rejected
	)

	// Message Service Metrics
	MessageFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestmap_message_fetches_total",
			Help: "Message list fetches by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	MessagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guestmap_messages_rejected_total",
			Help: "Message records dropped at parse time",
		},
		[]string{"reason"}, // decode, validation
	)

	MessageGroupSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "guestmap_message_group_size",
			Help:    "Number of messages per map marker",
			Buckets: []float64{1, 2, 3, 5, 10, 25, 50, 100},
		},
	)

	// External Service Metrics
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guestmap_external_call_duration_seconds",
			Help:    "Duration of calls to external services",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordExternalCall observes the duration of a call to an external service.
func RecordExternalCall(service, operation string, duration time.Duration) {
	ExternalCallDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordMessageFetch records the outcome of a message list fetch and the
// number of records dropped while parsing it.
func RecordMessageFetch(err error, decodeRejects, validationRejects int) {
	if err != nil {
		MessageFetches.WithLabelValues("failure").Inc()
		return
	}
	MessageFetches.WithLabelValues("success").Inc()
	if decodeRejects > 0 {
		MessagesRejected.WithLabelValues("decode").Add(float64(decodeRejects))
	}
	if validationRejects > 0 {
		MessagesRejected.WithLabelValues("validation").Add(float64(validationRejects))
	}
}

// RecordGroupSizes observes the size of each message group.
func RecordGroupSizes(sizes []int) {
	for _, n := range sizes {
		MessageGroupSize.Observe(float64(n))
	}
}

// RecordLocation records a location resolution attempt.
func RecordLocation(source string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	LocationResolutions.WithLabelValues(source, outcome).Inc()
}
