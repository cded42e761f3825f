// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// Prometheus metrics for the dispatch engine, the debug HTTP server, and
// the optional NATS transport's circuit breaker.

var (
	// Dispatch engine metrics.

	EventsEnqueuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_events_enqueued_total",
			Help: "Total number of events accepted into the queue.",
		},
	)

	BatchesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_batches_sent_total",
			Help: "Total number of batches handed to the transport, by outcome.",
		},
		[]string{"outcome"}, // "success", "terminal_drop"
	)

	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_batch_size",
			Help:    "Number of events contained in each flushed batch.",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
	)

	FlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_flush_duration_seconds",
			Help:    "Wall-clock time spent in a single flush, including transport round trip.",
			Buckets: prometheus.DefBuckets,
		},
	)

	TerminalDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_terminal_drops_total",
			Help: "Total number of events dropped permanently (4xx response or retry budget exhausted).",
		},
	)

	BufferEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_buffer_evictions_total",
			Help: "Total number of events evicted from the head of the queue to make room under MaxBufferSize.",
		},
	)

	RetriesScheduledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_retries_scheduled_total",
			Help: "Total number of retry timers scheduled after a retryable batch failure.",
		},
	)

	RetryDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_retry_delay_seconds",
			Help:    "Backoff delay chosen for each scheduled retry.",
			Buckets: []float64{0.5, 1, 2, 4, 8, 16, 32, 64, 128, 300},
		},
	)

	QueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dispatch_queue_depth",
			Help: "Current number of events held in the queue.",
		},
	)

	// Debug HTTP server metrics.

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debugserver_requests_total",
			Help: "Total number of requests served by the debug HTTP server.",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "debugserver_request_duration_seconds",
			Help:    "Debug HTTP server request latency.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debugserver_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiting.",
		},
		[]string{"route"},
	)

	// Live event stream (websocket) metrics.

	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "debugserver_ws_connections_active",
			Help: "Current number of connected live-event-stream clients.",
		},
	)

	WSMessagesSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "debugserver_ws_messages_sent_total",
			Help: "Total number of dispatcher lifecycle events broadcast to websocket clients.",
		},
	)

	WSMessagesDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "debugserver_ws_messages_dropped_total",
			Help: "Total number of broadcast messages dropped because a client's send buffer was full.",
		},
	)

	// Circuit breaker metrics (NATS transport).

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state: 0=closed, 1=half-open, 2=open.",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions.",
		},
		[]string{"name", "from", "to"},
	)
)

// RecordAPIRequest records a single debug HTTP server request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimitHit records a request rejected by the debug server's rate limiter.
func RecordRateLimitHit(route string) {
	APIRateLimitHits.WithLabelValues(route).Inc()
}

// RecordCircuitBreakerTransition records a gobreaker state change for the named breaker.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitionsTotal.WithLabelValues(name, from, to).Inc()
}

// TrackWSConnection adjusts the active live-stream connection gauge.
func TrackWSConnection(connected bool) {
	if connected {
		WSConnectionsActive.Inc()
		return
	}
	WSConnectionsActive.Dec()
}

// DispatchAdapter implements dispatch.Metrics on top of the package's
// Prometheus collectors, so the dispatch engine never imports the
// Prometheus client library directly.
type DispatchAdapter struct{}

// NewDispatchAdapter returns a dispatch.Metrics backed by Prometheus.
func NewDispatchAdapter() *DispatchAdapter {
	return &DispatchAdapter{}
}

func (DispatchAdapter) RecordEnqueue() {
	EventsEnqueuedTotal.Inc()
}

func (DispatchAdapter) RecordBatchSent(n int) {
	BatchesSentTotal.WithLabelValues("success").Inc()
	BatchSize.Observe(float64(n))
}

func (DispatchAdapter) RecordTerminalDrop(count int) {
	TerminalDropsTotal.Add(float64(count))
	BatchesSentTotal.WithLabelValues("terminal_drop").Inc()
}

func (DispatchAdapter) RecordBufferEviction(count int) {
	BufferEvictionsTotal.Add(float64(count))
}

func (DispatchAdapter) RecordRetryScheduled(delay time.Duration) {
	RetriesScheduledTotal.Inc()
	RetryDelay.Observe(delay.Seconds())
}

func (DispatchAdapter) SetQueueDepth(depth int) {
	QueueDepth.Set(float64(depth))
}

var _ dispatch.Metrics = (*DispatchAdapter)(nil)
