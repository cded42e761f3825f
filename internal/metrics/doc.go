// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

/*
Package metrics provides Prometheus metrics collection and export for
observability of the dispatch engine and its supporting services.

# Overview

The package provides metrics for:
  - Event dispatch throughput and outcomes (enqueue, batch send, retry, drop)
  - Queue depth and buffer eviction pressure
  - Retry-delay distribution (a flush-duration histogram is registered
    but never observed)
  - Debug HTTP server request latency and rate limiting
  - Live event stream (websocket) connection counts
  - NATS transport circuit breaker state

# Metrics Endpoint

When the debug HTTP server is enabled, metrics are exposed in Prometheus
text format:

	curl http://localhost:8088/metrics

# Available Metrics

Dispatch Engine Metrics:
  - dispatch_events_enqueued_total: Events accepted into the queue (counter)
  - dispatch_batches_sent_total: Batches handed to the transport (counter)
    Labels: outcome (success, terminal_drop)
  - dispatch_batch_size: Size of each successfully flushed batch (histogram)
  - dispatch_flush_duration_seconds: Flush wall-clock time (histogram);
    registered, but no code path observes it, so it stays empty
  - dispatch_terminal_drops_total: Events permanently dropped (counter)
  - dispatch_buffer_evictions_total: Events evicted for capacity (counter)
  - dispatch_retries_scheduled_total: Retry timers scheduled (counter)
  - dispatch_retry_delay_seconds: Chosen backoff delay per retry (histogram)
  - dispatch_queue_depth: Current queue length (gauge)

Debug Server Metrics:
  - debugserver_requests_total: Requests served (counter)
    Labels: method, route, status_code
  - debugserver_request_duration_seconds: Request latency (histogram)
    Labels: method, route
  - debugserver_rate_limit_hits_total: Requests rejected by rate limiting (counter)
    Labels: route

Live Event Stream Metrics:
  - debugserver_ws_connections_active: Active websocket clients (gauge)
  - debugserver_ws_messages_sent_total: Broadcast messages sent (counter)
  - debugserver_ws_messages_dropped_total: Broadcast messages dropped (counter)

Circuit Breaker Metrics (NATS transport):
  - circuit_breaker_state: Current state, 0=closed 1=half-open 2=open (gauge)
    Labels: name
  - circuit_breaker_transitions_total: State transition counts (counter)
    Labels: name, from, to

# Usage Example

	import "github.com/tomtom215/ripple-go/internal/metrics"

	dispatcher, err := dispatch.NewDispatcher(cfg, transport, persistence,
	    logger, metrics.NewDispatchAdapter(), metadataFn, sessionFn, platformFn)

# Thread Safety

All metric recording functions are thread-safe and designed for
concurrent use from multiple goroutines. The Prometheus client library
handles synchronization internally.

# Cardinality Management

Route labels on debug server metrics come from chi's registered route
pattern, not the raw request path, so path parameters never inflate
cardinality.
*/
package metrics
