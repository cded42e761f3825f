// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package transport

import (
	"context"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ripple-go/internal/dispatch"
	"github.com/tomtom215/ripple-go/internal/eventprocessor"
)

// NATSTransport publishes event batches to a NATS JetStream subject
// instead of sending them over HTTP. A publish failure (connection error,
// or the circuit breaker reporting open) is surfaced as a transport error,
// which the Dispatcher always treats as retryable; NATS gives no
// equivalent of an HTTP 4xx, so there is no terminal-drop path on this
// transport.
//
// Requires the eventprocessor package to have been built with -tags=nats;
// otherwise every call returns eventprocessor.ErrNATSNotEnabled.
type NATSTransport struct {
	publisher *eventprocessor.Publisher
}

// NewNATSTransport wraps an already-constructed Publisher, typically one
// built via eventprocessor.NewPublisher with a circuit breaker installed
// through SetCircuitBreaker.
func NewNATSTransport(publisher *eventprocessor.Publisher) *NATSTransport {
	return &NATSTransport{publisher: publisher}
}

// NewNATSTransportWithBreaker is a convenience constructor that builds the
// Publisher and wires a default circuit breaker in one call.
func NewNATSTransportWithBreaker(cfg eventprocessor.PublisherConfig, breakerName string) (*NATSTransport, error) {
	pub, err := eventprocessor.NewPublisher(cfg, nil)
	if err != nil {
		return nil, err
	}
	cb := eventprocessor.NewCircuitBreaker(eventprocessor.DefaultCircuitBreakerConfig(breakerName))
	pub.SetCircuitBreaker(cb)
	return NewNATSTransport(pub), nil
}

// Send implements dispatch.Transport by publishing the batch to NATS and
// reporting success as Status 200.
func (t *NATSTransport) Send(ctx context.Context, batch []dispatch.Event, endpoint, headerName, apiKey string) (*dispatch.Response, error) {
	if err := t.publisher.PublishBatch(ctx, batch); err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("nats transport: circuit breaker: %w", err)
		}
		return nil, fmt.Errorf("nats transport: %w", err)
	}
	return &dispatch.Response{Status: 200}, nil
}

// Close releases the underlying publisher's connection.
func (t *NATSTransport) Close() error {
	return t.publisher.Close()
}
