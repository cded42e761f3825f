// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

//go:build !nats

package eventprocessor

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// PublisherConfig mirrors the nats-tagged build's config shape so callers
// can construct it regardless of build tags.
type PublisherConfig struct {
	URL              string
	Subject          string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool
}

// DefaultPublisherConfig mirrors the nats-tagged build's defaults.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		Subject:          "ripple.events",
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024,
		EnableTrackMsgID: true,
	}
}

// Publisher is a stub used when NATS dependencies are not compiled in.
// Build with -tags=nats to enable the real Watermill/NATS publisher.
type Publisher struct {
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
}

// NewPublisher returns ErrNATSNotEnabled.
func NewPublisher(cfg PublisherConfig, logger interface{}) (*Publisher, error) {
	return nil, ErrNATSNotEnabled
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// PublishBatch is a stub that returns ErrNATSNotEnabled.
func (p *Publisher) PublishBatch(ctx context.Context, batch []dispatch.Event) error {
	return ErrNATSNotEnabled
}

// Close is a no-op stub.
func (p *Publisher) Close() error {
	return nil
}

// WatermillPublisher returns nil for the stub implementation.
func (p *Publisher) WatermillPublisher() interface{} {
	return nil
}
