// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// PublisherConfig configures the NATS JetStream connection the Publisher
// publishes event batches through.
type PublisherConfig struct {
	URL               string
	Subject           string
	MaxReconnects     int
	ReconnectWait     time.Duration
	ReconnectBuffer   int
	EnableTrackMsgID  bool
}

// DefaultPublisherConfig returns a PublisherConfig pointed at url with a
// "ripple.events" subject and resilient reconnection defaults.
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

// Publisher wraps a Watermill publisher with resilience patterns: circuit
// breaker protection and automatic NATS reconnection handling. It is the
// concrete implementation the "nats" transport build wires into
// dispatch.Transport.
type Publisher struct {
	publisher      message.Publisher
	subject        string
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	mu             sync.RWMutex
	closed         bool
	logger         watermill.LoggerAdapter
	serializer     *Serializer
}

// NewPublisher creates a resilient Watermill NATS publisher configured for
// JetStream with message-ID tracking for deduplication.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (*Publisher, error) {
	if cfg.URL == "" || cfg.Subject == "" {
		return nil, fmt.Errorf("%w: url and subject are required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = watermill.NewStdLogger(false, false)
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(nc *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}

	return &Publisher{
		publisher:  pub,
		subject:    cfg.Subject,
		logger:     logger,
		serializer: NewSerializer(),
	}, nil
}

// SetCircuitBreaker configures the circuit breaker for publish operations.
func (p *Publisher) SetCircuitBreaker(cb *gobreaker.CircuitBreaker[interface{}]) {
	p.circuitBreaker = cb
}

// Publish sends a single Watermill message to the configured subject with
// circuit breaker protection. The message's UUID is used as the NATS
// message ID for deduplication if not already set.
func (p *Publisher) Publish(ctx context.Context, msg *message.Message) error {
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPublisherClosed
	}
	p.mu.RUnlock()

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(p.subject, msg)
		})
	} else {
		err = p.publisher.Publish(p.subject, msg)
	}
	return err
}

// PublishBatch serializes batch and publishes it as a single Watermill
// message, satisfying the shape the "nats" transport build needs to
// implement dispatch.Transport.Send.
func (p *Publisher) PublishBatch(ctx context.Context, batch []dispatch.Event) error {
	data, err := p.serializer.Marshal(batch)
	if err != nil {
		return fmt.Errorf("serialize batch: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set("count", fmt.Sprintf("%d", len(batch)))
	return p.Publish(ctx, msg)
}

// Close gracefully shuts down the publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.publisher.Close()
}

// WatermillPublisher returns the underlying Watermill publisher, useful
// for wiring Watermill middleware (e.g. a poison-queue) directly.
func (p *Publisher) WatermillPublisher() message.Publisher {
	return p.publisher
}
