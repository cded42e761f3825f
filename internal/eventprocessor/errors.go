// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package eventprocessor

import "errors"

// ErrNATSNotEnabled is returned when NATS publishing is used without the
// nats build tag.
var ErrNATSNotEnabled = errors.New("NATS publishing not enabled (build with -tags nats)")

// ErrNilPublisher is returned when attempting to publish through a closed
// or never-constructed publisher.
var ErrNilPublisher = errors.New("publisher cannot be nil")

// ErrPublisherClosed is returned by Publish/PublishBatch after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// ErrInvalidConfig is returned when a PublisherConfig is invalid.
var ErrInvalidConfig = errors.New("invalid configuration")
