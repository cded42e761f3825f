// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

// Package eventprocessor implements the NATS JetStream publishing path for
// the dispatch engine's optional message-queue transport.
//
// # Architecture
//
// A batch handed to the NATS transport (internal/transport, built with
// -tags=nats) is serialized here and published through a Watermill
// publisher wrapping a JetStream-backed NATS connection. Circuit breaker
// protection wraps every publish call so a NATS outage surfaces as a fast,
// bounded failure back to the dispatcher's own retry logic rather than a
// hung goroutine:
//
//	dispatch.Dispatcher --Send--> transport.natsTransport --PublishBatch-->
//	    eventprocessor.Publisher --circuit breaker--> Watermill --> NATS JetStream
//
// The -tags=nats build gate exists because the Watermill/NATS dependency
// chain is sizeable and most SDK embedders only need the default HTTP
// transport; publisher_stub.go supplies the same API surface returning an
// explanatory error when the tag is absent, so callers can type-check and
// even compile against the interface without pulling in NATS at all.
package eventprocessor
