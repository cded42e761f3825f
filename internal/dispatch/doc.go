// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

// Package dispatch implements the core event-dispatch engine of the Ripple
// telemetry SDK: a buffered, batched, retrying, persisted event pipeline.
//
// The package has four pieces, leaves first:
//
//   - Mutex: a single-owner, non-reentrant exclusion primitive used to
//     serialize flushes.
//   - MetadataManager: a thread-safe key/value map with point-in-time
//     snapshot reads.
//   - EventQueue: an ordered, bounded, FIFO buffer of pending events.
//   - Dispatcher: coordinates enqueue, scheduled/manual flush, batching,
//     transport invocation, retry with backoff+jitter, and persistence sync.
//
// Dispatcher is the only exported type most callers construct directly; the
// other three are exported because they are independently useful and
// independently testable, but Dispatcher owns one instance of each.
//
// The Dispatcher depends only on small capability interfaces (Transport,
// Persistence, Logger, Metrics) so it can run embedded in any host --
// server daemon, CLI, or test harness -- without pulling in an HTTP client,
// a database driver, or a logging framework. Concrete adapters for those
// capabilities live in sibling packages (internal/transport,
// internal/persistence, internal/logging, internal/metrics).
package dispatch
