// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import (
	"context"
	"time"
)

// Response is the transport-agnostic shape of a delivery attempt's result.
// Status follows HTTP status-code conventions (2xx/4xx/5xx) even for
// non-HTTP transports, per the spec's decision to derive classification
// from Status alone.
type Response struct {
	Status int
	Data   any
}

// Transport sends a batch of events to the collector and reports the
// outcome. A non-nil error means the attempt itself failed (network error,
// timeout, or equivalent) and is always treated as retryable; a returned
// Response is classified by its Status.
type Transport interface {
	Send(ctx context.Context, batch []Event, endpoint, headerName, apiKey string) (*Response, error)
}

// Persistence stores the single logical slot of pending events for this
// SDK instance. Save atomically replaces the slot; Load returns the full
// previously-saved sequence (or an empty one); all operations must be
// idempotent. A Save that cannot fit the full payload should persist a
// reduced prefix and return a *QuotaExceededError describing the
// truncation rather than failing outright.
type Persistence interface {
	Save(ctx context.Context, events []Event) error
	Load(ctx context.Context) ([]Event, error)
	Clear(ctx context.Context) error
}

// Logger is a leveled sink. DEBUG/INFO/WARN/ERROR map onto the spec's
// levels; a NONE level is achieved by supplying NopLogger or an adapter
// configured to discard everything.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// NopLogger discards everything. It is the Dispatcher's default when no
// Logger is supplied.
type NopLogger struct{}

func (NopLogger) Debug(string, map[string]any) {}
func (NopLogger) Info(string, map[string]any)  {}
func (NopLogger) Warn(string, map[string]any)  {}
func (NopLogger) Error(string, map[string]any) {}

// Metrics receives counters for dispatcher activity. It is an optional,
// purely observational capability -- the Dispatcher behaves identically
// with NopMetrics installed.
type Metrics interface {
	RecordEnqueue()
	RecordBatchSent(n int)
	RecordTerminalDrop(n int)
	RecordBufferEviction(n int)
	RecordRetryScheduled(delay time.Duration)
	SetQueueDepth(n int)
}

// NopMetrics discards everything. It is the Dispatcher's default when no
// Metrics implementation is supplied.
type NopMetrics struct{}

func (NopMetrics) RecordEnqueue()                     {}
func (NopMetrics) RecordBatchSent(int)                {}
func (NopMetrics) RecordTerminalDrop(int)             {}
func (NopMetrics) RecordBufferEviction(int)           {}
func (NopMetrics) RecordRetryScheduled(time.Duration) {}
func (NopMetrics) SetQueueDepth(int)                  {}

// MetadataProvider returns a point-in-time snapshot of ambient metadata.
// The Dispatcher calls it once per Enqueue.
type MetadataProvider func() map[string]any

// SessionProvider returns the current session identifier, or nil.
type SessionProvider func() *string

// PlatformProvider returns the current platform snapshot, or nil.
type PlatformProvider func() *Platform
