// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by ConfigError, or returned directly from
// hot-path calls that must reject synchronously (e.g. an empty event
// name).
var (
	ErrMissingAPIKey      = errors.New("api key is required")
	ErrMissingEndpoint    = errors.New("endpoint is required")
	ErrEndpointNotHTTPS   = errors.New("endpoint must use the https scheme")
	ErrMissingTransport   = errors.New("transport adapter is required")
	ErrMissingPersistence = errors.New("persistence adapter is required")
	ErrNegativeBatchSize  = errors.New("max batch size must be positive")
	ErrNegativeBufferSize = errors.New("max buffer size must be non-negative")
	ErrNegativeRetries    = errors.New("max retries must be non-negative")
	ErrNonPositiveFlush   = errors.New("flush interval must be positive")

	ErrEmptyEventName = errors.New("dispatch: event name cannot be empty")
)

// ConfigError wraps an invalid-configuration failure detected at
// construction time. It is surfaced synchronously to the constructor
// caller and never appears on the hot path.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("dispatch: invalid config: %s", e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// LifecycleError reports an illegal state transition, such as calling Init
// again while a prior Init call is still in progress.
type LifecycleError struct {
	State State
	Op    string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("dispatch: illegal operation %q while in state %s", e.Op, e.State)
}

// QuotaExceededError is returned by a Persistence adapter when it cannot
// save the full requested event set and has instead saved a reduced
// prefix. The Dispatcher logs it at WARN and continues -- the in-memory
// queue remains authoritative until the next restart.
type QuotaExceededError struct {
	// Saved is the number of events the adapter actually persisted.
	Saved int
	// Dropped is the number of events the adapter had to omit.
	Dropped int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("dispatch: persistence quota exceeded: saved %d, dropped %d", e.Saved, e.Dropped)
}
