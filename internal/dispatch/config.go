// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import (
	"net/url"
	"time"
)

const (
	defaultAPIKeyHeader  = "X-API-Key"
	defaultFlushInterval = 5 * time.Second
	defaultMaxBatchSize  = 10
	defaultMaxRetries    = 3
)

// Config holds the static parameters a Dispatcher is constructed with. All
// fields except APIKey and Endpoint are optional; zero values are replaced
// by withDefaults.
type Config struct {
	// APIKey authenticates outbound requests. Required.
	APIKey string

	// Endpoint is the collector URL events are sent to. Required, and must
	// use the https scheme.
	Endpoint string

	// APIKeyHeader is the header name APIKey is sent under. Defaults to
	// "X-API-Key".
	APIKeyHeader string

	// FlushInterval is how often the Dispatcher flushes on a timer, in
	// addition to size-triggered flushes. Defaults to 5s.
	FlushInterval time.Duration

	// MaxBatchSize caps how many events a single flush sends. Defaults to
	// 10. Also the threshold at which Enqueue triggers an immediate
	// out-of-band flush.
	MaxBatchSize int

	// MaxBufferSize caps the in-memory queue. 0 means unbounded; a nonzero
	// value below MaxBatchSize is legal but logged at WARN by Init, since
	// it means a flush can never collect a full batch.
	MaxBufferSize int

	// MaxRetries is how many times an event in a failed batch is retried
	// before being dropped; attempts are counted per event. An event is
	// transmitted at most MaxRetries+1 times.
	// Defaults to 3.
	MaxRetries int
}

// withDefaults returns a copy of cfg with zero-valued optional fields
// replaced by their defaults. A zero MaxBufferSize is left unbounded
// rather than defaulted, matching the spec's explicit "0 means unbounded"
// contract.
func (cfg Config) withDefaults() Config {
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = defaultAPIKeyHeader
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	if cfg.MaxBatchSize == 0 {
		cfg.MaxBatchSize = defaultMaxBatchSize
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return cfg
}

// validate checks the required fields and any value that would make the
// Dispatcher's own arithmetic meaningless. It does not check
// MaxBufferSize < MaxBatchSize; that combination is legal (if unusual) and
// is instead flagged at Init time since it is a runtime behavior warning,
// not a construction error.
func (cfg Config) validate() error {
	switch {
	case cfg.APIKey == "":
		return &ConfigError{Err: ErrMissingAPIKey}
	case cfg.Endpoint == "":
		return &ConfigError{Err: ErrMissingEndpoint}
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Scheme != "https" {
		return &ConfigError{Err: ErrEndpointNotHTTPS}
	}

	switch {
	case cfg.MaxBatchSize < 0:
		return &ConfigError{Err: ErrNegativeBatchSize}
	case cfg.MaxBufferSize < 0:
		return &ConfigError{Err: ErrNegativeBufferSize}
	case cfg.MaxRetries < 0:
		return &ConfigError{Err: ErrNegativeRetries}
	case cfg.FlushInterval < 0:
		return &ConfigError{Err: ErrNonPositiveFlush}
	}
	return nil
}
