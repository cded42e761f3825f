// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

// Package persistence provides dispatch.Persistence implementations: a
// BadgerDB-backed single-slot store for durability across process
// restarts, and an in-memory store for tests and embedders that accept
// losing queued events on crash.
package persistence

import (
	"fmt"
	"time"
)

// Config configures the BadgerDB-backed store.
type Config struct {
	// Path is the directory BadgerDB stores its files in.
	Path string

	// SyncWrites forces fsync on every write. Costs latency, buys
	// durability against power loss; off by default since the in-memory
	// queue is already the source of truth during normal operation and
	// this store exists only to survive a restart.
	SyncWrites bool

	// MaxQuotaBytes caps how large the persisted JSON snapshot may grow.
	// When Save's payload exceeds this, the store persists the largest
	// trailing run (suffix) of events that fits and returns
	// *dispatch.QuotaExceededError describing the truncation. 0 disables
	// the cap.
	MaxQuotaBytes int64

	// CloseTimeout bounds how long Close waits for BadgerDB to shut down.
	CloseTimeout time.Duration
}

// DefaultConfig returns a Config with conservative defaults suitable for a
// single SDK instance's local cache.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		SyncWrites:    false,
		MaxQuotaBytes: 8 * 1024 * 1024,
		CloseTimeout:  10 * time.Second,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("persistence: path is required")
	}
	if c.MaxQuotaBytes < 0 {
		return fmt.Errorf("persistence: max quota bytes must be non-negative")
	}
	return nil
}
