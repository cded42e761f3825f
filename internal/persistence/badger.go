// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// slotKey is the single logical key the whole pending-event sequence is
// stored under. Unlike a per-entry WAL, this store has no concept of
// individual entry lifecycle -- Save always replaces the entire slot
// atomically, which matches the dispatch engine's own contract of
// persisting one coherent snapshot of "everything not yet acknowledged".
var slotKey = []byte("ripple:queue:v1")

// BadgerStore implements dispatch.Persistence on top of an embedded
// BadgerDB database.
type BadgerStore struct {
	db     *badger.DB
	config Config
}

// Open creates or opens a BadgerStore at cfg.Path.
func Open(cfg Config) (*BadgerStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.Path)
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("persistence: open badger: %w", err)
	}

	return &BadgerStore{db: db, config: cfg}, nil
}

// Save implements dispatch.Persistence. It atomically replaces the single
// stored slot with events. If the serialized payload exceeds
// MaxQuotaBytes, it saves the largest trailing run (suffix) of events that fits
// -- preserving the most recently enqueued, and therefore most likely to
// still be actionable, events -- and returns *dispatch.QuotaExceededError
// describing how many were dropped from the front.
func (s *BadgerStore) Save(ctx context.Context, events []dispatch.Event) error {
	if len(events) == 0 {
		return s.Clear(ctx)
	}

	toSave := events
	var quotaErr error
	if s.config.MaxQuotaBytes > 0 {
		toSave, quotaErr = s.fitToQuota(events)
	}

	data, err := json.Marshal(toSave)
	if err != nil {
		return fmt.Errorf("persistence: marshal snapshot: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(slotKey, data)
	})
	if err != nil {
		return fmt.Errorf("persistence: write snapshot: %w", err)
	}

	return quotaErr
}

// fitToQuota drops events from the front (oldest first) until the
// remaining trailing slice's JSON encoding fits within MaxQuotaBytes. It
// favors correctness over cleverness: buffers are bounded by
// MaxBufferSize, so a linear shrink is cheap in practice.
func (s *BadgerStore) fitToQuota(events []dispatch.Event) ([]dispatch.Event, error) {
	data, err := json.Marshal(events)
	if err != nil || int64(len(data)) <= s.config.MaxQuotaBytes {
		return events, nil
	}

	keep := len(events)
	for keep > 0 {
		candidate := events[len(events)-keep:]
		d, err := json.Marshal(candidate)
		if err == nil && int64(len(d)) <= s.config.MaxQuotaBytes {
			break
		}
		keep--
	}

	dropped := len(events) - keep
	return events[len(events)-keep:], &dispatch.QuotaExceededError{Saved: keep, Dropped: dropped}
}

// Load implements dispatch.Persistence.
func (s *BadgerStore) Load(ctx context.Context) ([]dispatch.Event, error) {
	var events []dispatch.Event

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(slotKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &events)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("persistence: load snapshot: %w", err)
	}
	return events, nil
}

// Clear implements dispatch.Persistence.
func (s *BadgerStore) Clear(ctx context.Context) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(slotKey)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("persistence: clear snapshot: %w", err)
	}
	return nil
}

// Close shuts down the underlying BadgerDB instance, bounded by
// CloseTimeout.
func (s *BadgerStore) Close() error {
	timeout := s.config.CloseTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	done := make(chan error, 1)
	go func() { done <- s.db.Close() }()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("persistence: close timed out after %v", timeout)
	}
}
