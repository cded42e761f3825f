// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package persistence

import (
	"context"
	"sync"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// MemoryStore implements dispatch.Persistence entirely in-memory. It is
// intended for tests and for embedders that have explicitly accepted
// losing queued events across a process restart in exchange for not
// depending on a filesystem.
type MemoryStore struct {
	mu     sync.Mutex
	events []dispatch.Event
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save implements dispatch.Persistence.
func (m *MemoryStore) Save(ctx context.Context, events []dispatch.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append([]dispatch.Event(nil), events...)
	return nil
}

// Load implements dispatch.Persistence.
func (m *MemoryStore) Load(ctx context.Context) ([]dispatch.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]dispatch.Event, len(m.events))
	copy(out, m.events)
	return out, nil
}

// Clear implements dispatch.Persistence.
func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
	return nil
}
