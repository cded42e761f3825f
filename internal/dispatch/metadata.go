// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import "sync"

// MetadataManager is a thread-safe mapping from metadata key to value. It
// is the single source of truth the Dispatcher snapshots at enqueue time;
// readers never observe a torn state, and Snapshot returns a coherent
// point-in-time, shallow-copied view that is safe for the caller to retain
// and mutate without affecting the manager.
type MetadataManager struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewMetadataManager returns an empty MetadataManager.
func NewMetadataManager() *MetadataManager {
	return &MetadataManager{data: make(map[string]any)}
}

// Set inserts or overwrites the value for key.
func (m *MetadataManager) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Get returns the current value for key and whether it was present.
func (m *MetadataManager) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Snapshot returns a shallow copy of all current entries.
func (m *MetadataManager) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]any, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out
}

// Clear removes all entries.
func (m *MetadataManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]any)
}
