// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

// Package probes supplies the runtime-dependent snapshot providers the
// dispatch engine is wired with: session identity and platform shape. A
// server process has no browser or device to probe, so the providers here
// are deliberately minimal -- a session probe backed by an external setter,
// and a fixed server Platform.
package probes

import (
	"sync/atomic"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// SessionProbe holds the current session identifier behind an atomic
// pointer so Provider can be called from any goroutine without locking.
type SessionProbe struct {
	current atomic.Pointer[string]
}

// NewSessionProbe returns a probe with no active session.
func NewSessionProbe() *SessionProbe {
	return &SessionProbe{}
}

// Set installs id as the current session identifier.
func (p *SessionProbe) Set(id string) {
	p.current.Store(&id)
}

// Clear removes the current session identifier; subsequent Provider calls
// return nil until Set is called again.
func (p *SessionProbe) Clear() {
	p.current.Store(nil)
}

// Provider returns the dispatch.SessionProvider backed by this probe.
func (p *SessionProbe) Provider() dispatch.SessionProvider {
	return func() *string { return p.current.Load() }
}

// ServerPlatformProvider returns a dispatch.PlatformProvider that always
// reports dispatch.ServerPlatform, for SDK instances embedded in a
// server-side process rather than a browser or native client.
func ServerPlatformProvider() dispatch.PlatformProvider {
	return func() *dispatch.Platform { return dispatch.ServerPlatform }
}

// StaticPlatformProvider returns a dispatch.PlatformProvider that always
// reports the given fixed snapshot, for callers that know their platform
// shape at construction time (e.g. a native wrapper built for one OS).
func StaticPlatformProvider(p *dispatch.Platform) dispatch.PlatformProvider {
	return func() *dispatch.Platform { return p }
}
