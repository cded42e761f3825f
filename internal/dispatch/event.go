// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

// Platform describes the runtime an event was issued from. Exactly one of
// the runtime-specific fields is meaningful, selected by Type.
type Platform struct {
	// Type is one of "web", "native", or "server".
	Type string `json:"type"`

	// Browser and Device are populated for Type == "web".
	Browser string `json:"browser,omitempty"`
	Device  string `json:"device,omitempty"`

	// OS is populated for Type == "web" or Type == "native".
	OS string `json:"os,omitempty"`
}

// WebPlatform builds a Platform for a browser runtime.
func WebPlatform(browser, device, os string) *Platform {
	return &Platform{Type: "web", Browser: browser, Device: device, OS: os}
}

// NativePlatform builds a Platform for a mobile/desktop native runtime.
func NativePlatform(device, os string) *Platform {
	return &Platform{Type: "native", Device: device, OS: os}
}

// ServerPlatform builds a Platform for a server runtime. Server platform
// carries no further fields, so a single shared instance is safe to reuse.
var ServerPlatform = &Platform{Type: "server"}

// Event is an immutable record produced at track-time. Every event carries
// the timestamp and session/platform/metadata snapshot observable at the
// instant of its enqueue -- subsequent metadata mutations never
// retroactively change a queued event.
type Event struct {
	// Name is a non-empty event identifier.
	Name string `json:"name"`

	// Payload is an arbitrary serializable mapping, or nil.
	Payload map[string]any `json:"payload,omitempty"`

	// IssuedAt is milliseconds since Unix epoch, captured at enqueue.
	IssuedAt int64 `json:"issuedAt"`

	// SessionID is the runtime-dependent session identifier, or nil.
	SessionID *string `json:"sessionId,omitempty"`

	// Metadata is the snapshot of global metadata merged with any
	// per-call overrides, taken at the instant of enqueue.
	Metadata map[string]any `json:"metadata,omitempty"`

	// Platform is the runtime snapshot taken at enqueue, or nil.
	Platform *Platform `json:"platform,omitempty"`

	// Attempts is the number of times this event has been handed to the
	// transport adapter so far. It is internal bookkeeping for the retry
	// bound and is never serialized over the wire.
	Attempts int `json:"-"`
}
