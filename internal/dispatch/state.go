// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

// State is a Dispatcher lifecycle state.
type State int

const (
	// StateUninitialized is the initial state before Init has ever run.
	StateUninitialized State = iota
	// StateInitializing is set for the duration of a single Init call.
	StateInitializing
	// StateRunning is the steady state: flush timer active, ready to flush.
	StateRunning
	// StateFlushing is set for the duration of exactly one in-flight flush.
	StateFlushing
	// StateDisposed is terminal until a subsequent Init call restarts it.
	StateDisposed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateFlushing:
		return "flushing"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
