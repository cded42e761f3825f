// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package debugserver

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ripple-go/internal/dispatch"
	"github.com/tomtom215/ripple-go/internal/logging"
)

// envelope is the common response shape for every debug server endpoint.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("debug server: failed to encode response")
	}
}

// handleLive answers liveness probes: the process is up and serving.
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, envelope{
		Status: "ok",
		Data: map[string]any{
			"uptimeSeconds": time.Since(s.startTime).Seconds(),
		},
	})
}

// handleReady answers readiness probes: the dispatcher has completed Init
// and is actively able to flush. A dispatcher that is Uninitialized or
// Disposed is not ready to accept traffic yet.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	state := s.dispatcher.State()
	ready := state == dispatch.StateRunning || state == dispatch.StateFlushing

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, envelope{
		Status: map[bool]string{true: "ready", false: "not_ready"}[ready],
		Data: map[string]any{
			"state": state.String(),
		},
	})
}

// handleQueue reports the dispatcher's current queue depth and contents.
// This is a diagnostic snapshot, not a live view -- events may have already
// been flushed or evicted by the time the response is read.
func (s *Server) handleQueue(w http.ResponseWriter, _ *http.Request) {
	snapshot := s.dispatcher.QueueSnapshot()

	writeJSON(w, http.StatusOK, envelope{
		Status: "ok",
		Data: map[string]any{
			"depth":  len(snapshot),
			"events": snapshot,
		},
	})
}
