// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package debugserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/ripple-go/internal/logging"
	wshub "github.com/tomtom215/ripple-go/internal/websocket"
)

// upgrader builds a gorilla/websocket upgrader that only accepts
// connections from an allow-listed origin (or any origin, if none are
// configured -- suitable for local-only development use).
func (s *Server) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      s.checkOrigin,
	}
}

func (s *Server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.CORSOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	for _, allowed := range s.cfg.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// handleStream upgrades the connection to a websocket and registers it
// with the shared event hub so it receives dispatcher lifecycle broadcasts.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "event stream not available", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader().Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("debug server: websocket upgrade failed")
		return
	}

	client := wshub.NewClient(s.hub, conn)
	s.hub.Register <- client
	client.Start()
}
