// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package debugserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/ripple-go/internal/dispatch"
	"github.com/tomtom215/ripple-go/internal/logging"
	"github.com/tomtom215/ripple-go/internal/metrics"
	"github.com/tomtom215/ripple-go/internal/websocket"
)

// Config configures the debug server's bind address and exposure policy.
// It mirrors config.DebugServerConfig so callers outside cmd/rippled don't
// need to import the config package just to construct a Server.
type Config struct {
	Host        string
	Port        int
	CORSOrigins []string
	RateLimit   int // requests per minute per client; 0 disables limiting
}

// Addr returns the host:port the server listens on.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Server is a local-only HTTP surface exposing the dispatcher's queue
// state, Prometheus metrics, and a live websocket event stream. It is
// intended for development and operational debugging, never for public
// exposure -- Config.Host should stay loopback-bound in production.
//
// Server implements suture.Service so it can be supervised by
// internal/supervisor.SupervisorTree; the dispatcher's flush-timer
// goroutine runs under the Dispatcher's own supervisor, not in that tree.
type Server struct {
	cfg        Config
	dispatcher *dispatch.Dispatcher
	hub        *websocket.Hub
	httpServer *http.Server
	startTime  time.Time
}

// New constructs a debug Server bound to the given dispatcher and event
// hub. The hub is expected to already be supervised separately (see
// internal/supervisor.SupervisorTree.AddMessagingService) -- Server only
// upgrades connections into it, it does not own its lifecycle.
func New(cfg Config, dispatcher *dispatch.Dispatcher, hub *websocket.Hub) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		hub:        hub,
		startTime:  time.Now(),
	}
}

func (s *Server) router() http.Handler {
	mw := newChiMiddleware(s.cfg)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.cors)

	r.Route("/healthz", func(r chi.Router) {
		r.Use(mw.rateLimit)
		r.Use(requestMetrics("/healthz"))
		r.Get("/live", s.handleLive)
		r.Get("/ready", s.handleReady)
		r.Get("/", s.handleLive)
	})

	r.Route("/debug", func(r chi.Router) {
		r.Use(mw.rateLimit)
		r.Get("/queue", requestMetrics("/debug/queue")(http.HandlerFunc(s.handleQueue)).ServeHTTP)
		r.Get("/stream", s.handleStream) // upgraded connections aren't instrumented per-request
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Serve implements suture.Service. It runs the HTTP listener until ctx is
// canceled, then performs a graceful shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("component", "debugserver").
			Str("addr", s.cfg.Addr()).
			Msg("debug server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	gaugeTicker := time.NewTicker(2 * time.Second)
	defer gaugeTicker.Stop()

	for {
		select {
		case <-gaugeTicker.C:
			if s.hub != nil {
				metrics.WSConnectionsActive.Set(float64(s.hub.GetClientCount()))
			}
		case <-ctx.Done():
			return s.shutdown(ctx)
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		}
	}
}

// shutdown gracefully stops the HTTP listener once the supervising context
// has been canceled, bounding the wait with its own timeout so a stuck
// connection can't hang the whole supervisor tree's shutdown.
func (s *Server) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}
