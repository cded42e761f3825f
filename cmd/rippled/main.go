// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

// Command rippled runs the event-dispatch engine as a standalone daemon:
// a server-embedded SDK instance that accepts events over its Go API,
// buffers and persists them in a local BadgerDB store, and delivers them
// to a collector over HTTP (or NATS JetStream, with -tags=nats), with an
// optional local debug HTTP+websocket surface for observing the queue.
//
// It exists to exercise internal/dispatch, internal/client,
// internal/persistence, internal/transport, internal/debugserver, and
// internal/supervisor end to end; embedders that want the SDK as a
// library dependency instead should import internal/client and
// internal/dispatch directly.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/ripple-go/internal/client"
	"github.com/tomtom215/ripple-go/internal/config"
	"github.com/tomtom215/ripple-go/internal/debugserver"
	"github.com/tomtom215/ripple-go/internal/dispatch"
	"github.com/tomtom215/ripple-go/internal/eventprocessor"
	"github.com/tomtom215/ripple-go/internal/logging"
	"github.com/tomtom215/ripple-go/internal/metrics"
	"github.com/tomtom215/ripple-go/internal/persistence"
	"github.com/tomtom215/ripple-go/internal/probes"
	"github.com/tomtom215/ripple-go/internal/supervisor"
	"github.com/tomtom215/ripple-go/internal/supervisor/services"
	"github.com/tomtom215/ripple-go/internal/transport"
	"github.com/tomtom215/ripple-go/internal/websocket"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("rippled exited")
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	store, err := persistence.Open(persistence.Config{
		Path:          cfg.Persistence.Path,
		SyncWrites:    cfg.Persistence.SyncWrites,
		MaxQuotaBytes: cfg.Persistence.MaxQuotaBytes,
		CloseTimeout:  cfg.Persistence.CloseTimeout,
	})
	if err != nil {
		return fmt.Errorf("open persistence store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Warn().Err(err).Msg("persistence store close failed")
		}
	}()

	tr, closeTransport, err := buildTransport(cfg.NATS)
	if err != nil {
		return fmt.Errorf("build transport: %w", err)
	}
	if closeTransport != nil {
		defer closeTransport()
	}

	sessionProbe := probes.NewSessionProbe()
	metadataMgr := dispatch.NewMetadataManager()

	dispatcher, err := dispatch.NewDispatcher(
		dispatch.Config{
			APIKey:        cfg.Dispatch.APIKey,
			Endpoint:      cfg.Dispatch.Endpoint,
			APIKeyHeader:  cfg.Dispatch.APIKeyHeader,
			FlushInterval: cfg.Dispatch.FlushInterval,
			MaxBatchSize:  cfg.Dispatch.MaxBatchSize,
			MaxBufferSize: cfg.Dispatch.MaxBufferSize,
			MaxRetries:    cfg.Dispatch.MaxRetries,
		},
		tr,
		store,
		logging.NewDispatchAdapter(logging.Logger()),
		metrics.NewDispatchAdapter(),
		metadataMgr.Snapshot,
		sessionProbe.Provider(),
		probes.ServerPlatformProvider(),
	)
	if err != nil {
		return fmt.Errorf("construct dispatcher: %w", err)
	}

	sdk := client.New(dispatcher, metadataMgr, sessionProbe.Provider())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := sdk.Init(ctx); err != nil {
		return fmt.Errorf("init dispatcher: %w", err)
	}
	defer sdk.Dispose()

	if cfg.DebugServer.Enabled {
		return runWithDebugServer(ctx, cfg.DebugServer, dispatcher)
	}

	logging.Info().Msg("rippled running with debug server disabled")
	<-ctx.Done()
	return nil
}

// buildTransport returns the HTTP transport by default, or a NATS
// JetStream transport when NATSConfig.Enabled is set. The NATS path only
// produces a working transport when the binary is built with -tags=nats;
// otherwise constructing the publisher fails with
// eventprocessor.ErrNATSNotEnabled, which buildTransport returns, so the
// daemon stops at startup.
func buildTransport(cfg config.NATSConfig) (dispatch.Transport, func(), error) {
	if !cfg.Enabled {
		return transport.NewHTTPTransport(nil), nil, nil
	}

	nt, err := transport.NewNATSTransportWithBreaker(natsPublisherConfig(cfg), cfg.BreakerName)
	if err != nil {
		return nil, nil, err
	}
	return nt, func() {
		if err := nt.Close(); err != nil {
			logging.Warn().Err(err).Msg("nats transport close failed")
		}
	}, nil
}

// runWithDebugServer supervises the debug HTTP server and its websocket
// event hub under a suture tree until ctx is done. The dispatcher's flush
// timer is not part of this tree: it runs under the Dispatcher's own
// internal supervisor, so a panic in the debug surface never takes the
// dispatcher down and vice versa.
func runWithDebugServer(ctx context.Context, cfg config.DebugServerConfig, dispatcher *dispatch.Dispatcher) error {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("construct supervisor tree: %w", err)
	}

	hub := websocket.NewHub()
	tree.AddMessagingService(services.NewWebSocketHubService(hub))

	srv := debugserver.New(debugserver.Config{
		Host:        cfg.Host,
		Port:        cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	}, dispatcher, hub)
	tree.AddAPIService(srv)

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	return nil
}

// natsPublisherConfig maps the daemon's NATSConfig onto the eventprocessor
// package's PublisherConfig shape.
func natsPublisherConfig(cfg config.NATSConfig) eventprocessor.PublisherConfig {
	pc := eventprocessor.DefaultPublisherConfig(cfg.URL)
	pc.Subject = cfg.Subject
	pc.MaxReconnects = cfg.MaxReconnects
	pc.ReconnectWait = cfg.ReconnectWait
	pc.EnableTrackMsgID = cfg.EnableTrackMsgID
	return pc
}
