// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

/*
Package supervisor provides process supervision for the rippled daemon
using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of the daemon's long-running background goroutines -- the
optional debug HTTP server and its websocket event hub. It provides
Erlang/OTP-style supervision with automatic restart, failure isolation,
and graceful shutdown, so a panic inside a websocket broadcast loop
restarts that one component instead of taking the daemon down. The
dispatch engine's flush timer is not in this tree (see "What Is NOT
Supervised" below).

# Overview

The supervisor tree organizes services into three layers for failure
isolation:

	RootSupervisor ("rippled")
	├── DispatchSupervisor ("dispatch-layer")
	│   └── (empty in cmd/rippled)
	├── MessagingSupervisor ("messaging-layer")
	│   └── websocket hub service (internal/websocket, via internal/debugserver)
	└── APISupervisor ("api-layer")
	    └── debug HTTP server (internal/debugserver)

This hierarchy ensures that:
  - A crash in the debug server doesn't stop events from being dispatched
  - A crash in the websocket hub doesn't affect the HTTP request path
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via sutureslog adapter

# Usage Example

Basic setup in cmd/rippled:

	import (
	    "log/slog"
	    "github.com/tomtom215/ripple-go/internal/supervisor"
	)

	func main() {
	    logger := slog.Default()
	    config := supervisor.DefaultTreeConfig()

	    tree, err := supervisor.NewSupervisorTree(logger, config)
	    if err != nil {
	        log.Fatal(err)
	    }

	    tree.AddAPIService(debugServer)
	    tree.AddMessagingService(eventHub)

	    ctx := context.Background()
	    if err := tree.Serve(ctx); err != nil {
	        log.Printf("Supervisor stopped: %v", err)
	    }
	}

Background operation:

	// Start in background
	errChan := tree.ServeBackground(ctx)

	// Do other setup...

	// Wait for shutdown
	if err := <-errChan; err != nil {
	    log.Printf("Supervisor error: %v", err)
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,          // Failures before backoff
	    FailureDecay:     30.0,         // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Default values match suture's production-ready defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Failure Handling

The supervisor uses a failure counter with exponential decay:

1. Each service failure increments the counter
2. Counter decays exponentially over time (FailureDecay seconds)
3. When counter exceeds FailureThreshold, supervisor enters backoff
4. During backoff, restarts are delayed by FailureBackoff duration
5. If failures continue, the child supervisor may be restarted by parent

Example failure scenarios:

	# Single crash - immediate restart
	Service crashes -> Counter: 1 -> Restart immediately

	# Rapid crashes - backoff triggered
	Service crashes 5x in 10s -> Counter: 5+ -> Wait 15s before restart

	# Isolated failures - counter decays
	Service crashes once, stable for 60s -> Counter: ~0.25 -> Normal restart

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: Service stopped cleanly, will not be restarted
  - Return error: Service crashed, will be restarted
  - Context canceled: Shutdown requested, return promptly

# What Is NOT Supervised

The core dispatch.Dispatcher itself is not a suture.Service -- it is a
library object embedded directly in the host application (or, for
cmd/rippled, constructed once at startup). Its flush-timer goroutine is
supervised by the Dispatcher's own internal suture supervisor (see
dispatch.Dispatcher.Init), not by this tree; only the daemon's
debug-server goroutines are supervised here. The embedded BadgerDB persistence store
is not supervised either -- it has no background goroutine of its own, and
a failed open/close call surfaces synchronously to its caller.

# Debugging Shutdown Issues

If services don't stop within the timeout:

	// Get report of unstopped services
	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

Common causes:
  - Goroutines not respecting context cancellation
  - Blocked network I/O without deadlines
  - Mutex deadlocks during shutdown

# Thread Safety

The SupervisorTree is safe for concurrent use:
  - Services can be added from any goroutine
  - Remove operations are synchronized
  - Multiple services can crash simultaneously

# See Also

  - internal/debugserver: services supervised under the messaging/api layers
  - github.com/thejerf/suture/v4: underlying library
*/
package supervisor
