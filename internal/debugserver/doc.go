// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

/*
Package debugserver provides a local-only HTTP surface for inspecting a
running rippled daemon: dispatcher liveness/readiness, current queue
state, Prometheus metrics, and a live websocket stream of dispatcher
lifecycle events.

It is built on the same Chi + go-chi/cors + go-chi/httprate stack the
teacher codebase uses for its production API router, scaled down to the
handful of routes a debugging surface needs:

	GET /healthz/live    -- process liveness
	GET /healthz/ready   -- dispatcher Init has completed, ready to flush
	GET /debug/queue     -- current queue depth and a snapshot of its events
	GET /debug/stream    -- upgrades to a websocket and joins the event hub
	GET /metrics         -- Prometheus exposition format

This server is never required for the SDK's core event-dispatch
behavior -- it is purely an operational aid and is only started when
Config.DebugServer.Enabled is true in cmd/rippled.

# Supervision

Server implements suture.Service and is added to the API layer of
internal/supervisor.SupervisorTree via AddAPIService. A panic inside a
handler is caught by chi middleware's Recoverer before it can reach the
supervisor; a failure to bind the listening port surfaces as a Serve
error and triggers the supervisor's restart/backoff policy.

# See Also

  - internal/websocket: the event hub this package's /debug/stream upgrades into
  - internal/metrics: the Prometheus collectors /metrics exposes
  - internal/supervisor: process supervision for this server
*/
package debugserver
