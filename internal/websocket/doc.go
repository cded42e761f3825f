// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

/*
Package websocket provides the live dispatcher-event stream served by
internal/debugserver.

It broadcasts Dispatcher lifecycle events -- enqueue, flush start/success,
retry, terminal drop, buffer eviction, and queue-depth samples -- to any
number of connected debug clients in real time. It uses the
gorilla/websocket library with a hub-client architecture for efficient
broadcasting.

Key Components:

  - Hub: central message broker that manages client connections and broadcasts
  - Client: a single WebSocket connection with read/write goroutines
  - Message: typed envelope for each lifecycle event kind

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: reads from the WebSocket connection, answers pings
  - writePump: writes hub broadcasts to the connection, sends its own pings

Usage Example - Server:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx) // or hub.Run() for unsupervised use

	http.HandleFunc("/debug/stream", func(w http.ResponseWriter, r *http.Request) {
	    // upgrade and hub.Register <- websocket.NewClient(hub, conn)
	})

	hub.BroadcastFlushStarted(3)
	hub.BroadcastFlushSucceeded(3)

Usage Example - Client (JavaScript):

	const ws = new WebSocket('ws://localhost:8088/debug/stream');
	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);
	    if (msg.type === 'flush_succeeded') {
	        console.log(`delivered ${msg.data.batchSize} events`);
	    }
	};

Connection Lifecycle:

1. Client connects via HTTP upgrade at the debug server
2. Hub registers the client
3. Client starts its read/write goroutines
4. Hub broadcasts dispatcher lifecycle messages to all clients
5. Client disconnects (network error or explicit close)
6. Hub unregisters the client and cleans up

Thread Safety:

  - Hub uses a mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Configuration:

	writeWait:      10 seconds (time allowed to write a message)
	pongWait:       60 seconds (time allowed to read a pong)
	pingPeriod:     54 seconds (ping interval, must be < pongWait)
	maxMessageSize: 4 KB

See Also:

  - github.com/gorilla/websocket: underlying WebSocket library
  - internal/debugserver: HTTP surface that serves the upgrade endpoint
*/
package websocket
