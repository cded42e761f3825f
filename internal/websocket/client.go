// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tomtom215/ripple-go/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // debug-stream clients never send payloads, only pings
)

// clientIDCounter assigns each Client a unique, monotonically increasing ID
// so Hub.broadcastToClients can fan out in a deterministic (sorted) order
// instead of Go's randomized map iteration order.
var clientIDCounter atomic.Uint64

// Client is one subscriber to the debug server's live dispatcher-event
// stream (GET /debug/stream). It is a read-mostly connection: the only
// inbound message a client ever sends is a keepalive ping, everything it
// receives comes from Hub broadcasts of dispatcher lifecycle events.
type Client struct {
	id   uint64
	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

// NewClient registers conn as a new debug-stream subscriber under a
// deterministic, monotonically increasing ID.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   clientIDCounter.Add(1),
		hub:  hub,
		conn: conn,
		send: make(chan Message, 256),
	}
}

// ID returns the client's unique identifier for deterministic ordering.
func (c *Client) ID() uint64 {
	return c.id
}

// readPump drains the connection for keepalive pings and close frames. It
// never interprets an inbound payload as a command -- the debug stream is
// one-directional (dispatcher -> client) by design -- so any JSON that
// isn't a ping is ignored.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Uint64("client_id", c.id).Msg("debug stream: failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("debug stream: unexpected close")
			}
			return
		}
		if msg.Type != MessageTypePing {
			continue
		}
		select {
		case c.send <- Message{Type: MessageTypePong}:
		default:
		}
	}
}

// writePump relays broadcast messages from the hub to the connection and
// keeps it alive with periodic pings between broadcasts.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, open := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("debug stream: failed to set write deadline")
				return
			}
			if !open {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("debug stream: failed to write message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logging.Error().Err(err).Uint64("client_id", c.id).Msg("debug stream: failed to set write deadline for ping")
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start launches the client's read and write pumps in their own goroutines.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
