// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ripple-go/internal/logging"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled indicates the parent context was canceled.
	// This is the normal graceful shutdown path (e.g., SIGTERM).
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates the context deadline was exceeded.
	// This may indicate a hung operation during shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types broadcast over the live dispatcher-event stream. Each
// corresponds to a point in the Dispatcher's flush lifecycle that the
// debug server's clients want to observe in real time.
const (
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeEnqueued       = "enqueued"
	MessageTypeFlushStarted   = "flush_started"
	MessageTypeFlushSucceeded = "flush_succeeded"
	MessageTypeBatchRetried   = "batch_retried"
	MessageTypeTerminalDrop   = "terminal_drop"
	MessageTypeBufferEvicted  = "buffer_evicted"
	MessageTypeQueueDepth     = "queue_depth"
)

// Message represents a single event broadcast over the websocket stream.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active debug-stream clients and broadcasts
// dispatcher lifecycle events to all of them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub (blocks forever, no context support).
//
// Deprecated: Use RunWithContext for supervised operation.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client connected")
			continue
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client disconnected")
			continue
		default:
		}

		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client connected")

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client disconnected")

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// This method is designed for use with suture supervision (internal/supervisor).
//
// DETERMINISM: uses priority-based selection -- shutdown first, then client
// lifecycle events, then broadcasts -- so client bookkeeping is always
// consistent before a message is fanned out.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client connected")
			continue
		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client disconnected")
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()

		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client connected")

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			logging.Info().Int("total_clients", len(h.clients)).Msg("websocket client disconnected")

		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()
	reason := getShutdownReason(ctx)

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(reason)).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.Canceled:
		return ShutdownReasonContextCanceled
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

// broadcastToClients sends a message to all connected clients in a
// deterministic order (sorted by client ID) so broadcast fan-out is
// reproducible in tests.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
	}
}

// closeAllClients gracefully closes all connected WebSocket clients.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
	}
	logging.Info().Msg("closed all websocket clients during shutdown")
}

func (h *Hub) broadcastJSON(messageType string, data interface{}) {
	message := Message{Type: messageType, Data: data}
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// EnqueuedData describes a single event accepted into the dispatcher's queue.
type EnqueuedData struct {
	Name       string `json:"name"`
	QueueDepth int    `json:"queueDepth"`
}

// BroadcastEnqueued notifies clients that an event was accepted into the queue.
func (h *Hub) BroadcastEnqueued(name string, queueDepth int) {
	h.broadcastJSON(MessageTypeEnqueued, EnqueuedData{Name: name, QueueDepth: queueDepth})
}

// FlushStartedData describes the batch a flush cycle is about to send.
type FlushStartedData struct {
	BatchSize int    `json:"batchSize"`
	Timestamp string `json:"timestamp"`
}

// BroadcastFlushStarted notifies clients that a flush has begun sending batchSize events.
func (h *Hub) BroadcastFlushStarted(batchSize int) {
	h.broadcastJSON(MessageTypeFlushStarted, FlushStartedData{
		BatchSize: batchSize,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// FlushSucceededData describes a successfully delivered batch.
type FlushSucceededData struct {
	BatchSize int `json:"batchSize"`
}

// BroadcastFlushSucceeded notifies clients that a batch was accepted by the collector.
func (h *Hub) BroadcastFlushSucceeded(batchSize int) {
	h.broadcastJSON(MessageTypeFlushSucceeded, FlushSucceededData{BatchSize: batchSize})
}

// BatchRetriedData describes a batch requeued for retry after a 5xx/network failure.
type BatchRetriedData struct {
	BatchSize int   `json:"batchSize"`
	Attempt   int   `json:"attempt"`
	DelayMs   int64 `json:"delayMs"`
}

// BroadcastBatchRetried notifies clients that a batch was requeued with a scheduled backoff.
func (h *Hub) BroadcastBatchRetried(batchSize, attempt int, delay time.Duration) {
	h.broadcastJSON(MessageTypeBatchRetried, BatchRetriedData{
		BatchSize: batchSize,
		Attempt:   attempt,
		DelayMs:   delay.Milliseconds(),
	})
}

// TerminalDropData describes events dropped permanently.
type TerminalDropData struct {
	Count  int    `json:"count"`
	Reason string `json:"reason"` // "rejected" (4xx) or "retries_exhausted"
}

// BroadcastTerminalDrop notifies clients that count events were dropped permanently.
func (h *Hub) BroadcastTerminalDrop(count int, reason string) {
	h.broadcastJSON(MessageTypeTerminalDrop, TerminalDropData{Count: count, Reason: reason})
}

// BufferEvictedData describes events dropped to enforce MaxBufferSize.
type BufferEvictedData struct {
	Count int `json:"count"`
}

// BroadcastBufferEvicted notifies clients that count events were evicted from the buffer.
func (h *Hub) BroadcastBufferEvicted(count int) {
	h.broadcastJSON(MessageTypeBufferEvicted, BufferEvictedData{Count: count})
}

// QueueDepthData reports the current number of events held in the queue.
type QueueDepthData struct {
	Depth int `json:"depth"`
}

// BroadcastQueueDepth notifies clients of the current queue depth.
func (h *Hub) BroadcastQueueDepth(depth int) {
	h.broadcastJSON(MessageTypeQueueDepth, QueueDepthData{Depth: depth})
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
