// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package websocket

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomtom215/ripple-go/internal/logging"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates and starts a new hub for testing
func setupHub(t *testing.T) *Hub {
	hub := NewHub()
	go hub.Run()
	time.Sleep(10 * time.Millisecond)
	return hub
}

// createTestClient creates a mock client for testing
func createTestClient(hub *Hub) *Client {
	return &Client{hub: hub, conn: nil, send: make(chan Message, 256)}
}

// registerClient registers a client and waits for registration to complete
func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	time.Sleep(20 * time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}

	checks := []struct {
		name   string
		check  bool
		errMsg string
	}{
		{"clients map", hub.clients != nil, "clients map not initialized"},
		{"broadcast channel", hub.broadcast != nil, "broadcast channel not initialized"},
		{"Register channel", hub.Register != nil, "Register channel not initialized"},
		{"Unregister channel", hub.Unregister != nil, "Unregister channel not initialized"},
		{"empty clients", len(hub.clients) == 0, "clients map should be empty"},
	}

	for _, c := range checks {
		if !c.check {
			t.Error(c.errMsg)
		}
	}
}

func TestHub_GetClientCount(t *testing.T) {
	hub := NewHub()

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients initially, got %d", hub.GetClientCount())
	}

	for i := 0; i < 5; i++ {
		hub.clients[createTestClient(hub)] = true
	}

	if hub.GetClientCount() != 5 {
		t.Errorf("Expected 5 clients, got %d", hub.GetClientCount())
	}
}

func TestHub_BroadcastMethods(t *testing.T) {
	t.Run("BroadcastEnqueued without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastEnqueued("page_view", 1)
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastFlushStarted without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastFlushStarted(3)
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastFlushSucceeded without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastFlushSucceeded(3)
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastBatchRetried without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastBatchRetried(3, 1, time.Second)
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastTerminalDrop without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastTerminalDrop(2, "rejected")
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastBufferEvicted without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastBufferEvicted(1)
		time.Sleep(10 * time.Millisecond)
	})

	t.Run("BroadcastQueueDepth without clients", func(t *testing.T) {
		hub := setupHub(t)
		hub.BroadcastQueueDepth(5)
		time.Sleep(10 * time.Millisecond)
	})
}

func TestHub_ClientRegistration(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)
	registerClient(hub, client)

	if hub.GetClientCount() != 1 {
		t.Errorf("Expected 1 client, got %d", hub.GetClientCount())
	}

	hub.mu.RLock()
	if !hub.clients[client] {
		t.Error("Client should be registered")
	}
	hub.mu.RUnlock()

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestHub_UnregisterNonExistentClient(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub)

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("Expected 0 clients, got %d", hub.GetClientCount())
	}
}

func TestHub_BroadcastToClients(t *testing.T) {
	hub := setupHub(t)

	const numClients = 3
	clients := make([]*Client, numClients)
	var mu sync.Mutex
	received := make([]bool, numClients)
	var wg sync.WaitGroup

	for i := 0; i < numClients; i++ {
		clients[i] = createTestClient(hub)
		registerClient(hub, clients[i])
	}

	if hub.GetClientCount() != numClients {
		t.Fatalf("Expected %d clients, got %d", numClients, hub.GetClientCount())
	}

	for i := 0; i < numClients; i++ {
		wg.Add(1)
		go func(idx int, c *Client) {
			defer wg.Done()
			select {
			case msg := <-c.send:
				if msg.Type == MessageTypeFlushSucceeded {
					mu.Lock()
					received[idx] = true
					mu.Unlock()
				}
			case <-time.After(500 * time.Millisecond):
			}
		}(i, clients[i])
	}

	time.Sleep(20 * time.Millisecond)
	hub.BroadcastFlushSucceeded(7)
	wg.Wait()

	mu.Lock()
	for i, r := range received {
		if !r {
			t.Errorf("Client %d did not receive broadcast", i)
		}
	}
	mu.Unlock()
}

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := setupHub(t)
	done := make(chan bool)

	go func() {
		for i := 0; i < 10; i++ {
			registerClient(hub, createTestClient(hub))
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 20; i++ {
			hub.BroadcastQueueDepth(i)
			time.Sleep(2 * time.Millisecond)
		}
		done <- true
	}()

	go func() {
		for i := 0; i < 50; i++ {
			hub.GetClientCount()
			time.Sleep(1 * time.Millisecond)
		}
		done <- true
	}()

	for i := 0; i < 3; i++ {
		<-done
	}
	time.Sleep(100 * time.Millisecond)

	if hub.GetClientCount() != 10 {
		t.Errorf("Expected 10 clients, got %d", hub.GetClientCount())
	}
}

func TestMarshalMessage(t *testing.T) {
	tests := []struct {
		name    string
		message Message
	}{
		{"simple message", Message{Type: MessageTypePing, Data: nil}},
		{"string data", Message{Type: "test", Data: "hello world"}},
		{"map data", Message{Type: MessageTypeQueueDepth, Data: map[string]interface{}{"depth": 42}}},
		{"struct data", Message{Type: MessageTypeFlushSucceeded, Data: FlushSucceededData{BatchSize: 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalMessage(tt.message)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(data) == 0 || data[0] != '{' || data[len(data)-1] != '}' {
				t.Error("Invalid JSON output")
			}
		})
	}
}

func TestHub_MessageTypes(t *testing.T) {
	expected := map[string]string{
		MessageTypePing:           "ping",
		MessageTypePong:           "pong",
		MessageTypeEnqueued:       "enqueued",
		MessageTypeFlushStarted:   "flush_started",
		MessageTypeFlushSucceeded: "flush_succeeded",
		MessageTypeBatchRetried:   "batch_retried",
		MessageTypeTerminalDrop:   "terminal_drop",
		MessageTypeBufferEvicted:  "buffer_evicted",
		MessageTypeQueueDepth:     "queue_depth",
	}

	for got, want := range expected {
		if got != want {
			t.Errorf("Message type = %q, want %q", got, want)
		}
	}
}

func TestHub_BroadcastWithClients(t *testing.T) {
	tests := []struct {
		name        string
		broadcast   func(*Hub)
		wantType    string
		validateMsg func(*testing.T, Message)
	}{
		{
			name:      "BroadcastEnqueued",
			broadcast: func(h *Hub) { h.BroadcastEnqueued("signup", 4) },
			wantType:  MessageTypeEnqueued,
			validateMsg: func(t *testing.T, msg Message) {
				data, ok := msg.Data.(EnqueuedData)
				if !ok {
					t.Fatalf("Expected EnqueuedData, got %T", msg.Data)
				}
				if data.Name != "signup" || data.QueueDepth != 4 {
					t.Error("Invalid EnqueuedData")
				}
			},
		},
		{
			name:      "BroadcastFlushSucceeded",
			broadcast: func(h *Hub) { h.BroadcastFlushSucceeded(10) },
			wantType:  MessageTypeFlushSucceeded,
			validateMsg: func(t *testing.T, msg Message) {
				data, ok := msg.Data.(FlushSucceededData)
				if !ok {
					t.Fatalf("Expected FlushSucceededData, got %T", msg.Data)
				}
				if data.BatchSize != 10 {
					t.Error("Invalid FlushSucceededData")
				}
			},
		},
		{
			name:      "BroadcastTerminalDrop",
			broadcast: func(h *Hub) { h.BroadcastTerminalDrop(2, "retries_exhausted") },
			wantType:  MessageTypeTerminalDrop,
			validateMsg: func(t *testing.T, msg Message) {
				data, ok := msg.Data.(TerminalDropData)
				if !ok {
					t.Fatalf("Expected TerminalDropData, got %T", msg.Data)
				}
				if data.Count != 2 || data.Reason != "retries_exhausted" {
					t.Error("Invalid TerminalDropData")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := setupHub(t)
			client := createTestClient(hub)
			registerClient(hub, client)

			tt.broadcast(hub)

			select {
			case msg := <-client.send:
				if msg.Type != tt.wantType {
					t.Errorf("Type = %q, want %q", msg.Type, tt.wantType)
				}
				tt.validateMsg(t, msg)
			case <-time.After(100 * time.Millisecond):
				t.Error("Timeout waiting for message")
			}

			hub.Unregister <- client
		})
	}
}

func TestHub_ChannelFullBehavior(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	defer zerolog.SetGlobalLevel(oldLevel)

	tests := []struct {
		name      string
		broadcast func(*Hub)
	}{
		{"BroadcastEnqueued", func(h *Hub) { h.BroadcastEnqueued("x", 1) }},
		{"BroadcastFlushSucceeded", func(h *Hub) { h.BroadcastFlushSucceeded(1) }},
		{"BroadcastTerminalDrop", func(h *Hub) { h.BroadcastTerminalDrop(1, "rejected") }},
		{"BroadcastQueueDepth", func(h *Hub) { h.BroadcastQueueDepth(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub() // Don't start Run() so channel fills

			for i := 0; i < 256; i++ {
				tt.broadcast(hub)
			}
			tt.broadcast(hub) // Should hit default case and not block
		})
	}
}

// TestHub_BroadcastToFullClient tests broadcasting when a client's send channel is full
func TestHub_BroadcastToFullClient(t *testing.T) {
	hub := setupHub(t)

	client := &Client{hub: hub, conn: nil, send: make(chan Message, 1)}
	registerClient(hub, client)

	client.send <- Message{Type: "filler", Data: nil}

	hub.BroadcastQueueDepth(99)

	var clientCount int
	for i := 0; i < 10; i++ {
		time.Sleep(20 * time.Millisecond)
		clientCount = hub.GetClientCount()
		if clientCount == 0 {
			break
		}
	}

	if clientCount != 0 {
		t.Errorf("Expected 0 clients after overflow handling, got %d", clientCount)
	}
}

// TestHub_RunWithContext tests the context-aware run method
func TestHub_RunWithContext(t *testing.T) {
	t.Run("shuts down on context cancellation", func(t *testing.T) {
		oldLevel := zerolog.GlobalLevel()
		zerolog.SetGlobalLevel(zerolog.Disabled)
		defer zerolog.SetGlobalLevel(oldLevel)

		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("RunWithContext did not return after context cancellation")
		}
	})

	t.Run("shuts down on context deadline", func(t *testing.T) {
		oldLevel := zerolog.GlobalLevel()
		zerolog.SetGlobalLevel(zerolog.Disabled)
		defer zerolog.SetGlobalLevel(oldLevel)

		hub := NewHub()
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected context.DeadlineExceeded, got %v", err)
			}
		case <-time.After(time.Second):
			t.Error("RunWithContext did not return after deadline")
		}
	})

	t.Run("closes all clients on shutdown", func(t *testing.T) {
		oldLevel := zerolog.GlobalLevel()
		zerolog.SetGlobalLevel(zerolog.Disabled)
		defer zerolog.SetGlobalLevel(oldLevel)

		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		clients := make([]*Client, 3)
		for i := 0; i < 3; i++ {
			clients[i] = createTestClient(hub)
			hub.Register <- clients[i]
		}

		var clientCount int
		for i := 0; i < 10; i++ {
			time.Sleep(20 * time.Millisecond)
			clientCount = hub.GetClientCount()
			if clientCount == 3 {
				break
			}
		}

		if clientCount != 3 {
			t.Fatalf("expected 3 clients, got %d", clientCount)
		}

		cancel()

		select {
		case <-errCh:
		case <-time.After(time.Second):
			t.Fatal("RunWithContext did not return after context cancellation")
		}

		if hub.GetClientCount() != 0 {
			t.Errorf("expected 0 clients after shutdown, got %d", hub.GetClientCount())
		}
	})

	t.Run("handles messages before shutdown", func(t *testing.T) {
		oldLevel := zerolog.GlobalLevel()
		zerolog.SetGlobalLevel(zerolog.Disabled)
		defer zerolog.SetGlobalLevel(oldLevel)

		hub := NewHub()
		ctx, cancel := context.WithCancel(context.Background())

		errCh := make(chan error, 1)
		go func() {
			errCh <- hub.RunWithContext(ctx)
		}()

		client := createTestClient(hub)
		hub.Register <- client
		time.Sleep(20 * time.Millisecond)

		hub.BroadcastQueueDepth(12)

		select {
		case msg := <-client.send:
			if msg.Type != MessageTypeQueueDepth {
				t.Errorf("expected message type %q, got %q", MessageTypeQueueDepth, msg.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Error("did not receive message")
		}

		cancel()
		<-errCh
	})
}

// TestHub_CloseAllClients tests the closeAllClients method
func TestHub_CloseAllClients(t *testing.T) {
	hub := NewHub()

	clients := make([]*Client, 5)
	for i := 0; i < 5; i++ {
		clients[i] = createTestClient(hub)
		hub.mu.Lock()
		hub.clients[clients[i]] = true
		hub.mu.Unlock()
	}

	if hub.GetClientCount() != 5 {
		t.Fatalf("expected 5 clients, got %d", hub.GetClientCount())
	}

	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	hub.closeAllClients()
	zerolog.SetGlobalLevel(oldLevel)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after closeAllClients, got %d", hub.GetClientCount())
	}
}

func BenchmarkHub_BroadcastQueueDepth(b *testing.B) {
	hub := NewHub()
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	for i := 0; i < 10; i++ {
		client := createTestClient(hub)
		hub.Register <- client
		go func(c *Client) {
			for range c.send {
			}
		}(client)
	}

	time.Sleep(100 * time.Millisecond)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		hub.BroadcastQueueDepth(i)
	}
}

func BenchmarkHub_RegisterUnregister(b *testing.B) {
	hub := NewHub()
	go hub.Run()
	time.Sleep(10 * time.Millisecond)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client := createTestClient(hub)
		hub.Register <- client
		hub.Unregister <- client
	}
}

// TestGetShutdownReason verifies shutdown reason detection from context errors.
func TestGetShutdownReason(t *testing.T) {
	tests := []struct {
		name     string
		setupCtx func() context.Context
		expected ShutdownReason
	}{
		{
			name: "context canceled returns context_canceled",
			setupCtx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			expected: ShutdownReasonContextCanceled,
		},
		{
			name: "context deadline exceeded returns context_deadline",
			setupCtx: func() context.Context {
				ctx, cancel := context.WithTimeout(context.Background(), 1*time.Nanosecond)
				defer cancel()
				time.Sleep(10 * time.Millisecond)
				return ctx
			},
			expected: ShutdownReasonContextDeadline,
		},
		{
			name: "active context has no error (edge case)",
			setupCtx: func() context.Context {
				return context.Background()
			},
			expected: ShutdownReasonContextCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := tt.setupCtx()
			got := getShutdownReason(ctx)
			if got != tt.expected {
				t.Errorf("getShutdownReason() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestShutdownReason_Constants(t *testing.T) {
	tests := []struct {
		constant ShutdownReason
		expected string
	}{
		{ShutdownReasonContextCanceled, "context_canceled"},
		{ShutdownReasonContextDeadline, "context_deadline"},
	}

	for _, tt := range tests {
		if string(tt.constant) != tt.expected {
			t.Errorf("ShutdownReason constant = %q, want %q", tt.constant, tt.expected)
		}
	}
}

func TestHub_GracefulShutdown_LogsCorrectly(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	defer zerolog.SetGlobalLevel(oldLevel)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- hub.RunWithContext(ctx)
	}()

	numClients := 3
	for i := 0; i < numClients; i++ {
		client := createTestClient(hub)
		hub.Register <- client
	}

	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		if hub.GetClientCount() == numClients {
			break
		}
	}

	if hub.GetClientCount() != numClients {
		t.Fatalf("expected %d clients, got %d", numClients, hub.GetClientCount())
	}

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("shutdown did not complete in time")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after shutdown, got %d", hub.GetClientCount())
	}
}

func TestHub_GracefulShutdown_ZeroClients(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	defer zerolog.SetGlobalLevel(oldLevel)

	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- hub.RunWithContext(ctx)
	}()

	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.GetClientCount())
	}

	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("shutdown did not complete in time")
	}
}

func TestHub_logGracefulShutdown_Idempotent(t *testing.T) {
	oldLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	defer zerolog.SetGlobalLevel(oldLevel)

	hub := NewHub()

	client := createTestClient(hub)
	hub.mu.Lock()
	hub.clients[client] = true
	hub.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hub.logGracefulShutdown(ctx)
	hub.logGracefulShutdown(ctx)
	hub.logGracefulShutdown(ctx)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after shutdown, got %d", hub.GetClientCount())
	}
}
