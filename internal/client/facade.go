// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

// Package client provides the public-facing SDK entry point: a thin
// facade over the dispatch engine that buffers calls made before Init and
// silently discards calls made after Dispose, so callers never have to
// special-case the SDK's own startup ordering.
package client

import (
	"context"
	"sync"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

type deferredTrack struct {
	name     string
	payload  map[string]any
	metadata map[string]any
}

// Client is the public surface: construct once, call Init when the host
// application is ready, then Track/SetMetadata/Flush/Dispose freely from
// any goroutine.
type Client struct {
	metadata   *dispatch.MetadataManager
	dispatcher *dispatch.Dispatcher
	session    dispatch.SessionProvider

	mu          sync.Mutex
	initialized bool
	disposed    bool
	deferred    []deferredTrack
}

// New constructs a Client around an already-built Dispatcher and the
// MetadataManager it was wired to read from. session supplies the value
// returned by GetSessionId; it may be nil, in which case GetSessionId
// always returns nil. The Dispatcher is not initialized until Init is
// called.
func New(dispatcher *dispatch.Dispatcher, metadata *dispatch.MetadataManager, session dispatch.SessionProvider) *Client {
	return &Client{dispatcher: dispatcher, metadata: metadata, session: session}
}

// Init starts the underlying Dispatcher and replays, in FIFO order, any
// Track calls made before Init returned. It is idempotent: calling it
// again after a successful Init is a no-op.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if err := c.dispatcher.Init(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.initialized = true
	c.disposed = false
	pending := c.deferred
	c.deferred = nil
	c.mu.Unlock()

	for _, t := range pending {
		_ = c.dispatcher.Enqueue(t.name, t.payload, t.metadata)
	}
	return nil
}

// Track records an event. Name must be non-empty. Before Init, the call is
// buffered and replayed once Init runs; after Dispose, it is dropped
// silently rather than returning an error, matching the facade's
// fire-and-forget contract.
func (c *Client) Track(name string, payload map[string]any, metadata map[string]any) error {
	if name == "" {
		return dispatch.ErrEmptyEventName
	}

	c.mu.Lock()
	switch {
	case c.disposed:
		c.mu.Unlock()
		return nil
	case !c.initialized:
		c.deferred = append(c.deferred, deferredTrack{name: name, payload: payload, metadata: metadata})
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	return c.dispatcher.Enqueue(name, payload, metadata)
}

// SetMetadata is always legal, including before Init and after Dispose.
func (c *Client) SetMetadata(key string, value any) {
	c.metadata.Set(key, value)
}

// GetMetadata is always legal.
func (c *Client) GetMetadata(key string) (any, bool) {
	return c.metadata.Get(key)
}

// GetSessionId returns the current session identifier, or nil if no
// SessionProvider was supplied or none is active.
func (c *Client) GetSessionId() *string {
	if c.session == nil {
		return nil
	}
	return c.session()
}

// Flush requests an immediate flush. It is a no-op before Init.
func (c *Client) Flush(ctx context.Context) {
	c.mu.Lock()
	ready := c.initialized && !c.disposed
	c.mu.Unlock()
	if ready {
		c.dispatcher.Flush(ctx)
	}
}

// Dispose tears down the Dispatcher and clears metadata. A disposed Client
// can be reused by calling Init again.
func (c *Client) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.initialized = false
	c.mu.Unlock()

	c.dispatcher.Dispose()
	c.metadata.Clear()
}

// Close is an alias for Dispose, for callers that prefer io.Closer-style
// naming.
func (c *Client) Close() error {
	c.Dispose()
	return nil
}
