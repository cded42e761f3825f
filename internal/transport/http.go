// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

// Package transport provides dispatch.Transport implementations: a default
// HTTP/JSON sender, and an optional NATS JetStream publisher guarded by the
// eventprocessor package's nats build tag.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// HTTPTransport POSTs a JSON-encoded event batch to a collector endpoint,
// authenticating with a configurable header. It is the Dispatcher's
// default transport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns an HTTPTransport using client, or
// http.DefaultClient if client is nil.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

// Send implements dispatch.Transport.
func (t *HTTPTransport) Send(ctx context.Context, batch []dispatch.Event, endpoint, headerName, apiKey string) (*dispatch.Response, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encode batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerName, apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send batch: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var decoded any
	if len(data) > 0 {
		_ = json.Unmarshal(data, &decoded)
	}

	return &dispatch.Response{Status: resp.StatusCode, Data: decoded}, nil
}
