// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package eventprocessor

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

// Serializer handles batch encoding/decoding for NATS messages.
type Serializer struct{}

// NewSerializer creates a new serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Marshal converts an event batch to JSON bytes.
func (s *Serializer) Marshal(batch []dispatch.Event) ([]byte, error) {
	if len(batch) == 0 {
		return nil, fmt.Errorf("marshal batch: empty batch")
	}

	data, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}
	return data, nil
}

// Unmarshal converts JSON bytes to an event batch.
func (s *Serializer) Unmarshal(data []byte) ([]dispatch.Event, error) {
	var batch []dispatch.Event
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("unmarshal batch: %w", err)
	}
	return batch, nil
}

// SerializeBatch is a convenience function that marshals a batch to JSON.
func SerializeBatch(batch []dispatch.Event) ([]byte, error) {
	return NewSerializer().Marshal(batch)
}

// DeserializeBatch is a convenience function that unmarshals JSON to a
// batch.
func DeserializeBatch(data []byte) ([]dispatch.Event, error) {
	return NewSerializer().Unmarshal(data)
}
