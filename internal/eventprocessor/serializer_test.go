// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package eventprocessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/ripple-go/internal/dispatch"
)

func sampleBatch() []dispatch.Event {
	sid := "sess-1"
	return []dispatch.Event{
		{
			Name:      "page_view",
			Payload:   map[string]any{"path": "/home"},
			IssuedAt:  1700000000000,
			SessionID: &sid,
			Metadata:  map[string]any{"plan": "pro"},
			Platform:  dispatch.ServerPlatform,
		},
		{
			Name:     "button_click",
			IssuedAt: 1700000000500,
		},
	}
}

func TestSerializer_Marshal(t *testing.T) {
	s := NewSerializer()

	t.Run("valid batch", func(t *testing.T) {
		data, err := s.Marshal(sampleBatch())
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.Contains(t, string(data), "page_view")
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		_, err := s.Marshal(nil)
		assert.Error(t, err)
	})
}

func TestSerializer_Unmarshal(t *testing.T) {
	s := NewSerializer()

	t.Run("valid JSON", func(t *testing.T) {
		data := []byte(`[{"name":"page_view","issuedAt":1700000000000}]`)
		batch, err := s.Unmarshal(data)
		require.NoError(t, err)
		require.Len(t, batch, 1)
		assert.Equal(t, "page_view", batch[0].Name)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := s.Unmarshal([]byte(`{not json}`))
		assert.Error(t, err)
	})
}

func TestBatchRoundTrip(t *testing.T) {
	s := NewSerializer()
	original := sampleBatch()

	data, err := s.Marshal(original)
	require.NoError(t, err)

	decoded, err := s.Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(original))
	assert.Equal(t, original[0].Name, decoded[0].Name)
	assert.Equal(t, *original[0].SessionID, *decoded[0].SessionID)
	assert.Equal(t, original[1].Name, decoded[1].Name)
}

func TestSerializeDeserializeBatch(t *testing.T) {
	batch := sampleBatch()
	data, err := SerializeBatch(batch)
	require.NoError(t, err)

	decoded, err := DeserializeBatch(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(batch))
}
