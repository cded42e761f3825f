// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

/*
Package config provides centralized configuration management for the
rippled daemon.

This package handles loading, layering, and validation of all
application settings: the dispatch engine itself, the durability store,
the optional NATS transport, the debug HTTP server, and logging.

# Configuration Sources

The package reads configuration from, in increasing priority:
  - Built-in defaults
  - An optional YAML config file (config.yaml, or CONFIG_PATH)
  - Environment variables

# Configuration Structure

  - DispatchConfig: collector endpoint, API key, batching, retries
  - PersistenceConfig: embedded BadgerDB durability store
  - NATSConfig: optional Watermill/NATS JetStream transport
  - DebugServerConfig: local HTTP server for queue state and metrics
  - LoggingConfig: zerolog level/format

# Environment Variables

Dispatch:
  - RIPPLE_API_KEY, RIPPLE_ENDPOINT (required)
  - RIPPLE_API_KEY_HEADER, RIPPLE_FLUSH_INTERVAL
  - RIPPLE_MAX_BATCH_SIZE, RIPPLE_MAX_BUFFER_SIZE, RIPPLE_MAX_RETRIES

Persistence:
  - RIPPLE_PERSISTENCE_PATH, RIPPLE_PERSISTENCE_SYNC_WRITES
  - RIPPLE_PERSISTENCE_MAX_QUOTA_BYTES, RIPPLE_PERSISTENCE_CLOSE_TIMEOUT

NATS:
  - RIPPLE_NATS_ENABLED, RIPPLE_NATS_URL, RIPPLE_NATS_SUBJECT
  - RIPPLE_NATS_MAX_RECONNECTS, RIPPLE_NATS_RECONNECT_WAIT

Debug Server:
  - RIPPLE_DEBUG_SERVER_ENABLED, RIPPLE_DEBUG_SERVER_HOST, RIPPLE_DEBUG_SERVER_PORT
  - RIPPLE_DEBUG_SERVER_CORS_ORIGINS, RIPPLE_DEBUG_SERVER_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal("failed to load config:", err)
	}

	dispatcherCfg := dispatch.Config{
	    APIKey:        cfg.Dispatch.APIKey,
	    Endpoint:      cfg.Dispatch.Endpoint,
	    APIKeyHeader:  cfg.Dispatch.APIKeyHeader,
	    FlushInterval: cfg.Dispatch.FlushInterval,
	    MaxBatchSize:  cfg.Dispatch.MaxBatchSize,
	    MaxBufferSize: cfg.Dispatch.MaxBufferSize,
	    MaxRetries:    cfg.Dispatch.MaxRetries,
	}

# Validation

Validate() applies go-playground/validator struct tags (required, url,
min/max, oneof) first, then the cross-field checks that tags can't
express: a buffer smaller than the batch size, and a non-loopback debug
server bind with no configured CORS origins.

# Thread Safety

Config is immutable after LoadWithKoanf() returns and safe for
concurrent read access from multiple goroutines.
*/
package config
