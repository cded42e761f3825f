// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package config

import "time"

// Config holds all application configuration for the rippled daemon,
// loaded from environment variables and an optional config file.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent settings
//  3. Environment Variables: Override any setting via environment variables
//
// Configuration Categories:
//
//  1. Dispatch: the event-dispatch engine itself (endpoint, API key, batching, retries)
//  2. Persistence: the embedded BadgerDB-backed durability store
//  3. NATS: optional event-driven transport via Watermill/NATS JetStream
//  4. DebugServer: the optional local HTTP server exposing queue state and metrics
//  5. Logging: log levels and output formats
//
// Example - Load configuration from environment:
//
//	cfg, err := config.LoadWithKoanf()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	// cfg.Dispatch.Endpoint, cfg.Persistence.Path, etc. are now populated
//
// Thread Safety:
// Config is immutable after LoadWithKoanf() returns and safe for concurrent
// read access from multiple goroutines.
type Config struct {
	Dispatch    DispatchConfig    `koanf:"dispatch"`
	Persistence PersistenceConfig `koanf:"persistence"`
	NATS        NATSConfig        `koanf:"nats"`
	DebugServer DebugServerConfig `koanf:"debug_server"`
	Logging     LoggingConfig     `koanf:"logging"`
}

// DispatchConfig configures the event-dispatch engine.
//
// Environment Variables:
//   - RIPPLE_API_KEY: collector API key (required)
//   - RIPPLE_ENDPOINT: collector HTTPS endpoint (required)
//   - RIPPLE_API_KEY_HEADER: header name carrying the API key (default: X-API-Key)
//   - RIPPLE_FLUSH_INTERVAL: periodic flush timer interval (default: 5s)
//   - RIPPLE_MAX_BATCH_SIZE: events per flushed batch (default: 10)
//   - RIPPLE_MAX_BUFFER_SIZE: maximum queued events before head eviction (default: 0, unbounded)
//   - RIPPLE_MAX_RETRIES: retry attempts before an event is dropped (default: 3)
type DispatchConfig struct {
	APIKey        string        `koanf:"api_key" validate:"required"`
	Endpoint      string        `koanf:"endpoint" validate:"required,url"`
	APIKeyHeader  string        `koanf:"api_key_header"`
	FlushInterval time.Duration `koanf:"flush_interval" validate:"min=0"`
	MaxBatchSize  int           `koanf:"max_batch_size" validate:"min=0"`
	MaxBufferSize int           `koanf:"max_buffer_size" validate:"min=0"`
	MaxRetries    int           `koanf:"max_retries" validate:"min=0"`
}

// PersistenceConfig configures the embedded BadgerDB-backed durability store
// that survives process restarts.
//
// Environment Variables:
//   - RIPPLE_PERSISTENCE_PATH: BadgerDB directory (default: ./ripple-data)
//   - RIPPLE_PERSISTENCE_SYNC_WRITES: fsync on every write (default: false)
//   - RIPPLE_PERSISTENCE_MAX_QUOTA_BYTES: cap on persisted snapshot size (default: 8MB)
//   - RIPPLE_PERSISTENCE_CLOSE_TIMEOUT: bound on graceful shutdown (default: 10s)
type PersistenceConfig struct {
	Path          string        `koanf:"path" validate:"required"`
	SyncWrites    bool          `koanf:"sync_writes"`
	MaxQuotaBytes int64         `koanf:"max_quota_bytes" validate:"min=0"`
	CloseTimeout  time.Duration `koanf:"close_timeout" validate:"min=0"`
}

// NATSConfig configures the optional event-driven transport. When disabled,
// the dispatcher uses the plain HTTP transport instead.
//
// Environment Variables:
//   - RIPPLE_NATS_ENABLED: use NATS JetStream instead of HTTP (default: false)
//   - RIPPLE_NATS_URL: NATS server URL (default: nats://127.0.0.1:4222)
//   - RIPPLE_NATS_SUBJECT: publish subject (default: ripple.events)
//   - RIPPLE_NATS_MAX_RECONNECTS: reconnect attempts (default: 10)
//   - RIPPLE_NATS_RECONNECT_WAIT: delay between reconnects (default: 2s)
type NATSConfig struct {
	Enabled          bool          `koanf:"enabled"`
	URL              string        `koanf:"url" validate:"required_if=Enabled true"`
	Subject          string        `koanf:"subject"`
	MaxReconnects    int           `koanf:"max_reconnects" validate:"min=-1"`
	ReconnectWait    time.Duration `koanf:"reconnect_wait" validate:"min=0"`
	EnableTrackMsgID bool          `koanf:"enable_track_msg_id"`
	BreakerName      string        `koanf:"breaker_name"`
}

// DebugServerConfig configures the optional local HTTP server exposing
// queue state, Prometheus metrics, and a live event stream for development
// and operational debugging.
//
// Environment Variables:
//   - RIPPLE_DEBUG_SERVER_ENABLED: enable the debug server (default: false)
//   - RIPPLE_DEBUG_SERVER_HOST: bind host (default: 127.0.0.1)
//   - RIPPLE_DEBUG_SERVER_PORT: bind port (default: 8088)
//   - RIPPLE_DEBUG_SERVER_CORS_ORIGINS: comma-separated allowed origins
//   - RIPPLE_DEBUG_SERVER_RATE_LIMIT: requests per minute per client (default: 120)
type DebugServerConfig struct {
	Enabled     bool     `koanf:"enabled"`
	Host        string   `koanf:"host"`
	Port        int      `koanf:"port" validate:"min=0,max=65535"`
	CORSOrigins []string `koanf:"cors_origins"`
	RateLimit   int      `koanf:"rate_limit" validate:"min=0"`
}

// LoggingConfig configures the zerolog-based global logger.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error, fatal, panic (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file/line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}
