// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/rippled/config.yaml",
	"/etc/rippled/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Dispatch: DispatchConfig{
			APIKeyHeader:  "X-API-Key",
			FlushInterval: 5 * time.Second,
			MaxBatchSize:  10,
			MaxBufferSize: 0, // unbounded by default
			MaxRetries:    3,
		},
		Persistence: PersistenceConfig{
			Path:          "./ripple-data",
			SyncWrites:    false,
			MaxQuotaBytes: 8 * 1024 * 1024,
			CloseTimeout:  10 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:          false,
			URL:              "nats://127.0.0.1:4222",
			Subject:          "ripple.events",
			MaxReconnects:    10,
			ReconnectWait:    2 * time.Second,
			EnableTrackMsgID: true,
			BreakerName:      "nats-publisher",
		},
		DebugServer: DebugServerConfig{
			Enabled:     false,
			Host:        "127.0.0.1",
			Port:        8088,
			CORSOrigins: []string{},
			RateLimit:   120,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// This function is the preferred way to load configuration and provides:
//   - Type-safe configuration unmarshaling
//   - Clear precedence: ENV > File > Defaults
//   - Support for nested configuration via koanf struct tags
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// RIPPLE_MAX_BATCH_SIZE -> dispatch.max_batch_size
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"debug_server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw := k.String(path)
		if raw == "" {
			continue
		}
		var values []string
		for _, v := range strings.Split(raw, ",") {
			trimmed := strings.TrimSpace(v)
			if trimmed != "" {
				values = append(values, trimmed)
			}
		}
		if len(values) > 0 {
			if err := k.Set(path, values); err != nil {
				return fmt.Errorf("failed to set slice field %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RIPPLE_API_KEY -> dispatch.api_key
//   - RIPPLE_MAX_BATCH_SIZE -> dispatch.max_batch_size
//   - RIPPLE_NATS_URL -> nats.url
//   - LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Dispatch mappings
		"ripple_api_key":        "dispatch.api_key",
		"ripple_endpoint":       "dispatch.endpoint",
		"ripple_api_key_header": "dispatch.api_key_header",
		"ripple_flush_interval": "dispatch.flush_interval",
		"ripple_max_batch_size": "dispatch.max_batch_size",
		"ripple_max_buffer_size": "dispatch.max_buffer_size",
		"ripple_max_retries":    "dispatch.max_retries",

		// Persistence mappings
		"ripple_persistence_path":            "persistence.path",
		"ripple_persistence_sync_writes":     "persistence.sync_writes",
		"ripple_persistence_max_quota_bytes": "persistence.max_quota_bytes",
		"ripple_persistence_close_timeout":   "persistence.close_timeout",

		// NATS mappings
		"ripple_nats_enabled":             "nats.enabled",
		"ripple_nats_url":                 "nats.url",
		"ripple_nats_subject":             "nats.subject",
		"ripple_nats_max_reconnects":      "nats.max_reconnects",
		"ripple_nats_reconnect_wait":      "nats.reconnect_wait",
		"ripple_nats_enable_track_msg_id": "nats.enable_track_msg_id",
		"ripple_nats_breaker_name":        "nats.breaker_name",

		// Debug server mappings
		"ripple_debug_server_enabled":      "debug_server.enabled",
		"ripple_debug_server_host":         "debug_server.host",
		"ripple_debug_server_port":         "debug_server.port",
		"ripple_debug_server_cors_origins": "debug_server.cors_origins",
		"ripple_debug_server_rate_limit":   "debug_server.rate_limit",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Fall back to treating the first underscore-delimited segment as the
	// section name, matching the unmapped environment variables koanf's
	// env.Provider would otherwise leave untouched.
	return strings.Replace(key, "_", ".", 1)
}
