// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Dispatch: DispatchConfig{
			APIKey:        "key",
			Endpoint:      "https://collector.example.com/v1/events",
			APIKeyHeader:  "X-API-Key",
			FlushInterval: 5 * time.Second,
			MaxBatchSize:  10,
			MaxBufferSize: 100,
			MaxRetries:    3,
		},
		Persistence: PersistenceConfig{
			Path:          "./data",
			MaxQuotaBytes: 1024,
			CloseTimeout:  time.Second,
		},
		NATS: NATSConfig{
			Enabled: false,
		},
		DebugServer: DebugServerConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config to pass, got: %v", err)
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatch.APIKey = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when api_key is empty")
	}
}

func TestValidate_MissingEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatch.Endpoint = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when endpoint is empty")
	}
}

func TestValidate_MalformedEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatch.Endpoint = "not-a-url"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for malformed endpoint")
	}
}

func TestValidate_NegativeMaxRetries(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatch.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative max_retries")
	}
}

func TestValidate_BufferSmallerThanBatch(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatch.MaxBatchSize = 50
	cfg.Dispatch.MaxBufferSize = 10
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when max_buffer_size < max_batch_size")
	}
}

func TestValidate_UnboundedBufferAllowed(t *testing.T) {
	cfg := validConfig()
	cfg.Dispatch.MaxBufferSize = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected MaxBufferSize=0 (unbounded) to be valid, got: %v", err)
	}
}

func TestValidate_NATSEnabledRequiresURL(t *testing.T) {
	cfg := validConfig()
	cfg.NATS.Enabled = true
	cfg.NATS.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when nats is enabled with no URL")
	}
}

func TestValidate_NATSDisabledAllowsEmptyURL(t *testing.T) {
	cfg := validConfig()
	cfg.NATS.Enabled = false
	cfg.NATS.URL = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected disabled nats with no URL to be valid, got: %v", err)
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unrecognized log level")
	}
}

func TestValidate_DebugServerNonLoopbackRequiresCORSOrigins(t *testing.T) {
	cfg := validConfig()
	cfg.DebugServer.Enabled = true
	cfg.DebugServer.Host = "0.0.0.0"
	cfg.DebugServer.CORSOrigins = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when debug server binds non-loopback with no CORS origins")
	}
}

func TestValidate_DebugServerLoopbackAllowsEmptyCORSOrigins(t *testing.T) {
	cfg := validConfig()
	cfg.DebugServer.Enabled = true
	cfg.DebugServer.Host = "127.0.0.1"
	cfg.DebugServer.CORSOrigins = nil
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loopback debug server with no CORS origins to be valid, got: %v", err)
	}
}

func TestValidate_DebugServerPortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.DebugServer.Enabled = true
	cfg.DebugServer.Host = "127.0.0.1"
	cfg.DebugServer.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range debug server port")
	}
}
