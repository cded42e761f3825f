// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package config

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	structValidator *validator.Validate
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		structValidator = validator.New()
	})
	return structValidator
}

// Validate checks that required configuration is present and well-formed.
// Struct-tag constraints (required, url, min/max, oneof) are enforced by
// go-playground/validator; checks that span multiple fields are applied
// afterward.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := c.validateDispatch(); err != nil {
		return err
	}

	return c.validateDebugServer()
}

// validateDispatch applies the cross-field check the struct tags can't
// express: a configured buffer smaller than the batch size silently caps
// every flush below MaxBatchSize, which is legal but almost certainly not
// what was intended.
func (c *Config) validateDispatch() error {
	d := c.Dispatch
	if d.MaxBufferSize > 0 && d.MaxBufferSize < d.MaxBatchSize {
		return fmt.Errorf(
			"config: dispatch.max_buffer_size (%d) is smaller than dispatch.max_batch_size (%d); "+
				"every flush will be capped below the configured batch size",
			d.MaxBufferSize, d.MaxBatchSize,
		)
	}
	return nil
}

// validateDebugServer ensures the debug server's CORS origins are present
// whenever it is enabled with a non-loopback host, since serving an open
// CORS policy on a public bind address is a common misconfiguration.
func (c *Config) validateDebugServer() error {
	s := c.DebugServer
	if !s.Enabled {
		return nil
	}
	if s.Host != "127.0.0.1" && s.Host != "localhost" && len(s.CORSOrigins) == 0 {
		return fmt.Errorf(
			"config: debug_server.host (%s) is not loopback but debug_server.cors_origins is empty; "+
				"set explicit allowed origins before exposing the debug server beyond localhost",
			s.Host,
		)
	}
	return nil
}
