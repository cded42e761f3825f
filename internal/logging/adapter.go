// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package logging

import "github.com/rs/zerolog"

// DispatchAdapter adapts a zerolog.Logger to the dispatch.Logger interface,
// so the dispatch engine can log through this package's own structured
// sink without importing zerolog directly.
type DispatchAdapter struct {
	logger zerolog.Logger
}

// NewDispatchAdapter wraps logger for use as a dispatch.Logger. The adapter
// logs through exactly the logger it is given; it does not fall back to the
// package-global logger, so a zero-value zerolog.Logger (which has no
// writer) logs nothing.
func NewDispatchAdapter(logger zerolog.Logger) *DispatchAdapter {
	return &DispatchAdapter{logger: logger}
}

func (a *DispatchAdapter) event(e *zerolog.Event, msg string, fields map[string]any) {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

func (a *DispatchAdapter) Debug(msg string, fields map[string]any) {
	a.event(a.logger.Debug(), msg, fields)
}

func (a *DispatchAdapter) Info(msg string, fields map[string]any) {
	a.event(a.logger.Info(), msg, fields)
}

func (a *DispatchAdapter) Warn(msg string, fields map[string]any) {
	a.event(a.logger.Warn(), msg, fields)
}

func (a *DispatchAdapter) Error(msg string, fields map[string]any) {
	a.event(a.logger.Error(), msg, fields)
}
