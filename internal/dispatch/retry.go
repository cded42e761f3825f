// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package dispatch

import (
	"math"
	"math/rand"
	"time"
)

const (
	retryBaseDelay  = 1000 * time.Millisecond
	retryMaxJitter  = 1000 * time.Millisecond
	retryMaxBackoff = 5 * time.Minute
)

// backoffDelay computes the exponential-with-jitter delay before the
// (attempt+1)th retry: base * 2^attempt, plus a uniform [0, 1000)ms jitter,
// capped at five minutes. attempt is 0 for the first retry following an
// initial send failure.
func backoffDelay(attempt int) time.Duration {
	if attempt > 50 {
		return retryMaxBackoff
	}

	multiplier := math.Pow(2, float64(attempt))
	delay := time.Duration(float64(retryBaseDelay) * multiplier)
	if delay < 0 || delay > retryMaxBackoff {
		delay = retryMaxBackoff
	}

	jitter := time.Duration(rand.Int63n(int64(retryMaxJitter)))
	delay += jitter
	if delay > retryMaxBackoff {
		delay = retryMaxBackoff
	}
	return delay
}
