// Ripple Go SDK - client-side telemetry event dispatch engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ripple-go

package debugserver

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/ripple-go/internal/logging"
	"github.com/tomtom215/ripple-go/internal/metrics"
)

// chiMiddleware bundles the production-hardened Chi ecosystem middleware
// (CORS, rate limiting) the debug server applies to every route.
type chiMiddleware struct {
	cors      func(http.Handler) http.Handler
	rateLimit func(http.Handler) http.Handler
}

func newChiMiddleware(cfg Config) *chiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	rateLimit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimit > 0 {
		rateLimit = httprate.Limit(cfg.RateLimit, time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimitExceeded),
		)
	}

	return &chiMiddleware{cors: corsHandler, rateLimit: rateLimit}
}

func rateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	metrics.RecordRateLimitHit(r.URL.Path)
	http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
}

// requestMetrics records every request's outcome to Prometheus and logs it
// at debug level with a per-request correlation ID, so a slow or failing
// /debug/stream connection can be traced across the handful of log lines it
// produces.
func requestMetrics(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			ctx := logging.ContextWithNewRequestID(r.Context())
			ctx = logging.ContextWithNewCorrelationID(ctx)
			next.ServeHTTP(ww, r.WithContext(ctx))

			duration := time.Since(start)
			metrics.RecordAPIRequest(r.Method, route, http.StatusText(ww.statusCode), duration)
			logging.Ctx(ctx).Debug().
				Str("component", "debugserver").
				Str("method", r.Method).
				Str("route", route).
				Int("status", ww.statusCode).
				Dur("duration", duration).
				Msg("debug server request")
		})
	}
}

// statusResponseWriter wraps http.ResponseWriter to capture the status code
// written, so requestMetrics can report it after the handler returns.
type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}
