// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package middleware provides chi-compatible HTTP middleware.
//
//   - RequestID: X-Request-ID propagation into the logging context
//   - RequestLogger: one zerolog line per request
//   - PrometheusMetrics: request count, latency and in-flight gauge,
//     labeled by route pattern
//
// Order matters: RequestID must run before RequestLogger.
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.RequestLogger)
//	r.Use(middleware.PrometheusMetrics)
package middleware
