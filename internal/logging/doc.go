// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package logging provides the zerolog-based global logger and adapters
// for libraries that expect other logging interfaces.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//	logging.Info().Str("addr", addr).Msg("Server starting")
//
// Components take a zerolog.Logger and tag it:
//
//	logger := logging.WithComponent("catalog")
//
// # Adapters
//
//   - SlogHandler bridges log/slog to zerolog; sutureslog uses it for
//     supervisor events
//   - WatermillAdapter implements watermill.LoggerAdapter for the event
//     router, publisher and subscriber
//
// # Request Context
//
// The HTTP request ID middleware stores the ID with ContextWithRequestID.
// Ctx(ctx) returns a logger carrying it.
package logging
