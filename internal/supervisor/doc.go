// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package supervisor runs the long-lived parts of the service under a
// suture/v4 supervision tree.
//
//	estatewise (root)
//	├── model-layer      retrain scheduler
//	├── messaging-layer  event components (NATS, Watermill router)
//	└── api-layer        HTTP server
//
// Services that return an error are restarted with suture's backoff.
// Supervisor events are logged through sutureslog on an slog.Logger that
// the logging package bridges to zerolog.
//
// Service wrappers live in the services subpackage.
package supervisor
