// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package services provides suture.Service wrappers: the HTTP server, the
// periodic retrain scheduler and the event components.
package services
