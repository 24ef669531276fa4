// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

/*
Package api serves the HTTP API with chi.

# Endpoints

	POST /api/v1/recommendations          recommendations for a user
	GET  /api/v1/recommendations/status   training status and model version
	POST /api/v1/admin/model/retrain      trigger a retrain (admin token)
	PUT  /api/v1/properties               bulk property update
	GET  /api/v1/properties/{id}          single property
	GET  /health                          liveness and model state
	GET  /metrics                         Prometheus metrics

# Response Format

Every JSON response uses one envelope:

	{
	  "status": "success" | "error",
	  "data": ...,
	  "error": {"code": "...", "message": "...", "details": {...}},
	  "metadata": {"timestamp": "...", "request_id": "...", "query_time_ms": 3}
	}

Errors are mapped to status codes in one place, statusForError.

# Admin Endpoint

The retrain endpoint requires X-Admin-Token or Authorization: Bearer with
the configured token, compared in constant time. With no token configured
the endpoint answers 404. A retrain already running answers 409; otherwise
the retrain starts in the background and the handler answers 202.
*/
package api
