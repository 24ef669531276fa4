// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"context"
	"net/http"
	"time"
)

// Health handles GET /health. The service is healthy while the catalog is
// readable; a missing model is reported but still healthy, since requests
// fall back to unranked results.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.recommender.GetMetrics().Status

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	size, err := h.properties.Count(ctx)
	health := HealthStatus{
		Status:       "healthy",
		ModelLoaded:  status.ModelLoaded,
		ModelVersion: status.ModelVersion,
		IsTraining:   status.IsTraining,
		CatalogSize:  size,
		Uptime:       time.Since(h.startTime).Truncate(time.Second).String(),
	}
	if err != nil {
		health.Status = "unhealthy"
		h.logger.Warn().Err(err).Msg("Health check: catalog unavailable")
		respondJSON(w, r, http.StatusServiceUnavailable, &Response{
			Status: statusError,
			Data:   health,
			Error:  &Error{Code: ErrCodeServiceUnavailable, Message: "Catalog unavailable"},
		})
		return
	}
	respondSuccess(w, r, http.StatusOK, health, start)
}
