// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/estatewise/internal/logging"
	"github.com/tomtom215/estatewise/internal/metrics"
	"github.com/tomtom215/estatewise/internal/validation"
)

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendationRequest
	if err := decodeJSONBody(w, r, h.config.MaxBodyBytes, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	resp, err := h.recommender.Recommend(ctx, req.toEngineRequest(logging.RequestIDFromContext(r.Context())))
	if err != nil {
		metrics.RecordRecommendationError()
		respondDomainError(w, r, err)
		return
	}
	metrics.RecordRecommendation(string(resp.Metadata.Stage), len(resp.Recommendations), time.Since(start))

	respondSuccess(w, r, http.StatusOK, RecommendationResult{
		Status:          statusSuccess,
		Message:         fmt.Sprintf("Found %d recommendations", len(resp.Recommendations)),
		Recommendations: resp.Recommendations,
		Metadata:        resp.Metadata,
	}, start)
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.recommender.GetMetrics(), time.Now())
}
