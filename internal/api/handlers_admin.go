// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/estatewise/internal/logging"
	"github.com/tomtom215/estatewise/internal/recommend"
)

const adminTokenHeader = "X-Admin-Token"

// adminTokenFromRequest reads X-Admin-Token, falling back to a bearer token.
func adminTokenFromRequest(r *http.Request) string {
	if token := r.Header.Get(adminTokenHeader); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return strings.TrimSpace(auth[len(prefix):])
	}
	return ""
}

// RetrainModel handles POST /api/v1/admin/model/retrain?force=true.
func (h *Handler) RetrainModel(w http.ResponseWriter, r *http.Request) {
	if h.config.AdminToken == "" {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Admin endpoint is disabled", nil)
		return
	}

	token := adminTokenFromRequest(r)
	if token == "" {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Admin token required", nil)
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.config.AdminToken)) != 1 {
		logging.Ctx(r.Context()).Warn().Str("remote_addr", r.RemoteAddr).Msg("Rejected admin token")
		respondError(w, r, http.StatusForbidden, ErrCodeForbidden, "Invalid admin token", nil)
		return
	}

	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "force must be a boolean", nil)
			return
		}
		force = parsed
	}

	if h.recommender.GetMetrics().Status.IsTraining || !h.retraining.CompareAndSwap(false, true) {
		respondDomainError(w, r, recommend.ErrTrainingInProgress)
		return
	}

	requestID := logging.RequestIDFromContext(r.Context())
	h.background.Add(1)
	go h.runRetrain(requestID, force)

	respondSuccess(w, r, http.StatusAccepted, RetrainAccepted{Accepted: true, Force: force}, time.Now())
}

// runRetrain runs outside the request context, which ends with the
// response.
func (h *Handler) runRetrain(requestID string, force bool) {
	defer h.background.Done()
	defer h.retraining.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), h.config.RetrainTimeout)
	defer cancel()

	logger := h.logger.With().Str("request_id", requestID).Bool("force", force).Logger()
	result, err := h.recommender.Retrain(ctx, force)
	switch {
	case err == nil:
		logger.Info().
			Int("version", result.Version).
			Int("rows", result.Rows).
			Dur("duration", result.Duration).
			Msg("Admin retrain completed")
	case errors.Is(err, recommend.ErrRetrainSkipped):
		logger.Info().Str("reason", result.Reason).Msg("Admin retrain skipped")
	default:
		logger.Error().Err(err).Str("outcome", string(result.Outcome)).Msg("Admin retrain failed")
	}
}
