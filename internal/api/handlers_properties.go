// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/estatewise/internal/logging"
	"github.com/tomtom215/estatewise/internal/recommend"
	"github.com/tomtom215/estatewise/internal/validation"
)

// maxBulkProperties bounds one bulk update.
const maxBulkProperties = 10000

// UpdateProperties handles PUT /api/v1/properties. The update is applied
// to the catalog first; publishing is best effort.
func (h *Handler) UpdateProperties(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var props []recommend.Property
	if err := decodeJSONBody(w, r, h.config.MaxBodyBytes, &props); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, err.Error(), nil)
		return
	}
	if len(props) == 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "at least one property is required", nil)
		return
	}
	if len(props) > maxBulkProperties {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
			"too many properties in one update, max "+strconv.Itoa(maxBulkProperties), nil)
		return
	}
	if verr := validation.ValidateSlice(props); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	updated, err := h.properties.BulkUpsert(ctx, props)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	published := false
	if h.notifier != nil {
		if err := h.notifier.PropertiesUpdated(ctx, props, "api"); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Int("properties", len(props)).Msg("Failed to publish property update")
		} else {
			published = true
		}
	}

	respondSuccess(w, r, http.StatusOK, PropertyUpdateResult{Updated: updated, Published: published}, start)
}

// GetProperty handles GET /api/v1/properties/{id}.
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, "property id must be a positive integer", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.RequestTimeout)
	defer cancel()

	prop, err := h.properties.Get(ctx, id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, prop, start)
}
