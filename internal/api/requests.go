// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/estatewise/internal/recommend"
)

// RecommendationRequest is the body of POST /api/v1/recommendations. The
// upper bound on limit is enforced by the engine's configured maximum.
type RecommendationRequest struct {
	UserID           int64   `json:"user_id" validate:"gte=0"`
	Favorites        []int64 `json:"favorites" validate:"omitempty,max=1000,dive,gt=0"`
	ViewedProperties []int64 `json:"viewed_properties" validate:"omitempty,max=1000,dive,gt=0"`
	Limit            int     `json:"limit" validate:"gte=0"`
}

// toEngineRequest converts the body to an engine request.
func (r *RecommendationRequest) toEngineRequest(requestID string) recommend.Request {
	return recommend.Request{
		UserID:           r.UserID,
		Favorites:        r.Favorites,
		ViewedProperties: r.ViewedProperties,
		Limit:            r.Limit,
		RequestID:        requestID,
	}
}

// RecommendationResult is the data of a recommendation response.
type RecommendationResult struct {
	Status          string                     `json:"status"`
	Message         string                     `json:"message"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Metadata        recommend.ResponseMetadata `json:"metadata"`
}

// PropertyUpdateResult is the data of a bulk property update.
type PropertyUpdateResult struct {
	Updated   int  `json:"updated"`
	Published bool `json:"published"`
}

// RetrainAccepted is the data of an accepted retrain request.
type RetrainAccepted struct {
	Accepted bool `json:"accepted"`
	Force    bool `json:"force"`
}

// HealthStatus is the data of GET /health.
type HealthStatus struct {
	Status       string `json:"status"`
	ModelLoaded  bool   `json:"model_loaded"`
	ModelVersion int    `json:"model_version"`
	IsTraining   bool   `json:"is_training"`
	CatalogSize  int    `json:"catalog_size"`
	Uptime       string `json:"uptime"`
}

var errEmptyBody = errors.New("request body is empty")

// decodeJSONBody decodes a bounded request body into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("request body exceeds %d bytes", maxErr.Limit)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
