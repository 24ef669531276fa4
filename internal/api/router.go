// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/estatewise/internal/middleware"
)

// NewRouter builds the chi router. A nil config uses defaults.
func NewRouter(h *Handler, cfg *MiddlewareConfig) http.Handler {
	if cfg == nil {
		cfg = DefaultMiddlewareConfig()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware(cfg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rateLimitMiddleware(cfg))
		r.Use(middleware.PrometheusMetrics)

		r.Post("/recommendations", h.Recommendations)
		r.Get("/recommendations/status", h.RecommendationStatus)

		r.Put("/properties", h.UpdateProperties)
		r.Get("/properties/{id}", h.GetProperty)

		r.Post("/admin/model/retrain", h.RetrainModel)
	})

	return r
}
