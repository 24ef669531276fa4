// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/recommend"
)

// Recommender serves and retrains the model. *recommend.Engine implements
// it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	Retrain(ctx context.Context, force bool) (recommend.RetrainResult, error)
	GetMetrics() recommend.Metrics
}

// PropertyStore is the catalog surface the API needs. *catalog.Store
// implements it.
type PropertyStore interface {
	Get(ctx context.Context, id int64) (*recommend.Property, error)
	BulkUpsert(ctx context.Context, props []recommend.Property) (int, error)
	Count(ctx context.Context) (int, error)
}

// UpdateNotifier publishes applied property updates.
// *eventprocessor.Notifier implements it.
type UpdateNotifier interface {
	PropertiesUpdated(ctx context.Context, props []recommend.Property, source string) error
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	// AdminToken gates the retrain endpoint. Empty disables it.
	AdminToken string

	// RequestTimeout bounds recommendation and catalog calls.
	RequestTimeout time.Duration

	// RetrainTimeout bounds a background retrain.
	RetrainTimeout time.Duration

	// MaxBodyBytes bounds request bodies.
	MaxBodyBytes int64
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	recommender Recommender
	properties  PropertyStore
	notifier    UpdateNotifier
	config      HandlerConfig
	logger      zerolog.Logger

	// retraining is set while an admin-triggered retrain runs.
	retraining atomic.Bool
	background sync.WaitGroup
	startTime  time.Time
}

// NewHandler creates the handlers. notifier may be nil when events are
// disabled.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(recommender Recommender, properties PropertyStore, notifier UpdateNotifier, cfg HandlerConfig, logger zerolog.Logger) *Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.RetrainTimeout <= 0 {
		cfg.RetrainTimeout = 5 * time.Minute
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 10 << 20
	}
	return &Handler{
		recommender: recommender,
		properties:  properties,
		notifier:    notifier,
		config:      cfg,
		logger:      logger.With().Str("component", "api").Logger(),
		startTime:   time.Now(),
	}
}

// Wait blocks until background retrains started by the admin endpoint
// finish.
func (h *Handler) Wait() {
	h.background.Wait()
}
