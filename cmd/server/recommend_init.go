// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/config"
	"github.com/tomtom215/estatewise/internal/metrics"
	"github.com/tomtom215/estatewise/internal/recommend"
	"github.com/tomtom215/estatewise/internal/recommend/storage"
	"github.com/tomtom215/estatewise/internal/supervisor/services"
)

// RecommendComponents holds the model lifecycle and the engine serving it.
type RecommendComponents struct {
	Engine    *recommend.Engine
	Lifecycle *recommend.Lifecycle
	Scheduler *services.RetrainScheduler
}

// buildEngineConfig maps the koanf model and recommend sections onto the
// engine configuration. Preference defaults are not operator-tunable.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	ec := recommend.DefaultConfig()

	ec.Training.MinInterval = cfg.Model.MinInterval
	ec.Training.MinLabeledRows = cfg.Model.MinLabeledRows
	ec.Training.Timeout = cfg.Model.TrainingTimeout

	ec.Forest.Trees = cfg.Model.Trees
	ec.Forest.MaxDepth = cfg.Model.MaxDepth
	ec.Forest.MinSamplesLeaf = cfg.Model.MinSamplesLeaf
	ec.Forest.MaxFeatures = cfg.Model.MaxFeatures
	ec.Forest.Seed = cfg.Model.Seed

	ec.Limits.DefaultLimit = cfg.Recommend.DefaultLimit
	ec.Limits.MaxLimit = cfg.Recommend.MaxLimit
	ec.Preferences.TieBreak = recommend.TieBreak(cfg.Recommend.TieBreak)
	ec.Seed = cfg.Recommend.BackfillSeed

	return ec
}

// initRecommend opens the artifact store, loads the newest model if one
// exists and builds the engine over catalog.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initRecommend(ctx context.Context, cfg *config.Config, catalog recommend.Catalog, logger zerolog.Logger) (*RecommendComponents, error) {
	engineCfg := buildEngineConfig(cfg)
	if err := engineCfg.Validate(); err != nil {
		return nil, fmt.Errorf("recommend config: %w", err)
	}

	store, err := storage.NewStore(cfg.Model.Path)
	if err != nil {
		return nil, fmt.Errorf("open model store: %w", err)
	}
	repo := storage.NewRepository(store, cfg.Model.Keep, logger.With().Str("component", "model-store").Logger())

	lifecycle := recommend.NewLifecycle(repo, engineCfg, logger)
	if err := lifecycle.Load(ctx); err != nil {
		// A corrupt artifact is not fatal; the service degrades to
		// unscored recommendations until the next retrain.
		logger.Warn().Err(err).Msg("Failed to load model artifacts, starting without a model")
	}
	if stored, err := repo.Versions(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to list model artifacts")
	} else {
		for i := range stored {
			logger.Info().
				Str("artifact", stored[i].Name).
				Int("version", stored[i].Version).
				Time("trained_at", stored[i].TrainedAt).
				Int64("size_bytes", stored[i].SizeBytes).
				Msg("Model artifact on disk")
		}
	}

	lifecycle.OnRetrain(func(r recommend.RetrainResult) {
		metrics.RecordRetrain(string(r.Outcome), r.Duration, r.Version, r.Rows)
	})

	engine, err := recommend.NewEngine(engineCfg, catalog, lifecycle, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	status := lifecycle.Status()
	if status.ModelLoaded {
		metrics.SetModelLoaded(status.ModelVersion, status.TrainingRows)
	}
	logger.Info().
		Bool("model_loaded", status.ModelLoaded).
		Int("model_version", status.ModelVersion).
		Int("trees", engineCfg.Forest.Trees).
		Dur("retrain_interval", cfg.Model.RetrainInterval).
		Bool("retrain_on_startup", cfg.Model.RetrainOnStartup).
		Msg("Recommendation engine initialized")

	scheduler := services.NewRetrainScheduler(engine, services.RetrainSchedulerConfig{
		OnStartup: cfg.Model.RetrainOnStartup,
		Interval:  cfg.Model.RetrainInterval,
		Timeout:   cfg.Model.TrainingTimeout,
	}, logger.With().Str("component", "retrain-scheduler").Logger())

	return &RecommendComponents{
		Engine:    engine,
		Lifecycle: lifecycle,
		Scheduler: scheduler,
	}, nil
}
