// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/recommend"
)

// Retrainer retrains the model from the current catalog.
// *recommend.Engine implements it.
type Retrainer interface {
	Retrain(ctx context.Context, force bool) (recommend.RetrainResult, error)
}

// RetrainSchedulerConfig holds scheduler settings.
type RetrainSchedulerConfig struct {
	// OnStartup runs a non-forced retrain when the service starts.
	OnStartup bool

	// Interval between scheduled retrains. Zero disables the schedule.
	Interval time.Duration

	// Timeout bounds a single retrain.
	Timeout time.Duration
}

// RetrainScheduler retrains the model periodically. Scheduled retrains are
// never forced, so an unchanged catalog costs one fingerprint.
type RetrainScheduler struct {
	retrainer Retrainer
	config    RetrainSchedulerConfig
	logger    zerolog.Logger
}

// NewRetrainScheduler creates the scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainScheduler(retrainer Retrainer, cfg RetrainSchedulerConfig, logger zerolog.Logger) *RetrainScheduler {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &RetrainScheduler{
		retrainer: retrainer,
		config:    cfg,
		logger:    logger.With().Str("service", "retrain-scheduler").Logger(),
	}
}

// Serve implements suture.Service.
func (s *RetrainScheduler) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("on_startup", s.config.OnStartup).
		Dur("interval", s.config.Interval).
		Msg("Retrain scheduler starting")

	if s.config.OnStartup {
		s.run(ctx, "startup")
	}

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx, "schedule")
		}
	}
}

func (s *RetrainScheduler) run(ctx context.Context, trigger string) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.retrainer.Retrain(trainCtx, false)
	switch {
	case err == nil:
		s.logger.Info().
			Str("trigger", trigger).
			Int("version", result.Version).
			Int("rows", result.Rows).
			Dur("duration", result.Duration).
			Msg("Scheduled retrain completed")
	case errors.Is(err, recommend.ErrRetrainSkipped), recommend.IsBusy(err):
		s.logger.Debug().Str("trigger", trigger).Str("reason", result.Reason).Msg("Scheduled retrain not run")
	default:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("Scheduled retrain failed")
	}
}

func (s *RetrainScheduler) String() string {
	return "retrain-scheduler"
}
