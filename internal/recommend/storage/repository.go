// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package storage

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/recommend"
)

// PriceModelName is the artifact name of the estimator, encoder and scaler
// triple.
const PriceModelName = "price_model"

// ArtifactState is the serializable form of a recommend.ArtifactSet.
type ArtifactState struct {
	Version            int
	TrainedAt          time.Time
	Forest             recommend.Forest
	Codec              recommend.CodecState
	TrainingRows       int
	Fingerprint        string
	TrainingDurationMS int64
}

// Repository implements recommend.ArtifactStore on top of a Store. The
// triple is written as one file, so the three artifacts can never be
// observed from different training runs.
type Repository struct {
	store  *Store
	keep   int
	logger zerolog.Logger
}

// NewRepository wraps store. keep is the number of versions retained
// after every save; values below 1 keep one.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRepository(store *Store, keep int, logger zerolog.Logger) *Repository {
	if keep < 1 {
		keep = 1
	}
	return &Repository{
		store:  store,
		keep:   keep,
		logger: logger.With().Str("component", "artifact-store").Logger(),
	}
}

// Save persists set and prunes versions beyond the retention limit.
func (r *Repository) Save(ctx context.Context, set *recommend.ArtifactSet) error {
	if set == nil || set.Estimator == nil || set.Codec == nil {
		return errors.New("incomplete artifact set")
	}

	state := ArtifactState{
		Version:            set.Version,
		TrainedAt:          set.TrainedAt,
		Forest:             *set.Estimator,
		Codec:              *set.Codec,
		TrainingRows:       set.TrainingRows,
		Fingerprint:        set.Fingerprint,
		TrainingDurationMS: set.TrainingDurationMS,
	}
	meta := ArtifactMetadata{
		TrainedAt:          set.TrainedAt,
		TrainingRows:       set.TrainingRows,
		Locations:          len(set.Codec.Locations),
		Fingerprint:        set.Fingerprint,
		TrainingDurationMS: set.TrainingDurationMS,
	}

	if err := r.store.Save(ctx, PriceModelName, set.Version, state, meta); err != nil {
		return fmt.Errorf("save artifact set v%d: %w", set.Version, err)
	}

	if err := r.store.Prune(ctx, PriceModelName, r.keep); err != nil {
		r.logger.Warn().Err(err).Msg("failed to prune old artifact versions")
	}

	r.logger.Debug().Int("version", set.Version).Str("dir", r.store.Dir()).Msg("artifact set saved")
	return nil
}

// LoadLatest returns the newest stored set, or nil when none exists.
func (r *Repository) LoadLatest(ctx context.Context) (*recommend.ArtifactSet, error) {
	if _, ok := r.store.LatestVersion(PriceModelName); !ok {
		return nil, nil
	}

	var state ArtifactState
	if _, err := r.store.Load(ctx, PriceModelName, 0, &state); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load artifact set: %w", err)
	}

	forest := state.Forest
	codec := state.Codec
	return &recommend.ArtifactSet{
		Version:            state.Version,
		TrainedAt:          state.TrainedAt,
		Estimator:          &forest,
		Codec:              &codec,
		TrainingRows:       state.TrainingRows,
		Fingerprint:        state.Fingerprint,
		TrainingDurationMS: state.TrainingDurationMS,
	}, nil
}

// LatestVersion returns the newest version on disk, whether or not it can
// be decoded, or 0 when nothing has been saved.
func (r *Repository) LatestVersion(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	version, _ := r.store.LatestVersion(PriceModelName)
	return version, nil
}

// Versions returns stored metadata for every artifact name.
func (r *Repository) Versions(ctx context.Context) ([]ArtifactMetadata, error) {
	return r.store.List(ctx)
}

//nolint:gochecknoinits // gob.Register must be called in init for type registration
func init() {
	gob.Register(ArtifactState{})
}
