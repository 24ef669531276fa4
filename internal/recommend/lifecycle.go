// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ArtifactSet is the estimator, location encoder and scaler triple. The
// members are only valid together; a set is never mutated once published.
type ArtifactSet struct {
	// Version increases by one per successful retrain.
	Version int

	// TrainedAt is when the set was fitted.
	TrainedAt time.Time

	// Estimator is the fitted price model.
	Estimator *Forest

	// Codec holds the encoder and scaler the estimator was trained against.
	Codec *CodecState

	// TrainingRows is the number of labeled rows used.
	TrainingRows int

	// Fingerprint identifies the catalog the set was trained on.
	Fingerprint string

	// TrainingDurationMS is how long fitting took.
	TrainingDurationMS int64
}

// ArtifactStore persists artifact sets as a single unit.
type ArtifactStore interface {
	// LoadLatest returns the newest persisted set, or nil without an error
	// when nothing has been trained yet.
	LoadLatest(ctx context.Context) (*ArtifactSet, error)

	// Save persists the set atomically.
	Save(ctx context.Context, set *ArtifactSet) error

	// LatestVersion returns the highest version present in the store, or 0
	// when it is empty. It reports versions that LoadLatest cannot decode.
	LatestVersion(ctx context.Context) (int, error)
}

// RetrainOutcome classifies a retrain attempt.
type RetrainOutcome string

const (
	OutcomeTrained RetrainOutcome = "trained"
	OutcomeSkipped RetrainOutcome = "skipped"
	OutcomeBusy    RetrainOutcome = "busy"
	OutcomeFailed  RetrainOutcome = "failed"
)

// RetrainResult describes a retrain attempt.
type RetrainResult struct {
	Outcome  RetrainOutcome `json:"outcome"`
	Version  int            `json:"version"`
	Rows     int            `json:"rows"`
	Reason   string         `json:"reason,omitempty"`
	Duration time.Duration  `json:"duration"`
	Forced   bool           `json:"forced"`
}

// Lifecycle trains, persists and serves artifact sets. Readers obtain an
// immutable snapshot with Current; retrains build a complete new set and
// swap it in only after it has been saved.
type Lifecycle struct {
	store  ArtifactStore
	config TrainingConfig
	forest ForestConfig
	logger zerolog.Logger

	current atomic.Pointer[ArtifactSet]

	// trainMu is held for the duration of a retrain.
	trainMu sync.Mutex
	limiter *rate.Limiter
	version int

	statusMu sync.RWMutex
	status   TrainingStatus

	onRetrain func(RetrainResult)
}

// NewLifecycle creates a lifecycle manager backed by store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLifecycle(store ArtifactStore, cfg *Config, logger zerolog.Logger) *Lifecycle {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	training := cfg.Training
	defaults := DefaultConfig().Training
	if training.Timeout <= 0 {
		training.Timeout = defaults.Timeout
	}
	if training.MinLabeledRows < 1 {
		training.MinLabeledRows = defaults.MinLabeledRows
	}

	limit := rate.Inf
	if training.MinInterval > 0 {
		limit = rate.Every(training.MinInterval)
	}

	return &Lifecycle{
		store:   store,
		config:  training,
		forest:  cfg.Forest,
		logger:  logger.With().Str("component", "model-lifecycle").Logger(),
		limiter: rate.NewLimiter(limit, 1),
	}
}

// OnRetrain registers a callback invoked after every retrain attempt.
// It must be set before the lifecycle is shared.
func (l *Lifecycle) OnRetrain(fn func(RetrainResult)) {
	l.onRetrain = fn
}

// Current returns the served artifact set, or nil when no model exists.
func (l *Lifecycle) Current() *ArtifactSet {
	return l.current.Load()
}

// Load restores the latest persisted artifact set. A store with no
// artifacts is not an error.
func (l *Lifecycle) Load(ctx context.Context) error {
	set, err := l.store.LoadLatest(ctx)
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	if set == nil {
		l.logger.Info().Msg("no trained model found, serving without predictions")
		return nil
	}

	l.trainMu.Lock()
	defer l.trainMu.Unlock()

	l.publish(set)
	l.logger.Info().
		Int("version", set.Version).
		Time("trained_at", set.TrainedAt).
		Int("rows", set.TrainingRows).
		Msg("loaded model artifacts")
	return nil
}

// Retrain retrains on all and reports whether a new artifact set is served.
func (l *Lifecycle) Retrain(ctx context.Context, all []Property, force bool) bool {
	_, err := l.RetrainDetailed(ctx, all, force)
	return err == nil
}

// RetrainDetailed retrains on all. With force false the retrain is skipped
// when the catalog is unchanged since the served set was trained or when
// the minimum interval has not elapsed. Failures leave the served set
// untouched.
func (l *Lifecycle) RetrainDetailed(ctx context.Context, all []Property, force bool) (RetrainResult, error) {
	result := RetrainResult{Forced: force}

	if !l.trainMu.TryLock() {
		result.Outcome = OutcomeBusy
		l.notify(result)
		return result, ErrTrainingInProgress
	}
	defer l.trainMu.Unlock()

	fingerprint := CatalogFingerprint(all)
	if !force {
		if reason, skip := l.shouldSkip(fingerprint); skip {
			result.Outcome = OutcomeSkipped
			result.Reason = reason
			l.logger.Debug().Str("reason", reason).Msg("retrain skipped")
			l.notify(result)
			return result, fmt.Errorf("%w: %s", ErrRetrainSkipped, reason)
		}
	}

	l.setTraining(true)
	defer l.setTraining(false)

	start := time.Now()
	set, err := l.train(ctx, all, fingerprint, l.nextVersion(ctx))
	if err == nil {
		if saveErr := l.store.Save(ctx, set); saveErr != nil {
			err = fmt.Errorf("persist artifacts: %w", saveErr)
		}
	}
	result.Duration = time.Since(start)

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = err.Error()
		l.recordFailure(err)
		l.logger.Error().Err(err).Bool("force", force).Msg("model training failed")
		l.notify(result)
		return result, fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}

	l.publish(set)

	result.Outcome = OutcomeTrained
	result.Version = set.Version
	result.Rows = set.TrainingRows
	l.logger.Info().
		Int("version", set.Version).
		Int("rows", set.TrainingRows).
		Int("locations", len(set.Codec.Locations)).
		Int64("duration_ms", result.Duration.Milliseconds()).
		Bool("force", force).
		Msg("model training complete")
	l.notify(result)
	return result, nil
}

// Status returns a copy of the current training status.
func (l *Lifecycle) Status() TrainingStatus {
	l.statusMu.RLock()
	defer l.statusMu.RUnlock()
	return l.status
}

func (l *Lifecycle) shouldSkip(fingerprint string) (string, bool) {
	if cur := l.current.Load(); cur != nil && cur.Fingerprint == fingerprint {
		return "catalog unchanged", true
	}
	if !l.limiter.Allow() {
		return "minimum retrain interval not elapsed", true
	}
	return "", false
}

// nextVersion returns the version for the next set. The store is consulted
// so that an unreadable latest artifact is never shadowed by a lower
// version. Callers must hold trainMu.
func (l *Lifecycle) nextVersion(ctx context.Context) int {
	next := l.version
	stored, err := l.store.LatestVersion(ctx)
	if err != nil {
		l.logger.Warn().Err(err).Msg("failed to read latest stored version")
	} else if stored > next {
		next = stored
	}
	return next + 1
}

// train builds a complete artifact set in memory.
func (l *Lifecycle) train(ctx context.Context, all []Property, fingerprint string, version int) (*ArtifactSet, error) {
	ctx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	labeled := make([]Property, 0, len(all))
	for i := range all {
		if all[i].HasPrice() && all[i].Location != "" {
			labeled = append(labeled, all[i])
		}
	}
	if len(labeled) < l.config.MinLabeledRows {
		return nil, fmt.Errorf("%w: %d labeled rows, need %d", ErrInsufficientData, len(labeled), l.config.MinLabeledRows)
	}

	codec, err := FitCodec(all)
	if err != nil {
		return nil, err
	}

	x, err := codec.Encode(labeled)
	if err != nil {
		return nil, fmt.Errorf("encode training rows: %w", err)
	}
	y := make([]float64, len(labeled))
	for i := range labeled {
		y[i] = *labeled[i].Price
	}

	start := time.Now()
	forest, err := FitForest(ctx, x, y, l.forest.Params())
	if err != nil {
		return nil, err
	}

	return &ArtifactSet{
		Version:            version,
		TrainedAt:          time.Now().UTC(),
		Estimator:          forest,
		Codec:              codec,
		TrainingRows:       len(labeled),
		Fingerprint:        fingerprint,
		TrainingDurationMS: time.Since(start).Milliseconds(),
	}, nil
}

// publish swaps in a new set. Callers must hold trainMu.
func (l *Lifecycle) publish(set *ArtifactSet) {
	l.current.Store(set)
	if set.Version > l.version {
		l.version = set.Version
	}

	l.statusMu.Lock()
	l.status.ModelVersion = set.Version
	l.status.ModelLoaded = true
	l.status.LastTrainedAt = set.TrainedAt
	l.status.LastDurationMS = set.TrainingDurationMS
	l.status.TrainingRows = set.TrainingRows
	l.status.Locations = len(set.Codec.Locations)
	l.status.LastError = ""
	l.statusMu.Unlock()
}

func (l *Lifecycle) setTraining(training bool) {
	l.statusMu.Lock()
	l.status.IsTraining = training
	l.statusMu.Unlock()
}

func (l *Lifecycle) recordFailure(err error) {
	l.statusMu.Lock()
	l.status.LastError = err.Error()
	l.statusMu.Unlock()
}

func (l *Lifecycle) notify(result RetrainResult) { //nolint:gocritic // result is copied to the callback
	if l.onRetrain != nil {
		l.onRetrain(result)
	}
}

// CatalogFingerprint hashes the training-relevant fields of a catalog in
// ID order, so it does not depend on iteration order.
func CatalogFingerprint(all []Property) string {
	sorted := make([]Property, len(all))
	copy(sorted, all)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := sha256.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v)) //nolint:gosec // bit pattern only
		h.Write(buf[:])
	}

	for i := range sorted {
		p := &sorted[i]
		writeInt(p.ID)
		h.Write([]byte(p.Location))
		h.Write([]byte{0})
		writeInt(int64(p.Bedrooms))
		writeInt(int64(p.Bathrooms))
		writeInt(int64(p.Toilets))
		if p.ParkingSpaces != nil {
			writeInt(int64(*p.ParkingSpaces))
		} else {
			writeInt(-1)
		}
		if p.Price != nil {
			writeInt(int64(math.Float64bits(*p.Price))) //nolint:gosec // bit pattern only
		} else {
			writeInt(-1)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// IsBusy reports whether err means a retrain was already running.
func IsBusy(err error) bool {
	return errors.Is(err, ErrTrainingInProgress)
}
