// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages. The
// Catalog and ArtifactStore interfaces are implemented by the catalog and
// storage packages.

// Catalog provides the property catalog.
type Catalog interface {
	// GetAll returns a complete, consistent snapshot of all properties.
	GetAll(ctx context.Context) ([]Property, error)
}

// Metrics contains engine counters.
type Metrics struct {
	TotalRequests    int64           `json:"total_requests"`
	ErrorCount       int64           `json:"error_count"`
	DegenerateCount  int64           `json:"degenerate_count"`
	UnknownLocations int64           `json:"unknown_locations"`
	Stages           map[Stage]int64 `json:"stages"`
	Status           TrainingStatus  `json:"status"`
}

// Engine composes preference extraction, encoding, prediction and
// filtering per request. It is safe for concurrent use.
type Engine struct {
	config    *Config
	policy    PreferencePolicy
	logger    zerolog.Logger
	catalog   Catalog
	lifecycle *Lifecycle

	requestCount    atomic.Int64
	errorCount      atomic.Int64
	degenerateCount atomic.Int64
	unknownLocation atomic.Int64

	stagesMu sync.Mutex
	stages   map[Stage]int64

	// Random source for backfill sampling (protected by rngMu)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, catalog Catalog, lifecycle *Lifecycle, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if catalog == nil {
		return nil, errors.New("catalog is required")
	}
	if lifecycle == nil {
		return nil, errors.New("lifecycle is required")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Engine{
		config:    cfg,
		policy:    cfg.Preferences.Policy(),
		logger:    logger.With().Str("component", "recommend").Logger(),
		catalog:   catalog,
		lifecycle: lifecycle,
		stages:    make(map[Stage]int64),
		rng:       rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for backfill sampling
	}, nil
}

// Lifecycle returns the model lifecycle manager.
func (e *Engine) Lifecycle() *Lifecycle {
	return e.lifecycle
}

// Recommend returns up to req.Limit properties for the user. Missing
// models, unknown locations and sparse data degrade to fallbacks; only
// invalid requests and catalog read failures return an error.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	startTime := time.Now()
	e.requestCount.Add(1)

	limit, err := e.prepareRequest(&req)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	reqLogger := e.createRequestLogger(&req, limit)

	all, err := e.catalog.GetAll(ctx)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	if len(all) == 0 {
		reqLogger.Debug().Err(ErrEmptyCatalog).Msg("returning empty recommendations")
		return e.buildResponse(&req, nil, StageEmpty, nil, UserPreference{}, 0, startTime), nil
	}

	pref := e.policy.Extract(req.User(), all)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// One snapshot for the whole request.
	set := e.lifecycle.Current()

	var (
		results []Property
		stage   Stage
	)
	if set == nil {
		e.degenerateCount.Add(1)
		reqLogger.Debug().Err(ErrModelUnavailable).Msg("using degenerate fallback")
		e.rngMu.Lock()
		results, stage, err = FilterDegenerate(all, pref, limit, e.rng)
		e.rngMu.Unlock()
	} else {
		locationKnown := true
		if _, locErr := set.Codec.LocationID(pref.Location); locErr != nil {
			locationKnown = false
			e.unknownLocation.Add(1)
			reqLogger.Debug().Err(locErr).Msg("skipping location refinement")
		}

		candidates := e.attachPredictions(all, set)
		e.rngMu.Lock()
		results, stage, err = FilterAndRank(candidates, pref, locationKnown, limit, e.rng)
		e.rngMu.Unlock()
	}
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("filter candidates: %w", err)
	}

	e.recordStage(stage)
	resp := e.buildResponse(&req, results, stage, set, pref, len(all), startTime)

	reqLogger.Debug().
		Str("stage", string(stage)).
		Int("results", len(resp.Recommendations)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendations generated")

	return resp, nil
}

// Retrain fetches the catalog and retrains the model.
func (e *Engine) Retrain(ctx context.Context, force bool) (RetrainResult, error) {
	all, err := e.catalog.GetAll(ctx)
	if err != nil {
		return RetrainResult{Outcome: OutcomeFailed, Forced: force}, fmt.Errorf("%w: get catalog: %w", ErrTrainingFailed, err)
	}
	return e.lifecycle.RetrainDetailed(ctx, all, force)
}

// GetMetrics returns current engine counters.
func (e *Engine) GetMetrics() Metrics {
	e.stagesMu.Lock()
	stages := make(map[Stage]int64, len(e.stages))
	for k, v := range e.stages {
		stages[k] = v
	}
	e.stagesMu.Unlock()

	return Metrics{
		TotalRequests:    e.requestCount.Load(),
		ErrorCount:       e.errorCount.Load(),
		DegenerateCount:  e.degenerateCount.Load(),
		UnknownLocations: e.unknownLocation.Load(),
		Stages:           stages,
		Status:           e.lifecycle.Status(),
	}
}

// prepareRequest validates the request and resolves the limit.
func (e *Engine) prepareRequest(req *Request) (int, error) {
	if req.UserID < 0 {
		return 0, fmt.Errorf("%w: user_id must be non-negative, got %d", ErrInvalidRequest, req.UserID)
	}

	limit := req.Limit
	if limit == 0 {
		limit = e.config.Limits.DefaultLimit
	}
	if limit < 1 || limit > e.config.Limits.MaxLimit {
		return 0, fmt.Errorf("%w: must be in [1, %d], got %d", ErrInvalidLimit, e.config.Limits.MaxLimit, req.Limit)
	}

	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	return limit, nil
}

func (e *Engine) createRequestLogger(req *Request, limit int) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int64("user_id", req.UserID).
		Int("limit", limit).
		Logger()
}

// attachPredictions returns copies of all with PredictedPrice set for every
// property the codec can encode. Properties with unknown locations keep a
// nil prediction.
func (e *Engine) attachPredictions(all []Property, set *ArtifactSet) []Property {
	out := make([]Property, len(all))
	frame := make(FeatureFrame, 0, len(all))
	rows := make([]int, 0, len(all))

	for i := range all {
		out[i] = all[i].WithoutPrediction()
		row, err := set.Codec.EncodeOne(all[i])
		if err != nil {
			continue
		}
		frame = append(frame, row)
		rows = append(rows, i)
	}

	for k, price := range Predict(frame, set.Estimator) {
		p := price
		out[rows[k]].PredictedPrice = &p
	}
	return out
}

func (e *Engine) recordStage(stage Stage) {
	e.stagesMu.Lock()
	e.stages[stage]++
	e.stagesMu.Unlock()
}

//nolint:gocritic // pref is small and copied into the response
func (e *Engine) buildResponse(req *Request, results []Property, stage Stage, set *ArtifactSet, pref UserPreference, total int, startTime time.Time) *Response {
	recs := make([]Recommendation, 0, len(results))
	for i := range results {
		recs = append(recs, NewRecommendation(results[i]))
	}

	meta := ResponseMetadata{
		RequestID:       req.RequestID,
		UserID:          req.UserID,
		Stage:           stage,
		ModelAvailable:  set != nil,
		TotalCandidates: total,
		Preference:      pref,
		LatencyMS:       time.Since(startTime).Milliseconds(),
		Timestamp:       time.Now().UTC(),
	}
	if set != nil {
		meta.ModelVersion = set.Version
	}

	return &Response{
		Recommendations: recs,
		Metadata:        meta,
	}
}
