// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

// Package recommend implements the property recommendation engine.
//
// # Architecture
//
// A request flows through five steps:
//
//   - Preference extraction: median rooms and most frequent location over
//     the user's favorited and viewed properties, or over the whole catalog
//     when the user has no usable history
//   - Encoding: locations map to dense ids in lexicographic order and the
//     numeric features are standardized (CodecState)
//   - Prediction: a bagged regression-tree forest estimates each price
//   - Filtering: exact room match, soft location refinement, ranking by
//     predicted price, then random backfill
//   - Truncation to the requested limit
//
// When no model has been trained the engine skips prediction and uses the
// degenerate path of FilterDegenerate.
//
// # Model Lifecycle
//
// The estimator, encoder and scaler form an ArtifactSet. A set is built
// completely in memory, persisted as one unit through an ArtifactStore and
// then published with an atomic pointer swap. Requests take one snapshot
// via Lifecycle.Current and use it until they finish, so a retrain that
// completes mid-request never changes the features of that request.
//
// # Thread Safety
//
// The engine is safe for concurrent use. Retraining is exclusive with
// itself (sync.Mutex.TryLock) and concurrent with serving.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	lifecycle := recommend.NewLifecycle(artifactStore, cfg, logger)
//	_ = lifecycle.Load(ctx)
//	engine, err := recommend.NewEngine(cfg, catalogStore, lifecycle, logger)
//
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    UserID:    7,
//	    Favorites: []int64{12, 40},
//	    Limit:     5,
//	})
package recommend
