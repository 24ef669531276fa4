// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"io"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/catalog"
	"github.com/tomtom215/estatewise/internal/recommend"
	"github.com/tomtom215/estatewise/internal/recommend/storage"
)

// TestEndToEndRecommendationFlow wires the real catalog, artifact store and
// engine behind the router.
func TestEndToEndRecommendationFlow(t *testing.T) {
	t.Parallel()

	logger := zerolog.New(io.Discard)

	store, err := catalog.Open(catalog.Config{InMemory: true}, logger)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	artifacts, err := storage.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("open artifact store: %v", err)
	}

	cfg := recommend.DefaultConfig()
	cfg.Forest.Trees = 10
	lifecycle := recommend.NewLifecycle(storage.NewRepository(artifacts, 2, logger), cfg, logger)
	engine, err := recommend.NewEngine(cfg, store, lifecycle, logger)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	handler := NewHandler(engine, store, nil, HandlerConfig{AdminToken: "s3cret"}, logger)
	ts := &testServer{handler: handler, router: NewRouter(handler, nil)}

	props := make([]recommend.Property, 0, 5)
	for i := int64(1); i <= 5; i++ {
		p := sampleProperty(i)
		p.Bedrooms = int(i%3) + 2
		p.Price = floatPtr(float64(50_000_000 + i*10_000_000))
		props = append(props, p)
	}
	rec := ts.do(t, http.MethodPut, "/api/v1/properties", props, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT properties status = %d; body = %s", rec.Code, rec.Body.String())
	}

	// No model yet. The population medians are 3/2/3 in Lekki, which only
	// properties 1 and 4 match exactly.
	rec = ts.do(t, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{"user_id": 1, "limit": 5}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendations status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var before RecommendationResult
	decodeData(t, decodeEnvelope(t, rec), &before)
	if len(before.Recommendations) != 2 {
		t.Fatalf("recommendations = %d, want 2", len(before.Recommendations))
	}
	for _, r := range before.Recommendations {
		if r.PropertyID != 1 && r.PropertyID != 4 {
			t.Errorf("unexpected property %d in exact-match result", r.PropertyID)
		}
	}
	if before.Metadata.Stage != recommend.StageDegenerateLocation {
		t.Errorf("stage = %q, want %q", before.Metadata.Stage, recommend.StageDegenerateLocation)
	}
	if before.Metadata.ModelAvailable {
		t.Error("model should not be available before training")
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/admin/model/retrain?force=true", nil,
		map[string]string{adminTokenHeader: "s3cret"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("retrain status = %d; body = %s", rec.Code, rec.Body.String())
	}
	handler.Wait()

	if status := engine.GetMetrics().Status; !status.ModelLoaded || status.ModelVersion != 1 {
		t.Fatalf("status after retrain = %+v", status)
	}

	rec = ts.do(t, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"user_id":   1,
		"favorites": []int64{2},
		"limit":     3,
	}, nil)
	var after RecommendationResult
	decodeData(t, decodeEnvelope(t, rec), &after)
	if len(after.Recommendations) == 0 || len(after.Recommendations) > 3 {
		t.Fatalf("recommendations = %d, want 1..3", len(after.Recommendations))
	}
	if !after.Metadata.ModelAvailable {
		t.Error("model should be available after training")
	}
	for _, r := range after.Recommendations {
		if r.PredictedPrice == nil {
			t.Errorf("property %d has no predicted price", r.PropertyID)
		}
	}

	rec = ts.do(t, http.MethodGet, "/api/v1/properties/3", nil, nil)
	var stored recommend.Property
	decodeData(t, decodeEnvelope(t, rec), &stored)
	if stored.PredictedPrice != nil {
		t.Error("stored properties must not carry predictions")
	}
}
