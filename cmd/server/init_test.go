// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/catalog"
	"github.com/tomtom215/estatewise/internal/config"
	"github.com/tomtom215/estatewise/internal/recommend"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func TestBuildEngineConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Trees = 7
	cfg.Model.MaxDepth = 4
	cfg.Model.MinLabeledRows = 9
	cfg.Model.MinInterval = 3 * time.Minute
	cfg.Recommend.DefaultLimit = 8
	cfg.Recommend.MaxLimit = 40
	cfg.Recommend.TieBreak = "lexicographic"
	cfg.Recommend.BackfillSeed = 99

	ec := buildEngineConfig(cfg)

	if ec.Forest.Trees != 7 || ec.Forest.MaxDepth != 4 {
		t.Errorf("forest = %+v", ec.Forest)
	}
	if ec.Training.MinLabeledRows != 9 || ec.Training.MinInterval != 3*time.Minute {
		t.Errorf("training = %+v", ec.Training)
	}
	if ec.Limits.DefaultLimit != 8 || ec.Limits.MaxLimit != 40 {
		t.Errorf("limits = %+v", ec.Limits)
	}
	if ec.Preferences.TieBreak != recommend.TieBreakLexicographic {
		t.Errorf("tie break = %q", ec.Preferences.TieBreak)
	}
	if ec.Seed != 99 {
		t.Errorf("seed = %d, want 99", ec.Seed)
	}
	if err := ec.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestEventsConfigMapping(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events.Enabled = true
	cfg.Events.Embedded = false
	cfg.Events.URL = "nats://nats:4222"
	cfg.Events.PropertyTopic = "props"
	cfg.Events.SubscribersCount = 3

	ev := eventsConfig(cfg)
	if !ev.Enabled || ev.Embedded || ev.URL != "nats://nats:4222" {
		t.Errorf("connection fields = %+v", ev)
	}
	if ev.PropertyTopic != "props" || ev.SubscribersCount != 3 {
		t.Errorf("consumer fields = %+v", ev)
	}
	if err := ev.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestInitEventsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events.Enabled = false

	c, err := initEvents(context.Background(), cfg, nil, nil, zerolog.New(io.Discard))
	if err != nil || c != nil {
		t.Fatalf("initEvents() = %v, %v; want nil, nil", c, err)
	}
	// Nil components are safe to use.
	if c.Notifier() != nil || c.IsRunning() {
		t.Error("nil components should have no notifier and not be running")
	}
	if err := c.Start(context.Background()); err != nil {
		t.Errorf("Start() on nil components error = %v", err)
	}
	c.Shutdown(context.Background())
}

func TestInitEventsRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Events.Enabled = true
	cfg.Events.Embedded = false
	cfg.Events.URL = ""

	if _, err := initEvents(context.Background(), cfg, nil, nil, zerolog.New(io.Discard)); err == nil {
		t.Fatal("initEvents() should reject a missing NATS URL")
	}
}

func TestInitRecommend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Path = t.TempDir()
	cfg.Model.Trees = 5

	store, err := catalog.Open(catalog.Config{InMemory: true}, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("catalog.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	rec, err := initRecommend(context.Background(), cfg, store, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("initRecommend() error = %v", err)
	}
	if rec.Engine == nil || rec.Scheduler == nil || rec.Lifecycle == nil {
		t.Fatalf("components = %+v", rec)
	}
	if rec.Lifecycle.Status().ModelLoaded {
		t.Error("fresh model directory should not load a model")
	}
}

func TestInitRecommendRejectsInvalidTieBreak(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Path = t.TempDir()
	cfg.Recommend.TieBreak = "random"

	if _, err := initRecommend(context.Background(), cfg, nil, zerolog.New(io.Discard)); err == nil {
		t.Fatal("initRecommend() should reject an unknown tie break")
	}
}
