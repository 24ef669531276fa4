// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/estatewise/internal/recommend"
)

type fakeRetrainer struct {
	mu     sync.Mutex
	forces []bool
	err    error
	calls  chan struct{}
}

func newFakeRetrainer(err error) *fakeRetrainer {
	return &fakeRetrainer{err: err, calls: make(chan struct{}, 16)}
}

func (f *fakeRetrainer) Retrain(_ context.Context, force bool) (recommend.RetrainResult, error) {
	f.mu.Lock()
	f.forces = append(f.forces, force)
	f.mu.Unlock()
	select {
	case f.calls <- struct{}{}:
	default:
	}
	if f.err != nil {
		return recommend.RetrainResult{Reason: "test"}, f.err
	}
	return recommend.RetrainResult{Outcome: recommend.OutcomeTrained, Version: 1, Rows: 3}, nil
}

func (f *fakeRetrainer) snapshot() []bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]bool(nil), f.forces...)
}

func waitCall(t *testing.T, f *fakeRetrainer) {
	t.Helper()
	select {
	case <-f.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("retrain was not called")
	}
}

var _ suture.Service = (*RetrainScheduler)(nil)

func TestRetrainSchedulerStartupAndInterval(t *testing.T) {
	t.Parallel()

	retrainer := newFakeRetrainer(nil)
	svc := NewRetrainScheduler(retrainer, RetrainSchedulerConfig{
		OnStartup: true,
		Interval:  20 * time.Millisecond,
	}, zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitCall(t, retrainer)
	waitCall(t, retrainer)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	for i, force := range retrainer.snapshot() {
		if force {
			t.Errorf("call %d was forced; scheduled retrains must not force", i)
		}
	}
}

func TestRetrainSchedulerNoInterval(t *testing.T) {
	t.Parallel()

	retrainer := newFakeRetrainer(nil)
	svc := NewRetrainScheduler(retrainer, RetrainSchedulerConfig{}, zerolog.New(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
	if got := len(retrainer.snapshot()); got != 0 {
		t.Errorf("retrain calls = %d, want 0", got)
	}
}

func TestRetrainSchedulerToleratesFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{"skipped", recommend.ErrRetrainSkipped},
		{"busy", recommend.ErrTrainingInProgress},
		{"failed", recommend.ErrTrainingFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			retrainer := newFakeRetrainer(tt.err)
			svc := NewRetrainScheduler(retrainer, RetrainSchedulerConfig{
				OnStartup: true,
				Interval:  10 * time.Millisecond,
			}, zerolog.New(io.Discard))

			ctx, cancel := context.WithCancel(context.Background())
			errCh := make(chan error, 1)
			go func() { errCh <- svc.Serve(ctx) }()

			// The loop keeps running after an error.
			waitCall(t, retrainer)
			waitCall(t, retrainer)
			cancel()

			if err := <-errCh; !errors.Is(err, context.Canceled) {
				t.Errorf("Serve() = %v, want context.Canceled", err)
			}
		})
	}
}
