// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package eventprocessor

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/recommend"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func floatPtr(v float64) *float64 { return &v }

func sampleProperties() []recommend.Property {
	return []recommend.Property{
		{ID: 1, Location: "Lekki", Bedrooms: 3, Bathrooms: 2, Toilets: 3, Price: floatPtr(1_200_000)},
		{ID: 2, Location: "Ikeja", Bedrooms: 2, Bathrooms: 1, Toilets: 2},
	}
}

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]recommend.Property
	err     error
	applied chan struct{}
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{applied: make(chan struct{}, 16)}
}

func (w *fakeWriter) BulkUpsert(_ context.Context, props []recommend.Property) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return 0, w.err
	}
	w.batches = append(w.batches, props)
	w.applied <- struct{}{}
	return len(props), nil
}

func (w *fakeWriter) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.batches)
}

type fakeRetrainer struct {
	mu     sync.Mutex
	calls  []bool
	result recommend.RetrainResult
	err    error
	done   chan struct{}
}

func newFakeRetrainer() *fakeRetrainer {
	return &fakeRetrainer{done: make(chan struct{}, 16)}
}

func (r *fakeRetrainer) Retrain(_ context.Context, force bool) (recommend.RetrainResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, force)
	r.done <- struct{}{}
	return r.result, r.err
}

func (r *fakeRetrainer) forces() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.calls...)
}
