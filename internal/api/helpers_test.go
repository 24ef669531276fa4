// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/estatewise/internal/catalog"
	"github.com/tomtom215/estatewise/internal/recommend"
)

type fakeRecommender struct {
	mu         sync.Mutex
	resp       *recommend.Response
	err        error
	status     recommend.TrainingStatus
	lastReq    recommend.Request
	retrainErr error
	forces     chan bool
}

func newFakeRecommender() *fakeRecommender {
	return &fakeRecommender{
		resp: &recommend.Response{
			Recommendations: []recommend.Recommendation{
				{PropertyID: 1, Location: "Lekki", Bedrooms: 3, Bathrooms: 2, Toilets: 3},
				{PropertyID: 2, Location: "Lekki", Bedrooms: 4, Bathrooms: 3, Toilets: 4},
			},
			Metadata: recommend.ResponseMetadata{Stage: recommend.StageExact},
		},
		status: recommend.TrainingStatus{ModelLoaded: true, ModelVersion: 4},
		forces: make(chan bool, 4),
	}
}

func (f *fakeRecommender) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeRecommender) Retrain(_ context.Context, force bool) (recommend.RetrainResult, error) {
	f.forces <- force
	if f.retrainErr != nil {
		return recommend.RetrainResult{Outcome: recommend.OutcomeFailed}, f.retrainErr
	}
	return recommend.RetrainResult{Outcome: recommend.OutcomeTrained, Version: 5, Rows: 10, Forced: force}, nil
}

func (f *fakeRecommender) GetMetrics() recommend.Metrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	return recommend.Metrics{TotalRequests: 7, Status: f.status}
}

func (f *fakeRecommender) setTraining(training bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status.IsTraining = training
}

type fakeStore struct {
	mu        sync.Mutex
	props     map[int64]recommend.Property
	upsertErr error
	countErr  error
}

func newFakeStore(props ...recommend.Property) *fakeStore {
	s := &fakeStore{props: make(map[int64]recommend.Property)}
	for _, p := range props {
		s.props[p.ID] = p
	}
	return s
}

func (s *fakeStore) Get(_ context.Context, id int64) (*recommend.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.props[id]
	if !ok {
		return nil, catalog.ErrPropertyNotFound
	}
	return &p, nil
}

func (s *fakeStore) BulkUpsert(_ context.Context, props []recommend.Property) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return 0, s.upsertErr
	}
	for _, p := range props {
		s.props[p.ID] = p
	}
	return len(props), nil
}

func (s *fakeStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.props), nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	calls [][]recommend.Property
}

func (n *fakeNotifier) PropertiesUpdated(_ context.Context, props []recommend.Property, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, props)
	return n.err
}

func (n *fakeNotifier) callCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func sampleProperty(id int64) recommend.Property {
	return recommend.Property{
		ID:            id,
		Location:      "Lekki",
		Bedrooms:      3,
		Bathrooms:     2,
		Toilets:       3,
		ParkingSpaces: intPtr(1),
		Price:         floatPtr(85_000_000),
	}
}

type testServer struct {
	handler     *Handler
	router      http.Handler
	recommender *fakeRecommender
	store       *fakeStore
	notifier    *fakeNotifier
}

func newTestServer(t *testing.T, adminToken string, withNotifier bool) *testServer {
	t.Helper()

	ts := &testServer{
		recommender: newFakeRecommender(),
		store:       newFakeStore(sampleProperty(1), sampleProperty(2)),
	}
	var notifier UpdateNotifier
	if withNotifier {
		ts.notifier = &fakeNotifier{}
		notifier = ts.notifier
	}
	ts.handler = NewHandler(ts.recommender, ts.store, notifier, HandlerConfig{AdminToken: adminToken}, zerolog.New(io.Discard))
	ts.router = NewRouter(ts.handler, nil)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// envelope is Response with raw data for per-test decoding.
type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Error    *Error          `json:"error"`
	Metadata Metadata        `json:"metadata"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data %q: %v", string(env.Data), err)
	}
}
