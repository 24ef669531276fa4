// Estatewise - Real Estate Property Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/estatewise

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomtom215/estatewise/internal/catalog"
	"github.com/tomtom215/estatewise/internal/recommend"
)

func TestRecommendations(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "", false)
	rec := ts.do(t, http.MethodPost, "/api/v1/recommendations", map[string]interface{}{
		"user_id":           42,
		"favorites":         []int64{1},
		"viewed_properties": []int64{2, 3},
		"limit":             2,
	}, map[string]string{"X-Request-ID": "req-abc"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Status != statusSuccess {
		t.Errorf("status = %q", env.Status)
	}
	if env.Metadata.RequestID != "req-abc" {
		t.Errorf("metadata.request_id = %q, want req-abc", env.Metadata.RequestID)
	}

	var result RecommendationResult
	decodeData(t, env, &result)
	if len(result.Recommendations) != 2 {
		t.Fatalf("recommendations = %d, want 2", len(result.Recommendations))
	}
	if result.Message != "Found 2 recommendations" {
		t.Errorf("message = %q", result.Message)
	}

	ts.recommender.mu.Lock()
	got := ts.recommender.lastReq
	ts.recommender.mu.Unlock()
	if got.UserID != 42 || got.Limit != 2 || len(got.ViewedProperties) != 2 || got.RequestID != "req-abc" {
		t.Errorf("engine request = %+v", got)
	}
}

func TestRecommendationsErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       interface{}
		engineErr  error
		wantStatus int
		wantCode   string
	}{
		{"malformed json", "{not json", nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"empty body", "", nil, http.StatusBadRequest, ErrCodeBadRequest},
		{"negative user id", map[string]interface{}{"user_id": -1}, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"zero favorite id", map[string]interface{}{"user_id": 1, "favorites": []int64{0}}, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"negative limit", map[string]interface{}{"user_id": 1, "limit": -3}, nil, http.StatusBadRequest, "VALIDATION_ERROR"},
		{
			"limit above engine maximum",
			map[string]interface{}{"user_id": 1, "limit": 500},
			fmt.Errorf("%w: must be in [1, 100], got 500", recommend.ErrInvalidLimit),
			http.StatusBadRequest, ErrCodeInvalidLimit,
		},
		{
			"catalog failure",
			map[string]interface{}{"user_id": 1},
			errors.New("badger: disk full"),
			http.StatusInternalServerError, ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, "", false)
			ts.recommender.err = tt.engineErr

			rec := ts.do(t, http.MethodPost, "/api/v1/recommendations", tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			env := decodeEnvelope(t, rec)
			if env.Status != statusError || env.Error == nil {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
			if env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if strings.Contains(env.Error.Message, "disk full") {
				t.Error("internal error cause leaked to client")
			}
		})
	}
}

func TestRecommendationStatus(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "", false)
	rec := ts.do(t, http.MethodGet, "/api/v1/recommendations/status", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var m recommend.Metrics
	decodeData(t, decodeEnvelope(t, rec), &m)
	if m.Status.ModelVersion != 4 || !m.Status.ModelLoaded {
		t.Errorf("status = %+v", m.Status)
	}
	if m.TotalRequests != 7 {
		t.Errorf("total_requests = %d, want 7", m.TotalRequests)
	}
}

func TestRetrainModelAuth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		adminToken string
		headers    map[string]string
		wantStatus int
	}{
		{"disabled without configured token", "", map[string]string{adminTokenHeader: "anything"}, http.StatusNotFound},
		{"missing token", "s3cret", nil, http.StatusUnauthorized},
		{"wrong token", "s3cret", map[string]string{adminTokenHeader: "guess"}, http.StatusForbidden},
		{"wrong bearer", "s3cret", map[string]string{"Authorization": "Bearer guess"}, http.StatusForbidden},
		{"header token", "s3cret", map[string]string{adminTokenHeader: "s3cret"}, http.StatusAccepted},
		{"bearer token", "s3cret", map[string]string{"Authorization": "Bearer s3cret"}, http.StatusAccepted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, tt.adminToken, false)
			rec := ts.do(t, http.MethodPost, "/api/v1/admin/model/retrain", nil, tt.headers)
			ts.handler.Wait()

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusAccepted && len(ts.recommender.forces) != 0 {
				t.Error("retrain must not run when the request is rejected")
			}
		})
	}
}

func TestRetrainModelRunsInBackground(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "s3cret", false)
	rec := ts.do(t, http.MethodPost, "/api/v1/admin/model/retrain?force=true", nil,
		map[string]string{adminTokenHeader: "s3cret"})

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d; body = %s", rec.Code, rec.Body.String())
	}
	var accepted RetrainAccepted
	decodeData(t, decodeEnvelope(t, rec), &accepted)
	if !accepted.Accepted || !accepted.Force {
		t.Errorf("data = %+v", accepted)
	}

	ts.handler.Wait()
	if force := <-ts.recommender.forces; !force {
		t.Error("retrain should have been forced")
	}
	if ts.handler.retraining.Load() {
		t.Error("retraining flag should be cleared after the run")
	}
}

func TestRetrainModelConflictAndBadForce(t *testing.T) {
	t.Parallel()

	t.Run("training in progress", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "s3cret", false)
		ts.recommender.setTraining(true)

		rec := ts.do(t, http.MethodPost, "/api/v1/admin/model/retrain", nil,
			map[string]string{adminTokenHeader: "s3cret"})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
		if env := decodeEnvelope(t, rec); env.Error.Code != ErrCodeConflict {
			t.Errorf("code = %q", env.Error.Code)
		}
	})

	t.Run("admin retrain already running", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "s3cret", false)
		ts.handler.retraining.Store(true)

		rec := ts.do(t, http.MethodPost, "/api/v1/admin/model/retrain", nil,
			map[string]string{adminTokenHeader: "s3cret"})
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d, want 409", rec.Code)
		}
	})

	t.Run("invalid force", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "s3cret", false)

		rec := ts.do(t, http.MethodPost, "/api/v1/admin/model/retrain?force=maybe", nil,
			map[string]string{adminTokenHeader: "s3cret"})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestUpdateProperties(t *testing.T) {
	t.Parallel()

	t.Run("applies and publishes", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "", true)

		rec := ts.do(t, http.MethodPut, "/api/v1/properties",
			[]recommend.Property{sampleProperty(3), sampleProperty(4)}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; body = %s", rec.Code, rec.Body.String())
		}

		var result PropertyUpdateResult
		decodeData(t, decodeEnvelope(t, rec), &result)
		if result.Updated != 2 || !result.Published {
			t.Errorf("result = %+v", result)
		}
		if n, _ := ts.store.Count(context.Background()); n != 4 {
			t.Errorf("catalog size = %d, want 4", n)
		}
		if ts.notifier.callCount() != 1 {
			t.Errorf("notifier calls = %d, want 1", ts.notifier.callCount())
		}
	})

	t.Run("publish failure still applies", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "", true)
		ts.notifier.err = errors.New("circuit breaker is open")

		rec := ts.do(t, http.MethodPut, "/api/v1/properties", []recommend.Property{sampleProperty(9)}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var result PropertyUpdateResult
		decodeData(t, decodeEnvelope(t, rec), &result)
		if result.Updated != 1 || result.Published {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("no notifier", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "", false)

		rec := ts.do(t, http.MethodPut, "/api/v1/properties", []recommend.Property{sampleProperty(9)}, nil)
		var result PropertyUpdateResult
		decodeData(t, decodeEnvelope(t, rec), &result)
		if result.Published {
			t.Error("published should be false without a notifier")
		}
	})
}

func TestUpdatePropertiesRejects(t *testing.T) {
	t.Parallel()

	invalid := sampleProperty(5)
	invalid.Bedrooms = -1

	tests := []struct {
		name      string
		body      interface{}
		upsertErr error
		wantCode  string
	}{
		{"empty list", []recommend.Property{}, nil, ErrCodeBadRequest},
		{"not a list", map[string]int{"id": 1}, nil, ErrCodeBadRequest},
		{"invalid property", []recommend.Property{invalid}, nil, "VALIDATION_ERROR"},
		{"store rejects", []recommend.Property{sampleProperty(6)}, fmt.Errorf("%w: bad", catalog.ErrInvalidPropertyData), ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, "", true)
			ts.store.upsertErr = tt.upsertErr

			rec := ts.do(t, http.MethodPut, "/api/v1/properties", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400; body = %s", rec.Code, rec.Body.String())
			}
			if env := decodeEnvelope(t, rec); env.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", env.Error.Code, tt.wantCode)
			}
			if ts.notifier.callCount() != 0 {
				t.Error("rejected updates must not be published")
			}
		})
	}
}

func TestGetProperty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/api/v1/properties/1", http.StatusOK},
		{"missing", "/api/v1/properties/999", http.StatusNotFound},
		{"non numeric", "/api/v1/properties/abc", http.StatusBadRequest},
		{"zero", "/api/v1/properties/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := newTestServer(t, "", false)
			rec := ts.do(t, http.MethodGet, tt.path, nil, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				var p recommend.Property
				decodeData(t, decodeEnvelope(t, rec), &p)
				if p.ID != 1 || p.Location != "Lekki" {
					t.Errorf("property = %+v", p)
				}
			}
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "", false)

		rec := ts.do(t, http.MethodGet, "/health", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var health HealthStatus
		decodeData(t, decodeEnvelope(t, rec), &health)
		if health.Status != "healthy" || !health.ModelLoaded || health.CatalogSize != 2 {
			t.Errorf("health = %+v", health)
		}
	})

	t.Run("catalog unavailable", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t, "", false)
		ts.store.countErr = catalog.ErrClosed

		rec := ts.do(t, http.MethodGet, "/health", nil, nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
	})
}

func TestRouterFallbacks(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "", false)

	rec := ts.do(t, http.MethodGet, "/api/v1/unknown", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route body = %s", rec.Body.String())
	}

	rec = ts.do(t, http.MethodDelete, "/api/v1/properties/1", nil, nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status = %d, want 405", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/metrics", nil, nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("/metrics status = %d", rec.Code)
	}
}

func TestStatusForError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid limit", recommend.ErrInvalidLimit, http.StatusBadRequest},
		{"invalid request", fmt.Errorf("wrap: %w", recommend.ErrInvalidRequest), http.StatusBadRequest},
		{"invalid property", catalog.ErrInvalidPropertyData, http.StatusBadRequest},
		{"not found", catalog.ErrPropertyNotFound, http.StatusNotFound},
		{"training", recommend.ErrTrainingInProgress, http.StatusConflict},
		{"closed", catalog.ErrClosed, http.StatusServiceUnavailable},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := statusForError(tt.err).status; got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAdminTokenFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"none", nil, ""},
		{"header", map[string]string{adminTokenHeader: "abc"}, "abc"},
		{"bearer", map[string]string{"Authorization": "Bearer abc"}, "abc"},
		{"lowercase bearer", map[string]string{"Authorization": "bearer abc"}, "abc"},
		{"basic auth ignored", map[string]string{"Authorization": "Basic abc"}, ""},
		{"header wins", map[string]string{adminTokenHeader: "one", "Authorization": "Bearer two"}, "one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := adminTokenFromRequest(req); got != tt.want {
				t.Errorf("adminTokenFromRequest() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue = %q", got)
	}
}
