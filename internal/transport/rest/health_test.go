package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type storePingerMock struct {
	err error
}

func (m *storePingerMock) Ping(_ context.Context) error {
	return m.err
}

type cacheCounterMock int

func (m cacheCounterMock) Len() int { return int(m) }

func decodeHealth(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestLive_Always200(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storePingerMock{err: errors.New("down")}, cacheCounterMock(0), "sqlite", "test-version")

	rec := httptest.NewRecorder()
	h.Live(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeHealth(t, rec)
	if resp.Status != "ok" {
		t.Errorf("expected status 'ok', got %q", resp.Status)
	}
	if resp.Timestamp.IsZero() {
		t.Error("expected non-zero timestamp")
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		pingErr    error
		wantCode   int
		wantStatus string
	}{
		{"store up", nil, http.StatusOK, "ok"},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthHandler(&storePingerMock{err: tt.pingErr}, cacheCounterMock(0), "postgres", "v1")
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if resp := decodeHealth(t, rec); resp.Status != tt.wantStatus {
				t.Errorf("expected status %q, got %q", tt.wantStatus, resp.Status)
			}
		})
	}
}

func TestHealth_AllOK(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storePingerMock{}, cacheCounterMock(3), "sqlite", "v1.0.0")
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	resp := decodeHealth(t, rec)
	if resp.Version != "v1.0.0" {
		t.Errorf("expected version 'v1.0.0', got %q", resp.Version)
	}

	store, ok := resp.Components["store"]
	if !ok {
		t.Fatal("expected 'store' component in response")
	}
	if store.Status != "ok" || store.Driver != "sqlite" || store.Latency == "" {
		t.Errorf("unexpected store component: %+v", store)
	}

	caches, ok := resp.Components["cache"]
	if !ok || caches.Loaded == nil {
		t.Fatal("expected 'cache' component with loaded count")
	}
	if *caches.Loaded != 3 {
		t.Errorf("expected 3 loaded caches, got %d", *caches.Loaded)
	}
}

func TestHealth_StoreDown(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(&storePingerMock{err: errors.New("connection refused")}, cacheCounterMock(0), "postgres", "v1.0.0")
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}
	resp := decodeHealth(t, rec)
	if resp.Status != "down" {
		t.Errorf("expected status 'down', got %q", resp.Status)
	}
	if got := resp.Components["store"].Status; got != "down" {
		t.Errorf("expected store status 'down', got %q", got)
	}
}
