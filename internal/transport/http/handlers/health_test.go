package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) HealthCheck(context.Context) error { return s.err }

func healthRouter(h *HealthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/health", h.Health)
	r.GET("/healthz", h.Status)
	r.GET("/readyz", h.Ready)
	return r
}

func getJSON(t *testing.T, r *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return w, body
}

func TestHealthReportsDatabaseState(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		r := healthRouter(NewHealthHandler(&stubPinger{}, &stubPinger{}))
		w, body := getJSON(t, r, "/api/health")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		data, _ := body["data"].(map[string]any)
		if data["database"] != "Connected" {
			t.Fatalf("expected Connected, got %v", data["database"])
		}
	})

	t.Run("disconnected still 200", func(t *testing.T) {
		down := &stubPinger{err: errors.New("no reachable servers")}
		r := healthRouter(NewHealthHandler(down, &stubPinger{}))
		w, body := getJSON(t, r, "/api/health")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 even with database down, got %d", w.Code)
		}
		data, _ := body["data"].(map[string]any)
		if data["database"] != "Disconnected" {
			t.Fatalf("expected Disconnected, got %v", data["database"])
		}
	})
}

func TestReadyFailsOnBackendOutage(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		r := healthRouter(NewHealthHandler(&stubPinger{}, &stubPinger{}))
		w, _ := getJSON(t, r, "/readyz")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("database down", func(t *testing.T) {
		down := &stubPinger{err: errors.New("no reachable servers")}
		r := healthRouter(NewHealthHandler(down, &stubPinger{}))
		w, body := getJSON(t, r, "/readyz")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
		errBody, _ := body["error"].(map[string]any)
		if errBody["message"] != "database unavailable" {
			t.Fatalf("unexpected message %v", errBody["message"])
		}
	})

	t.Run("cache down", func(t *testing.T) {
		down := &stubPinger{err: errors.New("connection refused")}
		r := healthRouter(NewHealthHandler(&stubPinger{}, down))
		w, _ := getJSON(t, r, "/readyz")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
	})
}

func TestStatusIsAlwaysOK(t *testing.T) {
	r := healthRouter(NewHealthHandler(nil, nil))
	w, _ := getJSON(t, r, "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
