package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/blockphantom/internal/infra/backend"
)

type stubSource struct {
	status backend.HealthStatus
}

func (s *stubSource) Health() backend.HealthStatus { return s.status }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		status backend.HealthStatus
		want   SystemStatus
	}{
		{"healthy", backend.HealthStatus{Available: true, ErrorRate: 0.05, Latency: 200 * time.Millisecond}, StatusHealthy},
		{"error rate", backend.HealthStatus{Available: true, ErrorRate: 0.3}, StatusDegraded},
		{"slow", backend.HealthStatus{Available: true, Latency: 8 * time.Second}, StatusDegraded},
		{"unavailable", backend.HealthStatus{Available: false}, StatusCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.status); got != tt.want {
				t.Errorf("Evaluate() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestServer_Health(t *testing.T) {
	src := &stubSource{status: backend.HealthStatus{Available: true}}
	s := NewServer(src, 0)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	src.status.Available = false
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != string(StatusCritical) {
		t.Errorf("expected critical, got %v", body)
	}
}

func TestServer_Metrics(t *testing.T) {
	s := NewServer(&stubSource{status: backend.HealthStatus{Available: true}}, 0)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
