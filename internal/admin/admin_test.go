package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danmuck/vitalctl/internal/observability"
)

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealthAndReady(t *testing.T) {
	s := New(":0", nil)
	for _, path := range []string{"/health", "/ready"} {
		w := get(t, s, path)
		if w.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, w.Code)
		}
		if !strings.Contains(w.Body.String(), "status") {
			t.Fatalf("%s body: %q", path, w.Body.String())
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	observability.RegisterMetrics()
	observability.RecordFrameReceived()

	s := New(":0", nil)
	w := get(t, s, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("/metrics returned %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "vitalctl_mllp_frames_received_total") {
		t.Fatalf("frame counter missing from scrape output")
	}
}

func TestCorsDefaultsToLocalFrontend(t *testing.T) {
	s := New(":0", nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow-origin header: %q", got)
	}
}
