package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// 記録したリクエストが/metrics出力に反映されることを検証
func TestCollector_RecordRequest(t *testing.T) {
	c := NewCollector()

	c.RecordRequest(http.MethodGet, http.StatusOK, 15*time.Millisecond)
	c.RecordRequest(http.MethodGet, http.StatusOK, 20*time.Millisecond)
	c.RecordRequest(http.MethodPost, http.StatusCreated, 5*time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, `taskman_http_requests_total{method="GET",status="200"} 2`) {
		t.Error("expected GET 200 counter to be 2")
	}
	if !strings.Contains(body, `taskman_http_requests_total{method="POST",status="201"} 1`) {
		t.Error("expected POST 201 counter to be 1")
	}
	if !strings.Contains(body, "taskman_http_request_duration_seconds_count 3") {
		t.Error("expected duration histogram to observe 3 requests")
	}
}

// 専用レジストリを使用し、Goランタイムの既定メトリクスを含まないことを検証
func TestCollector_UsesPrivateRegistry(t *testing.T) {
	c := NewCollector()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, req)

	if strings.Contains(rr.Body.String(), "go_goroutines") {
		t.Error("collector should not expose default runtime metrics")
	}
}
