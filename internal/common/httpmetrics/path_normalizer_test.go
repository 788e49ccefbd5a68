package httpmetrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/croftbar/member-portal/internal/observability/metrics"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"/register", "/register"},
		{"/login", "/login"},
		{"/logout", "/logout"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/admin", "/unmatched"},
		{"/wp-login.php", "/unmatched"},
		{"/users/12345", "/unmatched"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.path); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCollector_Wrap_CollapsesScannedPaths(t *testing.T) {
	collector := New("web")
	handler := collector.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	before := testutil.ToFloat64(metrics.WebRequestsTotal.WithLabelValues(http.MethodGet, "/unmatched"))

	for _, path := range []string{"/admin", "/.env", "/phpmyadmin"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	after := testutil.ToFloat64(metrics.WebRequestsTotal.WithLabelValues(http.MethodGet, "/unmatched"))
	if after-before != 3 {
		t.Errorf("expected 3 requests under the collapsed label, got %v", after-before)
	}

	scanned := testutil.ToFloat64(metrics.WebRequestsTotal.WithLabelValues(http.MethodGet, "/admin"))
	if scanned != 0 {
		t.Errorf("scanned path must not become its own label, got %v", scanned)
	}
}
