package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/patternkit/patternkit/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserveRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	metrics.ObserveRecord(logging.Record{
		Operation:  logging.OperationExtract,
		Matches:    map[string]int{"emails": 2, "hashtags": 1},
		DurationUS: 40,
	})
	metrics.ObserveRecord(logging.Record{
		Operation: logging.OperationValidate,
		Pattern:   "phone",
		Valid:     logging.Verdict(true),
	})
	metrics.ObserveRequest("/v1/validate", 200)
	metrics.ObserveRateLimit("ip")

	if got := testutil.ToFloat64(metrics.matchesTotal.WithLabelValues("emails")); got != 2 {
		t.Fatalf("expected 2 email matches, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.validationsTotal.WithLabelValues("phone", "valid")); got != 1 {
		t.Fatalf("expected 1 valid phone, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("/v1/validate", "200")); got != 1 {
		t.Fatalf("expected 1 request, got %v", got)
	}
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("expected metrics gather to succeed: %v", err)
	}
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.ObserveRateLimit("ip")

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "patternkit_ratelimit_hits_total") {
		t.Fatalf("expected rate limit metric in output")
	}
}

func TestNilMetrics(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveRecord(logging.Record{Operation: logging.OperationExtract})
	metrics.ObserveRequest("/healthz", 200)
	metrics.ObserveRateLimit("ip")
}
