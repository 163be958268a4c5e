package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/patternkit/patternkit/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	matchesTotal       *prometheus.CounterVec
	validationsTotal   *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	requestsTotal      *prometheus.CounterVec
	ratelimitHitsTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		matchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "patternkit_matches_total", Help: "Total extracted matches"},
			[]string{"category"},
		),
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "patternkit_validations_total", Help: "Total full-match validations"},
			[]string{"pattern", "result"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "patternkit_operation_duration_seconds",
				Help:    "Extract and validate duration in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"operation"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "patternkit_requests_total", Help: "Total API requests"},
			[]string{"endpoint", "code"},
		),
		ratelimitHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "patternkit_ratelimit_hits_total", Help: "Total rate limited API requests"},
			[]string{"key"},
		),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.matchesTotal,
		m.validationsTotal,
		m.operationDuration,
		m.requestsTotal,
		m.ratelimitHitsTotal,
	)

	return m
}

func (m *Metrics) Handler(reg *prometheus.Registry) http.Handler {
	if reg == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveRecord counts an extract or validate operation.
func (m *Metrics) ObserveRecord(record logging.Record) {
	if m == nil {
		return
	}

	for category, n := range record.Matches {
		m.matchesTotal.WithLabelValues(category).Add(float64(n))
	}

	if record.Operation == logging.OperationValidate && record.Valid != nil {
		m.validationsTotal.WithLabelValues(record.Pattern, result(*record.Valid)).Inc()
	}

	if record.Operation != "" {
		d := time.Duration(record.DurationUS) * time.Microsecond
		m.operationDuration.WithLabelValues(record.Operation).Observe(d.Seconds())
	}
}

func (m *Metrics) ObserveRequest(endpoint string, code int) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}

func (m *Metrics) ObserveRateLimit(keyMode string) {
	if m == nil {
		return
	}
	m.ratelimitHitsTotal.WithLabelValues(keyMode).Inc()
}

func result(valid bool) string {
	if valid {
		return "valid"
	}
	return "invalid"
}
