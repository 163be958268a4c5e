package api

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/patternkit/patternkit/internal/config"
	"github.com/patternkit/patternkit/internal/logging"
	"github.com/patternkit/patternkit/internal/normalize"
	"github.com/patternkit/patternkit/internal/observability"
	"github.com/patternkit/patternkit/internal/patterns"
	"github.com/patternkit/patternkit/internal/ratelimit"
)

const (
	endpointExtract  = "/v1/extract"
	endpointValidate = "/v1/validate"
	endpointPatterns = "/v1/patterns"
	endpointHealth   = "/healthz"
)

// Server exposes extraction and validation over HTTP.
type Server struct {
	registry   *patterns.Registry
	categories []patterns.Category
	normalize  normalize.Options
	maxInput   int64
	rateLimit  config.RateLimitConfig

	mux     *http.ServeMux
	limiter *ratelimit.Limiter
	results *logging.RecordLogger
	metrics *observability.Metrics

	requestCount uint64
}

func New(cfg *config.Config, registry *patterns.Registry) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if registry == nil {
		return nil, errors.New("pattern registry is required")
	}

	s := &Server{
		registry:   registry,
		categories: cfg.Categories(),
		normalize:  cfg.NormalizeOptions(),
		maxInput:   cfg.Limits.MaxInputBytes,
		rateLimit:  cfg.Server.RateLimit,
		mux:        http.NewServeMux(),
		limiter:    ratelimit.NewLimiter(),
	}

	s.mux.HandleFunc("POST "+endpointExtract, s.wrap(endpointExtract, s.handleExtract))
	s.mux.HandleFunc("POST "+endpointValidate, s.wrap(endpointValidate, s.handleValidate))
	s.mux.HandleFunc("GET "+endpointPatterns, s.wrap(endpointPatterns, s.handlePatterns))
	s.mux.HandleFunc("GET "+endpointHealth, s.wrap(endpointHealth, s.handleHealth))

	return s, nil
}

func (s *Server) SetResultLogger(logger *logging.RecordLogger) {
	s.results = logger
}

func (s *Server) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type extractRequest struct {
	Text       string         `json:"text"`
	Categories []string       `json:"categories"`
	Decode     *decodeOptions `json:"decode"`
}

type decodeOptions struct {
	URL  bool `json:"url"`
	HTML bool `json:"html"`
}

type extractResponse struct {
	RequestID string                         `json:"request_id"`
	Results   map[patterns.Category][]string `json:"results"`
}

type validateRequest struct {
	Pattern   string `json:"pattern"`
	Candidate string `json:"candidate"`
}

type validateResponse struct {
	RequestID string `json:"request_id"`
	Pattern   string `json:"pattern"`
	Valid     bool   `json:"valid"`
}

type patternInfo struct {
	Name    string `json:"name"`
	Grammar string `json:"grammar"`
}

type patternsResponse struct {
	Patterns   []patternInfo       `json:"patterns"`
	Categories []patterns.Category `json:"categories"`
}

type errorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := s.newRequestID()

	body, status, err := s.readBody(w, r)
	if err != nil {
		writeError(w, status, requestID, err.Error())
		return
	}

	if !utf8.Valid(body) {
		writeError(w, http.StatusUnprocessableEntity, requestID, patterns.ErrInvalidInput.Error())
		return
	}

	req := extractRequest{}
	if isPlainText(r) {
		req.Text = string(body)
	} else if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, requestID, "invalid JSON body")
		return
	}

	categories := s.categories
	if len(req.Categories) > 0 {
		categories = make([]patterns.Category, 0, len(req.Categories))
		for _, raw := range req.Categories {
			c, err := patterns.ParseCategory(raw)
			if err != nil {
				writeError(w, http.StatusNotFound, requestID, err.Error())
				return
			}
			categories = append(categories, c)
		}
	}

	opts := s.normalize
	if req.Decode != nil {
		opts.URLDecode = opts.URLDecode || req.Decode.URL
		opts.HTMLEntity = opts.HTMLEntity || req.Decode.HTML
	}
	text := normalize.Apply(req.Text, opts).Normalized

	record := logging.Record{
		RequestID:  requestID,
		Source:     logging.SourceAPI,
		Operation:  logging.OperationExtract,
		InputBytes: len(text),
	}

	results, err := s.registry.Extract(categories, text)
	if err != nil {
		record.Error = err.Error()
		s.writeRecord(record, start)
		writeError(w, statusFor(err), requestID, err.Error())
		return
	}

	record.Matches = results.Counts()
	s.writeRecord(record, start)
	writeJSON(w, http.StatusOK, extractResponse{RequestID: requestID, Results: results})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := s.newRequestID()

	body, status, err := s.readBody(w, r)
	if err != nil {
		writeError(w, status, requestID, err.Error())
		return
	}

	if !utf8.Valid(body) {
		writeError(w, http.StatusUnprocessableEntity, requestID, patterns.ErrInvalidInput.Error())
		return
	}

	var req validateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, requestID, "invalid JSON body")
		return
	}
	if req.Pattern == "" {
		writeError(w, http.StatusBadRequest, requestID, "pattern is required")
		return
	}

	candidate := normalize.Apply(req.Candidate, s.normalize).Normalized
	record := logging.Record{
		RequestID:  requestID,
		Source:     logging.SourceAPI,
		Operation:  logging.OperationValidate,
		Pattern:    req.Pattern,
		InputBytes: len(candidate),
	}

	valid, err := s.registry.IsMatch(patterns.Name(req.Pattern), candidate)
	if err != nil {
		record.Error = err.Error()
		s.writeRecord(record, start)
		writeError(w, statusFor(err), requestID, err.Error())
		return
	}

	record.Valid = logging.Verdict(valid)
	s.writeRecord(record, start)
	writeJSON(w, http.StatusOK, validateResponse{RequestID: requestID, Pattern: req.Pattern, Valid: valid})
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	resp := patternsResponse{Categories: patterns.Categories()}
	for _, name := range s.registry.Names() {
		p, _ := s.registry.Lookup(name)
		resp.Patterns = append(resp.Patterns, patternInfo{Name: string(name), Grammar: p.String()})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "ok\n")
}

// wrap applies rate limiting and request metrics to a handler.
func (s *Server) wrap(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		if s.rateLimit.Enabled && endpoint != endpointHealth {
			key := ratelimit.Key(s.rateLimit.Key, clientIP(r), endpoint)
			if !s.limiter.Allow(key, s.rateLimit.RPS, s.rateLimit.Burst, time.Now()) {
				s.metrics.ObserveRateLimit(s.rateLimit.Key)
				writeError(rec, rateLimitStatus(s.rateLimit.StatusCode), "", "rate limit exceeded")
				s.metrics.ObserveRequest(endpoint, rec.status)
				return
			}
		}

		h(rec, r)
		s.metrics.ObserveRequest(endpoint, rec.status)
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, int, error) {
	if s.maxInput > 0 {
		if r.ContentLength > s.maxInput {
			return nil, http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxInput)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, errors.New("request body too large")
		}
		return nil, http.StatusBadRequest, fmt.Errorf("read body: %w", err)
	}
	return body, http.StatusOK, nil
}

func (s *Server) writeRecord(record logging.Record, start time.Time) {
	record.Timestamp = time.Now().UTC()
	record.DurationUS = time.Since(start).Microseconds()
	if s.results != nil {
		_ = s.results.Write(record)
	}
	s.metrics.ObserveRecord(record)
}

func (s *Server) newRequestID() string {
	var buf [12]byte
	if _, err := rand.Read(buf[:]); err == nil {
		return hex.EncodeToString(buf[:])
	}
	value := atomic.AddUint64(&s.requestCount, 1)
	return fmt.Sprintf("req-%d", value)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, patterns.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, patterns.ErrUnknownPattern), errors.Is(err, patterns.ErrUnknownCategory):
		return http.StatusNotFound
	case errors.Is(err, patterns.ErrMatchTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isPlainText(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "text/plain"
}

func rateLimitStatus(code int) int {
	if code == 0 {
		return http.StatusTooManyRequests
	}
	return code
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, requestID, msg string) {
	writeJSON(w, status, errorResponse{RequestID: requestID, Error: msg})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
