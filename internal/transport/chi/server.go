// Package chi is the HTTP transport: a hand-written JSON API over the
// search, ingest and health usecases.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexikon/internal/domain"
	"github.com/kailas-cloud/lexikon/internal/domain/search/query"
	"github.com/kailas-cloud/lexikon/internal/domain/segment"
	healthuc "github.com/kailas-cloud/lexikon/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/lexikon/internal/usecase/ingest"
	searchuc "github.com/kailas-cloud/lexikon/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecases into HTTP handlers.
type Server struct {
	search        *searchuc.Service
	ingest        *ingestuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler

	defaultLimit     int
	maxLimit         int
	defaultThreshold float64
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	ingest *ingestuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search: search,
		ingest: ingest,
		health: health,
		logger: logger,

		defaultLimit:     query.DefaultLimit,
		maxLimit:         query.MaxLimit,
		defaultThreshold: query.DefaultThreshold,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrInvalidSegment, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrSegmentNotFound, http.StatusNotFound, CodeSegmentNotFound),
		sentinelHandler(domain.ErrVectorDimMismatch, http.StatusBadRequest, CodeVectorDimMismatch),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, CodeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingProviderError),
	}
	return s
}

// WithSearchLimits overrides the configured search knobs: the limit
// applied when the caller omits one, the hard cap on caller limits,
// and the lexical similarity floor applied when none is given.
func (s *Server) WithSearchLimits(defaultLimit, maxLimit int, defaultThreshold float64) *Server {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	if defaultThreshold > 0 {
		s.defaultThreshold = defaultThreshold
	}
	return s
}

// Routes mounts all handlers on a router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/search", s.Search)
		r.Post("/segments", s.IngestSegment)
		r.Get("/segments/{id}", s.GetSegment)
	})
}

// Search handles GET /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	// An absent limit takes the configured default; an explicit 0 is a
	// valid cap and passes through untouched.
	limit := s.defaultLimit
	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be an integer")
			return
		}
		if n > s.maxLimit {
			n = s.maxLimit
		}
		limit = n
	}

	threshold := s.defaultThreshold
	if raw := params.Get("threshold"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "threshold must be a number")
			return
		}
		threshold = f
	}

	var useVector *bool
	if raw := params.Get("use_vector"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "use_vector must be a boolean")
			return
		}
		useVector = &b
	}

	q, err := query.New(params.Get("q"), params.Get("lang"), limit, threshold, useVector)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits, err := s.search.Search(r.Context(), &q)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchHitItem, len(hits))
	for i := range hits {
		items[i] = SearchHitItem{
			SegmentID: hits[i].SegmentID(),
			WorkRef:   hits[i].WorkRef(),
			Text:      hits[i].TextNFC(),
			Score:     hits[i].Score(),
			Reasons:   hits[i].Reasons().Strings(),
		}
	}

	writeJSON(w, http.StatusOK, SearchResponse{Items: items, Total: len(items)})
}

// IngestSegment handles POST /v1/segments.
func (s *Server) IngestSegment(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	seg, err := s.ingest.Ingest(r.Context(), ingestuc.Request{
		Language: req.Language,
		WorkRef:  req.WorkRef,
		Text:     req.Text,
		Embed:    req.Embed,
	})
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/segments/"+strconv.FormatInt(seg.ID(), 10))
	writeJSON(w, http.StatusCreated, segmentToWire(&seg))
}

// GetSegment handles GET /v1/segments/{id}.
func (s *Server) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "segment id must be an integer")
		return
	}

	seg, err := s.ingest.Get(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, segmentToWire(&seg))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:       string(report.Status),
		Checks:       checks,
		VectorSearch: report.VectorSearch,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func segmentToWire(seg *segment.Segment) SegmentResponse {
	return SegmentResponse{
		ID:           seg.ID(),
		Language:     seg.Language(),
		WorkRef:      seg.WorkRef(),
		Text:         seg.TextNFC(),
		Folded:       seg.Folded(),
		TrigramCount: seg.TrigramCount(),
		HasEmbedding: seg.HasEmbedding(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidSegment,
		domain.ErrSegmentNotFound,
		domain.ErrVectorDimMismatch,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
