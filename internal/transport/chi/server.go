package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/oipwg/recordindex/internal/domain"
	"github.com/oipwg/recordindex/internal/domain/access"
	"github.com/oipwg/recordindex/internal/domain/page"
	"github.com/oipwg/recordindex/internal/domain/query/request"
	"github.com/oipwg/recordindex/internal/domain/record"
	healthuc "github.com/oipwg/recordindex/internal/usecase/health"
	"github.com/oipwg/recordindex/internal/version"
)

// RecordsService is the retrieval engine surface consumed by the HTTP layer.
type RecordsService interface {
	GetRecords(ctx context.Context, req *request.Request, viewer access.Viewer) (page.Page, error)
	GetRecord(ctx context.Context, target string, viewer access.Viewer) (record.Record, error)
	Forget(ctx context.Context, target string, viewer access.Viewer) error
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Error response codes.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeRecordNotFound     = "record_not_found"
	codeForbidden          = "forbidden"
	codeBackendUnavailable = "backend_unavailable"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the record API over HTTP.
type Server struct {
	records       RecordsService
	health        HealthService
	pageDefault   int
	pageMax       int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(records RecordsService, health HealthService, pageDefault, pageMax int, logger *zap.Logger) *Server {
	s := &Server{
		records:     records,
		health:      health,
		pageDefault: pageDefault,
		pageMax:     pageMax,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, codeRecordNotFound),
		sentinelHandler(domain.ErrUnauthorized, http.StatusForbidden, codeForbidden),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusServiceUnavailable, codeBackendUnavailable),
	}
	return s
}

// Routes mounts API routes on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/api/v1/records", s.ListRecords)
	r.Get("/api/v1/records/{did}", s.GetRecord)
	r.Delete("/api/v1/records/{did}", s.ForgetRecord)
	r.Get("/health", s.HealthCheck)
	r.Get("/version", s.Version)
	r.Get("/metrics", s.Metrics)
}

// ErrorResponse is the wire error shape.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecordResponse is the wire shape of a single record.
type RecordResponse struct {
	Did            string                     `json:"did,omitempty"`
	DidTx          string                     `json:"didTx,omitempty"`
	RecordType     string                     `json:"recordType"`
	Name           string                     `json:"name,omitempty"`
	Date           int64                      `json:"date"`
	BlockHeight    int64                      `json:"blockHeight"`
	IndexedAt      int64                      `json:"indexedAt,omitempty"`
	AccessLevel    string                     `json:"accessLevel,omitempty"`
	Refs           []string                   `json:"refs,omitempty"`
	ScheduledDates []string                   `json:"scheduledDates,omitempty"`
	Payload        map[string]json.RawMessage `json:"payload,omitempty"`
}

// RecordListResponse is one page of records plus pagination metadata.
type RecordListResponse struct {
	Items      []RecordResponse `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
	HasNext    bool             `json:"hasNext"`
	HasPrev    bool             `json:"hasPrev"`
}

// HealthResponse is the aggregated health report.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// VersionResponse reports build metadata.
type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// ListRecords handles GET /api/v1/records.
func (s *Server) ListRecords(w http.ResponseWriter, r *http.Request) {
	params, err := bindListQueryParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid query parameters: "+err.Error())
		return
	}

	req, err := buildRequest(params, s.pageDefault, s.pageMax)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	viewer := ViewerFromContext(r.Context())
	pg, err := s.records.GetRecords(r.Context(), &req, viewer)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pageToResponse(pg))
}

// GetRecord handles GET /api/v1/records/{did}.
func (s *Server) GetRecord(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "did")

	viewer := ViewerFromContext(r.Context())
	rec, err := s.records.GetRecord(r.Context(), target, viewer)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recordToResponse(rec))
}

// ForgetRecord handles DELETE /api/v1/records/{did}.
func (s *Server) ForgetRecord(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "did")

	viewer := ViewerFromContext(r.Context())
	if err := s.records.Forget(r.Context(), target, viewer); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
		Status: string(report.Status),
		Checks: checks,
	})
}

// Version handles GET /version.
func (s *Server) Version(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{
		Version: version.Version,
		Commit:  version.Commit,
		Date:    version.Date,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func pageToResponse(pg page.Page) RecordListResponse {
	items := make([]RecordResponse, len(pg.Items))
	for i, rec := range pg.Items {
		items[i] = recordToResponse(rec)
	}
	return RecordListResponse{
		Items:      items,
		Total:      pg.Total,
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		TotalPages: pg.TotalPages,
		HasNext:    pg.HasNext,
		HasPrev:    pg.HasPrev,
	}
}

func recordToResponse(rec record.Record) RecordResponse {
	return RecordResponse{
		Did:            rec.Identifier(),
		DidTx:          rec.LegacyIdentifier(),
		RecordType:     rec.RecordType(),
		Name:           rec.Name(),
		Date:           rec.Date(),
		BlockHeight:    rec.BlockHeight(),
		IndexedAt:      rec.IndexedAt(),
		AccessLevel:    rec.Access().Level(),
		Refs:           rec.Refs(),
		ScheduledDates: rec.ScheduledDates(),
		Payload:        rec.Payload(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrRecordNotFound,
		domain.ErrInvalidFilter,
		domain.ErrUnauthorized,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
