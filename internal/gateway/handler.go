// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     gateway
// Description: HTTP JSON endpoints of the front end
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	"github.com/msto63/scriptfront/foundation/script/lexer"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/pkg/core/health"
	"github.com/msto63/scriptfront/pkg/core/logging"
	"github.com/msto63/scriptfront/pkg/core/version"
)

// SourceRequest is the body of parse and tokenize requests
type SourceRequest struct {
	Source string `json:"source"`
}

// ParseResponse is returned by POST /v1/parse
type ParseResponse struct {
	AST        json.RawMessage `json:"ast"`
	Statements int             `json:"statements"`
	Nodes      int             `json:"nodes"`
	Cached     bool            `json:"cached"`
	DurationUS int64           `json:"duration_us"`
	RequestID  string          `json:"request_id"`
}

// TokensResponse is returned by POST /v1/tokens
type TokensResponse struct {
	Tokens    []lexer.Token `json:"tokens"`
	Count     int           `json:"count"`
	RequestID string        `json:"request_id"`
}

// ErrorResponse wraps a structured error
type ErrorResponse struct {
	Error *sferror.Error `json:"error"`
}

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status  health.Status        `json:"status"`
	Version version.Info         `json:"version"`
	Uptime  string               `json:"uptime"`
	Checks  []health.CheckResult `json:"checks"`
}

// Handler serves the JSON endpoints
type Handler struct {
	service      *frontsvc.Service
	health       *health.Registry
	logger       *logging.Logger
	maxBodyBytes int64
	startTime    time.Time
}

// NewHandler creates a new handler
func NewHandler(svc *frontsvc.Service, registry *health.Registry, maxBodyBytes int64, logger *logging.Logger) *Handler {
	return &Handler{
		service:      svc,
		health:       registry,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
		startTime:    time.Now(),
	}
}

// ServeHTTP routes the request
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")

	switch path {
	case "/v1/parse":
		h.handleParse(w, r)
	case "/v1/tokens":
		h.handleTokens(w, r)
	case "/healthz":
		h.handleHealth(w, r)
	case "/v1/version":
		h.handleVersion(w, r)
	default:
		h.writeError(w, r, sferror.Newf("no route for %s", r.URL.Path).
			WithCode(sferror.CodeNotFound).
			WithOperation("gateway.route"))
	}
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	const op = "gateway.Parse"

	req, ok := h.readSource(w, r, op)
	if !ok {
		return
	}

	out, err := h.service.Parse(r.Context(), frontsvc.Request{
		Source:    req.Source,
		Transport: audit.TransportHTTP,
		RequestID: RequestID(r.Context()),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ParseResponse{
		AST:        out.AST,
		Statements: out.Statements,
		Nodes:      out.Nodes,
		Cached:     out.Cached,
		DurationUS: out.Duration.Microseconds(),
		RequestID:  RequestID(r.Context()),
	})
}

func (h *Handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	const op = "gateway.Tokens"

	req, ok := h.readSource(w, r, op)
	if !ok {
		return
	}

	tokens, err := h.service.Tokenize(r.Context(), frontsvc.Request{
		Source:    req.Source,
		Transport: audit.TransportHTTP,
		RequestID: RequestID(r.Context()),
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, TokensResponse{
		Tokens:    tokens,
		Count:     len(tokens),
		RequestID: RequestID(r.Context()),
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, r, "GET")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	report := h.health.Check(ctx)

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, HealthResponse{
		Status:  report.Status,
		Version: version.Get(),
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Checks:  report.Checks,
	})
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, r, "GET")
		return
	}
	h.writeJSON(w, http.StatusOK, version.Get())
}

// readSource decodes a SourceRequest, answering the request itself on failure
func (h *Handler) readSource(w http.ResponseWriter, r *http.Request, op string) (*SourceRequest, bool) {
	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r, "POST")
		return nil, false
	}

	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req SourceRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, sferror.Wrap(err, "request body too large").
				WithCode(sferror.CodeInputTooLong).
				WithOperation(op).
				WithDetail("limit", tooLarge.Limit))
			return nil, false
		}
		h.writeError(w, r, sferror.Wrap(err, "invalid JSON body").
			WithCode(sferror.CodeInvalidInput).
			WithOperation(op))
		return nil, false
	}

	return &req, true
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error: sferror.Newf("use %s", allowed).
			WithCode(sferror.CodeInvalidInput).
			WithOperation("gateway.route").
			WithRequestID(RequestID(r.Context())),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	se, ok := sferror.As(err)
	if !ok {
		se = sferror.Wrap(err, "request failed").WithCode(sferror.CodeInternal)
	}
	se.WithRequestID(RequestID(r.Context()))

	status := se.Code().HTTPStatus()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "error", se, "request_id", se.RequestID())
	}
	h.writeJSON(w, status, ErrorResponse{Error: se})
}
