// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     frontsvc
// Description: Front end service core shared by the gRPC server, the HTTP
//              gateway and the CLI: engine, parse cache and audit trail
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package frontsvc

import (
	"context"
	"encoding/json"
	"time"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/foundation/script/ast"
	"github.com/msto63/scriptfront/foundation/script/lexer"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/pkg/core/cache"
	"github.com/msto63/scriptfront/pkg/core/config"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

// Operation names recorded in the audit log
const (
	OperationParse    = "parse"
	OperationTokenize = "tokenize"
)

// Config holds service configuration
type Config struct {
	Engine script.Config

	// CacheSize bounds the parse cache; negative disables it
	CacheSize int
	CacheTTL  time.Duration

	// Audit receives one record per request; nil disables auditing
	Audit audit.Store

	Logger *logging.Logger
}

// DefaultConfig returns default service configuration
func DefaultConfig() Config {
	return Config{
		CacheSize: 256,
		CacheTTL:  10 * time.Minute,
	}
}

// ConfigFromApp derives the service configuration from the application
// configuration. The audit store is opened by the caller.
func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		Engine: script.Config{
			MaxInputLength: cfg.Parser.MaxInputLength,
			MaxDepth:       cfg.Parser.MaxDepth,
			NormalizeNFC:   cfg.Parser.NormalizeNFC,
		},
		CacheSize: cfg.Parser.CacheSize,
		CacheTTL:  cfg.Parser.CacheTTL.Duration,
	}
}

// Request is a single front end request
type Request struct {
	Source    string
	Transport string
	RequestID string
}

// ParseOutput is the result of a successful parse
type ParseOutput struct {
	Program    *ast.Program
	AST        json.RawMessage
	Statements int
	Nodes      int
	Length     int
	Duration   time.Duration
	Cached     bool
}

// Service is the front end service core
type Service struct {
	engine *script.Engine
	cache  *cache.Cache[*ParseOutput]
	audit  audit.Store
	logger *logging.Logger
}

// NewService creates a new service
func NewService(cfg Config) (*Service, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("frontsvc")
	}
	if cfg.Engine.Logger == nil {
		cfg.Engine.Logger = logger.Logger
	}

	engine, err := script.NewEngine(cfg.Engine)
	if err != nil {
		return nil, err
	}

	svc := &Service{
		engine: engine,
		audit:  cfg.Audit,
		logger: logger,
	}

	if cfg.CacheSize >= 0 {
		svc.cache = cache.New[*ParseOutput](cache.Config{
			MaxItems: cfg.CacheSize,
			TTL:      cfg.CacheTTL,
		})
	}

	return svc, nil
}

// Engine returns the underlying engine
func (s *Service) Engine() *script.Engine {
	return s.engine
}

// AuditStore returns the audit store, nil when auditing is disabled
func (s *Service) AuditStore() audit.Store {
	return s.audit
}

// Parse parses req.Source. Identical sources are served from the cache.
func (s *Service) Parse(ctx context.Context, req Request) (*ParseOutput, error) {
	start := time.Now()
	key := audit.Fingerprint(req.Source)

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			out := *cached
			out.Cached = true
			out.Duration = time.Since(start)
			s.record(ctx, req, OperationParse, key, &out, nil)
			return &out, nil
		}
	}

	result, err := s.engine.Parse(ctx, req.Source)
	if err != nil {
		s.record(ctx, req, OperationParse, key, nil, err)
		return nil, err
	}

	encoded, err := ast.ToJSON(result.Program, "")
	if err != nil {
		wrapped := sferror.Wrap(err, "failed to encode AST").
			WithCode(sferror.CodeInternal).
			WithOperation("frontsvc.Parse")
		s.record(ctx, req, OperationParse, key, nil, wrapped)
		return nil, wrapped
	}

	out := &ParseOutput{
		Program:    result.Program,
		AST:        encoded,
		Statements: result.Statements,
		Nodes:      result.Nodes,
		Length:     result.Length,
		Duration:   result.Duration,
	}
	if s.cache != nil {
		s.cache.Set(key, out)
	}

	s.record(ctx, req, OperationParse, key, out, nil)
	return out, nil
}

// Tokenize lexes req.Source
func (s *Service) Tokenize(ctx context.Context, req Request) ([]lexer.Token, error) {
	start := time.Now()
	tokens, err := s.engine.Tokenize(ctx, req.Source)

	s.recordTokens(ctx, req, len(tokens), time.Since(start), err)
	return tokens, err
}

// CacheStats returns parse cache hit statistics
func (s *Service) CacheStats() (hits, misses int64, hitRate float64) {
	if s.cache == nil {
		return 0, 0, 0
	}
	return s.cache.Stats()
}

// Close releases the cache and the audit store
func (s *Service) Close() error {
	if s.cache != nil {
		s.cache.Close()
	}
	if s.audit != nil {
		return s.audit.Close()
	}
	return nil
}

func (s *Service) record(ctx context.Context, req Request, operation, fingerprint string, out *ParseOutput, err error) {
	if s.audit == nil {
		return
	}
	rec := &audit.Record{
		Transport:    req.Transport,
		Operation:    operation,
		RequestID:    req.RequestID,
		SourceSHA256: fingerprint,
		SourceLength: len([]rune(req.Source)),
		Status:       audit.StatusOK,
	}
	if out != nil {
		rec.StatementCount = out.Statements
		rec.NodeCount = out.Nodes
		rec.Duration = out.Duration
	}
	applyError(rec, err)
	s.store(ctx, rec)
}

func (s *Service) recordTokens(ctx context.Context, req Request, count int, elapsed time.Duration, err error) {
	if s.audit == nil {
		return
	}
	rec := &audit.Record{
		Transport:    req.Transport,
		Operation:    OperationTokenize,
		RequestID:    req.RequestID,
		SourceSHA256: audit.Fingerprint(req.Source),
		SourceLength: len([]rune(req.Source)),
		Status:       audit.StatusOK,
		NodeCount:    count,
		Duration:     elapsed,
	}
	applyError(rec, err)
	s.store(ctx, rec)
}

func (s *Service) store(ctx context.Context, rec *audit.Record) {
	// The request may already be canceled; the record is still wanted.
	if err := s.audit.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("Failed to record audit entry", "error", err, "request_id", rec.RequestID)
	}
}

func applyError(rec *audit.Record, err error) {
	if err == nil {
		return
	}
	code := sferror.GetCode(err)
	rec.ErrorCode = code.String()
	rec.ErrorMessage = err.Error()
	if code.IsSourceError() {
		rec.Status = audit.StatusRejected
	} else {
		rec.Status = audit.StatusFailed
	}
}
