// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     gateway
// Description: HTTP gateway server: routes, request ids, access logging
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package gateway

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/pkg/core/config"
	"github.com/msto63/scriptfront/pkg/core/health"
	"github.com/msto63/scriptfront/pkg/core/logging"
	"github.com/msto63/scriptfront/pkg/core/version"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type contextKey string

const requestIDKey contextKey = "request_id"

// Config holds gateway configuration
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	PingInterval    time.Duration
	AllowedOrigins  []string

	// MaxBodyBytes bounds request bodies; zero means unlimited
	MaxBodyBytes int64

	Logger *logging.Logger
}

// DefaultConfig returns default gateway configuration
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8400,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		PingInterval:    30 * time.Second,
	}
}

// ConfigFromApp derives the gateway configuration from the application
// configuration. The body limit leaves room for JSON escaping of a source
// of the maximum length.
func ConfigFromApp(cfg *config.Config) Config {
	gw := Config{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout.Duration,
		WriteTimeout:    cfg.HTTP.WriteTimeout.Duration,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout.Duration,
		PingInterval:    cfg.HTTP.PingInterval.Duration,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
	}
	if cfg.Parser.MaxInputLength > 0 {
		gw.MaxBodyBytes = int64(cfg.Parser.MaxInputLength)*6 + 4096
	}
	return gw
}

// Server is the HTTP gateway
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	health     *health.Registry
	logger     *logging.Logger
	config     Config
	listener   net.Listener
}

// New creates a gateway for svc
func New(svc *frontsvc.Service, registry *health.Registry, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("gateway")
	}
	if registry == nil {
		registry = frontsvc.NewHealthRegistry(svc)
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/ws", NewWebSocketHandler(svc, cfg.PingInterval, cfg.AllowedOrigins, logger))
	mux.Handle("/", NewHandler(svc, registry, cfg.MaxBodyBytes, logger))

	handler := requestIDMiddleware(loggingMiddleware(logger, corsMiddleware(cfg.AllowedOrigins, mux)))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		health:  registry,
		logger:  logger,
		config:  cfg,
	}
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until stopped
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(listener)
}

// StartAsync listens and serves in the background
func (s *Server) StartAsync() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener
	s.logger.Info("Starting HTTP gateway", "address", listener.Addr().String(), "version", version.Gateway)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()
	return nil
}

// Serve serves on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	s.listener = listener
	s.logger.Info("Starting HTTP gateway", "address", listener.Addr().String(), "version", version.Gateway)

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully stops the gateway
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP gateway")
	return s.httpServer.Shutdown(ctx)
}

// Address returns the listen address
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// RequestID returns the request id stored by the middleware
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

func corsMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && originAllowed(allowedOrigins, origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
			w.Header().Set("Access-Control-Expose-Headers", RequestIDHeader)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start).String(),
			"request_id", RequestID(r.Context()),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}
