// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     frontsvc
// Description: gRPC server hosting the FrontEnd service
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package frontsvc

import (
	"context"
	"net"
	"time"

	coreGrpc "github.com/msto63/scriptfront/pkg/core/grpc"
	"github.com/msto63/scriptfront/pkg/core/config"
	"github.com/msto63/scriptfront/pkg/core/health"
	"github.com/msto63/scriptfront/pkg/core/logging"
	"github.com/msto63/scriptfront/pkg/core/version"
)

// Server is the FrontEnd gRPC server
type Server struct {
	service   *Service
	grpc      *coreGrpc.Server
	health    *health.Registry
	logger    *logging.Logger
	startTime time.Time
}

// ServerConfigFromApp derives the gRPC server configuration from the
// application configuration
func ServerConfigFromApp(cfg *config.Config) coreGrpc.ServerConfig {
	grpcCfg := coreGrpc.DefaultServerConfig()
	grpcCfg.Host = cfg.GRPC.Host
	grpcCfg.Port = cfg.GRPC.Port
	if cfg.GRPC.MaxMessageSize > 0 {
		grpcCfg.MaxRecvMsgSize = cfg.GRPC.MaxMessageSize
		grpcCfg.MaxSendMsgSize = cfg.GRPC.MaxMessageSize
	}
	if cfg.GRPC.KeepaliveTime.Duration > 0 {
		grpcCfg.KeepaliveInterval = cfg.GRPC.KeepaliveTime.Duration
	}
	if cfg.GRPC.KeepaliveTimeout.Duration > 0 {
		grpcCfg.KeepaliveTimeout = cfg.GRPC.KeepaliveTimeout.Duration
	}
	if cfg.GRPC.ConnectionTimeout.Duration > 0 {
		grpcCfg.ConnectionTimeout = cfg.GRPC.ConnectionTimeout.Duration
	}
	return grpcCfg
}

// NewServer creates a gRPC server for svc
func NewServer(svc *Service, cfg coreGrpc.ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("frontsvc-server")
		cfg.Logger = logger
	}

	grpcServer := coreGrpc.NewServer(cfg)
	RegisterFrontEndServer(grpcServer.GRPCServer(), &grpcHandler{service: svc})
	grpcServer.SetServing(ServiceName, true)

	return &Server{
		service:   svc,
		grpc:      grpcServer,
		health:    NewHealthRegistry(svc),
		logger:    logger,
		startTime: time.Now(),
	}
}

// Health returns the health registry of the server
func (s *Server) Health() *health.Registry {
	return s.health
}

// Start starts the server and blocks
func (s *Server) Start() error {
	s.logger.Info("Starting FrontEnd server", "address", s.grpc.Address(), "version", version.FrontEnd)
	return s.grpc.Start()
}

// StartAsync starts the server in the background
func (s *Server) StartAsync() error {
	return s.grpc.StartAsync()
}

// Serve serves on an existing listener
func (s *Server) Serve(listener net.Listener) error {
	return s.grpc.Serve(listener)
}

// Stop stops the server gracefully within the context deadline
func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Stopping FrontEnd server", "uptime", time.Since(s.startTime).Round(time.Second).String())
	s.grpc.SetServing(ServiceName, false)
	s.grpc.StopWithTimeout(ctx)
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}

// NewHealthRegistry creates a registry checking the engine and the audit
// store of svc
func NewHealthRegistry(svc *Service) *health.Registry {
	registry := health.NewRegistry("scriptfront", version.Platform)

	registry.Register(health.ErrorCheck("engine", func(ctx context.Context) error {
		_, err := svc.Engine().Parse(ctx, "x = 1;")
		return err
	}))

	if store := svc.AuditStore(); store != nil {
		registry.Register(health.ErrorCheck("audit", store.Ping))
	}

	return registry
}
