package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/internal/gateway"
	"github.com/msto63/scriptfront/pkg/core/config"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

// pruneInterval is the upper bound between two audit retention passes
const pruneInterval = time.Hour

var (
	serveGRPCPort int
	serveHTTPPort int
	serveAudit    bool
	serveNoHTTP   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the gRPC front end and the HTTP/WebSocket gateway",
	Long: `Starts the gRPC front end and the HTTP gateway sharing one engine,
parse cache and audit log. Stops gracefully on SIGINT or SIGTERM.

Examples:
  scriptfront serve
  scriptfront serve --grpc-port 9400 --http-port 8400 --audit`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", -1, "gRPC port (default from config)")
	serveCmd.Flags().IntVar(&serveHTTPPort, "http-port", -1, "HTTP gateway port (default from config)")
	serveCmd.Flags().BoolVar(&serveAudit, "audit", false, "enable the audit log regardless of the config")
	serveCmd.Flags().BoolVar(&serveNoHTTP, "no-gateway", false, "serve gRPC only")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveGRPCPort >= 0 {
		appConfig.GRPC.Port = serveGRPCPort
	}
	if serveHTTPPort >= 0 {
		appConfig.HTTP.Port = serveHTTPPort
	}
	if serveAudit {
		appConfig.Audit.Enabled = true
	}

	st, err := startStack(appConfig, logger, !serveNoHTTP)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "gRPC front end: %s\n", st.grpc.Address())
	if st.gateway != nil {
		fmt.Fprintf(out, "HTTP gateway:   http://%s (WebSocket /v1/ws)\n", st.gateway.Address())
	}
	fmt.Fprintln(out, "Press Ctrl+C to stop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sig := <-sigCh
	logger.Info("shutdown requested", sflog.Fields{"signal": sig.String()})

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.HTTP.ShutdownTimeout.Duration)
	defer cancel()
	return st.shutdown(ctx)
}

// stack is a running front end with its transports
type stack struct {
	svc     *frontsvc.Service
	store   audit.Store
	grpc    *frontsvc.Server
	gateway *gateway.Server
	logger  *logging.Logger

	stopPrune chan struct{}
	pruneDone chan struct{}
}

// startStack opens the audit store when enabled and starts the gRPC
// server and, with withGateway, the HTTP gateway
func startStack(cfg *config.Config, log *sflog.Logger, withGateway bool) (*stack, error) {
	st := &stack{logger: logging.Wrap(log).With("component", "serve")}

	svcCfg := frontsvc.ConfigFromApp(cfg)
	svcCfg.Logger = logging.Wrap(log).With("component", "frontsvc")

	if cfg.Audit.Enabled {
		store, err := audit.NewSQLiteStore(audit.SQLiteConfig{Path: cfg.Audit.Path})
		if err != nil {
			return nil, err
		}
		st.store = store
		svcCfg.Audit = store
		st.logger.Info("audit log enabled", "path", cfg.Audit.Path, "retention", cfg.Audit.Retention.String())
	}

	svc, err := frontsvc.NewService(svcCfg)
	if err != nil {
		st.closeStore()
		return nil, err
	}
	st.svc = svc

	grpcCfg := frontsvc.ServerConfigFromApp(cfg)
	grpcCfg.Logger = logging.Wrap(log).With("component", "grpc")
	st.grpc = frontsvc.NewServer(svc, grpcCfg)
	if err := st.grpc.StartAsync(); err != nil {
		st.svc.Close()
		return nil, sferror.Wrap(err, "failed to start gRPC server").
			WithCode(sferror.CodeServiceUnavailable).
			WithDetail("address", cfg.GRPCAddress())
	}

	if withGateway {
		gwCfg := gateway.ConfigFromApp(cfg)
		gwCfg.Logger = logging.Wrap(log).With("component", "gateway")
		st.gateway = gateway.New(svc, st.grpc.Health(), gwCfg)
		if err := st.gateway.StartAsync(); err != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			st.grpc.Stop(ctx)
			st.svc.Close()
			return nil, sferror.Wrap(err, "failed to start HTTP gateway").
				WithCode(sferror.CodeServiceUnavailable).
				WithDetail("address", cfg.HTTPAddress())
		}
	}

	if st.store != nil && cfg.Audit.Retention.Duration > 0 {
		st.stopPrune = make(chan struct{})
		st.pruneDone = make(chan struct{})
		go st.pruneLoop(cfg.Audit.Retention.Duration)
	}

	return st, nil
}

// pruneLoop removes audit records older than retention, once at start
// and then periodically
func (st *stack) pruneLoop(retention time.Duration) {
	defer close(st.pruneDone)

	interval := pruneInterval
	if retention < interval {
		interval = retention
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		removed, err := st.store.Prune(context.Background(), retention)
		if err != nil {
			st.logger.Warn("audit prune failed", "error", err)
		} else if removed > 0 {
			st.logger.Info("audit records pruned", "removed", removed)
		}

		select {
		case <-ticker.C:
		case <-st.stopPrune:
			return
		}
	}
}

// shutdown stops the transports within the deadline of ctx and closes
// the service, which closes the audit store
func (st *stack) shutdown(ctx context.Context) error {
	var firstErr error

	if st.gateway != nil {
		if err := st.gateway.Stop(ctx); err != nil {
			firstErr = err
		}
	}
	st.grpc.Stop(ctx)

	if st.stopPrune != nil {
		close(st.stopPrune)
		<-st.pruneDone
	}

	if err := st.svc.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	st.logger.Info("front end stopped")
	return firstErr
}

func (st *stack) closeStore() {
	if st.store != nil {
		_ = st.store.Close()
	}
}
