package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/internal/gateway"
	coreGrpc "github.com/msto63/scriptfront/pkg/core/grpc"
	"github.com/msto63/scriptfront/pkg/core/health"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

var (
	statusGRPC string
	statusHTTP string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check a running front end",
	Long: `Checks the gRPC health service and the HTTP /healthz endpoint of a
running front end. Addresses default to the configured ports on localhost.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusGRPC, "grpc", "", "gRPC address")
	statusCmd.Flags().StringVar(&statusHTTP, "http", "", "HTTP gateway address")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	grpcAddr := statusGRPC
	if grpcAddr == "" {
		grpcAddr = fmt.Sprintf("localhost:%d", appConfig.GRPC.Port)
	}
	httpAddr := statusHTTP
	if httpAddr == "" {
		httpAddr = fmt.Sprintf("localhost:%d", appConfig.HTTP.Port)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "scriptfront status")
	fmt.Fprintln(out, "==================")

	healthy := true
	if state, err := checkGRPC(ctx, grpcAddr); err != nil {
		healthy = false
		fmt.Fprintf(out, "  [-] gRPC front end  %-21s unreachable: %v\n", grpcAddr, err)
	} else {
		healthy = healthy && state == healthpb.HealthCheckResponse_SERVING
		fmt.Fprintf(out, "  [+] gRPC front end  %-21s %s\n", grpcAddr, state)
	}

	if report, err := checkHTTP(ctx, httpAddr); err != nil {
		healthy = false
		fmt.Fprintf(out, "  [-] HTTP gateway    %-21s unreachable: %v\n", httpAddr, err)
	} else {
		healthy = healthy && report.Status != health.StatusUnhealthy
		fmt.Fprintf(out, "  [+] HTTP gateway    %-21s %s\n", httpAddr, report.Status)
		for _, check := range report.Checks {
			fmt.Fprintf(out, "        %-10s %s %s\n", check.Name, check.Status, check.Message)
		}
	}

	if !healthy {
		return fmt.Errorf("front end is not healthy")
	}
	return nil
}

func checkGRPC(ctx context.Context, addr string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	clientCfg := coreGrpc.DefaultClientConfig(addr)
	clientCfg.Logger = logging.Wrap(logger)
	conn, err := coreGrpc.Dial(clientCfg)
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: frontsvc.ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

func checkHTTP(ctx context.Context, addr string) (*gateway.HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/healthz", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var report gateway.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("invalid health response: %w", err)
	}
	return &report, nil
}
