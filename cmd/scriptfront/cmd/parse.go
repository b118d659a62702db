package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	"github.com/msto63/scriptfront/foundation/script/ast"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/frontsvc"
	coreGrpc "github.com/msto63/scriptfront/pkg/core/grpc"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

// Output formats of the parse command
const (
	formatJSON = "json"
	formatTree = "tree"
)

var (
	parseExpr    string
	parseFormat  string
	parseCompact bool
	parseRemote  string
	parseTimeout time.Duration
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Print the AST of a source",
	Long: `Parses a source and prints its abstract syntax tree.

With --remote the source is sent to a running front end over gRPC;
remote results are always JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseExpr, "expr", "e", "", "source text instead of a file")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", formatJSON, "output format: json or tree")
	parseCmd.Flags().BoolVar(&parseCompact, "compact", false, "print JSON on a single line")
	parseCmd.Flags().StringVar(&parseRemote, "remote", "", "gRPC address of a running front end")
	parseCmd.Flags().DurationVar(&parseTimeout, "timeout", 30*time.Second, "timeout of a remote call")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	if parseFormat != formatJSON && parseFormat != formatTree {
		return sferror.Newf("unknown format %q", parseFormat).
			WithCode(sferror.CodeInvalidInput).
			WithDetail("expected", "json, tree")
	}

	source, _, err := readSource(cmd, args, parseExpr)
	if err != nil {
		return err
	}

	if parseRemote != "" {
		return parseRemotely(cmd.OutOrStdout(), source)
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	out, err := svc.Parse(context.Background(), frontsvc.Request{
		Source:    source,
		Transport: audit.TransportCLI,
	})
	if err != nil {
		return err
	}
	return writeProgram(cmd.OutOrStdout(), out.Program, parseFormat, parseCompact)
}

// writeProgram prints program in the given format
func writeProgram(w io.Writer, program *ast.Program, format string, compact bool) error {
	if format == formatTree {
		return ast.Fprint(w, program)
	}

	indent := "  "
	if compact {
		indent = ""
	}
	encoded, err := ast.ToJSON(program, indent)
	if err != nil {
		return sferror.Wrap(err, "failed to encode AST").WithCode(sferror.CodeInternal)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}

func parseRemotely(w io.Writer, source string) error {
	if parseFormat != formatJSON {
		return sferror.New("remote parsing supports JSON output only").
			WithCode(sferror.CodeInvalidInput)
	}

	clientCfg := coreGrpc.DefaultClientConfig(parseRemote)
	clientCfg.Logger = logging.Wrap(logger)
	conn, err := coreGrpc.Dial(clientCfg)
	if err != nil {
		return sferror.Wrap(err, "failed to connect").
			WithCode(sferror.CodeServiceUnavailable).
			WithDetail("address", parseRemote)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
	defer cancel()

	encoded, err := frontsvc.NewClient(conn).Parse(ctx, source)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if parseCompact {
		err = json.Compact(&buf, encoded)
	} else {
		err = json.Indent(&buf, encoded, "", "  ")
	}
	if err != nil {
		return sferror.Wrap(err, "failed to format response").WithCode(sferror.CodeInternal)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}
