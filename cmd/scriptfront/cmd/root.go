package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/pkg/core/config"
	"github.com/msto63/scriptfront/pkg/core/logging"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string

	appConfig *config.Config
	logger    *sflog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "scriptfront",
	Short: "scriptfront - front end for a small class-based script language",
	Long: `scriptfront turns script source into tokens and an abstract syntax tree.

Commands:
  tokens   - print the token stream of a source
  parse    - print the AST as JSON or as a tree
  repl     - interactive read-parse-print loop
  explore  - terminal AST explorer
  serve    - gRPC front end and HTTP/WebSocket gateway
  status   - check a running front end
  audit    - inspect the request audit log`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command and prints a failure to stderr
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./configs/scriptfront.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json, text, console or logfmt")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	if logFormat != "" {
		if _, err := sflog.ParseFormat(logFormat); err != nil {
			return sferror.Wrap(err, "invalid --log-format").
				WithCode(sferror.CodeInvalidInput).
				WithDetail("value", logFormat)
		}
		cfg.General.LogFormat = logFormat
	}

	appConfig = cfg
	logger = logging.FromConfig(cfg, cfg.General.Name)
	logger.Debug("configuration loaded", sflog.Fields{"source": sourceName(cfg)})
	return nil
}

func sourceName(cfg *config.Config) string {
	if cfg.Source == "" {
		return "defaults"
	}
	return cfg.Source
}

// newService builds a front end service from the loaded configuration.
// The CLI runs without an audit store unless serve opens one.
func newService() (*frontsvc.Service, error) {
	svcCfg := frontsvc.ConfigFromApp(appConfig)
	svcCfg.Logger = logging.Wrap(logger)
	return frontsvc.NewService(svcCfg)
}

// printError writes err, with its source position when it has one
func printError(w io.Writer, err error) {
	se, ok := sferror.As(err)
	if !ok {
		fmt.Fprintf(w, "error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "error [%s]: %s\n", se.Code(), se.RootCause().Error())
}
