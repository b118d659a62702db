package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/internal/tui/explorer"
)

var exploreSave bool

var exploreCmd = &cobra.Command{
	Use:   "explore [file]",
	Short: "Terminal AST explorer",
	Long: `Opens an editor next to a live view of the AST, the JSON tree or the
token stream. The view is refreshed shortly after each edit.

Keys: tab switches focus, ctrl+t cycles the view, ctrl+r reparses,
esc or ctrl+c quits.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().BoolVar(&exploreSave, "save", false, "write the edited source back to the file on exit")
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	var source, title string
	if len(args) == 1 {
		src, name, err := readSource(cmd, args, "")
		if err != nil {
			return err
		}
		source, title = src, filepath.Base(name)
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	edited, err := explorer.Run(explorer.Config{
		Engine: svc.Engine(),
		Source: source,
		Title:  title,
	})
	if err != nil {
		return sferror.Wrap(err, "explorer failed").WithCode(sferror.CodeInternal)
	}

	if exploreSave && len(args) == 1 && edited != source {
		if err := os.WriteFile(args[0], []byte(edited), 0o644); err != nil {
			return sferror.Wrap(err, "failed to save source").
				WithCode(sferror.CodeInvalidInput).
				WithDetail("path", args[0])
		}
		logger.Info("source saved", sflog.Fields{"path": args[0]})
	}
	return nil
}
