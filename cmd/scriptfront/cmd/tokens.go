package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/msto63/scriptfront/foundation/script/lexer"
	"github.com/msto63/scriptfront/foundation/utils/stringx"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/frontsvc"
)

var (
	tokensExpr string
	tokensJSON bool
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [file|-]",
	Short: "Print the token stream of a source",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().StringVarP(&tokensExpr, "expr", "e", "", "source text instead of a file")
	tokensCmd.Flags().BoolVar(&tokensJSON, "json", false, "print tokens as JSON")
	rootCmd.AddCommand(tokensCmd)
}

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	tableKindStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	tablePosStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func runTokens(cmd *cobra.Command, args []string) error {
	source, _, err := readSource(cmd, args, tokensExpr)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	tokens, err := svc.Tokenize(context.Background(), frontsvc.Request{
		Source:    source,
		Transport: audit.TransportCLI,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if tokensJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tokens)
	}
	printTokenTable(out, tokens)
	return nil
}

// printTokenTable writes one row per token
func printTokenTable(w io.Writer, tokens []lexer.Token) {
	const kindWidth, posWidth = 20, 8

	fmt.Fprintln(w, tableHeaderStyle.Render(
		stringx.PadRight("POS", posWidth)+" "+stringx.PadRight("TYPE", kindWidth)+" VALUE"))
	for _, tok := range tokens {
		pos := strconv.Itoa(tok.Line) + ":" + strconv.Itoa(tok.Column)
		fmt.Fprintln(w,
			tablePosStyle.Render(stringx.PadRight(pos, posWidth))+" "+
				tableKindStyle.Render(stringx.PadRight(tok.Kind.String(), kindWidth))+" "+
				tok.Lexeme)
	}
}
