package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/internal/frontsvc"
	"github.com/msto63/scriptfront/pkg/core/version"
)

const replHelp = `REPL commands:
  :json    print the AST as JSON (default)
  :tree    print the AST as an indented tree
  :tokens  print the token stream
  :help    show this help
  :quit    exit the REPL

Input continues on the next line while a statement is incomplete.
Ctrl+C discards the current input, Ctrl+D exits.`

var (
	replErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	replNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive read-parse-print loop",
	Args:  cobra.NoArgs,
	RunE:  runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

// lineReader reads one line after printing a prompt
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// replSession holds the state of one REPL run
type replSession struct {
	svc    *frontsvc.Service
	out    io.Writer
	mode   string
	prompt string
	cont   string

	// history receives every complete input
	history func(string)
}

func runREPL(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := appConfig.REPL.HistoryFile
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if err := os.MkdirAll(filepath.Dir(histPath), 0o755); err != nil {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "scriptfront %s REPL (grammar %s)\n", version.Platform, version.Grammar)
	fmt.Fprintln(out, replNoticeStyle.Render("Type :help for commands, Ctrl+D to exit."))

	session := &replSession{
		svc:     svc,
		out:     out,
		mode:    formatJSON,
		prompt:  appConfig.REPL.Prompt,
		cont:    appConfig.REPL.ContinuationPrompt,
		history: ln.AppendHistory,
	}
	return session.run(ln)
}

// run reads inputs until :quit or end of input
func (s *replSession) run(in lineReader) error {
	for {
		input, ok, err := s.read(in)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out)
			return nil
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		if s.history != nil {
			s.history(input)
		}

		if strings.HasPrefix(strings.TrimSpace(input), ":") {
			if quit := s.command(strings.TrimSpace(input)); quit {
				return nil
			}
			continue
		}
		s.eval(input)
	}
}

// read collects lines until they form a complete input. ok is false at
// end of input. A REPL command is always a single line.
func (s *replSession) read(in lineReader) (input string, ok bool, err error) {
	var b strings.Builder

	for {
		prompt := s.prompt
		if b.Len() > 0 {
			prompt = s.cont
		}

		line, err := in.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			if b.Len() > 0 {
				return b.String(), true, nil
			}
			return "", false, nil
		case errors.Is(err, liner.ErrPromptAborted):
			b.Reset()
			continue
		case err != nil:
			return "", false, err
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true, nil
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if strings.TrimSpace(b.String()) == "" {
			return "", true, nil
		}
		if _, perr := s.svc.Engine().Parse(context.Background(), b.String()); script.Incomplete(perr) {
			continue
		}
		return b.String(), true, nil
	}
}

// command runs a REPL command and reports whether the REPL should exit
func (s *replSession) command(line string) bool {
	switch strings.Fields(line)[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":json":
		s.mode = formatJSON
	case ":tree":
		s.mode = formatTree
	case ":tokens":
		s.mode = "tokens"
	case ":help":
		fmt.Fprintln(s.out, replHelp)
		return false
	default:
		fmt.Fprintln(s.out, replErrorStyle.Render("unknown command "+line+", try :help"))
		return false
	}
	fmt.Fprintln(s.out, replNoticeStyle.Render("output: "+s.mode))
	return false
}

func (s *replSession) eval(source string) {
	req := frontsvc.Request{Source: source, Transport: audit.TransportCLI}

	if s.mode == "tokens" {
		tokens, err := s.svc.Tokenize(context.Background(), req)
		if err != nil {
			s.printError(err)
			return
		}
		printTokenTable(s.out, tokens)
		return
	}

	out, err := s.svc.Parse(context.Background(), req)
	if err != nil {
		s.printError(err)
		return
	}
	if err := writeProgram(s.out, out.Program, s.mode, false); err != nil {
		s.printError(err)
	}
}

func (s *replSession) printError(err error) {
	var b strings.Builder
	printError(&b, err)
	fmt.Fprint(s.out, replErrorStyle.Render(strings.TrimRight(b.String(), "\n"))+"\n")
}
