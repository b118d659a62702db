package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
)

// testEnv writes a config file pointing every path into a temp dir
func testEnv(t *testing.T) (configPath, dir string) {
	t.Helper()
	dir = t.TempDir()
	configPath = filepath.Join(dir, "scriptfront.toml")

	content := `[general]
log_level = "error"
log_format = "logfmt"

[audit]
path = "` + filepath.ToSlash(filepath.Join(dir, "audit.db")) + `"

[repl]
history_file = "` + filepath.ToSlash(filepath.Join(dir, "history")) + `"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return configPath, dir
}

// resetFlags restores flag variables between executions of rootCmd
func resetFlags() {
	cfgFile, verbose, logFormat = "", false, ""
	tokensExpr, tokensJSON = "", false
	parseExpr, parseFormat, parseCompact, parseRemote, parseTimeout = "", formatJSON, false, "", 30*time.Second
	auditLimit, auditStatus, auditTransport, auditPrune, auditStats, auditJSON, auditTUI = 20, "", "", 0, false, false, false
	versionJSON = false
	statusGRPC, statusHTTP = "", ""
	exploreSave = false
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestTokensCommand(t *testing.T) {
	configPath, _ := testEnv(t)

	out, err := execute(t, "", "--config", configPath, "tokens", "-e", "let x = 1;")
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}
	for _, want := range []string{"POS", "TYPE", "IDENTIFIER", "1:5", "NUMBER"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "EOF") {
		t.Errorf("output lists the end marker:\n%s", out)
	}
}

func TestTokensCommand_JSON(t *testing.T) {
	configPath, _ := testEnv(t)

	out, err := execute(t, "", "--config", configPath, "tokens", "--json", "-e", "x = 1;")
	if err != nil {
		t.Fatalf("tokens error = %v", err)
	}

	var tokens []struct {
		Type   string `json:"type"`
		Value  string `json:"value"`
		Line   int    `json:"line"`
		Column int    `json:"column"`
	}
	if err := json.Unmarshal([]byte(out), &tokens); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4", len(tokens))
	}
	if tokens[0].Type != "IDENTIFIER" || tokens[0].Value != "x" || tokens[0].Column != 1 {
		t.Errorf("first token = %+v", tokens[0])
	}
	if tokens[1].Type != "SIMPLE_ASSIGN" {
		t.Errorf("second token type = %s", tokens[1].Type)
	}
}

func TestParseCommand(t *testing.T) {
	configPath, dir := testEnv(t)

	file := filepath.Join(dir, "input.sf")
	if err := os.WriteFile(file, []byte("let x = 1 + 2;"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		stdin string
		args  []string
		want  []string
	}{
		{
			name: "json from expression",
			args: []string{"parse", "-e", "x = 1;"},
			want: []string{`"type": "Program"`, `"type": "AssignmentExpression"`},
		},
		{
			name: "compact json",
			args: []string{"parse", "--compact", "-e", "x = 1;"},
			want: []string{`{"type":"Program","body":[`},
		},
		{
			name: "tree from file",
			args: []string{"parse", "--format", "tree", file},
			want: []string{"Program", "- VariableStatement", `BinaryExpression "+"`, "Identifier x"},
		},
		{
			name:  "stdin",
			stdin: "while (a) a = a - 1;",
			args:  []string{"parse", "-"},
			want:  []string{`"type": "WhileStatement"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", configPath}, tt.args...)
			out, err := execute(t, tt.stdin, args...)
			if err != nil {
				t.Fatalf("parse error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	configPath, dir := testEnv(t)

	tests := []struct {
		name string
		args []string
		code sferror.Code
	}{
		{"syntax error", []string{"parse", "-e", "let x = ;"}, sferror.CodeSyntax},
		{"incomplete", []string{"parse", "-e", "def f(a) {"}, sferror.CodeUnexpectedEOF},
		{"lexical error", []string{"parse", "-e", "x = @;"}, sferror.CodeLexical},
		{"unknown format", []string{"parse", "--format", "xml", "-e", "x;"}, sferror.CodeInvalidInput},
		{"expr and file", []string{"parse", "-e", "x;", "file.sf"}, sferror.CodeInvalidInput},
		{"missing file", []string{"parse", filepath.Join(dir, "missing.sf")}, sferror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", configPath}, tt.args...)
			_, err := execute(t, "", args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := sferror.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestPrintError(t *testing.T) {
	configPath, _ := testEnv(t)

	_, err := execute(t, "", "--config", configPath, "parse", "-e", "let x = ;")
	if err == nil {
		t.Fatal("expected an error")
	}

	var buf bytes.Buffer
	printError(&buf, err)
	got := buf.String()
	if !strings.HasPrefix(got, "error [SYNTAX_ERROR]: ") {
		t.Errorf("printError() = %q", got)
	}
	if !strings.Contains(got, "line 1, column 9") {
		t.Errorf("printError() lacks the position: %q", got)
	}
}

func TestInvalidLogFormat(t *testing.T) {
	configPath, _ := testEnv(t)

	_, err := execute(t, "", "--config", configPath, "--log-format", "xml", "version")
	if sferror.GetCode(err) != sferror.CodeInvalidInput {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestVersionCommand(t *testing.T) {
	configPath, _ := testEnv(t)

	out, err := execute(t, "", "--config", configPath, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "scriptfront v") || !strings.Contains(out, "Grammar:") {
		t.Errorf("version output:\n%s", out)
	}

	out, err = execute(t, "", "--config", configPath, "version", "--json")
	if err != nil {
		t.Fatalf("version --json error = %v", err)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if info["grammar"] == "" || info["go_version"] == "" {
		t.Errorf("info = %v", info)
	}
}
