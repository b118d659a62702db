package explorer

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	sflog "github.com/msto63/scriptfront/foundation/core/log"
	"github.com/msto63/scriptfront/foundation/script"
)

func newTestModel(t *testing.T, source string) Model {
	t.Helper()
	engine, err := script.NewEngine(script.Config{Logger: sflog.Discard()})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	m := New(Config{Engine: engine, Source: source, Title: "test.sf"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(Model)
}

// settle runs the parse for the current source and applies the result
func settle(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.parseCmd(m.Source(), m.seq)()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestInitialParse(t *testing.T) {
	m := settle(t, newTestModel(t, "let x = 1 + 2;"))

	if m.Err() != nil {
		t.Fatalf("Err() = %v", m.Err())
	}
	view := m.View()
	for _, want := range []string{"VariableStatement", `BinaryExpression "+"`, "OK", "1 statements", "[Tree]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q", want)
		}
	}
}

func TestTypingSchedulesDebouncedParse(t *testing.T) {
	m := settle(t, newTestModel(t, ""))

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a;")})
	m = updated.(Model)
	if m.Source() != "a;" {
		t.Fatalf("Source() = %q", m.Source())
	}
	if cmd == nil {
		t.Fatal("edit should schedule a parse")
	}
	if !m.pending || m.seq != 1 {
		t.Errorf("pending = %v, seq = %d", m.pending, m.seq)
	}

	// A stale debounce is ignored
	if _, stale := m.Update(debounceMsg{seq: 0}); stale != nil {
		t.Error("stale debounce should not trigger a parse")
	}

	_, parse := m.Update(debounceMsg{seq: 1})
	if parse == nil {
		t.Fatal("current debounce should trigger a parse")
	}
	updated, _ = m.Update(parse())
	m = updated.(Model)
	if m.pending || m.parsed == nil || m.parsed.Statements != 1 {
		t.Errorf("after parse: pending = %v, parsed = %+v", m.pending, m.parsed)
	}
}

func TestStaleParseResultIgnored(t *testing.T) {
	m := settle(t, newTestModel(t, "x;"))
	m.seq = 5

	updated, _ := m.Update(parsedMsg{seq: 4, err: sferror.New("old").WithCode(sferror.CodeSyntax)})
	m = updated.(Model)
	if m.Err() != nil {
		t.Error("result of an older edit replaced the current one")
	}
}

func TestErrorView(t *testing.T) {
	m := settle(t, newTestModel(t, "let a = 1;\nif (a) b = ;"))

	if !sferror.HasCode(m.Err(), sferror.CodeSyntax) {
		t.Fatalf("Err() code = %s", sferror.GetCode(m.Err()))
	}
	line, column, ok := errorPosition(m.Err())
	if !ok || line != 2 || column != 12 {
		t.Errorf("errorPosition() = %d:%d %v, want 2:12", line, column, ok)
	}

	view := m.View()
	if !strings.Contains(view, "Unexpected primary expression") {
		t.Errorf("view misses the parse error message:\n%s", view)
	}
	if !strings.Contains(view, "SYNTAX_ERROR") || !strings.Contains(view, "at 2:12") {
		t.Errorf("status bar misses code and position:\n%s", view)
	}
	if !strings.Contains(view, "if (a) b = ;") {
		t.Errorf("view misses the failing source line")
	}
}

func TestModeCycle(t *testing.T) {
	m := settle(t, newTestModel(t, "f(1);"))

	modes := []struct {
		mode ViewMode
		want string
	}{
		{ModeJSON, `"type": "CallExpression"`},
		{ModeTokens, "IDENTIFIER"},
		{ModeTree, "CallExpression"},
	}
	for _, tt := range modes {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
		m = updated.(Model)
		if m.Mode() != tt.mode {
			t.Fatalf("Mode() = %s, want %s", m.Mode(), tt.mode)
		}
		if !strings.Contains(m.View(), tt.want) {
			t.Errorf("%s view misses %q", tt.mode, tt.want)
		}
	}
}

func TestFocusAndQuit(t *testing.T) {
	m := newTestModel(t, "x;")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(Model)
	if m.focus != focusResult {
		t.Fatal("tab should move focus to the result pane")
	}

	// Typing with the result pane focused does not edit
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("z")})
	m = updated.(Model)
	if m.Source() != "x;" {
		t.Errorf("Source() = %q, want unchanged", m.Source())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c command is not tea.Quit")
	}
}

func TestViewBeforeResize(t *testing.T) {
	engine, _ := script.NewEngine(script.Config{Logger: sflog.Discard()})
	m := New(Config{Engine: engine})
	if m.View() != "Loading explorer..." {
		t.Errorf("View() = %q", m.View())
	}
}
