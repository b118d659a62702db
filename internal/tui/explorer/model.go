// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     explorer
// Description: Bubbletea model of the AST explorer: a source editor on the
//              left, the live parse result on the right
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package explorer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sferror "github.com/msto63/scriptfront/foundation/core/error"
	"github.com/msto63/scriptfront/foundation/script"
	"github.com/msto63/scriptfront/foundation/script/ast"
	"github.com/msto63/scriptfront/foundation/script/lexer"
	"github.com/msto63/scriptfront/foundation/utils/stringx"
)

// ViewMode selects what the result pane shows
type ViewMode int

const (
	ModeTree ViewMode = iota
	ModeJSON
	ModeTokens
)

func (v ViewMode) String() string {
	switch v {
	case ModeJSON:
		return "JSON"
	case ModeTokens:
		return "Tokens"
	default:
		return "Tree"
	}
}

type focus int

const (
	focusEditor focus = iota
	focusResult
)

// Config holds explorer configuration
type Config struct {
	Engine   *script.Engine
	Source   string
	Title    string
	Debounce time.Duration
}

// Model is the Bubbletea model of the explorer
type Model struct {
	width  int
	height int
	ready  bool

	editor textarea.Model
	result viewport.Model
	focus  focus
	mode   ViewMode

	engine   *script.Engine
	title    string
	debounce time.Duration

	// seq numbers edits; only the newest parse is shown
	seq     int
	pending bool

	parsed *script.Result
	tokens []lexer.Token
	err    error
}

// New creates an explorer model
func New(cfg Config) Model {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 150 * time.Millisecond
	}

	editor := textarea.New()
	editor.Placeholder = "let x = 1;"
	editor.ShowLineNumbers = true
	editor.CharLimit = 0
	editor.MaxHeight = 0
	editor.SetValue(cfg.Source)
	editor.Focus()

	return Model{
		editor:   editor,
		result:   viewport.New(40, 10),
		engine:   cfg.Engine,
		title:    stringx.FirstNonBlank(cfg.Title, "untitled"),
		debounce: cfg.Debounce,
		pending:  true,
	}
}

// Init parses the initial source
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.parseCmd(m.editor.Value(), m.seq))
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.updateResultContent()

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m, m.parseCmd(m.editor.Value(), msg.seq)

	case parsedMsg:
		if msg.seq == m.seq {
			m.pending = false
			m.parsed = msg.result
			m.tokens = msg.tokens
			m.err = msg.err
			m.updateResultContent()
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		if m.focus == focusEditor {
			m.focus = focusResult
			m.editor.Blur()
			return m, nil
		}
		m.focus = focusEditor
		return m, m.editor.Focus()

	case "ctrl+t":
		m.mode = (m.mode + 1) % 3
		m.updateResultContent()
		m.result.GotoTop()
		return m, nil

	case "ctrl+r":
		m.seq++
		m.pending = true
		return m, m.parseCmd(m.editor.Value(), m.seq)
	}

	var cmd tea.Cmd
	if m.focus == focusResult {
		m.result, cmd = m.result.Update(msg)
		return m, cmd
	}

	before := m.editor.Value()
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() == before {
		return m, cmd
	}

	m.seq++
	m.pending = true
	seq := m.seq
	return m, tea.Batch(cmd, tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	}))
}

// parseCmd parses source off the UI goroutine
func (m Model) parseCmd(source string, seq int) tea.Cmd {
	engine := m.engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		result, err := engine.Parse(ctx, source)
		if err != nil {
			// Tokens up to the failure still help locating it
			tokens, _ := engine.Tokenize(ctx, source)
			return parsedMsg{seq: seq, tokens: tokens, err: err}
		}
		tokens, err := engine.Tokenize(ctx, source)
		return parsedMsg{seq: seq, result: result, tokens: tokens, err: err}
	}
}

// Source returns the current editor content
func (m Model) Source() string {
	return m.editor.Value()
}

// Mode returns the current view mode
func (m Model) Mode() ViewMode {
	return m.mode
}

// Err returns the error of the latest parse
func (m Model) Err() error {
	return m.err
}

// layout sizes the panes: editor left, result right
func (m *Model) layout() {
	paneWidth := m.width/2 - 4
	if paneWidth < 10 {
		paneWidth = 10
	}
	paneHeight := m.height - 6 // header, status, help, borders
	if paneHeight < 3 {
		paneHeight = 3
	}

	m.editor.SetWidth(paneWidth)
	m.editor.SetHeight(paneHeight)
	m.result.Width = paneWidth
	m.result.Height = paneHeight
}

// updateResultContent renders the latest parse into the result pane
func (m *Model) updateResultContent() {
	m.result.SetContent(m.renderResult())
}

func (m Model) renderResult() string {
	if m.mode == ModeTokens {
		return m.renderTokens()
	}
	if m.err != nil {
		return m.renderError()
	}
	if m.parsed == nil {
		return StatusPendingStyle.Render("parsing...")
	}

	if m.mode == ModeJSON {
		encoded, err := ast.ToJSON(m.parsed.Program, "  ")
		if err != nil {
			return StatusErrorStyle.Render(err.Error())
		}
		return string(encoded)
	}
	return renderTree(ast.Sprint(m.parsed.Program))
}

// renderTree colors node labels and field names of a printed tree
func renderTree(tree string) string {
	var b strings.Builder
	for _, line := range stringx.SplitLines(strings.TrimRight(tree, "\n")) {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]

		label := strings.TrimPrefix(trimmed, "- ")
		bullet := trimmed[:len(trimmed)-len(label)]

		field := ""
		if i := strings.Index(label, ": "); i > 0 && !strings.ContainsAny(label[:i], " \"") {
			field, label = label[:i+2], label[i+2:]
		} else if strings.HasSuffix(label, ":") {
			field, label = label, ""
		}

		b.WriteString(indent + bullet + FieldStyle.Render(field) + NodeTypeStyle.Render(label) + "\n")
	}
	return b.String()
}

func (m Model) renderTokens() string {
	if len(m.tokens) == 0 && m.err != nil {
		return m.renderError()
	}

	var b strings.Builder
	for _, tok := range m.tokens {
		pos := PositionStyle.Render(stringx.PadRight(fmt.Sprintf("%d:%d", tok.Line, tok.Column), 8))
		kind := TokenKindStyle.Render(stringx.PadRight(tok.Kind.String(), 24))
		b.WriteString(pos + kind + stringx.Preview(tok.Lexeme, 40) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + m.renderError())
	}
	return b.String()
}

// renderError shows the message and a caret under the failing column
func (m Model) renderError() string {
	var b strings.Builder
	b.WriteString(StatusErrorStyle.Render(errorMessage(m.err)) + "\n")

	line, column, ok := errorPosition(m.err)
	if !ok {
		return b.String()
	}

	lines := stringx.SplitLines(m.editor.Value())
	if line >= 1 && line <= len(lines) {
		b.WriteString("\n" + lines[line-1] + "\n")
		b.WriteString(strings.Repeat(" ", column-1) + CaretStyle.Render("^") + "\n")
	}
	return b.String()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading explorer..."
	}

	editorStyle, resultStyle := FocusedPanelStyle, PanelStyle
	if m.focus == focusResult {
		editorStyle, resultStyle = PanelStyle, FocusedPanelStyle
	}

	header := LogoStyle.Render(Logo) + "  " + HelpDescStyle.Render(m.title) + "  " + ModeStyle.Render("["+m.mode.String()+"]")
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		editorStyle.Render(m.editor.View()),
		resultStyle.Render(m.result.View()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		panes,
		m.renderStatusBar(),
		m.renderHelpBar(),
	)
}

func (m Model) renderStatusBar() string {
	var status string
	switch {
	case m.pending:
		status = StatusPendingStyle.Render("parsing...")
	case m.err != nil:
		status = StatusErrorStyle.Render(sferror.GetCode(m.err).String())
		if line, column, ok := errorPosition(m.err); ok {
			status += HelpDescStyle.Render(fmt.Sprintf(" at %d:%d", line, column))
		}
	case m.parsed != nil:
		status = StatusOKStyle.Render("OK") + HelpDescStyle.Render(fmt.Sprintf(
			"  %d statements  %d nodes  %d tokens  %s",
			m.parsed.Statements, m.parsed.Nodes, len(m.tokens), m.parsed.Duration.Round(time.Microsecond)))
	}

	width := m.width - 2
	if width < 0 {
		width = 0
	}
	return StatusBarStyle.Width(width).Render(status)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Tab", "Focus"),
		RenderKeyHint("Ctrl+T", "Tree/JSON/Tokens"),
		RenderKeyHint("Ctrl+R", "Reparse"),
		RenderKeyHint("Esc", "Quit"),
	}
	return strings.Join(items, "  ")
}

func errorMessage(err error) string {
	if se, ok := sferror.As(err); ok {
		if cause := se.RootCause(); cause != nil && cause != error(se) {
			return cause.Error()
		}
		return se.Error()
	}
	return err.Error()
}

func errorPosition(err error) (line, column int, ok bool) {
	se, isStructured := sferror.As(err)
	if !isStructured {
		return 0, 0, false
	}
	l, hasLine := se.Detail("line")
	c, hasColumn := se.Detail("column")
	if !hasLine || !hasColumn {
		return 0, 0, false
	}
	line, lineOK := l.(int)
	column, columnOK := c.(int)
	return line, column, lineOK && columnOK && column >= 1
}

// Run starts the explorer
func Run(cfg Config) (string, error) {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	if m, ok := final.(Model); ok {
		return m.Source(), nil
	}
	return "", nil
}
