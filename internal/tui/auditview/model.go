// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     auditview
// Description: Bubbletea model of the audit log viewer. Polls an audit
//              store and filters records by status and transport.
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package auditview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/scriptfront/foundation/utils/stringx"
	"github.com/msto63/scriptfront/internal/audit"
	"github.com/msto63/scriptfront/pkg/core/version"
)

// transports is the cycle order of the transport filter; "" shows all
var transports = []string{"", audit.TransportGRPC, audit.TransportHTTP, audit.TransportWebSocket, audit.TransportCLI}

// StatusFilter tracks which record statuses are shown
type StatusFilter struct {
	OK       bool
	Rejected bool
	Failed   bool
}

func allStatuses() StatusFilter {
	return StatusFilter{OK: true, Rejected: true, Failed: true}
}

// Config holds viewer configuration
type Config struct {
	Store       audit.Store
	Source      string // shown in the status bar, usually the database path
	MaxRecords  int
	RefreshRate time.Duration
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MaxRecords:  500,
		RefreshRate: 2 * time.Second,
	}
}

// Model is the Bubbletea model of the viewer
type Model struct {
	width      int
	height     int
	ready      bool
	loading    bool
	paused     bool
	online     bool
	autoScroll bool
	err        error

	viewport viewport.Model
	spinner  spinner.Model

	all          []*audit.Record
	filtered     []*audit.Record
	statusFilter StatusFilter
	transport    int

	stats *audit.Stats

	store       audit.Store
	source      string
	maxRecords  int
	refreshRate time.Duration
}

// New creates a viewer model
func New(cfg Config) Model {
	defaults := DefaultConfig()
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = defaults.MaxRecords
	}
	if cfg.RefreshRate <= 0 {
		cfg.RefreshRate = defaults.RefreshRate
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		spinner:      sp,
		loading:      true,
		autoScroll:   true,
		statusFilter: allStatuses(),
		store:        cfg.Store,
		source:       cfg.Source,
		maxRecords:   cfg.MaxRecords,
		refreshRate:  cfg.RefreshRate,
	}
}

// Init starts loading and the refresh ticker
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.checkStore,
		m.loadRecords,
		m.loadStats,
		m.tick(),
	)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		footerHeight := 4
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case recordsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.all = msg.records
			m.applyFilters()
			m.updateViewportContent()
			if m.autoScroll {
				m.viewport.GotoBottom()
			}
		}

	case statsLoadedMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}

	case storeStatusMsg:
		m.online = msg.online

	case tickMsg:
		if !m.paused {
			cmds = append(cmds, m.loadRecords, m.loadStats)
		}
		cmds = append(cmds, m.tick())
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			return m, tea.Quit
		case "1":
			m.statusFilter.OK = !m.statusFilter.OK
		case "2":
			m.statusFilter.Rejected = !m.statusFilter.Rejected
		case "3":
			m.statusFilter.Failed = !m.statusFilter.Failed
		case "0":
			m.statusFilter = allStatuses()
			m.transport = 0
		case "t":
			m.transport = (m.transport + 1) % len(transports)
		case "p", " ":
			m.paused = !m.paused
			return m, nil
		case "r":
			m.loading = true
			return m, tea.Batch(m.loadRecords, m.loadStats)
		case "a":
			m.autoScroll = !m.autoScroll
			if m.autoScroll {
				m.viewport.GotoBottom()
			}
			return m, nil
		case "g":
			m.viewport.GotoTop()
			m.autoScroll = false
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			m.autoScroll = true
			return m, nil
		default:
			return m, nil
		}
		m.applyFilters()
		m.updateViewportContent()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		m.autoScroll = false
	case tea.KeyPgDown:
		m.viewport.ViewDown()
	case tea.KeyUp:
		m.viewport.LineUp(1)
		m.autoScroll = false
	case tea.KeyDown:
		m.viewport.LineDown(1)
	}

	return m, nil
}

// Visible returns the records passing the current filters, oldest first
func (m Model) Visible() []*audit.Record {
	return m.filtered
}

// Paused reports whether the refresh is paused
func (m Model) Paused() bool {
	return m.paused
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading audit viewer..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n")
	b.WriteString(RecordPanelStyle.Width(m.width - 2).Height(m.viewport.Height + 2).Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())
	return b.String()
}

func (m Model) renderHeader() string {
	status := OfflineStyle.Render("store offline")
	if m.online {
		status = OnlineStyle.Render("store online")
	}

	pause := ""
	if m.paused {
		pause = "  " + PausedStyle.Render("PAUSED")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		strings.Repeat(" ", 3),
		status,
		pause,
	)
	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

func (m Model) renderFilterBar() string {
	filters := []string{
		"1:" + RenderFilterStatus("OK", m.statusFilter.OK),
		"2:" + RenderFilterStatus("REJECTED", m.statusFilter.Rejected),
		"3:" + RenderFilterStatus("FAILED", m.statusFilter.Failed),
		"t:" + FilterActiveStyle.Render(stringx.FirstNonBlank(transports[m.transport], "all transports")),
	}

	count := HelpDescStyle.Render(fmt.Sprintf("[%d/%d records]", len(m.filtered), len(m.all)))
	scroll := ""
	if m.autoScroll {
		scroll = "  " + FilterActiveStyle.Render("[auto-scroll]")
	}
	return FilterBarStyle.Width(m.width - 2).Render(strings.Join(filters, "  ") + "  " + count + scroll)
}

func (m Model) renderStatusBar() string {
	var left string
	if m.err != nil {
		left = OfflineStyle.Render("error: " + stringx.Truncate(m.err.Error(), 60, "..."))
	} else if m.stats != nil {
		left = HelpDescStyle.Render(fmt.Sprintf("total %d  avg %.0fus", m.stats.Total, m.stats.AvgDurationUS))
	}

	center := HelpDescStyle.Render("v" + version.Audit)

	var right string
	if m.loading {
		right = m.spinner.View() + " loading..."
	} else {
		right = HelpDescStyle.Render(stringx.Truncate(m.source, 40, "..."))
	}

	space := m.width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right) - 4
	if space < 2 {
		space = 2
	}
	leftPad := space / 2
	content := left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", space-leftPad) + right
	return StatusBarStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("1-3", "status"),
		RenderKeyHint("t", "transport"),
		RenderKeyHint("0", "all"),
		RenderKeyHint("p", "pause"),
		RenderKeyHint("r", "refresh"),
		RenderKeyHint("g/G", "top/bottom"),
		RenderKeyHint("q", "quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders one line per visible record
func (m *Model) updateViewportContent() {
	var content strings.Builder

	for _, r := range m.filtered {
		line := fmt.Sprintf("%s %s %s %-8s %5d %10s",
			TimestampStyle.Render(r.CreatedAt.Local().Format("15:04:05")),
			RenderStatusBadge(r.Status),
			TransportStyle.Render(stringx.PadRight(r.Transport, 9)),
			r.Operation,
			r.NodeCount,
			r.Duration.Round(time.Microsecond).String(),
		)
		if r.ErrorCode != "" {
			line += "  " + r.ErrorCode + " " + stringx.Preview(r.ErrorMessage, 80)
		}
		content.WriteString(line)
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// applyFilters selects the records matching the status and transport
// filters
func (m *Model) applyFilters() {
	m.filtered = make([]*audit.Record, 0, len(m.all))
	transport := transports[m.transport]

	for _, r := range m.all {
		switch r.Status {
		case audit.StatusOK:
			if !m.statusFilter.OK {
				continue
			}
		case audit.StatusRejected:
			if !m.statusFilter.Rejected {
				continue
			}
		case audit.StatusFailed:
			if !m.statusFilter.Failed {
				continue
			}
		}
		if transport != "" && r.Transport != transport {
			continue
		}
		m.filtered = append(m.filtered, r)
	}
}

// loadRecords loads the newest records and orders them oldest first
func (m Model) loadRecords() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := m.store.Recent(ctx, m.maxRecords)
	if err != nil {
		return recordsLoadedMsg{err: err}
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return recordsLoadedMsg{records: records}
}

func (m Model) loadStats() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := m.store.Stats(ctx)
	return statsLoadedMsg{stats: stats, err: err}
}

func (m Model) checkStore() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := m.store.Ping(ctx); err != nil {
		return storeStatusMsg{err: err}
	}
	return storeStatusMsg{online: true}
}

// Run starts the viewer
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
