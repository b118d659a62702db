// ============================================================================
// scriptfront - Script Language Front End
// ============================================================================
//
// Package:     auditview
// Description: Styles for the audit log viewer
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package auditview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/scriptfront/internal/audit"
)

// Color Palette
var (
	ColorPrimary = lipgloss.Color("#8B5CF6") // Violet
	ColorSuccess = lipgloss.Color("#10B981") // Emerald
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorDimmed  = lipgloss.Color("#374151") // Dark Gray

	ColorBgPanel = lipgloss.Color("#1E293B") // Slate 800

	ColorText      = lipgloss.Color("#F8FAFC") // Slate 50
	ColorTextMuted = lipgloss.Color("#94A3B8") // Slate 400
	ColorTextDim   = lipgloss.Color("#64748B") // Slate 500
)

var (
	LogoStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	TitlePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)

	FilterBarStyle = lipgloss.NewStyle().
			Padding(0, 1)

	RecordPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorDimmed)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgPanel).
			Foreground(ColorText).
			Padding(0, 1)

	OnlineStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	OfflineStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	PausedStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	FilterActiveStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)

	FilterInactiveStyle = lipgloss.NewStyle().
				Foreground(ColorTextDim).
				Strikethrough(true)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)

	TransportStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	HelpStyle = lipgloss.NewStyle().
			Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)

// Logo
const Logo = "scriptfront audit"

// RenderKeyHint renders a keyboard shortcut hint
func RenderKeyHint(key, description string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(description)
}

// RenderStatusBadge renders a fixed-width, colored record status
func RenderStatusBadge(status audit.Status) string {
	style := lipgloss.NewStyle().Bold(true).Width(8)
	switch status {
	case audit.StatusOK:
		style = style.Foreground(ColorSuccess)
	case audit.StatusRejected:
		style = style.Foreground(ColorWarning)
	default:
		style = style.Foreground(ColorError)
	}
	return style.Render(string(status))
}

// RenderFilterStatus renders a filter toggle
func RenderFilterStatus(name string, active bool) string {
	if active {
		return FilterActiveStyle.Render(name)
	}
	return FilterInactiveStyle.Render(name)
}
