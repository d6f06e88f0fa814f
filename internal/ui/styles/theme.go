// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme bundles every style the TUI renders with, derived once from the
// terminal's capabilities.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// Application chrome
	App        lipgloss.Style
	Header     lipgloss.Style
	HeaderName lipgloss.Style
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	Help       lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	UserLabel       lipgloss.Style
	AssistantBubble lipgloss.Style
	AssistantLabel  lipgloss.Style
	SystemText      lipgloss.Style
	ErrorText       lipgloss.Style
	Timestamp       lipgloss.Style

	// Option buttons in the guided flow
	Option         lipgloss.Style
	OptionSelected lipgloss.Style

	// Input area
	InputBox    lipgloss.Style
	InputPrompt lipgloss.Style

	// Auth form
	FormBox     lipgloss.Style
	FormTitle   lipgloss.Style
	FormLabel   lipgloss.Style
	FormError   lipgloss.Style
	FormHint    lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	// Report rendering
	ReportBox     lipgloss.Style
	ReportTitle   lipgloss.Style
	ResultName    lipgloss.Style
	ResultValue   lipgloss.Style
	ResultFlagged lipgloss.Style
	ResultRange   lipgloss.Style

	// Upload progress
	ProgressBar   lipgloss.Style
	ProgressLabel lipgloss.Style

	// History browser
	HistoryItem     lipgloss.Style
	HistorySelected lipgloss.Style
	HistoryDate     lipgloss.Style

	SpinnerStyle lipgloss.Style
}

// NewTheme builds a theme for the current terminal.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
		Width:        80,
		Height:       24,
	}
	t.initStyles()
	return t
}

// SetSize records the terminal dimensions for layout-aware styles.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Header = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(TealDeep).
		Padding(0, 1).
		Bold(true)

	t.HeaderName = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(TealDeep).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.StatusKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder)

	t.UserLabel = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder)

	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(Violet).
		Bold(true)

	t.SystemText = lipgloss.NewStyle().
		Foreground(SystemFg).
		Italic(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose)

	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Option = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(Surface).
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.OptionSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 2).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(TealDeep).
		Bold(true)

	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(1, 3)

	t.FormTitle = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true).
		MarginBottom(1)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose)

	t.FormHint = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.TabActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 2).
		Bold(true)

	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextMuted).
		Padding(0, 2)

	t.ReportBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Sky).
		Padding(0, 1)

	t.ReportTitle = lipgloss.NewStyle().
		Foreground(ResultHeading).
		Bold(true)

	t.ResultName = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ResultValue = lipgloss.NewStyle().
		Foreground(ResultNormal)

	t.ResultFlagged = lipgloss.NewStyle().
		Foreground(ResultAbnormal).
		Bold(true)

	t.ResultRange = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ProgressBar = lipgloss.NewStyle().
		Foreground(Teal)

	t.ProgressLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.HistoryItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.HistorySelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 1).
		Bold(true)

	t.HistoryDate = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.SpinnerStyle = lipgloss.NewStyle().
		Foreground(Violet)
}
