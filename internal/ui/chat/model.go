// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/config"
	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/session"
	"github.com/aidoctor/aidoctor-tui/internal/ui/components"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

// Model is the conversation screen.
type Model struct {
	client *api.Client
	sess   *session.Manager
	cfg    *config.Config
	theme  *styles.Theme
	runner *UploadRunner
	keys   KeyMap

	conv     *model.Conversation
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	picker   filepicker.Model

	typing     bool
	typingDots int
	optionSel  int

	upload     *model.UploadTask
	lastReport *model.OcrResult

	histList    *components.HistoryList
	showHistory bool
	toasts      *components.ToastManager
	report      *components.ReportRenderer

	width  int
	height int
	ready  bool
}

// New creates the chat screen. The transcript starts empty; the greeting
// and the chat-or-upload options appear in response to the user's first
// message.
func New(client *api.Client, sess *session.Manager, cfg *config.Config, theme *styles.Theme, runner *UploadRunner) Model {
	input := textinput.New()
	input.Placeholder = "Describe your symptoms or ask a question..."
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.SpinnerStyle

	picker := filepicker.New()
	picker.AllowedTypes = []string{".pdf", ".png", ".jpg", ".jpeg", ".txt"}
	if home, err := os.UserHomeDir(); err == nil {
		picker.CurrentDirectory = home
	}

	return Model{
		client:   client,
		sess:     sess,
		cfg:      cfg,
		theme:    theme,
		runner:   runner,
		keys:     DefaultKeyMap(),
		conv:     model.NewConversation(),
		viewport: viewport.New(80, 20),
		input:    input,
		spin:     sp,
		picker:   picker,
		histList: components.NewHistoryList(theme, 10),
		toasts:   components.NewToastManager(),
		report:   components.NewReportRenderer(theme, cfg.UI.MarkdownRendering, 80),
		width:    80,
		height:   24,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		FetchHistoryCmd(m.client),
	)
}

// Conversation exposes the transcript, used by the app model on exit.
func (m Model) Conversation() *model.Conversation {
	return m.conv
}

// LastReport returns the most recent extraction result, nil when none.
func (m Model) LastReport() *model.OcrResult {
	return m.lastReport
}

// uploading reports whether an upload is currently in flight.
func (m Model) uploading() bool {
	return m.upload != nil && m.upload.Active()
}

// resize lays the components out for a new window size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	chromeLines := 6 // header, input box, status bar, spacing
	vpHeight := height - chromeLines
	if vpHeight < 3 {
		vpHeight = 3
	}
	m.viewport.Width = width
	m.viewport.Height = vpHeight
	m.input.Width = width - 8
	m.report.SetWidth(width)
	m.histList.SetHeight(vpHeight - 2)
	m.picker.Height = vpHeight - 2
	m.ready = true
	m.refreshViewport()
}

// refreshViewport rebuilds the transcript view and keeps it pinned to
// the bottom.
func (m *Model) refreshViewport() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if atBottom {
		m.viewport.GotoBottom()
	}
}
