// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

// Mode selects between the login and register tabs.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// Field indexes into the form inputs.
const (
	fieldUsername = iota
	fieldPassword
	fieldCount
)

// Model is the auth form.
type Model struct {
	client *api.Client
	theme  *styles.Theme

	mode    Mode
	inputs  [fieldCount]textinput.Model
	focus   int
	busy    bool
	errText string
	spin    spinner.Model

	width  int
	height int
}

// New creates the form in login mode.
func New(client *api.Client, theme *styles.Theme) Model {
	var inputs [fieldCount]textinput.Model

	username := textinput.New()
	username.Placeholder = "Username"
	username.CharLimit = 80
	inputs[fieldUsername] = username

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 120
	inputs[fieldPassword] = password

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.SpinnerStyle

	m := Model{
		client: client,
		theme:  theme,
		mode:   ModeLogin,
		inputs: inputs,
		focus:  fieldUsername,
		spin:   sp,
		width:  theme.Width,
		height: theme.Height,
	}
	m.inputs[fieldUsername].Focus()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// SetSize records the window size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case ErrorMsg:
		m.busy = false
		m.errText = friendlyError(msg.Err)
		return m, nil

	case SuccessMsg:
		// The app model consumes SuccessMsg; nothing to do here.
		m.busy = false
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "ctrl+t", "left", "right":
			return m.toggleMode(), nil
		case "enter":
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// moveFocus shifts focus between fields, wrapping around.
func (m Model) moveFocus(dir int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + dir + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

// toggleMode switches between login and register tabs.
func (m Model) toggleMode() Model {
	if m.mode == ModeLogin {
		m.mode = ModeRegister
	} else {
		m.mode = ModeLogin
	}
	m.errText = ""
	return m
}

// submit validates the form and fires the auth request.
func (m Model) submit() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	password := m.inputs[fieldPassword].Value()

	if username == "" {
		m.errText = "Please enter your username."
		return m, nil
	}
	if password == "" {
		m.errText = "Please enter your password."
		return m, nil
	}
	if m.mode == ModeRegister && len(password) < 6 {
		m.errText = "Password must be at least 6 characters."
		return m, nil
	}

	m.errText = ""
	m.busy = true
	if m.mode == ModeRegister {
		return m, tea.Batch(m.spin.Tick, registerCmd(m.client, username, password))
	}
	return m, tea.Batch(m.spin.Tick, loginCmd(m.client, username, password))
}

// friendlyError maps client errors to short form messages.
func friendlyError(err error) string {
	switch {
	case err == nil:
		return ""
	case api.IsUnavailable(err):
		return "Cannot reach the server. Is it running?"
	case api.IsTimeout(err):
		return "The server took too long to respond."
	default:
		var clientErr *api.ClientError
		if errors.As(err, &clientErr) && clientErr.Message != "" {
			return clientErr.Message
		}
		return err.Error()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	tabs := renderTabs(m.theme, m.mode)
	b.WriteString(tabs)
	b.WriteString("\n\n")

	b.WriteString(m.theme.FormLabel.Render("Username"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldUsername].View())
	b.WriteString("\n\n")
	b.WriteString(m.theme.FormLabel.Render("Password"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldPassword].View())
	b.WriteString("\n\n")

	switch {
	case m.busy:
		b.WriteString(m.spin.View() + " Signing in...")
	case m.errText != "":
		b.WriteString(m.theme.FormError.Render(m.errText))
	default:
		b.WriteString(m.theme.FormHint.Render("enter submit · ctrl+t switch tab · ctrl+c quit"))
	}

	title := m.theme.FormTitle.Render("AI Doctor")
	form := m.theme.FormBox.Render(b.String())
	card := lipgloss.JoinVertical(lipgloss.Center, title, form)

	if m.width == 0 || m.height == 0 {
		return card
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

func renderTabs(theme *styles.Theme, mode Mode) string {
	login := theme.TabInactive.Render("Login")
	register := theme.TabInactive.Render("Register")
	if mode == ModeLogin {
		login = theme.TabActive.Render("Login")
	} else {
		register = theme.TabActive.Render("Register")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, login, " ", register)
}
