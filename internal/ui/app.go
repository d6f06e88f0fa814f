// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui hosts the top-level application model that switches between
// the auth form and the chat screen.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/config"
	"github.com/aidoctor/aidoctor-tui/internal/session"
	"github.com/aidoctor/aidoctor-tui/internal/ui/auth"
	"github.com/aidoctor/aidoctor-tui/internal/ui/chat"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

// State selects the active screen.
type State int

const (
	StateAuth State = iota
	StateChat
)

// App is the root model.
type App struct {
	state State

	auth auth.Model
	chat chat.Model

	client *api.Client
	sess   *session.Manager
	cfg    *config.Config
	theme  *styles.Theme
	runner *chat.UploadRunner

	width  int
	height int
}

// NewApp wires the root model. When the session manager already holds a
// restored token the auth form is skipped.
func NewApp(cfg *config.Config, client *api.Client, sess *session.Manager, handle *chat.ProgramHandle) App {
	theme := styles.NewTheme()
	runner := chat.NewUploadRunner(handle, client)

	app := App{
		state:  StateAuth,
		client: client,
		sess:   sess,
		cfg:    cfg,
		theme:  theme,
		runner: runner,
	}

	if sess.LoggedIn() {
		client.SetToken(sess.Token())
		app.state = StateChat
		app.chat = chat.New(client, sess, cfg, theme, runner)
	} else {
		app.auth = auth.New(client, theme)
	}
	return app
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.state == StateChat {
		return a.chat.Init()
	}
	return a.auth.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Both screens track the size so switching is seamless.
		var authCmd, chatCmd tea.Cmd
		a.auth, authCmd = a.auth.Update(msg)
		if a.state == StateChat {
			a.chat, chatCmd = a.chat.Update(msg)
		}
		return a, tea.Batch(authCmd, chatCmd)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && a.state == StateAuth {
			return a, tea.Quit
		}

	case auth.SuccessMsg:
		if err := a.sess.Establish(msg.Result.Token, msg.Result.DisplayName, true); err != nil {
			// Persisting failed; the session still works for this run.
			a.auth, _ = a.auth.Update(auth.ErrorMsg{Err: err})
		}
		a.state = StateChat
		a.chat = chat.New(a.client, a.sess, a.cfg, a.theme, a.runner)
		size := tea.WindowSizeMsg{Width: a.width, Height: a.height}
		var sizeCmd tea.Cmd
		a.chat, sizeCmd = a.chat.Update(size)
		return a, tea.Batch(a.chat.Init(), sizeCmd)

	case chat.LogoutMsg:
		a.sess.Clear()
		a.client.SetToken("")
		a.state = StateAuth
		a.auth = auth.New(a.client, a.theme)
		var sizeCmd tea.Cmd
		a.auth, sizeCmd = a.auth.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
		return a, tea.Batch(a.auth.Init(), sizeCmd)
	}

	var cmd tea.Cmd
	switch a.state {
	case StateChat:
		a.chat, cmd = a.chat.Update(msg)
	default:
		a.auth, cmd = a.auth.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a App) View() string {
	if a.state == StateChat {
		return a.chat.View()
	}
	return a.auth.View()
}
