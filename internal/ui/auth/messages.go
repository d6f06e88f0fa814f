// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth implements the login and registration form shown before
// the chat opens.
package auth

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
)

// SuccessMsg is emitted when login or registration completes.
type SuccessMsg struct {
	Result     *api.AuthResult
	Registered bool
}

// ErrorMsg is emitted when an auth request fails.
type ErrorMsg struct {
	Err error
}

// loginCmd runs the login request off the UI loop.
func loginCmd(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Login(context.Background(), username, password)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SuccessMsg{Result: result}
	}
}

// registerCmd runs the registration request off the UI loop.
func registerCmd(client *api.Client, username, password string) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Register(context.Background(), username, password)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return SuccessMsg{Result: result, Registered: true}
	}
}
