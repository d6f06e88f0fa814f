// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the chat screen key bindings.
type KeyMap struct {
	Send         key.Binding
	Quit         key.Binding
	Back         key.Binding
	NextOption   key.Binding
	PrevOption   key.Binding
	ChooseChat   key.Binding
	ChooseUpload key.Binding
	History      key.Binding
	Export       key.Binding
	ExportJSON   key.Binding
	Logout       key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		NextOption: key.NewBinding(
			key.WithKeys("right", "tab"),
			key.WithHelp("→", "next option"),
		),
		PrevOption: key.NewBinding(
			key.WithKeys("left", "shift+tab"),
			key.WithHelp("←", "previous option"),
		),
		ChooseChat: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "chat with doctor"),
		),
		ChooseUpload: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "upload report"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "history"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export transcript"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("ctrl+j", "export transcript as JSON"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}
