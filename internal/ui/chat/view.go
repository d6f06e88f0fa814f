// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/ui/components"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showHistory {
		b.WriteString(m.theme.ReportTitle.Render("Report History"))
		b.WriteString("\n")
		b.WriteString(m.histList.Render(m.width))
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render("↑/↓ navigate · enter view · esc close"))
	} else if m.conv.Phase == model.PhaseUpload && !m.uploading() {
		b.WriteString(m.theme.FormLabel.Render("Select a medical report to upload"))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(m.theme.Help.Render("enter select · esc back to chat"))
	} else {
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	view := b.String()
	if toastLayer := components.RenderToastStack(m.toasts, m.width, m.height); toastLayer != "" {
		// Toasts draw over the bottom-right corner.
		view = lipgloss.JoinVertical(lipgloss.Left, view, toastLayer)
	}
	return view
}

func (m Model) renderHeader() string {
	title := m.theme.Header.Render("AI Doctor")
	who := ""
	if name := m.sess.DisplayName(); name != "" {
		who = m.theme.HeaderName.Render(name)
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(who)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + who
}

// renderFooter draws the input line, or whatever replaces it: the typing
// indicator while a reply is pending, the progress bar mid-upload.
func (m Model) renderFooter() string {
	switch {
	case m.uploading():
		return m.spin.View() + " " + components.RenderUploadProgress(m.theme, m.upload, m.width-4)
	case m.typing:
		return m.spin.View() + " " + m.theme.SystemText.Render(typingIndicator(m.typingDots))
	default:
		return m.theme.InputBox.Width(m.width - 2).Render(
			m.theme.InputPrompt.Render("> ") + m.input.View())
	}
}

func (m Model) renderStatusBar() string {
	var hints []string
	switch {
	case m.showHistory:
		hints = []string{"esc close"}
	case m.conv.Phase == model.PhaseChoosing:
		hints = []string{"1 chat", "2 upload", "←/→ select", "enter confirm"}
	case m.conv.Phase == model.PhaseUpload:
		hints = []string{"esc back"}
	default:
		hints = []string{"enter send", "ctrl+h history", "ctrl+e export", "ctrl+j json", "ctrl+l logout", "ctrl+c quit"}
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(hints, " · "))
}

// renderTranscript builds the full message list for the viewport.
func (m Model) renderTranscript() string {
	var b strings.Builder
	for i, msg := range m.conv.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg))
	}
	if m.lastReport != nil && !m.lastReport.Empty() {
		b.WriteString("\n\n")
		b.WriteString(m.report.Render(m.lastReport))
	}
	return b.String()
}

func (m Model) renderMessage(msg model.Message) string {
	bubbleWidth := m.width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var label, bubble string
	switch msg.Role {
	case model.RoleUser:
		label = m.theme.UserLabel.Render(msg.Role.DisplayName())
		bubble = m.theme.UserBubble.MaxWidth(bubbleWidth).Render(msg.Content)
	case model.RoleAssistant:
		label = m.theme.AssistantLabel.Render(msg.Role.DisplayName())
		content := msg.Content
		if msg.IsError {
			content = m.theme.ErrorText.Render(content)
		}
		bubble = m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(content)
	default:
		return m.theme.SystemText.Render(msg.Content)
	}

	if m.cfg.UI.ShowTimestamps {
		label += " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	out := label + "\n" + bubble
	if msg.ShowOptions {
		out += "\n" + m.renderOptions()
	}
	return out
}

// renderOptions draws the chat-or-upload buttons under an options
// message.
func (m Model) renderOptions() string {
	chat := m.theme.Option.Render("1) Chat with Doctor")
	upload := m.theme.Option.Render("2) Upload Medical Report")
	if m.conv.Phase == model.PhaseChoosing {
		if m.optionSel == 0 {
			chat = m.theme.OptionSelected.Render("1) Chat with Doctor")
		} else {
			upload = m.theme.OptionSelected.Render("2) Upload Medical Report")
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chat, " ", upload)
}
