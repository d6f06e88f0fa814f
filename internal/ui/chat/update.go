// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/ui/components"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case OptionsRevealMsg:
		// A reminder may have re-presented the options before the
		// scheduled reveal lands; never show the prompt twice.
		if m.conv.HasPendingOptions() {
			return m, nil
		}
		if m.conv.ShowOptions() != nil {
			m.refreshViewport()
		}
		return m, nil

	case ReplyMsg:
		m.typing = false
		m.conv.AddAssistantMessage(msg.Text)
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case ReplyErrMsg:
		m.typing = false
		text := chatErrorText(msg.Err)
		m.conv.AddErrorMessage(text)
		m.toasts.Add(components.NewErrorToast(text))
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, components.ToastTickCmd()

	case UploadProgressMsg:
		if m.upload != nil && m.upload.ID == msg.TaskID {
			m.upload.SetPercent(msg.Percent)
		}
		return m, nil

	case UploadDoneMsg:
		if m.upload == nil || m.upload.ID != msg.TaskID {
			return m, nil
		}
		m.upload.Complete()
		m.lastReport = msg.Result
		m.conv.AddAssistantMessage(model.ReportIntroText)
		summary := msg.Result.Summary
		if summary == "" {
			summary = model.NoSummaryText
		}
		m.conv.AddAssistantMessage(summary)
		m.conv.FinishUpload()
		m.toasts.Add(components.NewSuccessToast("Report processed"))
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, tea.Batch(components.ToastTickCmd(), FetchHistoryCmd(m.client))

	case UploadFailedMsg:
		if m.upload == nil || m.upload.ID != msg.TaskID {
			return m, nil
		}
		m.upload.Fail(msg.Err)
		text := uploadErrorText(msg.Err)
		m.conv.AddErrorMessage(text)
		m.conv.FinishUpload()
		m.toasts.Add(components.NewErrorToast(text))
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, components.ToastTickCmd()

	case HistoryMsg:
		m.histList.SetEntries(msg.Entries)
		return m, nil

	case RefreshHistoryMsg:
		return m, FetchHistoryCmd(m.client)

	case HistoryErrMsg:
		// History is best-effort; stay quiet.
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.toasts.Add(components.NewErrorToast("Export failed: " + msg.Err.Error()))
		} else {
			m.toasts.Add(components.NewSuccessToast("Transcript saved to " + msg.Path))
		}
		return m, components.ToastTickCmd()

	case components.ToastTickMsg:
		if m.toasts.Tick() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case TypingTickMsg:
		if !m.typing {
			return m, nil
		}
		m.typingDots = (m.typingDots + 1) % 4
		return m, TypingTickCmd()

	case spinner.TickMsg:
		if !m.typing && !m.uploading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	// While picking a file, unknown messages (directory reads) belong to
	// the picker.
	if m.conv.Phase == model.PhaseUpload && !m.uploading() {
		return m.updatePicker(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes key presses by overlay and phase.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }

	case key.Matches(msg, m.keys.Export):
		return m, ExportTranscriptCmd(m.conv)

	case key.Matches(msg, m.keys.ExportJSON):
		return m, ExportTranscriptJSONCmd(m.conv)

	case key.Matches(msg, m.keys.History):
		m.showHistory = !m.showHistory
		if m.showHistory {
			return m, FetchHistoryCmd(m.client)
		}
		return m, nil
	}

	if m.showHistory {
		return m.handleHistoryKey(msg)
	}

	switch m.conv.Phase {
	case model.PhaseNotStarted:
		return m.handleFirstKey(msg)
	case model.PhaseChoosing:
		return m.handleChoosingKey(msg)
	case model.PhaseUpload:
		return m.handleUploadKey(msg)
	default:
		return m.handleChatKey(msg)
	}
}

// handleFirstKey covers the blank screen before the flow has started.
// The first message the user sends goes into the transcript, the
// assistant greets, and the options reveal is scheduled.
func (m Model) handleFirstKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Send) {
		text := trimmedInput(&m.input)
		if text == "" {
			return m, nil
		}
		m.conv.AddUserMessage(text)
		m.conv.Begin()
		m.input.Reset()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, RevealOptionsCmd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.histList.MoveUp()
	case "down", "j":
		m.histList.MoveDown()
	case "enter":
		if entry := m.histList.Selected(); entry != nil {
			m.lastReport = &model.OcrResult{
				ID:               entry.ID,
				OriginalFileName: entry.OriginalFileName,
				ReportType:       entry.ReportType,
				Summary:          entry.Summary,
				TestResults:      entry.TestResults,
				CreatedAt:        entry.CreatedAt,
			}
			m.showHistory = false
			m.conv.AddAssistantMessage(model.ReportIntroText)
			if entry.Summary != "" {
				m.conv.AddAssistantMessage(entry.Summary)
			}
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
	case "esc":
		m.showHistory = false
	}
	return m, nil
}

func (m Model) handleChoosingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ChooseChat):
		return m.applyChoice(0)
	case key.Matches(msg, m.keys.ChooseUpload):
		return m.applyChoice(1)
	case key.Matches(msg, m.keys.NextOption), key.Matches(msg, m.keys.PrevOption):
		// Two options, so either direction flips the highlight.
		m.optionSel = 1 - m.optionSel
		return m, nil
	case key.Matches(msg, m.keys.Send):
		// Free text while the choice is pending gets a reminder; an
		// empty enter confirms the highlighted option.
		text := trimmedInput(&m.input)
		if text == "" {
			return m.applyChoice(m.optionSel)
		}
		m.conv.AddUserMessage(text)
		m.conv.Remind()
		m.input.Reset()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyChoice resolves the chat-or-upload decision.
func (m Model) applyChoice(option int) (Model, tea.Cmd) {
	if option == 0 {
		m.conv.ChooseChat()
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil
	}
	m.conv.ChooseUpload()
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, m.picker.Init()
}

func (m Model) handleUploadKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.uploading() {
		// The transfer keeps running; only quit-level keys do anything.
		return m, nil
	}
	if key.Matches(msg, m.keys.Back) {
		m.conv.CancelUpload()
		m.refreshViewport()
		return m, nil
	}
	return m.updatePicker(msg)
}

// updatePicker feeds a message to the file picker and starts the upload
// when a file is chosen.
func (m Model) updatePicker(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		task := model.NewUploadTask(path)
		task.Start()
		m.upload = task
		m.conv.AddUserMessage("Uploaded: " + task.FileName())
		m.refreshViewport()
		m.viewport.GotoBottom()
		m.runner.Run(task.ID, path)
		return m, tea.Batch(cmd, m.spin.Tick)
	}
	if ok, _ := m.picker.DidSelectDisabledFile(msg); ok {
		m.toasts.Add(components.NewWarningToast("That file type is not supported"))
		return m, tea.Batch(cmd, components.ToastTickCmd())
	}
	return m, cmd
}

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.LineUp(3)
		return m, nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.LineDown(3)
		return m, nil
	case key.Matches(msg, m.keys.Send):
		text := trimmedInput(&m.input)
		if text == "" || m.typing {
			return m, nil
		}
		m.conv.AddUserMessage(text)
		m.input.Reset()
		m.typing = true
		m.typingDots = 0
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, tea.Batch(
			SendChatCmd(m.client, text, m.sess.DisplayName()),
			TypingTickCmd(),
			m.spin.Tick,
		)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// chatErrorText maps a chat failure to the text shown in the transcript.
func chatErrorText(err error) string {
	if api.IsUnavailable(err) || api.IsTimeout(err) {
		return "Error contacting server."
	}
	if api.IsUnauthorized(err) {
		return "Your session has expired. Please log in again."
	}
	var clientErr *api.ClientError
	if errors.As(err, &clientErr) && clientErr.Message != "" {
		return clientErr.Message
	}
	return "Error contacting server."
}

// uploadErrorText maps an upload failure to the text shown in the
// transcript.
func uploadErrorText(err error) string {
	if api.IsUnavailable(err) || api.IsTimeout(err) {
		return "Error contacting server."
	}
	var clientErr *api.ClientError
	if errors.As(err, &clientErr) && clientErr.Message != "" {
		return clientErr.Message
	}
	return "Upload failed."
}
