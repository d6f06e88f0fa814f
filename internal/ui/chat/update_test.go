// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/config"
	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/session"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

func newTestModel() Model {
	client := api.NewClient(api.ClientConfig{})
	client.SetToken("tok")
	cfg := config.Default()
	runner := NewUploadRunner(NewProgramHandle(), client)
	m := New(client, session.NewManager(nil), &cfg, styles.NewTheme(), runner)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func pressEnter(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func pressRune(m Model, r rune) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func typeInto(m Model, text string) Model {
	for _, r := range text {
		m, _ = pressRune(m, r)
	}
	return m
}

// beginFlow sends a first message and delivers the scheduled reveal.
func beginFlow(m Model) Model {
	m = typeInto(m, "hello")
	m, _ = pressEnter(m)
	m, _ = m.Update(OptionsRevealMsg{})
	return m
}

// optionsPromptCount counts how many transcript messages still carry the
// chat-or-upload buttons.
func optionsPromptCount(m Model) int {
	n := 0
	for _, msg := range m.conv.Messages {
		if msg.ShowOptions {
			n++
		}
	}
	return n
}

func TestFirstMessageStartsFlow(t *testing.T) {
	m := newTestModel()
	if m.conv.Phase != model.PhaseNotStarted {
		t.Fatalf("phase = %v, want PhaseNotStarted before the first message", m.conv.Phase)
	}
	if m.conv.MessageCount() != 0 {
		t.Fatal("transcript should start empty")
	}

	// Empty enter does nothing while the screen is blank.
	m, cmd := pressEnter(m)
	if cmd != nil || m.conv.MessageCount() != 0 {
		t.Fatal("empty send must not start the flow")
	}

	m = typeInto(m, "hi doctor")
	m, cmd = pressEnter(m)
	if cmd == nil {
		t.Fatal("first send should schedule the options reveal")
	}
	if m.conv.Phase != model.PhaseChoosing {
		t.Fatalf("phase = %v, want PhaseChoosing", m.conv.Phase)
	}
	msgs := m.conv.Messages
	if len(msgs) != 2 || msgs[0].Role != model.RoleUser || msgs[0].Content != "hi doctor" {
		t.Fatalf("transcript should open with the user message, got %+v", msgs)
	}
	if msgs[1].Content != model.GreetingText {
		t.Errorf("greeting = %q", msgs[1].Content)
	}

	m, _ = m.Update(OptionsRevealMsg{})
	last := m.conv.GetLastMessage()
	if last == nil || !last.ShowOptions {
		t.Fatal("options message should be posted on reveal")
	}
	if last.Content != model.OptionsText {
		t.Errorf("options content = %q", last.Content)
	}
}

func TestReminderSuppressesScheduledReveal(t *testing.T) {
	m := newTestModel()
	m = typeInto(m, "hi")
	m, _ = pressEnter(m) // greeting posted, reveal scheduled

	// More free text lands before the reveal tick; the reminder already
	// re-presents the options.
	m = typeInto(m, "anyone there")
	m, _ = pressEnter(m)
	m, _ = m.Update(OptionsRevealMsg{}) // scheduled reveal arrives late

	if got := optionsPromptCount(m); got != 1 {
		t.Errorf("options prompts = %d, want exactly 1", got)
	}
}

func TestChooseChatByKey(t *testing.T) {
	m := beginFlow(newTestModel())

	m, _ = pressRune(m, '1')
	if m.conv.Phase != model.PhaseChat {
		t.Fatalf("phase = %v, want PhaseChat", m.conv.Phase)
	}
	if last := m.conv.GetLastMessage(); last.Content != model.ChatAckText {
		t.Errorf("ack = %q", last.Content)
	}
}

func TestChooseUploadByHighlight(t *testing.T) {
	m := beginFlow(newTestModel())

	// Arrow flips the highlight to upload, empty enter confirms it.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.optionSel != 1 {
		t.Fatalf("optionSel = %d, want 1", m.optionSel)
	}
	m, cmd := pressEnter(m)
	if m.conv.Phase != model.PhaseUpload {
		t.Fatalf("phase = %v, want PhaseUpload", m.conv.Phase)
	}
	if cmd == nil {
		t.Error("entering upload should init the file picker")
	}
}

func TestFreeTextWhileChoosingGetsReminder(t *testing.T) {
	m := beginFlow(newTestModel())

	m = typeInto(m, "my head hurts")
	m, _ = pressEnter(m)

	if m.conv.Phase != model.PhaseChoosing {
		t.Fatal("free text must not resolve the choice")
	}
	last := m.conv.GetLastMessage()
	if last.Content != model.ChooseReminderText || !last.ShowOptions {
		t.Errorf("expected reminder with options, got %q", last.Content)
	}
}

func TestSendMessageReleasesTypingOnReply(t *testing.T) {
	m := beginFlow(newTestModel())
	m, _ = pressRune(m, '1')

	m = typeInto(m, "hello doctor")
	m, cmd := pressEnter(m)
	if cmd == nil {
		t.Fatal("send should fire a command")
	}
	if !m.typing {
		t.Fatal("typing indicator should be active")
	}

	// Duplicate send while typing is ignored.
	m2 := typeInto(m, "again")
	m2, cmd2 := pressEnter(m2)
	if cmd2 != nil {
		t.Error("second send while typing should be a no-op")
	}
	_ = m2

	m, _ = m.Update(ReplyMsg{Text: "How can I help?"})
	if m.typing {
		t.Error("reply must release the typing indicator")
	}
	if last := m.conv.GetLastMessage(); last.Content != "How can I help?" {
		t.Errorf("last message = %q", last.Content)
	}
}

func TestSendMessageReleasesTypingOnError(t *testing.T) {
	m := beginFlow(newTestModel())
	m, _ = pressRune(m, '1')
	m = typeInto(m, "hello")
	m, _ = pressEnter(m)

	err := api.NewClientError(api.ErrorTypeConnection, "no route", api.ErrUnavailable)
	m, _ = m.Update(ReplyErrMsg{Err: err})
	if m.typing {
		t.Error("error must release the typing indicator")
	}
	last := m.conv.GetLastMessage()
	if last.Content != "Error contacting server." {
		t.Errorf("error text = %q", last.Content)
	}
	if !last.IsError {
		t.Error("error message should be flagged")
	}
}

func TestUploadProgressLifecycle(t *testing.T) {
	m := beginFlow(newTestModel())
	m, _ = pressRune(m, '2')

	task := model.NewUploadTask("/tmp/report.pdf")
	task.Start()
	m.upload = task

	m, _ = m.Update(UploadProgressMsg{TaskID: task.ID, Percent: 40})
	m, _ = m.Update(UploadProgressMsg{TaskID: task.ID, Percent: 20}) // stale
	if m.upload.Percent != 40 {
		t.Errorf("percent = %d, want 40", m.upload.Percent)
	}

	// Progress for an unknown task is dropped.
	m, _ = m.Update(UploadProgressMsg{TaskID: "other", Percent: 90})
	if m.upload.Percent != 40 {
		t.Error("foreign progress applied")
	}

	result := &model.OcrResult{Summary: "all clear"}
	m, cmd := m.Update(UploadDoneMsg{TaskID: task.ID, Result: result})
	if m.upload.Percent != 100 {
		t.Errorf("completed percent = %d, want 100", m.upload.Percent)
	}
	if m.conv.Phase != model.PhaseChat {
		t.Errorf("phase = %v, want PhaseChat after upload", m.conv.Phase)
	}
	if m.lastReport != result {
		t.Error("result not stored")
	}
	msgs := m.conv.Messages
	if len(msgs) < 2 {
		t.Fatalf("transcript too short: %d messages", len(msgs))
	}
	if intro := msgs[len(msgs)-2]; intro.Content != model.ReportIntroText {
		t.Errorf("intro message = %q", intro.Content)
	}
	if last := m.conv.GetLastMessage(); last.Content != "all clear" {
		t.Errorf("summary message = %q, want the extraction summary", last.Content)
	}
	if cmd == nil {
		t.Error("completion should refresh history")
	}
}

func TestUploadWithoutSummaryGetsPlaceholder(t *testing.T) {
	m := beginFlow(newTestModel())
	m, _ = pressRune(m, '2')

	task := model.NewUploadTask("/tmp/report.pdf")
	task.Start()
	m.upload = task

	m, _ = m.Update(UploadDoneMsg{TaskID: task.ID, Result: &model.OcrResult{ReportType: "CBC"}})
	if last := m.conv.GetLastMessage(); last.Content != model.NoSummaryText {
		t.Errorf("last message = %q, want %q", last.Content, model.NoSummaryText)
	}
}

func TestUploadFailure(t *testing.T) {
	m := beginFlow(newTestModel())
	m, _ = pressRune(m, '2')

	task := model.NewUploadTask("/tmp/report.pdf")
	task.Start()
	task.SetPercent(60)
	m.upload = task

	err := api.NewClientError(api.ErrorTypeUpload, "unsupported file type", nil)
	m, _ = m.Update(UploadFailedMsg{TaskID: task.ID, Err: err})

	if m.upload.Status != model.UploadFailed {
		t.Error("task should be failed")
	}
	if m.conv.Phase != model.PhaseChat {
		t.Error("failed upload should still return to chat")
	}
	last := m.conv.GetLastMessage()
	if last.Content != "unsupported file type" || !last.IsError {
		t.Errorf("error message = %+v", last)
	}
	if m.lastReport != nil {
		t.Error("failed upload must not install a report")
	}
}

func TestEscBacksOutOfUpload(t *testing.T) {
	m := beginFlow(newTestModel())
	m, _ = pressRune(m, '2')

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.conv.Phase != model.PhaseChat {
		t.Errorf("phase = %v, want PhaseChat after esc", m.conv.Phase)
	}
}

func TestHistoryOverlay(t *testing.T) {
	m := beginFlow(newTestModel())
	m, _ = pressRune(m, '1')

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlH})
	if !m.showHistory {
		t.Fatal("ctrl+h should open history")
	}
	if cmd == nil {
		t.Error("opening history should refresh it")
	}

	m, _ = m.Update(HistoryMsg{Entries: []model.HistoryEntry{
		{ID: 1, ReportType: "CBC", Summary: "fine"},
	}})
	if m.histList.Len() != 1 {
		t.Fatalf("history len = %d", m.histList.Len())
	}

	// Selecting an entry shows it as the current report.
	m, _ = pressEnter(m)
	if m.showHistory {
		t.Error("selection should close the overlay")
	}
	if m.lastReport == nil || m.lastReport.ID != 1 {
		t.Error("selected entry not installed as report")
	}

	// History failures are silent.
	m, cmd = m.Update(HistoryErrMsg{Err: api.ErrUnavailable})
	if cmd != nil {
		t.Error("history errors must stay quiet")
	}
}

func TestRefreshHistoryMsgFetches(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(RefreshHistoryMsg{})
	if cmd == nil {
		t.Error("refresh request should fetch the history")
	}
}

func TestExportKeybindings(t *testing.T) {
	m := beginFlow(newTestModel())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if cmd == nil {
		t.Error("ctrl+e should export the transcript")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	if cmd == nil {
		t.Error("ctrl+j should export the transcript as JSON")
	}
}

func TestViewShowsOptions(t *testing.T) {
	m := beginFlow(newTestModel())
	view := m.View()
	if !strings.Contains(view, "Chat with Doctor") || !strings.Contains(view, "Upload Medical Report") {
		t.Error("options buttons missing from view")
	}
}

func TestChatErrorText(t *testing.T) {
	if got := chatErrorText(api.NewClientError(api.ErrorTypeTimeout, "t", api.ErrTimeout)); got != "Error contacting server." {
		t.Errorf("timeout text = %q", got)
	}
	if got := chatErrorText(api.NewClientError(api.ErrorTypeAuth, "x", api.ErrUnauthorized)); !strings.Contains(got, "log in again") {
		t.Errorf("auth text = %q", got)
	}
	if got := chatErrorText(api.NewClientError(api.ErrorTypeChat, "be gentle", nil)); got != "be gentle" {
		t.Errorf("chat text = %q", got)
	}
}
