// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/storage"
)

// OptionsRevealDelay is how long after the greeting the chat-or-upload
// options appear. The pause makes the greeting readable before the
// choice lands.
const OptionsRevealDelay = 700 * time.Millisecond

// RevealOptionsCmd schedules the options reveal.
func RevealOptionsCmd() tea.Cmd {
	return tea.Tick(OptionsRevealDelay, func(time.Time) tea.Msg {
		return OptionsRevealMsg{}
	})
}

// SendChatCmd sends a message to the assistant. It always produces
// exactly one of ReplyMsg or ReplyErrMsg, so the typing indicator is
// guaranteed to be released.
func SendChatCmd(client *api.Client, text, userID string) tea.Cmd {
	return func() tea.Msg {
		reply, err := client.SendMessage(context.Background(), text, userID)
		if err != nil {
			return ReplyErrMsg{Err: err}
		}
		return ReplyMsg{Text: reply}
	}
}

// FetchHistoryCmd refreshes the report history. Failures surface as
// HistoryErrMsg, which the model drops silently: history is best-effort.
func FetchHistoryCmd(client *api.Client) tea.Cmd {
	return func() tea.Msg {
		entries, err := client.History(context.Background())
		if err != nil {
			return HistoryErrMsg{Err: err}
		}
		return HistoryMsg{Entries: entries}
	}
}

// ExportTranscriptCmd writes the conversation to a Markdown file in the
// working directory.
func ExportTranscriptCmd(conv *model.Conversation) tea.Cmd {
	snapshot := snapshotConversation(conv)
	return func() tea.Msg {
		path := fmt.Sprintf("aidoctor-transcript-%s.md", time.Now().Format("20060102-150405"))
		if err := storage.ExportMarkdown(snapshot, path); err != nil {
			return ExportedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

// ExportTranscriptJSONCmd writes the conversation as JSON in the working
// directory.
func ExportTranscriptJSONCmd(conv *model.Conversation) tea.Cmd {
	snapshot := snapshotConversation(conv)
	return func() tea.Msg {
		path := fmt.Sprintf("aidoctor-transcript-%s.json", time.Now().Format("20060102-150405"))
		if err := storage.ExportJSON(snapshot, path); err != nil {
			return ExportedMsg{Err: err}
		}
		return ExportedMsg{Path: path}
	}
}

// snapshotConversation copies the transcript so the export goroutine does
// not race the UI loop.
func snapshotConversation(conv *model.Conversation) *model.Conversation {
	snapshot := *conv
	snapshot.Messages = append([]model.Message(nil), conv.Messages...)
	return &snapshot
}

// TypingTickCmd animates the typing indicator while a reply is pending.
func TypingTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TypingTickMsg{Time: t}
	})
}

// ProgramHandle lets background goroutines send messages into the running
// program. It is created before the program exists and bound once the
// program starts; sends before binding are dropped.
type ProgramHandle struct {
	mu sync.Mutex
	p  *tea.Program
}

// NewProgramHandle creates an unbound handle.
func NewProgramHandle() *ProgramHandle {
	return &ProgramHandle{}
}

// Bind attaches the running program.
func (h *ProgramHandle) Bind(p *tea.Program) {
	h.mu.Lock()
	h.p = p
	h.mu.Unlock()
}

// Send delivers a message to the program, if bound.
func (h *ProgramHandle) Send(msg tea.Msg) {
	h.mu.Lock()
	p := h.p
	h.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// UploadRunner executes report uploads off the UI loop, pushing progress
// and completion into the program as messages.
type UploadRunner struct {
	handle *ProgramHandle
	client *api.Client
}

// NewUploadRunner creates a runner.
func NewUploadRunner(handle *ProgramHandle, client *api.Client) *UploadRunner {
	return &UploadRunner{handle: handle, client: client}
}

// Run starts the upload in a goroutine. Progress arrives as
// UploadProgressMsg; the terminal message is UploadDoneMsg or
// UploadFailedMsg, never both.
func (r *UploadRunner) Run(taskID, filePath string) {
	go func() {
		result, err := r.client.UploadReport(context.Background(), filePath, func(percent int) {
			r.handle.Send(UploadProgressMsg{TaskID: taskID, Percent: percent})
		})
		if err != nil {
			r.handle.Send(UploadFailedMsg{TaskID: taskID, Err: err})
			return
		}
		r.handle.Send(UploadDoneMsg{TaskID: taskID, Result: result})
	}()
}
