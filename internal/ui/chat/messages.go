// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main conversation screen: the guided flow,
// free-form chat, report upload with progress, and the history overlay.
package chat

import (
	"time"

	"github.com/aidoctor/aidoctor-tui/internal/model"
)

// =============================================================================
// Guided flow messages
// =============================================================================

// OptionsRevealMsg fires after the post-greeting delay to show the
// chat-or-upload options.
type OptionsRevealMsg struct{}

// =============================================================================
// Chat messages
// =============================================================================

// ReplyMsg carries the assistant's reply to a sent message.
type ReplyMsg struct {
	Text string
}

// ReplyErrMsg reports a failed chat request.
type ReplyErrMsg struct {
	Err error
}

// =============================================================================
// Upload messages
// =============================================================================

// UploadProgressMsg reports transmit progress for a running upload.
type UploadProgressMsg struct {
	TaskID  string
	Percent int
}

// UploadDoneMsg reports a completed upload with its extraction result.
type UploadDoneMsg struct {
	TaskID string
	Result *model.OcrResult
}

// UploadFailedMsg reports a failed upload.
type UploadFailedMsg struct {
	TaskID string
	Err    error
}

// =============================================================================
// History messages
// =============================================================================

// HistoryMsg carries a refreshed report history.
type HistoryMsg struct {
	Entries []model.HistoryEntry
}

// HistoryErrMsg reports a failed history fetch. The fetch is best-effort,
// so the UI stays quiet about it.
type HistoryErrMsg struct {
	Err error
}

// RefreshHistoryMsg asks the screen to re-fetch the report history. Sent
// through the program handle when a session is established.
type RefreshHistoryMsg struct{}

// =============================================================================
// Housekeeping messages
// =============================================================================

// ExportedMsg reports the outcome of a transcript export.
type ExportedMsg struct {
	Path string
	Err  error
}

// LogoutMsg asks the app to tear the session down.
type LogoutMsg struct{}

// TypingTickMsg animates the typing indicator.
type TypingTickMsg struct {
	Time time.Time
}
