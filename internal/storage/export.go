// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/util"
)

// ExportMarkdown writes a conversation transcript as a Markdown document.
func ExportMarkdown(conv *model.Conversation, path string) error {
	var b strings.Builder

	b.WriteString("# " + conv.Title + "\n\n")
	b.WriteString("Exported: " + time.Now().Format("2006-01-02 15:04:05") + "\n\n")
	b.WriteString("---\n\n")

	for _, msg := range conv.Messages {
		b.WriteString("**" + msg.Role.DisplayName() + "** (" +
			msg.Timestamp.Format("15:04:05") + ")\n\n")
		b.WriteString(msg.Content + "\n\n")
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to export markdown: %w", err)
	}
	return nil
}

// exportedConversation is the JSON export envelope.
type exportedConversation struct {
	Title      string          `json:"title"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// ExportJSON writes a conversation transcript as pretty-printed JSON.
func ExportJSON(conv *model.Conversation, path string) error {
	out := exportedConversation{
		Title:      conv.Title,
		ExportedAt: time.Now(),
		Messages:   conv.Messages,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to export json: %w", err)
	}
	return nil
}
