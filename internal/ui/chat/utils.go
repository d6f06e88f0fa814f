// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
)

// trimmedInput returns the input's current text without surrounding
// whitespace.
func trimmedInput(input *textinput.Model) string {
	return strings.TrimSpace(input.Value())
}

// typingIndicator renders the animated "doctor is typing" line.
func typingIndicator(dots int) string {
	return "AI Doctor is typing" + strings.Repeat(".", dots%4)
}
