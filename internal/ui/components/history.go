// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

// HistoryList is a scrollable, selectable list of past reports.
type HistoryList struct {
	theme    *styles.Theme
	entries  []model.HistoryEntry
	selected int
	offset   int
	height   int
}

// NewHistoryList creates an empty list showing height rows.
func NewHistoryList(theme *styles.Theme, height int) *HistoryList {
	if height < 1 {
		height = 1
	}
	return &HistoryList{theme: theme, height: height}
}

// SetEntries replaces the list contents, clamping the selection.
func (h *HistoryList) SetEntries(entries []model.HistoryEntry) {
	h.entries = entries
	if h.selected >= len(entries) {
		h.selected = len(entries) - 1
	}
	if h.selected < 0 {
		h.selected = 0
	}
	h.clampOffset()
}

// SetHeight updates how many rows are visible.
func (h *HistoryList) SetHeight(height int) {
	if height < 1 {
		height = 1
	}
	h.height = height
	h.clampOffset()
}

// Len returns the number of entries.
func (h *HistoryList) Len() int {
	return len(h.entries)
}

// Selected returns the highlighted entry, or nil when empty.
func (h *HistoryList) Selected() *model.HistoryEntry {
	if len(h.entries) == 0 {
		return nil
	}
	return &h.entries[h.selected]
}

// MoveUp moves the selection toward newer entries.
func (h *HistoryList) MoveUp() {
	if h.selected > 0 {
		h.selected--
		h.clampOffset()
	}
}

// MoveDown moves the selection toward older entries.
func (h *HistoryList) MoveDown() {
	if h.selected < len(h.entries)-1 {
		h.selected++
		h.clampOffset()
	}
}

func (h *HistoryList) clampOffset() {
	if h.selected < h.offset {
		h.offset = h.selected
	}
	if h.selected >= h.offset+h.height {
		h.offset = h.selected - h.height + 1
	}
	if h.offset < 0 {
		h.offset = 0
	}
}

// Render draws the visible window of the list.
func (h *HistoryList) Render(width int) string {
	if len(h.entries) == 0 {
		return h.theme.SystemText.Render("No reports yet. Upload one to get started.")
	}

	end := h.offset + h.height
	if end > len(h.entries) {
		end = len(h.entries)
	}

	var b strings.Builder
	for i := h.offset; i < end; i++ {
		entry := h.entries[i]
		date := entry.CreatedAt.Format("2006-01-02 15:04")
		line := h.theme.HistoryDate.Render(date) + "  " + SummaryLine(entry, width-len(date)-6)
		if i == h.selected {
			b.WriteString(h.theme.HistorySelected.Render(line))
		} else {
			b.WriteString(h.theme.HistoryItem.Render(line))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
