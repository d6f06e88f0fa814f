// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

// RenderUploadProgress draws a labeled progress bar for an upload task.
func RenderUploadProgress(theme *styles.Theme, task *model.UploadTask, width int) string {
	if task == nil {
		return ""
	}

	barWidth := width - 24
	if barWidth < 10 {
		barWidth = 10
	}
	filled := barWidth * task.Percent / 100
	if filled > barWidth {
		filled = barWidth
	}

	bar := theme.ProgressBar.Render(strings.Repeat("█", filled)) +
		theme.Help.Render(strings.Repeat("░", barWidth-filled))

	label := fmt.Sprintf("%s %3d%%", task.FileName(), task.Percent)
	switch task.Status {
	case model.UploadDone:
		label = task.FileName() + " done"
	case model.UploadFailed:
		label = task.FileName() + " failed"
	}

	return theme.ProgressLabel.Render(label) + " " + bar
}
