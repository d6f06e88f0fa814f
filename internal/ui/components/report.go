// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
	"github.com/aidoctor/aidoctor-tui/internal/util"
)

// ReportRenderer renders extracted report results. The markdown renderer
// is built lazily and reused across reports.
type ReportRenderer struct {
	theme    *styles.Theme
	markdown bool
	width    int
	renderer *glamour.TermRenderer
}

// NewReportRenderer creates a renderer. When markdown is false, summaries
// render as plain wrapped text.
func NewReportRenderer(theme *styles.Theme, markdown bool, width int) *ReportRenderer {
	return &ReportRenderer{theme: theme, markdown: markdown, width: width}
}

// SetWidth updates the render width and drops the cached markdown
// renderer so it is rebuilt with the new wrap.
func (r *ReportRenderer) SetWidth(width int) {
	if width != r.width {
		r.width = width
		r.renderer = nil
	}
}

// Render formats an OCR result as a bordered report card.
func (r *ReportRenderer) Render(result *model.OcrResult) string {
	if result.Empty() {
		return r.theme.SystemText.Render("The report could not be interpreted.")
	}

	var b strings.Builder

	title := result.ReportType
	if title == "" {
		title = "Medical Report"
	}
	b.WriteString(r.theme.ReportTitle.Render(title))
	b.WriteString("\n")

	if result.OriginalFileName != "" {
		b.WriteString(r.theme.ResultRange.Render(result.OriginalFileName))
		b.WriteString("\n")
	}

	if result.Summary != "" {
		b.WriteString(r.renderSummary(result.Summary))
		b.WriteString("\n")
	}

	if len(result.Fields) > 0 {
		b.WriteString(r.renderFields(result.Fields))
	}

	if len(result.TestResults) > 0 {
		b.WriteString(r.renderResults(result.TestResults))
	}

	width := r.width - 4
	if width < 20 {
		width = 20
	}
	return r.theme.ReportBox.Width(width).Render(strings.TrimRight(b.String(), "\n"))
}

// renderSummary formats the narrative part of the report.
func (r *ReportRenderer) renderSummary(summary string) string {
	if !r.markdown {
		return summary
	}
	if r.renderer == nil {
		wrap := r.width - 8
		if wrap < 20 {
			wrap = 20
		}
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wrap),
		)
		if err != nil {
			return summary
		}
		r.renderer = renderer
	}
	out, err := r.renderer.Render(summary)
	if err != nil {
		return summary
	}
	return strings.TrimRight(out, "\n")
}

// renderFields formats the free-form extracted fields in a stable order.
func (r *ReportRenderer) renderFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(r.theme.ResultName.Render(k + ":"))
		b.WriteString(" ")
		b.WriteString(r.theme.ResultValue.Render(fields[k]))
		b.WriteString("\n")
	}
	return b.String()
}

// renderResults formats the extracted values as an aligned table, with
// abnormal flags highlighted.
func (r *ReportRenderer) renderResults(results []model.TestResult) string {
	nameWidth := 0
	valueWidth := 0
	for _, t := range results {
		if w := util.StringWidth(t.Name); w > nameWidth {
			nameWidth = w
		}
		v := string(t.Value)
		if t.Unit != "" {
			v += " " + t.Unit
		}
		if w := util.StringWidth(v); w > valueWidth {
			valueWidth = w
		}
	}
	if nameWidth > 28 {
		nameWidth = 28
	}

	var b strings.Builder
	for _, t := range results {
		name := util.TruncateWidth(t.Name, nameWidth)
		name += strings.Repeat(" ", nameWidth-util.StringWidth(name))

		value := string(t.Value)
		if t.Unit != "" {
			value += " " + t.Unit
		}
		value += strings.Repeat(" ", max(0, valueWidth-util.StringWidth(value)))

		valueStyle := r.theme.ResultValue
		if t.Abnormal() {
			valueStyle = r.theme.ResultFlagged
		}

		b.WriteString(r.theme.ResultName.Render(name))
		b.WriteString("  ")
		b.WriteString(valueStyle.Render(value))
		if t.Abnormal() {
			b.WriteString(" " + r.theme.ResultFlagged.Render("["+strings.ToUpper(t.Interpretation)+"]"))
		}
		if ref := t.ReferenceRange(); ref != "" {
			b.WriteString("  " + r.theme.ResultRange.Render("(ref "+ref+")"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SummaryLine builds the one-line description used in history lists.
func SummaryLine(entry model.HistoryEntry, maxWidth int) string {
	label := entry.OriginalFileName
	if label == "" {
		label = entry.ReportType
	}
	if label == "" {
		label = "Report"
	}
	text := label
	if entry.Summary != "" {
		text = fmt.Sprintf("%s: %s", label, entry.Summary)
	}
	return util.TruncateWidth(strings.ReplaceAll(text, "\n", " "), maxWidth)
}
