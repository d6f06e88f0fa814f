// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable rendering pieces for the TUI:
// toasts, report views, the history browser, and the upload progress bar.
package components

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

// ToastKind determines a toast's color and lifetime.
type ToastKind int

const (
	ToastStatus ToastKind = iota
	ToastSuccess
	ToastWarning
	ToastError
)

// Toast lifetimes. Errors linger longest so they can be read.
const (
	StatusToastDuration  = 4 * time.Second
	SuccessToastDuration = 4 * time.Second
	WarningToastDuration = 6 * time.Second
	ErrorToastDuration   = 8 * time.Second
)

// MaxToasts caps how many toasts stack on screen at once.
const MaxToasts = 5

// Toast is a transient notification.
type Toast struct {
	ID        string
	Kind      ToastKind
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the toast has outlived its duration.
func (t Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) > t.Duration
}

// NewStatusToast creates an informational toast.
func NewStatusToast(message string) Toast {
	return newToast(ToastStatus, message, StatusToastDuration)
}

// NewSuccessToast creates a success toast.
func NewSuccessToast(message string) Toast {
	return newToast(ToastSuccess, message, SuccessToastDuration)
}

// NewWarningToast creates a warning toast.
func NewWarningToast(message string) Toast {
	return newToast(ToastWarning, message, WarningToastDuration)
}

// NewErrorToast creates an error toast.
func NewErrorToast(message string) Toast {
	return newToast(ToastError, message, ErrorToastDuration)
}

func newToast(kind ToastKind, message string, d time.Duration) Toast {
	return Toast{
		ID:        generateToastID(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

var (
	toastCounter   int
	toastCounterMu sync.Mutex
)

func generateToastID() string {
	toastCounterMu.Lock()
	defer toastCounterMu.Unlock()
	toastCounter++
	return fmt.Sprintf("toast-%d", toastCounter)
}

// ToastManager holds the active toast stack.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Add pushes a toast, newest first, trimming to MaxToasts.
func (m *ToastManager) Add(t Toast) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > MaxToasts {
		m.toasts = m.toasts[:MaxToasts]
	}
}

// Tick drops expired toasts and reports whether any remain.
func (m *ToastManager) Tick() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	alive := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			alive = append(alive, t)
		}
	}
	m.toasts = alive
	return len(m.toasts) > 0
}

// Active returns a copy of the current toast stack.
func (m *ToastManager) Active() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Toast, len(m.toasts))
	copy(out, m.toasts)
	return out
}

// Clear removes all toasts.
func (m *ToastManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// ToastTickMsg drives toast expiry.
type ToastTickMsg struct {
	Time time.Time
}

// ToastTickCmd schedules the next toast expiry check.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// RenderToast renders a single toast box.
func RenderToast(t Toast, maxWidth int) string {
	var border lipgloss.AdaptiveColor
	var label string
	switch t.Kind {
	case ToastSuccess:
		border, label = styles.Emerald, "OK"
	case ToastWarning:
		border, label = styles.Amber, "WARN"
	case ToastError:
		border, label = styles.Rose, "ERROR"
	default:
		border, label = styles.Sky, "INFO"
	}

	width := maxWidth - 4
	if width > 46 {
		width = 46
	}
	if width < 16 {
		width = 16
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(width)

	labelStyle := lipgloss.NewStyle().Foreground(border).Bold(true)
	return box.Render(labelStyle.Render(label) + " " + wrapToastText(t.Message, width-2))
}

// RenderToastStack renders all active toasts anchored bottom-right.
func RenderToastStack(m *ToastManager, width, height int) string {
	toasts := m.Active()
	if len(toasts) == 0 {
		return ""
	}
	rendered := make([]string, len(toasts))
	for i, t := range toasts {
		rendered[i] = RenderToast(t, width)
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, rendered...)
	return lipgloss.Place(width, height, lipgloss.Right, lipgloss.Bottom, stack)
}

func wrapToastText(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	line := 0
	for _, word := range strings.Fields(s) {
		wordLen := len([]rune(word))
		if line > 0 && line+1+wordLen > width {
			b.WriteString("\n")
			line = 0
		} else if line > 0 {
			b.WriteString(" ")
			line++
		}
		b.WriteString(word)
		line += wordLen
	}
	return b.String()
}
