// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/ui/styles"
)

func newTestModel() Model {
	return New(api.NewClient(api.ClientConfig{}), styles.NewTheme())
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModeToggle(t *testing.T) {
	m := newTestModel()
	if m.mode != ModeLogin {
		t.Fatal("should start in login mode")
	}
	if m.focus != fieldUsername {
		t.Error("form should focus username first")
	}

	m, _ = m.Update(keyMsg("ctrl+t"))
	if m.mode != ModeRegister {
		t.Error("ctrl+t should switch to register")
	}

	m, _ = m.Update(keyMsg("ctrl+t"))
	if m.mode != ModeLogin {
		t.Error("ctrl+t should switch back to login")
	}
}

func TestFocusWraps(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(keyMsg("tab"))
	if m.focus != fieldPassword {
		t.Errorf("focus = %d, want password", m.focus)
	}
	m, _ = m.Update(keyMsg("tab"))
	if m.focus != fieldUsername {
		t.Errorf("focus = %d, want username (wrapped)", m.focus)
	}
	m, _ = m.Update(keyMsg("shift+tab"))
	if m.focus != fieldPassword {
		t.Errorf("focus = %d, want password (reverse wrap)", m.focus)
	}
}

func TestSubmitValidation(t *testing.T) {
	m := newTestModel()

	// Empty username rejected locally, no command fired.
	m2, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("invalid form should not fire a request")
	}
	if !strings.Contains(m2.errText, "username") {
		t.Errorf("errText = %q", m2.errText)
	}

	// Username but empty password rejected.
	m = typeText(newTestModel(), "amy")
	m2, _ = m.Update(keyMsg("enter"))
	if !strings.Contains(m2.errText, "password") {
		t.Errorf("errText = %q", m2.errText)
	}
}

func TestSubmitFiresCommand(t *testing.T) {
	m := typeText(newTestModel(), "amy")
	m, _ = m.Update(keyMsg("tab")) // to password
	m = typeText(m, "hunter2")

	m2, cmd := m.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("valid form should fire the login command")
	}
	if !m2.busy {
		t.Error("model should be busy while the request runs")
	}

	// Keys are ignored while busy.
	m3, _ := m2.Update(keyMsg("enter"))
	if !m3.busy {
		t.Error("busy state should persist")
	}
}

func TestRegisterValidation(t *testing.T) {
	m := newTestModel()
	m, _ = m.Update(keyMsg("ctrl+t")) // register mode

	// Short password rejected on register.
	m = typeText(m, "bob")
	m, _ = m.Update(keyMsg("tab"))
	m = typeText(m, "abc")
	m2, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("short password should not fire a request")
	}
	if !strings.Contains(m2.errText, "6 characters") {
		t.Errorf("errText = %q", m2.errText)
	}
}

func TestErrorMsgClearsBusy(t *testing.T) {
	m := newTestModel()
	m.busy = true
	m, _ = m.Update(ErrorMsg{Err: api.NewClientError(api.ErrorTypeAuth, "bad credentials", nil)})
	if m.busy {
		t.Error("error should clear busy state")
	}
	if m.errText != "bad credentials" {
		t.Errorf("errText = %q", m.errText)
	}
}

func TestFriendlyError(t *testing.T) {
	unavailable := api.NewClientError(api.ErrorTypeConnection, "cannot reach", api.ErrUnavailable)
	if got := friendlyError(unavailable); !strings.Contains(got, "reach the server") {
		t.Errorf("friendlyError = %q", got)
	}
	timeout := api.NewClientError(api.ErrorTypeTimeout, "slow", api.ErrTimeout)
	if got := friendlyError(timeout); !strings.Contains(got, "too long") {
		t.Errorf("friendlyError = %q", got)
	}
}

func TestViewRendersTabsAndFields(t *testing.T) {
	m := newTestModel()
	view := m.View()
	for _, want := range []string{"Login", "Register", "Username", "Password", "AI Doctor"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
