// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/aidoctor/aidoctor-tui/internal/api"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"aidoctor"}, argv...)
	defer func() { os.Args = old }()
	return Parse()
}

func TestParseBareLaunchesTUI(t *testing.T) {
	cmd, _ := parseArgs(t)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseLogin(t *testing.T) {
	cmd, args := parseArgs(t, "login", "--username", "amy", "--password", "pw")
	if cmd != CmdLogin {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Username != "amy" || args.Password != "pw" {
		t.Errorf("args = %+v", args)
	}
}

func TestParseRegister(t *testing.T) {
	cmd, args := parseArgs(t, "register", "--user", "bob")
	if cmd != CmdRegister {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Username != "bob" {
		t.Errorf("username = %q", args.Username)
	}
}

func TestParseUpload(t *testing.T) {
	cmd, args := parseArgs(t, "upload", "scan.pdf")
	if cmd != CmdUpload {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.File != "scan.pdf" {
		t.Errorf("file = %q", args.File)
	}
}

func TestParseAskJoinsWords(t *testing.T) {
	cmd, args := parseArgs(t, "ask", "what", "is", "WBC")
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.Query != "what is WBC" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestParseGlobalFlags(t *testing.T) {
	cmd, args := parseArgs(t, "--server", "http://api:5000", "--json", "history")
	if cmd != CmdHistory {
		t.Fatalf("cmd = %v", cmd)
	}
	if args.ServerURL != "http://api:5000" {
		t.Errorf("server = %q", args.ServerURL)
	}
	if !args.JSON {
		t.Error("json flag not set")
	}
}

func TestParseVersionAliases(t *testing.T) {
	for _, alias := range []string{"version", "--version", "-v"} {
		if cmd, _ := parseArgs(t, alias); cmd != CmdVersion {
			t.Errorf("%q -> %v, want CmdVersion", alias, cmd)
		}
	}
	for _, alias := range []string{"help", "--help", "-h"} {
		if cmd, _ := parseArgs(t, alias); cmd != CmdHelp {
			t.Errorf("%q -> %v, want CmdHelp", alias, cmd)
		}
	}
}

func TestParseUnknownFallsBackToTUI(t *testing.T) {
	if cmd, _ := parseArgs(t, "frobnicate"); cmd != CmdTUI {
		t.Error("unknown command should launch the TUI")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitError},
		{"usage", NewUsageError("bad args"), ExitUsage},
		{"auth", api.NewClientError(api.ErrorTypeAuth, "", api.ErrUnauthorized), ExitAuth},
		{"unavailable", api.NewClientError(api.ErrorTypeConnection, "", api.ErrUnavailable), ExitUnavailable},
		{"timeout", api.NewClientError(api.ErrorTypeTimeout, "", api.ErrTimeout), ExitTimeout},
		{"not found", &CommandError{Message: "missing", Code: ExitNotFound}, ExitNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHandleUploadValidation(t *testing.T) {
	if err := HandleUpload(Args{}); GetExitCode(err) != ExitUsage {
		t.Error("missing file argument should be a usage error")
	}
	err := HandleUpload(Args{File: "/definitely/not/here.pdf"})
	if GetExitCode(err) != ExitNotFound {
		t.Errorf("missing file should map to ExitNotFound, got %d", GetExitCode(err))
	}
}

func TestHandleAskValidation(t *testing.T) {
	if err := HandleAsk(Args{Query: "  "}); GetExitCode(err) != ExitUsage {
		t.Error("empty question should be a usage error")
	}
}

func TestWrapText(t *testing.T) {
	wrapped := WrapText("one two three four five", 9)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width", line)
		}
	}
	if WrapText("short", 80) != "short" {
		t.Error("short text should be untouched")
	}
	if !strings.Contains(WrapText("a\n\nb", 80), "\n\n") {
		t.Error("blank lines should survive wrapping")
	}
}

func TestRenderSummaryPlainWhenPiped(t *testing.T) {
	// Test binaries never run with stdout on a terminal, so the markdown
	// renderer must be skipped in favor of plain wrapped text.
	out := renderSummary("**All values** are within range.")
	if strings.Contains(out, "\x1b[") {
		t.Errorf("piped summary should carry no escape codes, got %q", out)
	}
	if !strings.Contains(out, "**All values**") {
		t.Errorf("plain fallback should leave markdown untouched, got %q", out)
	}
}

func TestUsageTextMentionsEveryCommand(t *testing.T) {
	for _, cmd := range []string{"login", "register", "logout", "upload", "history", "ask", "version", "help"} {
		if !strings.Contains(usageText, cmd) {
			t.Errorf("usage text missing %q", cmd)
		}
	}
}
