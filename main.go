// aidoctor - terminal client for the AI Doctor medical report service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/cli"
	"github.com/aidoctor/aidoctor-tui/internal/config"
	"github.com/aidoctor/aidoctor-tui/internal/session"
	"github.com/aidoctor/aidoctor-tui/internal/storage"
	"github.com/aidoctor/aidoctor-tui/internal/ui"
	"github.com/aidoctor/aidoctor-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	case cli.CmdLogin:
		cli.HandleErrorAndExit(cli.HandleLogin(args))
	case cli.CmdRegister:
		cli.HandleErrorAndExit(cli.HandleRegister(args))
	case cli.CmdLogout:
		cli.HandleErrorAndExit(cli.HandleLogout(args))
	case cli.CmdUpload:
		cli.HandleErrorAndExit(cli.HandleUpload(args))
	case cli.CmdHistory:
		cli.HandleErrorAndExit(cli.HandleHistory(args))
	case cli.CmdAsk:
		cli.HandleErrorAndExit(cli.HandleAsk(args))
	default:
		runTUI(args)
	}
}

// runTUI starts the interactive interface.
func runTUI(args cli.Args) {
	cfg := config.Global()
	if args.ServerURL != "" {
		cfg.Server.BaseURL = args.ServerURL
	}

	client := api.NewClient(api.ClientConfig{
		BaseURL:           cfg.Server.BaseURL,
		Timeout:           time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		UploadTimeout:     time.Duration(cfg.Server.UploadTimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
	})

	sess := newSessionManager(cfg)
	sess.Restore()

	handle := chat.NewProgramHandle()

	// Refresh the report history whenever a session is established.
	sess.OnChange(func(loggedIn bool) {
		if loggedIn {
			handle.Send(chat.RefreshHistoryMsg{})
		}
	})

	app := ui.NewApp(cfg, client, sess, handle)

	p := tea.NewProgram(app, tea.WithAltScreen())
	handle.Bind(p)

	// Pick up config edits made while the TUI is running.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = config.Watch(ctx, func(updated *config.Config) {
			if args.ServerURL == "" {
				client.SetBaseURL(updated.Server.BaseURL)
			}
		})
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newSessionManager(cfg *config.Config) *session.Manager {
	if dir := cfg.Storage.DataDir; dir != "" {
		return session.NewManager(storage.NewTokenStoreAt(dir))
	}
	store, err := storage.NewTokenStore()
	if err != nil {
		// No home directory: run without persistence.
		return session.NewManager(nil)
	}
	return session.NewManager(store)
}
