// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/aidoctor/aidoctor-tui/internal/api"
	"github.com/aidoctor/aidoctor-tui/internal/config"
	"github.com/aidoctor/aidoctor-tui/internal/model"
	"github.com/aidoctor/aidoctor-tui/internal/storage"
)

// newClient builds an API client from config plus command line overrides.
func newClient(args Args) *api.Client {
	cfg := config.Global()
	baseURL := cfg.Server.BaseURL
	if args.ServerURL != "" {
		baseURL = args.ServerURL
	}
	return api.NewClient(api.ClientConfig{
		BaseURL:           baseURL,
		Timeout:           time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		UploadTimeout:     time.Duration(cfg.Server.UploadTimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
	})
}

// tokenStore opens the token store, honoring the data dir override.
func tokenStore() (*storage.TokenStore, error) {
	if dir := config.Global().Storage.DataDir; dir != "" {
		return storage.NewTokenStoreAt(dir), nil
	}
	return storage.NewTokenStore()
}

// optionallyAuthedClient builds a client with the saved token installed
// when one exists. Commands whose endpoints accept anonymous requests
// use this so that the server makes the call, not the CLI.
func optionallyAuthedClient(args Args) *api.Client {
	client := newClient(args)
	if store, err := tokenStore(); err == nil {
		if token, err := store.Load(); err == nil {
			client.SetToken(token)
		}
	}
	return client
}

// authedClient builds a client with the saved token installed.
func authedClient(args Args) (*api.Client, error) {
	client := newClient(args)
	store, err := tokenStore()
	if err != nil {
		return nil, NewCommandError("cannot locate session", err)
	}
	token, err := store.Load()
	if err != nil {
		if errors.Is(err, storage.ErrNoToken) {
			return nil, api.NewClientError(api.ErrorTypeAuth, "not logged in", api.ErrUnauthorized)
		}
		return nil, NewCommandError("cannot read session", err)
	}
	client.SetToken(token)
	return client, nil
}

// promptCredentials fills in username and password, prompting for
// whatever was not passed as a flag.
func promptCredentials(args *Args) error {
	reader := os.Stdin
	if args.Username == "" {
		if !CanPrompt() {
			return NewUsageError("--username is required when stdin is not a terminal")
		}
		fmt.Print("Username: ")
		var username string
		if _, err := fmt.Fscanln(reader, &username); err != nil {
			return NewUsageError("username is required")
		}
		args.Username = strings.TrimSpace(username)
	}
	if args.Password == "" {
		if !CanPrompt() {
			return NewUsageError("--password is required when stdin is not a terminal")
		}
		fmt.Print("Password: ")
		password, err := ReadPassword()
		fmt.Println()
		if err != nil {
			return NewCommandError("cannot read password", err)
		}
		args.Password = password
	}
	return nil
}

// HandleLogin authenticates and saves the session token.
func HandleLogin(args Args) error {
	if err := promptCredentials(&args); err != nil {
		return err
	}

	client := newClient(args)
	result, err := client.Login(context.Background(), args.Username, args.Password)
	if err != nil {
		return err
	}

	store, err := tokenStore()
	if err != nil {
		return NewCommandError("logged in, but cannot save the session", err)
	}
	if err := store.Save(result.Token); err != nil {
		return NewCommandError("logged in, but cannot save the session", err)
	}

	name := result.DisplayName
	if name == "" {
		name = args.Username
	}
	fmt.Println(SuccessStyle.Render("Logged in") + " as " + name)
	return nil
}

// HandleRegister creates an account and, when the backend issues a token
// immediately, saves the session.
func HandleRegister(args Args) error {
	if err := promptCredentials(&args); err != nil {
		return err
	}

	client := newClient(args)
	result, err := client.Register(context.Background(), args.Username, args.Password)
	if err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render("Account created") + " for " + result.DisplayName)
	if result.Token == "" {
		fmt.Println(DimStyle.Render("Run 'aidoctor login' to start a session."))
		return nil
	}

	store, err := tokenStore()
	if err == nil {
		err = store.Save(result.Token)
	}
	if err != nil {
		return NewCommandError("registered, but cannot save the session", err)
	}
	fmt.Println(DimStyle.Render("Session saved."))
	return nil
}

// HandleLogout discards the saved session token.
func HandleLogout(args Args) error {
	store, err := tokenStore()
	if err != nil {
		return NewCommandError("cannot locate session", err)
	}
	if err := store.Clear(); err != nil {
		return NewCommandError("cannot clear session", err)
	}
	fmt.Println(SuccessStyle.Render("Logged out"))
	return nil
}

// HandleUpload uploads a report and prints the extraction result.
func HandleUpload(args Args) error {
	if args.File == "" {
		return NewUsageError("usage: aidoctor upload <file>")
	}
	if _, err := os.Stat(args.File); err != nil {
		return &CommandError{Message: "no such file: " + args.File, Code: ExitNotFound}
	}

	client := optionallyAuthedClient(args)

	progress := func(percent int) {
		if IsStdoutTTY() && !args.JSON {
			fmt.Printf("\rUploading... %3d%%", percent)
		}
	}
	result, err := client.UploadReport(context.Background(), args.File, progress)
	if IsStdoutTTY() && !args.JSON {
		fmt.Print("\r                    \r")
	}
	if err != nil {
		return err
	}

	if args.JSON {
		return printJSON(result)
	}
	printReport(result)
	return nil
}

// HandleHistory lists previously analyzed reports.
func HandleHistory(args Args) error {
	client, err := authedClient(args)
	if err != nil {
		return err
	}

	entries, err := client.History(context.Background())
	if err != nil {
		return err
	}

	if args.JSON {
		return printJSON(entries)
	}
	if len(entries) == 0 {
		fmt.Println(DimStyle.Render("No reports yet."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Report History"))
	for _, entry := range entries {
		date := entry.CreatedAt.Format("2006-01-02 15:04")
		label := entry.OriginalFileName
		if label == "" {
			label = entry.ReportType
		}
		if label == "" {
			label = "Report"
		}
		line := DimStyle.Render(date) + "  " + ValueStyle.Render(label)
		if entry.Summary != "" {
			summary := strings.ReplaceAll(entry.Summary, "\n", " ")
			width := GetTerminalWidth() - len(date) - len(label) - 6
			if width > 10 && len(summary) > width {
				summary = summary[:width-3] + "..."
			}
			line += DimStyle.Render(" - " + summary)
		}
		fmt.Println(line)
	}
	return nil
}

// HandleAsk sends a single question and prints the reply.
func HandleAsk(args Args) error {
	if strings.TrimSpace(args.Query) == "" {
		return NewUsageError("usage: aidoctor ask <question>")
	}

	client := optionallyAuthedClient(args)
	reply, err := client.SendMessage(context.Background(), args.Query, "")
	if err != nil {
		return err
	}

	if args.JSON {
		return printJSON(map[string]string{"reply": reply})
	}
	fmt.Println(WrapText(reply, GetTerminalWidth()))
	return nil
}

// printReport renders an extraction result for the terminal.
func printReport(result *model.OcrResult) {
	title := result.ReportType
	if title == "" {
		title = "Medical Report"
	}
	fmt.Println(TitleStyle.Render(title))
	if result.OriginalFileName != "" {
		fmt.Println(DimStyle.Render(result.OriginalFileName))
	}

	if result.Summary != "" {
		fmt.Println()
		fmt.Println(renderSummary(result.Summary))
	}
	if len(result.Fields) > 0 {
		fmt.Println()
		keys := make([]string, 0, len(result.Fields))
		for k := range result.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Println(RenderLabel(k, result.Fields[k]))
		}
	}
	if len(result.TestResults) == 0 {
		return
	}

	fmt.Println()
	for _, t := range result.TestResults {
		value := string(t.Value)
		if t.Unit != "" {
			value += " " + t.Unit
		}
		line := RenderLabel(t.Name, value)
		if t.Abnormal() {
			line += " " + FlagStyle.Render("["+strings.ToUpper(t.Interpretation)+"]")
		}
		if ref := t.ReferenceRange(); ref != "" {
			line += DimStyle.Render("  (ref " + ref + ")")
		}
		fmt.Println(line)
	}
}

// renderSummary formats the extracted summary as markdown on a terminal
// and as plain wrapped text everywhere else.
func renderSummary(summary string) string {
	width := GetTerminalWidth()
	if !IsStdoutTTY() {
		return WrapText(summary, width)
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return WrapText(summary, width)
	}
	out, err := renderer.Render(summary)
	if err != nil {
		return WrapText(summary, width)
	}
	return strings.TrimRight(out, "\n")
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return NewCommandError("cannot encode output", err)
	}
	fmt.Println(string(data))
	return nil
}
