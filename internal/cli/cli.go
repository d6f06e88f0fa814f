// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the one-shot command line interface: auth,
// report upload, history, and single-question ask, plus argument parsing
// for the TUI entry point.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (set at build time by main).
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command identifies the requested subcommand.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdRegister
	CmdLogout
	CmdUpload
	CmdHistory
	CmdAsk
	CmdVersion
	CmdHelp
)

// Args holds parsed command line arguments.
type Args struct {
	// Global flags
	ServerURL string
	NoColor   bool
	JSON      bool

	// login / register
	Username string
	Password string

	// upload
	File string

	// ask
	Query string
}

const usageText = `aidoctor - AI Doctor terminal client

USAGE:
  aidoctor                          Launch the interactive TUI
  aidoctor login --username <name>  Log in and save the session token
  aidoctor register --username <name>
                                    Create an account
  aidoctor logout                   Discard the saved session token
  aidoctor upload <file>            Upload a medical report for analysis
  aidoctor history                  List previously analyzed reports
  aidoctor ask <question>           Ask the doctor assistant one question
  aidoctor version                  Show version information
  aidoctor help                     Show this help

GLOBAL FLAGS:
  --server <url>    Backend URL (default from config, or http://localhost:5000)
  --json            Machine-readable output where supported
  --no-color        Disable colored output

AUTH FLAGS:
  --username <name>     Account username
  --password <pass>     Password (omit to be prompted securely)

EXAMPLES:
  aidoctor login --username amy
  aidoctor upload bloodwork.pdf
  aidoctor ask "What does elevated WBC mean?"

Set AIDOCTOR_SERVER_URL to override the backend for all commands.
`

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// Parse reads os.Args and returns the requested command with its
// arguments. Unknown commands fall through to the TUI so that running
// the binary bare always works.
func Parse() (Command, Args) {
	args := Args{}
	rest := parseGlobalFlags(os.Args[1:], &args)

	if len(rest) == 0 {
		return CmdTUI, args
	}

	switch rest[0] {
	case "login":
		parseAuthFlags(rest[1:], &args)
		return CmdLogin, args
	case "register":
		parseAuthFlags(rest[1:], &args)
		return CmdRegister, args
	case "logout":
		return CmdLogout, args
	case "upload":
		if len(rest) > 1 {
			args.File = rest[1]
		}
		return CmdUpload, args
	case "history":
		return CmdHistory, args
	case "ask":
		args.Query = strings.Join(rest[1:], " ")
		return CmdAsk, args
	case "version", "--version", "-v":
		return CmdVersion, args
	case "help", "--help", "-h":
		return CmdHelp, args
	default:
		return CmdTUI, args
	}
}

// parseGlobalFlags strips global flags from argv, returning what's left.
func parseGlobalFlags(argv []string, args *Args) []string {
	var rest []string
	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--server":
			if i+1 < len(argv) {
				i++
				args.ServerURL = argv[i]
			}
		case "--json":
			args.JSON = true
		case "--no-color":
			args.NoColor = true
			os.Setenv("NO_COLOR", "1")
		default:
			rest = append(rest, argv[i])
		}
	}
	return rest
}

// parseAuthFlags reads the login/register flags.
func parseAuthFlags(argv []string, args *Args) {
	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--username", "--user":
			if i+1 < len(argv) {
				i++
				args.Username = argv[i]
			}
		case "--password":
			if i+1 < len(argv) {
				i++
				args.Password = argv[i]
			}
		}
	}
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"commit\":%q,\"built\":%q}\n", Version, GitCommit, BuildDate)
		return
	}
	fmt.Println(TitleStyle.Render("aidoctor") + " " + Version)
	fmt.Println(DimStyle.Render("commit " + GitCommit + ", built " + BuildDate))
}

// HandleHelp prints usage.
func HandleHelp() {
	PrintUsage()
}
