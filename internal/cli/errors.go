// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/aidoctor/aidoctor-tui/internal/api"
)

// Exit codes. Scripts key off these, so they are part of the interface.
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitUsage       = 2
	ExitAuth        = 3
	ExitUnavailable = 4
	ExitTimeout     = 5
	ExitNotFound    = 6
)

// CommandError is a command failure with a specific exit code.
type CommandError struct {
	Message string
	Code    int
	Cause   error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// NewCommandError creates a CommandError with ExitError.
func NewCommandError(message string, cause error) *CommandError {
	return &CommandError{Message: message, Code: ExitError, Cause: cause}
}

// NewUsageError creates a CommandError for bad arguments.
func NewUsageError(message string) *CommandError {
	return &CommandError{Message: message, Code: ExitUsage}
}

// GetExitCode maps an error to its exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}
	switch {
	case api.IsUnauthorized(err):
		return ExitAuth
	case api.IsUnavailable(err):
		return ExitUnavailable
	case api.IsTimeout(err):
		return ExitTimeout
	case errors.Is(err, api.ErrNoFile):
		return ExitUsage
	}
	return ExitError
}

// DisplayError prints an error to stderr with a hint when one applies.
func DisplayError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())

	switch {
	case api.IsUnavailable(err):
		fmt.Fprintln(os.Stderr, DimStyle.Render("Hint: check that the server is running, or pass --server <url>."))
	case api.IsUnauthorized(err):
		fmt.Fprintln(os.Stderr, DimStyle.Render("Hint: run 'aidoctor login' first."))
	}
}

// HandleErrorAndExit prints the error and exits with its code.
func HandleErrorAndExit(err error) {
	if err == nil {
		return
	}
	DisplayError(err)
	os.Exit(GetExitCode(err))
}
