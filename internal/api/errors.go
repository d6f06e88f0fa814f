// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
)

// ErrorType classifies client errors for display and retry decisions.
type ErrorType int

const (
	ErrorTypeConnection ErrorType = iota
	ErrorTypeTimeout
	ErrorTypeAuth
	ErrorTypeUpload
	ErrorTypeChat
	ErrorTypeHistory
	ErrorTypeServer
	ErrorTypeUnknown
)

// Sentinel errors for common failure conditions.
var (
	// ErrUnavailable means the backend could not be reached at all.
	ErrUnavailable = errors.New("server is not reachable")

	// ErrTimeout means a request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrUnauthorized means the token is missing, expired, or rejected.
	ErrUnauthorized = errors.New("authentication required")

	// ErrNoFile means an upload was attempted without a file.
	ErrNoFile = errors.New("no file selected")
)

// ClientError wraps an underlying error with a type and a user-facing
// message.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	return e.Cause
}

// NewClientError creates a typed client error.
func NewClientError(errType ErrorType, message string, cause error) *ClientError {
	return &ClientError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsUnavailable checks if an error means the backend is unreachable.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrorTypeConnection
	}
	return false
}

// IsTimeout checks if an error indicates a timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrorTypeTimeout
	}
	return false
}

// IsUnauthorized checks if an error indicates a rejected or missing token.
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) {
		return true
	}
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrorTypeAuth
	}
	return false
}
