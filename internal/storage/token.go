// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists the auth token and exports conversation
// transcripts under the user's data directory.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aidoctor/aidoctor-tui/internal/util"
)

// ErrNoToken means no saved token exists.
var ErrNoToken = errors.New("no saved token")

// TokenStore reads and writes the auth token file. The token is the only
// credential persisted between runs; it is stored with 0600 permissions
// and written atomically.
type TokenStore struct {
	dir string
}

// NewTokenStore creates a store rooted at ~/.aidoctor. The directory is
// created on first save, not here.
func NewTokenStore() (*TokenStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return &TokenStore{dir: filepath.Join(home, ".aidoctor")}, nil
}

// NewTokenStoreAt creates a store rooted at an explicit directory, used
// in tests and by the AIDOCTOR_DATA_DIR override.
func NewTokenStoreAt(dir string) *TokenStore {
	return &TokenStore{dir: dir}
}

// Path returns the token file path.
func (s *TokenStore) Path() string {
	return filepath.Join(s.dir, "token")
}

// Save writes the token atomically with owner-only permissions.
func (s *TokenStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("refusing to save empty token")
	}
	if err := util.AtomicWriteFileWithDir(s.Path(), []byte(token+"\n"), 0600, 0700); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Load returns the saved token, or ErrNoToken when none exists.
func (s *TokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Clear removes the saved token. Clearing an absent token is not an
// error.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}
