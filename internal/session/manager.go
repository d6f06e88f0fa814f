// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks the authenticated user for the lifetime of the
// process and persists the token between runs.
package session

import (
	"sync"

	"github.com/aidoctor/aidoctor-tui/internal/storage"
)

// ChangeFunc is notified when the session is established or cleared.
// Callbacks run outside the manager lock.
type ChangeFunc func(loggedIn bool)

// Manager holds the current auth state. The token survives restarts via
// the TokenStore; the display name is session-scoped and lost on exit.
type Manager struct {
	mu          sync.RWMutex
	token       string
	displayName string
	store       *storage.TokenStore
	onChange    []ChangeFunc
}

// NewManager creates a manager backed by the given token store. A nil
// store disables persistence.
func NewManager(store *storage.TokenStore) *Manager {
	return &Manager{store: store}
}

// Restore loads a previously saved token, if any. It returns true when a
// token was found. Change callbacks are not fired; Restore runs before
// the UI subscribes.
func (m *Manager) Restore() bool {
	if m.store == nil {
		return false
	}
	token, err := m.store.Load()
	if err != nil {
		return false
	}
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return true
}

// Establish records a logged-in session. When persist is set the token is
// saved to disk; the display name never is.
func (m *Manager) Establish(token, displayName string, persist bool) error {
	m.mu.Lock()
	m.token = token
	m.displayName = displayName
	store := m.store
	m.mu.Unlock()

	if persist && store != nil {
		if err := store.Save(token); err != nil {
			return err
		}
	}
	m.notify(true)
	return nil
}

// Clear logs out: wipes in-memory state and removes the saved token.
func (m *Manager) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.displayName = ""
	store := m.store
	m.mu.Unlock()

	var err error
	if store != nil {
		err = store.Clear()
	}
	m.notify(false)
	return err
}

// LoggedIn reports whether a token is present.
func (m *Manager) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Token returns the current token, empty when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// DisplayName returns the user's name for this session. It is empty when
// the session was restored from a saved token, since the backend does not
// expose a profile endpoint.
func (m *Manager) DisplayName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.displayName
}

// SetDisplayName updates the session-scoped display name.
func (m *Manager) SetDisplayName(name string) {
	m.mu.Lock()
	m.displayName = name
	m.mu.Unlock()
}

// OnChange registers a callback for session establish/clear events.
func (m *Manager) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	m.onChange = append(m.onChange, fn)
	m.mu.Unlock()
}

// notify runs the change callbacks outside the lock so a callback can
// safely call back into the manager.
func (m *Manager) notify(loggedIn bool) {
	m.mu.RLock()
	callbacks := make([]ChangeFunc, len(m.onChange))
	copy(callbacks, m.onChange)
	m.mu.RUnlock()

	for _, fn := range callbacks {
		fn(loggedIn)
	}
}
