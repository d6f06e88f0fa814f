// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config manages persistent configuration for aidoctor.
//
// Configuration is stored as TOML at ~/.aidoctor/config.toml, with a
// JSON fallback at ~/.aidoctor/config.json for installs that predate the
// TOML format. Environment variables prefixed AIDOCTOR_ override file
// values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/aidoctor/aidoctor-tui/internal/util"
)

// Config is the root configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Storage StorageConfig `toml:"storage" json:"storage"`
}

// ServerConfig controls how the backend is reached.
type ServerConfig struct {
	// BaseURL is the backend origin, e.g. "http://localhost:5000".
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSeconds applies to auth, chat, and history requests.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`

	// UploadTimeoutSeconds applies to report uploads.
	UploadTimeoutSeconds int `toml:"upload_timeout_seconds" json:"upload_timeout_seconds"`

	// RequestsPerSecond paces outbound requests.
	RequestsPerSecond float64 `toml:"requests_per_second" json:"requests_per_second"`
}

// UIConfig controls presentation.
type UIConfig struct {
	// Theme is "auto", "dark", or "light".
	Theme string `toml:"theme" json:"theme"`

	// ShowTimestamps renders a timestamp next to each message.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`

	// MarkdownRendering renders report summaries through the markdown
	// renderer instead of plain text.
	MarkdownRendering bool `toml:"markdown_rendering" json:"markdown_rendering"`
}

// StorageConfig controls where state lives.
type StorageConfig struct {
	// DataDir overrides the default ~/.aidoctor data directory.
	DataDir string `toml:"data_dir" json:"data_dir"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:              "http://localhost:5000",
			TimeoutSeconds:       30,
			UploadTimeoutSeconds: 180,
			RequestsPerSecond:    5,
		},
		UI: UIConfig{
			Theme:             "auto",
			ShowTimestamps:    false,
			MarkdownRendering: true,
		},
		Storage: StorageConfig{},
	}
}

// ConfigDir returns the aidoctor config directory, honoring the
// AIDOCTOR_DATA_DIR override.
func ConfigDir() (string, error) {
	if dir := os.Getenv("AIDOCTOR_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".aidoctor"), nil
}

// ConfigPathTOML returns the TOML config file path.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the legacy JSON config file path.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir creates the config directory with owner-only access.
func EnsureConfigDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

// Load reads configuration, trying TOML first, then legacy JSON, then
// falling back to defaults. Environment overrides and validation are
// applied in every case.
func Load() (Config, error) {
	if path, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}
	if path, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			return LoadFromPath(path)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadFromPath reads configuration from an explicit file. The format is
// chosen by extension.
func LoadFromPath(path string) (Config, error) {
	cfg := Default()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return Default(), fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Default(), fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		return Default(), fmt.Errorf("unsupported config format: %s", path)
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// fillDefaults replaces zero values with defaults so a sparse config
// file still produces a usable configuration.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = def.Server.BaseURL
	}
	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = def.Server.TimeoutSeconds
	}
	if c.Server.UploadTimeoutSeconds <= 0 {
		c.Server.UploadTimeoutSeconds = def.Server.UploadTimeoutSeconds
	}
	if c.Server.RequestsPerSecond <= 0 {
		c.Server.RequestsPerSecond = def.Server.RequestsPerSecond
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// ApplyEnvOverrides applies AIDOCTOR_* environment variables on top of
// file values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("AIDOCTOR_SERVER_URL"); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv("AIDOCTOR_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("AIDOCTOR_UPLOAD_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.UploadTimeoutSeconds = n
		}
	}
	if v := os.Getenv("AIDOCTOR_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("AIDOCTOR_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
}

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidateErrors collects all validation failures.
type ValidateErrors []*ValidationError

// Error implements the error interface.
func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "config: no errors"
	}
	parts := make([]string, len(e))
	for i, err := range e {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Validate checks the configuration, returning all problems at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if !strings.HasPrefix(c.Server.BaseURL, "http://") &&
		!strings.HasPrefix(c.Server.BaseURL, "https://") {
		errs = append(errs, &ValidationError{
			Field:   "server.base_url",
			Message: "must start with http:// or https://",
		})
	}
	if c.Server.TimeoutSeconds < 1 || c.Server.TimeoutSeconds > 600 {
		errs = append(errs, &ValidationError{
			Field:   "server.timeout_seconds",
			Message: "must be between 1 and 600",
		})
	}
	if c.Server.UploadTimeoutSeconds < 1 || c.Server.UploadTimeoutSeconds > 3600 {
		errs = append(errs, &ValidationError{
			Field:   "server.upload_timeout_seconds",
			Message: "must be between 1 and 3600",
		})
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		errs = append(errs, &ValidationError{
			Field:   "ui.theme",
			Message: "must be one of: auto, dark, light",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Save writes the configuration as TOML with a commented header.
func (c *Config) Save() error {
	dir, err := EnsureConfigDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, "config.toml")

	var b strings.Builder
	b.WriteString("# aidoctor configuration\n")
	b.WriteString("# Environment variables prefixed AIDOCTOR_ override these values.\n\n")
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Global configuration access. Load happens once; ReloadGlobal refreshes
// after external edits.
var (
	globalConfig *Config
	globalMu     sync.RWMutex
	globalOnce   sync.Once
)

// Global returns the process-wide configuration, loading it on first use.
// Load errors fall back to defaults; the TUI surfaces them separately.
func Global() *Config {
	globalOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalMu.Lock()
		globalConfig = &cfg
		globalMu.Unlock()
	})
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// ReloadGlobal re-reads configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalMu.Lock()
	globalConfig = &cfg
	globalMu.Unlock()
	return nil
}

// SetGlobal replaces the global configuration.
func SetGlobal(cfg *Config) {
	globalOnce.Do(func() {})
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears global state between tests.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
	globalOnce = sync.Once{}
}
