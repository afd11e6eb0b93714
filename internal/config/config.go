// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/module"

	"github.com/jeranaias/grok-cli/internal/termimg"
	"github.com/jeranaias/grok-cli/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete grok configuration.
type Config struct {
	// Backend (xAI) configuration
	Backend BackendConfig `toml:"backend"`

	// LaTeX block rendering
	Render RenderConfig `toml:"render"`

	// Release checks
	Update UpdateConfig `toml:"update"`

	// Terminal presentation
	UI UIConfig `toml:"ui"`

	// Environment values that could not be applied, reported by Validate
	envErrs ValidateErrors
}

// BackendConfig contains chat backend settings.
type BackendConfig struct {
	// APIKey is the xAI API key. Prefer XAI_API_KEY over storing it here.
	APIKey string `toml:"api_key"`
	// BaseURL is the OpenAI-compatible API root
	BaseURL string `toml:"base_url"`
	// Model is the chat model name
	Model string `toml:"model"`
	// TimeoutMinutes bounds one exchange
	TimeoutMinutes int `toml:"timeout_minutes"`
	// MaxRetries is the number of attempts for rate limits and 5xx errors
	MaxRetries int `toml:"max_retries"`
	// Temperature overrides the model default when set (0.0-2.0)
	Temperature *float64 `toml:"temperature,omitempty"`
	// MaxTokens caps reply length; 0 leaves it to the model
	MaxTokens int `toml:"max_tokens"`
}

// RenderConfig contains LaTeX image rendering settings.
type RenderConfig struct {
	// Endpoint is the rendering service URL; the block goes in the query
	Endpoint string `toml:"endpoint"`
	// Size is the LaTeX size command without backslash: tiny .. Huge
	Size string `toml:"size"`
	// DPI is the image resolution
	DPI int `toml:"dpi"`
	// Background and Foreground are color names understood by the service
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	// Protocol is the terminal graphics protocol: auto, none, sixel, iterm, kitty
	Protocol string `toml:"protocol"`
	// RequestsPerSecond spaces requests to the service; 0 disables spacing
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// UpdateConfig contains release check settings.
type UpdateConfig struct {
	// Enabled runs a background check at most once a day
	Enabled bool `toml:"enabled"`
	// IndexURL is the Go module proxy to query
	IndexURL string `toml:"index_url"`
	// Module is the module path whose versions are listed
	Module string `toml:"module"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	// Color is "auto", "always" or "never"
	Color string `toml:"color"`
	// Banner shows the ready banner on start
	Banner bool `toml:"banner"`
	// Spinner shows a status spinner while waiting for replies
	Spinner bool `toml:"spinner"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:        "https://api.x.ai/v1",
			Model:          "grok-4",
			TimeoutMinutes: 15,
			MaxRetries:     3,
		},

		Render: RenderConfig{
			Endpoint:          "https://latex.codecogs.com/png.image",
			Size:              "small",
			DPI:               300,
			Background:        "white",
			Foreground:        "black",
			Protocol:          string(termimg.ProtocolAuto),
			RequestsPerSecond: 4,
		},

		Update: UpdateConfig{
			Enabled:  true,
			IndexURL: "https://proxy.golang.org",
			Module:   "github.com/jeranaias/grok-cli",
		},

		UI: UIConfig{
			Color:   "auto",
			Banner:  true,
			Spinner: true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the grok configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".grok"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the path to the line-editor history file.
func HistoryPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "chat_history"), nil
}

// ensureSecurePermissions checks and fixes permissions on config files.
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		if err := os.Chmod(path, 0o600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default path. A missing file yields
// the defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from path with full validation.
// A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes path over cfg. Keys absent from the file keep their
// current values.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// fillDefaults fills in any empty values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	// Backend
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if cfg.Backend.Model == "" {
		cfg.Backend.Model = defaults.Backend.Model
	}
	if cfg.Backend.TimeoutMinutes == 0 {
		cfg.Backend.TimeoutMinutes = defaults.Backend.TimeoutMinutes
	}
	if cfg.Backend.MaxRetries == 0 {
		cfg.Backend.MaxRetries = defaults.Backend.MaxRetries
	}

	// Render
	if cfg.Render.Endpoint == "" {
		cfg.Render.Endpoint = defaults.Render.Endpoint
	}
	if cfg.Render.Size == "" {
		cfg.Render.Size = defaults.Render.Size
	}
	if cfg.Render.DPI == 0 {
		cfg.Render.DPI = defaults.Render.DPI
	}
	if cfg.Render.Background == "" {
		cfg.Render.Background = defaults.Render.Background
	}
	if cfg.Render.Foreground == "" {
		cfg.Render.Foreground = defaults.Render.Foreground
	}
	if cfg.Render.Protocol == "" {
		cfg.Render.Protocol = defaults.Render.Protocol
	}

	// Update
	if cfg.Update.IndexURL == "" {
		cfg.Update.IndexURL = defaults.Update.IndexURL
	}
	if cfg.Update.Module == "" {
		cfg.Update.Module = defaults.Update.Module
	}

	// UI
	if cfg.UI.Color == "" {
		cfg.UI.Color = defaults.UI.Color
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
// RELIABILITY: Atomic write with fsync prevents data loss on crash
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# grok configuration file\n")
	buf.WriteString("# Environment variables (XAI_API_KEY, GROK_*) override these values.\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// latexSizes are the LaTeX size commands the rendering service accepts.
var latexSizes = map[string]bool{
	"tiny": true, "small": true, "normalsize": true, "large": true,
	"Large": true, "LARGE": true, "huge": true, "Huge": true,
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	errs := append(ValidateErrors(nil), c.envErrs...)
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Backend
	if err := validateHTTPURL(c.Backend.BaseURL); err != nil {
		add("backend.base_url", "%v", err)
	}
	if strings.TrimSpace(c.Backend.Model) == "" {
		add("backend.model", "must not be empty")
	}
	if c.Backend.TimeoutMinutes < 1 || c.Backend.TimeoutMinutes > 120 {
		add("backend.timeout_minutes", "must be between 1 and 120, got %d", c.Backend.TimeoutMinutes)
	}
	if c.Backend.MaxRetries < 1 || c.Backend.MaxRetries > 10 {
		add("backend.max_retries", "must be between 1 and 10, got %d", c.Backend.MaxRetries)
	}
	if t := c.Backend.Temperature; t != nil && (*t < 0 || *t > 2) {
		add("backend.temperature", "must be between 0.0 and 2.0, got %g", *t)
	}
	if c.Backend.MaxTokens < 0 {
		add("backend.max_tokens", "must not be negative")
	}

	// Render
	if err := validateHTTPURL(c.Render.Endpoint); err != nil {
		add("render.endpoint", "%v", err)
	}
	if !latexSizes[c.Render.Size] {
		add("render.size", "invalid size '%s', must be one of: tiny, small, normalsize, large, Large, LARGE, huge, Huge", c.Render.Size)
	}
	if c.Render.DPI < 50 || c.Render.DPI > 1200 {
		add("render.dpi", "must be between 50 and 1200, got %d", c.Render.DPI)
	}
	if !isColorName(c.Render.Background) {
		add("render.background", "invalid color '%s', must be letters only", c.Render.Background)
	}
	if !isColorName(c.Render.Foreground) {
		add("render.foreground", "invalid color '%s', must be letters only", c.Render.Foreground)
	}
	if _, err := termimg.ParseProtocol(c.Render.Protocol); err != nil {
		add("render.protocol", "%v", err)
	}
	if c.Render.RequestsPerSecond < 0 {
		add("render.requests_per_second", "must not be negative")
	}

	// Update
	if err := validateHTTPURL(c.Update.IndexURL); err != nil {
		add("update.index_url", "%v", err)
	}
	if err := module.CheckPath(c.Update.Module); err != nil {
		add("update.module", "%v", err)
	}

	// UI
	switch c.UI.Color {
	case "auto", "always", "never":
	default:
		add("ui.color", "invalid value '%s', must be one of: auto, always, never", c.UI.Color)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got '%s'", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("URL must include a host")
	}
	return nil
}

func isColorName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - XAI_API_KEY: overrides backend.api_key
//   - GROK_BASE_URL: overrides backend.base_url
//   - GROK_MODEL: overrides backend.model
//   - GROK_LATEX_URL: overrides render.endpoint
//   - GROK_LATEX_SIZE, GROK_LATEX_DPI, GROK_LATEX_BG, GROK_LATEX_FG:
//     override the render size, dpi, background and foreground
//   - GROK_IMAGE_PROTOCOL: overrides render.protocol
//   - GROK_NO_UPDATE_CHECK: disables update checks when set to 1 or true
//   - NO_COLOR: forces ui.color to never
func (c *Config) ApplyEnvOverrides() {
	if key := os.Getenv("XAI_API_KEY"); key != "" {
		c.Backend.APIKey = key
	}
	if u := os.Getenv("GROK_BASE_URL"); u != "" {
		c.Backend.BaseURL = u
	}
	if model := os.Getenv("GROK_MODEL"); model != "" {
		c.Backend.Model = model
	}

	if u := os.Getenv("GROK_LATEX_URL"); u != "" {
		c.Render.Endpoint = u
	}
	if size := os.Getenv("GROK_LATEX_SIZE"); size != "" {
		c.Render.Size = size
	}
	if dpi := os.Getenv("GROK_LATEX_DPI"); dpi != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(dpi)); err == nil {
			c.Render.DPI = n
		} else {
			c.envErrs = append(c.envErrs, ValidationError{
				Field:   "render.dpi",
				Message: fmt.Sprintf("GROK_LATEX_DPI must be an integer, got %q", dpi),
			})
		}
	}
	if bg := os.Getenv("GROK_LATEX_BG"); bg != "" {
		c.Render.Background = bg
	}
	if fg := os.Getenv("GROK_LATEX_FG"); fg != "" {
		c.Render.Foreground = fg
	}
	if p := os.Getenv("GROK_IMAGE_PROTOCOL"); p != "" {
		c.Render.Protocol = p
	}

	if v := os.Getenv("GROK_NO_UPDATE_CHECK"); v == "1" || strings.EqualFold(v, "true") {
		c.Update.Enabled = false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.Color = "never"
	}
}

// =============================================================================
// DISPLAY
// =============================================================================

// String returns the config as TOML for display.
// SECURITY: The API key is redacted.
func (c *Config) String() string {
	safe := *c
	if safe.Backend.APIKey != "" {
		safe.Backend.APIKey = "[REDACTED]"
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(safe); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return buf.String()
}
