// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package userconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the user-global store file, shared by tools and split into
// one section per tool.
const FileName = "tools.toml"

// Store is a small user-global key/value file. Values live under a
// section named after the tool, e.g. [grok] checked = "...".
type Store struct {
	path string
	v    *viper.Viper
}

// DefaultPath returns the store path under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, FileName), nil
}

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*Store, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	return &Store{path: path, v: v}, nil
}

func key(section, name string) string {
	return strings.ToLower(section) + "." + strings.ToLower(name)
}

// GetTime returns a timestamp value. Both RFC 3339 strings and native
// TOML datetimes are accepted.
func (s *Store) GetTime(section, name string) (time.Time, bool) {
	switch val := s.v.Get(key(section, name)).(type) {
	case time.Time:
		return val, true
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// SetString sets a value and saves the store.
func (s *Store) SetString(section, name, value string) error {
	s.v.Set(key(section, name), value)
	return s.Save()
}

// SetTime stores t in UTC as RFC 3339 and saves the store.
func (s *Store) SetTime(section, name string, t time.Time) error {
	return s.SetString(section, name, t.UTC().Format(time.RFC3339))
}

// Save writes the store to disk, creating the parent directory.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
