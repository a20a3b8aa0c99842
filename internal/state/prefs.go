// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package state keeps small user preferences, such as the colour theme,
// across runs of the dashboard.
package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// Theme is the dashboard colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ParseTheme accepts "light" or "dark" case-insensitively.
func ParseTheme(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, true
	case ThemeDark:
		return ThemeDark, true
	}
	return "", false
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Preferences is the on-disk preference document.
type Preferences struct {
	Theme Theme `yaml:"theme"`
}

// Prefs is a concurrency-safe handle on a preferences file.
type Prefs struct {
	path string

	mu    sync.RWMutex
	prefs Preferences
}

// DefaultPath is <user config dir>/signwatch/state.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(dir, "signwatch", "state.yaml"), nil
}

// Open loads the preferences at path. A missing file yields defaults; an
// unreadable or corrupt one is reported but still returns usable defaults.
func Open(path string) (*Prefs, error) {
	p := &Prefs{path: path, prefs: Preferences{Theme: ThemeLight}}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}

	var stored Preferences
	if err := yaml.Unmarshal(data, &stored); err != nil {
		return p, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	if t, ok := ParseTheme(string(stored.Theme)); ok {
		p.prefs.Theme = t
	}
	return p, nil
}

// Path returns the backing file.
func (p *Prefs) Path() string { return p.path }

// Theme returns the stored theme, light when none was saved.
func (p *Prefs) Theme() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.prefs.Theme
}

// SetTheme stores t and writes the file.
func (p *Prefs) SetTheme(t Theme) error {
	if _, ok := ParseTheme(string(t)); !ok {
		return fmt.Errorf("unknown theme %q", t)
	}
	p.mu.Lock()
	p.prefs.Theme = t
	snapshot := p.prefs
	p.mu.Unlock()
	return p.save(snapshot)
}

func (p *Prefs) save(prefs Preferences) error {
	if p.path == "" {
		return nil
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("could not create state directory: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, p.path)
}
