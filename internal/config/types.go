// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/toeirei/signwatch/internal/conn"
)

// Config is the full application configuration.
type Config struct {
	Feed     Feed    `mapstructure:"feed" yaml:"feed"`
	Language string  `mapstructure:"language" yaml:"language"`
	Theme    string  `mapstructure:"theme" yaml:"theme,omitempty"`
	Log      Log     `mapstructure:"log" yaml:"log"`
	Journal  Journal `mapstructure:"journal" yaml:"journal"`
}

// Feed configures the websocket connection. Durations use Go syntax ("3s").
type Feed struct {
	Endpoint          string `mapstructure:"endpoint" yaml:"endpoint"`
	ReconnectDelay    string `mapstructure:"reconnect_delay" yaml:"reconnect_delay"`
	HeartbeatInterval string `mapstructure:"heartbeat_interval" yaml:"heartbeat_interval"`
	MaxAttempts       int    `mapstructure:"max_attempts" yaml:"max_attempts"`
	HandshakeTimeout  string `mapstructure:"handshake_timeout" yaml:"handshake_timeout"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file,omitempty"`
}

// Journal configures the connection-event journal database.
type Journal struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Type    string `mapstructure:"type" yaml:"type"`
	Dsn     string `mapstructure:"dsn" yaml:"dsn"`
}

// Defaults returns the viper defaults keyed by dotted config path.
func Defaults() map[string]any {
	c := conn.DefaultConfig()
	return map[string]any{
		"feed.endpoint":           c.Endpoint,
		"feed.reconnect_delay":    c.ReconnectDelay.String(),
		"feed.heartbeat_interval": c.HeartbeatInterval.String(),
		"feed.max_attempts":       c.MaxAttempts,
		"feed.handshake_timeout":  c.HandshakeTimeout.String(),
		"language":                "en",
		"theme":                   "",
		"log.level":               "info",
		"log.file":                "",
		"journal.enabled":         true,
		"journal.type":            "sqlite",
		"journal.dsn":             DefaultJournalDSN(),
	}
}

// Default returns Defaults as a Config value.
func Default() Config {
	c := conn.DefaultConfig()
	return Config{
		Feed: Feed{
			Endpoint:          c.Endpoint,
			ReconnectDelay:    c.ReconnectDelay.String(),
			HeartbeatInterval: c.HeartbeatInterval.String(),
			MaxAttempts:       c.MaxAttempts,
			HandshakeTimeout:  c.HandshakeTimeout.String(),
		},
		Language: "en",
		Log:      Log{Level: "info"},
		Journal:  Journal{Enabled: true, Type: "sqlite", Dsn: DefaultJournalDSN()},
	}
}

// DefaultJournalDSN places the sqlite journal in the user cache directory,
// falling back to the working directory.
func DefaultJournalDSN() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "signwatch.db"
	}
	return filepath.Join(dir, AppName, "journal.db")
}

// DefaultLogFile is where the TUI logs when log.file is unset.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return AppName + ".log"
	}
	return filepath.Join(dir, AppName, AppName+".log")
}

// Conn converts the feed section into a connection manager config.
func (c Config) Conn() (conn.Config, error) {
	out := conn.Config{
		Endpoint:    strings.TrimSpace(c.Feed.Endpoint),
		MaxAttempts: c.Feed.MaxAttempts,
	}
	var err error
	if out.ReconnectDelay, err = parseDuration("feed.reconnect_delay", c.Feed.ReconnectDelay); err != nil {
		return conn.Config{}, err
	}
	if out.HeartbeatInterval, err = parseDuration("feed.heartbeat_interval", c.Feed.HeartbeatInterval); err != nil {
		return conn.Config{}, err
	}
	if out.HandshakeTimeout, err = parseDuration("feed.handshake_timeout", c.Feed.HandshakeTimeout); err != nil {
		return conn.Config{}, err
	}
	if err := out.Validate(); err != nil {
		return conn.Config{}, err
	}
	return out, nil
}

// Validate checks the feed section and the journal backend.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.Conn(); err != nil {
		errs = append(errs, err)
	}
	if c.Journal.Enabled {
		switch strings.ToLower(c.Journal.Type) {
		case "sqlite", "postgres", "mysql":
		default:
			errs = append(errs, fmt.Errorf("journal.type: unsupported database %q", c.Journal.Type))
		}
		if strings.TrimSpace(c.Journal.Dsn) == "" {
			errs = append(errs, errors.New("journal.dsn: must not be empty"))
		}
	}
	switch strings.ToLower(c.Theme) {
	case "", "light", "dark":
	default:
		errs = append(errs, fmt.Errorf("theme: expected light or dark, got %q", c.Theme))
	}
	return errors.Join(errs...)
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
