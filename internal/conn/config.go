// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package conn

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultEndpoint          = "wss://bot.meml.xyz/sign/list"
	DefaultReconnectDelay    = 3 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultMaxAttempts       = 5
	DefaultHandshakeTimeout  = 10 * time.Second
)

// Config controls the connection manager. It is built once at startup and
// injected; nothing in this package reads globals.
type Config struct {
	Endpoint          string
	ReconnectDelay    time.Duration
	HeartbeatInterval time.Duration
	MaxAttempts       int
	HandshakeTimeout  time.Duration
}

// DefaultConfig returns the stock feed settings.
func DefaultConfig() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		ReconnectDelay:    DefaultReconnectDelay,
		HeartbeatInterval: DefaultHeartbeatInterval,
		MaxAttempts:       DefaultMaxAttempts,
		HandshakeTimeout:  DefaultHandshakeTimeout,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New("endpoint must not be empty")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", c.Endpoint, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("invalid endpoint %q: scheme must be ws or wss", c.Endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", c.Endpoint)
	}
	if c.ReconnectDelay <= 0 {
		return fmt.Errorf("reconnect delay must be positive, got %s", c.ReconnectDelay)
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be positive, got %s", c.HeartbeatInterval)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.HandshakeTimeout < 0 {
		return fmt.Errorf("handshake timeout must not be negative, got %s", c.HandshakeTimeout)
	}
	return nil
}
