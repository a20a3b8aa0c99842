// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// package model contains the core data structures shared by the feed
// decoder, the service store, the connection manager and the UIs.
package model // import "github.com/toeirei/signwatch/internal/model"

import (
	"fmt"
	"time"
)

// ServiceRecord describes one sign service instance announced by the feed.
// Records are immutable once received and uniqueness is not enforced.
type ServiceRecord struct {
	Cmd     string `json:"cmd"`
	Version string `json:"version"`
	Path    string `json:"path"`
	Uin     string `json:"uin"`
}

// String returns a compact single-line representation.
func (r ServiceRecord) String() string {
	return fmt.Sprintf("%s %s %s (%s)", r.Cmd, r.Version, r.Path, r.Uin)
}

// AvatarSeed is the seed used to derive the record's avatar.
func (r ServiceRecord) AvatarSeed() string {
	return r.Uin + "-" + r.Version
}

// Stats is a projection of a service list. It holds no lifecycle of its own.
type Stats struct {
	Total    int `json:"total"`
	Uins     int `json:"uins"`
	Commands int `json:"commands"`
	Versions int `json:"versions"`
	Paths    int `json:"paths"`
}

// ComputeStats counts records and distinct field values.
func ComputeStats(records []ServiceRecord) Stats {
	uins := make(map[string]struct{})
	cmds := make(map[string]struct{})
	versions := make(map[string]struct{})
	paths := make(map[string]struct{})
	for _, r := range records {
		uins[r.Uin] = struct{}{}
		cmds[r.Cmd] = struct{}{}
		versions[r.Version] = struct{}{}
		paths[r.Path] = struct{}{}
	}
	return Stats{
		Total:    len(records),
		Uins:     len(uins),
		Commands: len(cmds),
		Versions: len(versions),
		Paths:    len(paths),
	}
}

// Phase is the coarse state of the feed connection.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseRetrying
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseRetrying:
		return "retrying"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, error) {
	for p := PhaseIdle; p <= PhaseFailed; p++ {
		if p.String() == s {
			return p, nil
		}
	}
	return PhaseIdle, fmt.Errorf("unknown phase %q", s)
}

// ConnectionState is a snapshot of the connection manager.
type ConnectionState struct {
	Phase       Phase
	Attempt     int // attempts since the last successful open
	MaxAttempts int
	Endpoint    string
	// Err is the generic transport error indicator. Cleared on open.
	Err error
	// Reason is set once Phase is PhaseFailed.
	Reason string
	Since  time.Time
}

// Connected reports whether the transport is open.
func (s ConnectionState) Connected() bool { return s.Phase == PhaseConnected }

// Terminal reports whether the manager gave up reconnecting.
func (s ConnectionState) Terminal() bool { return s.Phase == PhaseFailed }

// Progress is the share of the retry budget used, in [0,1].
func (s ConnectionState) Progress() float64 {
	if s.MaxAttempts <= 0 {
		return 0
	}
	p := float64(s.Attempt) / float64(s.MaxAttempts)
	if p > 1 {
		return 1
	}
	return p
}

// Detail returns the most relevant human readable detail for the state.
func (s ConnectionState) Detail() string {
	switch {
	case s.Reason != "":
		return s.Reason
	case s.Err != nil:
		return s.Err.Error()
	default:
		return ""
	}
}

// ConnEvent is one journal row describing a connection state transition.
type ConnEvent struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Phase     string    `json:"phase"`
	Attempt   int       `json:"attempt"`
	Endpoint  string    `json:"endpoint"`
	Detail    string    `json:"detail,omitempty"`
}

// EventFromState converts a state snapshot into a journal row.
func EventFromState(s ConnectionState) ConnEvent {
	ts := s.Since
	if ts.IsZero() {
		ts = time.Now()
	}
	return ConnEvent{
		Timestamp: ts.UTC(),
		Phase:     s.Phase.String(),
		Attempt:   s.Attempt,
		Endpoint:  s.Endpoint,
		Detail:    s.Detail(),
	}
}
