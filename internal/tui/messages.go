// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/signwatch/internal/model"
)

const (
	revealInterval = 50 * time.Millisecond
	flashDuration  = 3 * time.Second
)

// connStateMsg carries a fresh connection snapshot.
type connStateMsg struct {
	state model.ConnectionState
}

// recordsChangedMsg signals that the service list changed.
type recordsChangedMsg struct{}

// revealTickMsg advances the mount animation of snapshot gen.
type revealTickMsg struct {
	gen uint64
}

type clipboardMsg struct {
	text string
	err  error
}

type themeSavedMsg struct {
	err error
}

type flashExpiredMsg struct {
	seq int
}

// Signal is a coalescing wake-up channel. Any number of Notify calls between
// two receives collapse into one.
type Signal struct {
	c chan struct{}
}

func NewSignal() *Signal {
	return &Signal{c: make(chan struct{}, 1)}
}

// Notify never blocks.
func (s *Signal) Notify() {
	select {
	case s.c <- struct{}{}:
	default:
	}
}

func (s *Signal) C() <-chan struct{} { return s.c }

// waitForState blocks until the connection signals, then reads the current
// state.
func waitForState(c <-chan struct{}, conn Connection) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-c; !ok {
			return nil
		}
		return connStateMsg{state: conn.State()}
	}
}

// waitForRecords blocks until the store reports a change.
func waitForRecords(c <-chan struct{}) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-c; !ok {
			return nil
		}
		return recordsChangedMsg{}
	}
}

func revealTick(gen uint64) tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg {
		return revealTickMsg{gen: gen}
	})
}

func expireFlash(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}
