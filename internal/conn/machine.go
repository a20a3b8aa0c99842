// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package conn

import (
	"time"

	"github.com/toeirei/signwatch/internal/model"
)

// machine holds the connection state and its transition rules. It does no
// I/O and is driven by Manager.run.
type machine struct {
	cfg   Config
	now   func() time.Time
	state model.ConnectionState
}

func newMachine(cfg Config, now func() time.Time) *machine {
	m := &machine{cfg: cfg, now: now}
	m.reset()
	return m
}

// reset returns to idle with a fresh attempt budget.
func (m *machine) reset() {
	m.state = model.ConnectionState{
		Phase:       model.PhaseIdle,
		MaxAttempts: m.cfg.MaxAttempts,
		Endpoint:    m.cfg.Endpoint,
		Since:       m.now(),
	}
}

// begin records a new connection attempt.
func (m *machine) begin() {
	m.state.Attempt++
	m.state.Phase = model.PhaseConnecting
	m.state.Reason = ""
	m.state.Since = m.now()
}

// opened records a successful open. The attempt counter starts over.
func (m *machine) opened() {
	m.state.Attempt = 0
	m.state.Phase = model.PhaseConnected
	m.state.Err = nil
	m.state.Since = m.now()
}

// errored raises the generic error indicator without changing phase.
func (m *machine) errored(err error) {
	if err != nil {
		m.state.Err = err
	}
}

// closed decides what follows a closed or failed connection.
func (m *machine) closed() (retry bool, delay time.Duration) {
	m.state.Since = m.now()
	if m.state.Attempt < m.cfg.MaxAttempts {
		m.state.Phase = model.PhaseRetrying
		return true, m.cfg.ReconnectDelay
	}
	m.state.Phase = model.PhaseFailed
	m.state.Reason = ErrRetriesExhausted.Error()
	return false, 0
}

// stopped records a shutdown requested by the caller.
func (m *machine) stopped() {
	if m.state.Phase == model.PhaseFailed {
		return
	}
	m.state.Phase = model.PhaseIdle
	m.state.Since = m.now()
}
