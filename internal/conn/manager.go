// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// package conn maintains the single feed connection: dialing, fixed-delay
// reconnection with a bounded attempt budget, keepalives, and handing decoded
// messages to the caller.
package conn // import "github.com/toeirei/signwatch/internal/conn"

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/toeirei/signwatch/internal/feed"
	"github.com/toeirei/signwatch/internal/logging"
	"github.com/toeirei/signwatch/internal/model"
)

var (
	// ErrRetriesExhausted is the terminal failure reason.
	ErrRetriesExhausted = errors.New("connection failed, maximum retry attempts reached")
	// ErrClosed is returned by Wait after Close.
	ErrClosed = errors.New("connection manager closed")
)

// Conn is an open feed transport.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Dialer opens transports to an endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context, endpoint string) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context, endpoint string) (Conn, error) {
	return f(ctx, endpoint)
}

// Option configures a Manager.
type Option func(*Manager)

// WithStateHandler registers a callback for every state transition. It is
// called from the driver goroutine, in transition order.
func WithStateHandler(fn func(model.ConnectionState)) Option {
	return func(m *Manager) { m.onState = fn }
}

// WithMessageHandler registers a callback for recognized feed messages.
func WithMessageHandler(fn func(feed.Message)) Option {
	return func(m *Manager) { m.onMessage = fn }
}

// WithClock overrides time.Now for state timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns at most one live transport and the timers around it.
type Manager struct {
	cfg       Config
	dialer    Dialer
	onState   func(model.ConnectionState)
	onMessage func(feed.Message)
	now       func() time.Time

	mu      sync.Mutex
	machine *machine
	conn    Conn
	running bool
	kick    chan struct{}
	cancel  context.CancelFunc
	done    chan struct{}

	writeMu sync.Mutex
}

// New creates an idle manager. Call Connect to start it.
func New(cfg Config, dialer Dialer, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		dialer: dialer,
		now:    time.Now,
		kick:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.machine = newMachine(cfg, m.now)
	m.done = make(chan struct{})
	close(m.done)
	return m
}

// Config returns the settings the manager was built with.
func (m *Manager) Config() Config { return m.cfg }

// State returns a snapshot of the connection state.
func (m *Manager) State() model.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.machine.state
}

// Connect starts connecting. It is a no-op returning false while a
// connection is open or opening. While a reconnect is pending the delay is
// cut short. After a terminal failure or Close it starts over with a fresh
// attempt budget.
func (m *Manager) Connect(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		if m.machine.state.Phase != model.PhaseRetrying {
			logging.Debugf("conn: connect skipped, connection already %s", m.machine.state.Phase)
			return false
		}
		select {
		case m.kick <- struct{}{}:
		default:
		}
		return true
	}

	m.machine.reset()
	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.done = make(chan struct{})
	go m.run(loopCtx, m.done)
	return true
}

// Close stops the driver loop, cancels any pending reconnect, stops the
// keepalive and closes the transport. It waits for the loop to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	<-done
}

// Done is closed whenever the driver loop is not running.
func (m *Manager) Done() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Wait blocks until the driver loop exits or ctx is done. It returns
// ErrRetriesExhausted after a terminal failure and ErrClosed after Close.
func (m *Manager) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-m.Done():
	}
	if m.State().Terminal() {
		return ErrRetriesExhausted
	}
	return ErrClosed
}

// Send writes one frame when the transport is open. Without an open
// transport it does nothing and returns nil.
func (m *Manager) Send(payload []byte) error {
	m.mu.Lock()
	c := m.conn
	m.mu.Unlock()
	if c == nil {
		return nil
	}
	m.writeMu.Lock()
	defer m.writeMu.Unlock()
	return c.WriteMessage(payload)
}

func (m *Manager) transition(fn func(*machine)) model.ConnectionState {
	m.mu.Lock()
	fn(m.machine)
	st := m.machine.state
	m.mu.Unlock()
	if m.onState != nil {
		m.onState(st)
	}
	return st
}

// run is the single driver loop: one iteration per connection attempt.
func (m *Manager) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		m.mu.Lock()
		m.running = false
		m.cancel = nil
		m.mu.Unlock()
	}()

	for {
		select {
		case <-m.kick:
		default:
		}

		st := m.transition(func(mc *machine) { mc.begin() })
		logging.Infof("conn: connecting to %s (attempt %d/%d)", st.Endpoint, st.Attempt, st.MaxAttempts)

		err := m.attempt(ctx)
		if ctx.Err() != nil {
			m.transition(func(mc *machine) { mc.stopped() })
			logging.Infof("conn: stopped")
			return
		}

		var retry bool
		var delay time.Duration
		st = m.transition(func(mc *machine) {
			if err != nil && !errors.Is(err, io.EOF) {
				mc.errored(err)
			}
			retry, delay = mc.closed()
		})
		if !retry {
			logging.Errorf("conn: giving up on %s after %d attempts: %v", st.Endpoint, st.Attempt, st.Err)
			return
		}
		logging.Warnf("conn: connection to %s closed (%v), retrying in %s", st.Endpoint, err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.transition(func(mc *machine) { mc.stopped() })
			logging.Infof("conn: stopped")
			return
		case <-m.kick:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// attempt dials and serves one connection until it ends.
func (m *Manager) attempt(ctx context.Context) error {
	c, err := m.dialer.Dial(ctx, m.cfg.Endpoint)
	if err != nil {
		return err
	}
	return m.serve(ctx, c)
}

func (m *Manager) serve(ctx context.Context, c Conn) error {
	sessCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.conn = c
	m.mu.Unlock()
	st := m.transition(func(mc *machine) { mc.opened() })
	logging.Infof("conn: connected to %s", st.Endpoint)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		<-sessCtx.Done()
		_ = c.Close()
	}()
	go func() {
		defer wg.Done()
		m.keepalive(sessCtx)
	}()
	defer func() {
		m.mu.Lock()
		m.conn = nil
		m.mu.Unlock()
		cancel()
		wg.Wait()
	}()

	if err := m.Send(feed.ListRequest()); err != nil {
		return err
	}
	for {
		data, err := c.ReadMessage()
		if err != nil {
			return err
		}
		m.handle(data)
	}
}

func (m *Manager) keepalive(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Send(feed.KeepaliveRequest()); err != nil {
				logging.Warnf("conn: keepalive failed: %v", err)
			}
		}
	}
}

func (m *Manager) handle(data []byte) {
	msg, err := feed.Decode(data)
	if err != nil {
		logging.Warnf("conn: dropping message: %v", err)
		return
	}
	if !msg.Known() {
		logging.Debugf("conn: ignoring message of type %q", msg.Type)
		return
	}
	if m.onMessage != nil {
		m.onMessage(msg)
	}
}
