// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal dashboard for signwatch.
// This file, tui.go, holds the top-level model and its update loop.
package tui // import "github.com/toeirei/signwatch/internal/tui"

import (
	"context"
	"errors"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/signwatch/internal/i18n"
	"github.com/toeirei/signwatch/internal/logging"
	"github.com/toeirei/signwatch/internal/model"
	"github.com/toeirei/signwatch/internal/state"
)

// Connection is the part of the connection manager the dashboard drives.
type Connection interface {
	State() model.ConnectionState
	Connect(ctx context.Context) bool
}

// Records is the read side of the service store.
type Records interface {
	Snapshot() []model.ServiceRecord
	Loaded() bool
	Generation() uint64
	Changes() <-chan struct{}
}

// Options wires the dashboard to its data sources.
type Options struct {
	Conn    Connection
	Records Records
	// StateChanges fires whenever the connection state may have changed.
	StateChanges <-chan struct{}
	// Prefs persists the theme. Nil keeps the theme in memory only.
	Prefs *state.Prefs
	// Theme overrides the stored theme when set.
	Theme state.Theme
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
	Context   context.Context
}

// Model is the dashboard. It renders {service list, connection state, theme}
// plus local selection and overlay state.
type Model struct {
	ctx       context.Context
	conn      Connection
	records   Records
	states    <-chan struct{}
	prefs     *state.Prefs
	clipboard func(string) error

	theme  state.Theme
	styles styles
	keys   keyMap

	spinner  spinner.Model
	progress progress.Model
	help     help.Model

	width, height int

	state      model.ConnectionState
	list       []model.ServiceRecord
	stats      model.Stats
	loaded     bool
	generation uint64
	revealed   int

	cursor int
	offset int

	showStatus bool
	flash      string
	flashErr   bool
	flashSeq   int
}

// New builds the dashboard model from opts.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	theme := opts.Theme
	if _, ok := state.ParseTheme(string(theme)); !ok {
		theme = state.ThemeLight
		if opts.Prefs != nil {
			theme = opts.Prefs.Theme()
		}
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = clipboard.WriteAll
	}

	m := Model{
		ctx:       ctx,
		conn:      opts.Conn,
		records:   opts.Records,
		states:    opts.StateChanges,
		prefs:     opts.Prefs,
		clipboard: cb,
		keys:      newKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.applyTheme(theme)
	if m.conn != nil {
		m.state = m.conn.State()
	}
	m.keys.Reconnect.SetEnabled(m.state.Terminal())
	// A snapshot already in the store is revealed by the tick chain
	// started in Init.
	m.refresh()
	return m
}

func (m *Model) applyTheme(t state.Theme) {
	m.theme = t
	m.styles = newStyles(t)
	m.spinner.Style = m.styles.badgeBusy
	width := m.progress.Width
	m.progress = progress.New(progress.WithSolidFill(string(m.styles.p.highlight)), progress.WithoutPercentage())
	if width > 0 {
		m.progress.Width = width
	}
	m.help.Styles.ShortKey = m.styles.help.Bold(true)
	m.help.Styles.ShortDesc = m.styles.help
	m.help.Styles.FullKey = m.styles.help.Bold(true)
	m.help.Styles.FullDesc = m.styles.help
}

// Init subscribes to both data sources, starts the spinner and kicks off
// the first connection attempt.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		tea.SetWindowTitle(i18n.T("app.title")),
		waitForState(m.states, m.conn),
		waitForRecords(m.recordsChanges()),
	}
	if m.conn != nil {
		cmds = append(cmds, m.connectCmd())
	}
	if m.revealed < len(m.list) {
		cmds = append(cmds, revealTick(m.generation))
	}
	return tea.Batch(cmds...)
}

// connectCmd asks the manager for a connection. Connect is idempotent, so
// this is safe on mount and after a failure.
func (m Model) connectCmd() tea.Cmd {
	conn, ctx := m.conn, m.ctx
	return func() tea.Msg {
		conn.Connect(ctx)
		return connStateMsg{state: conn.State()}
	}
}

func (m Model) recordsChanges() <-chan struct{} {
	if m.records == nil {
		return nil
	}
	return m.records.Changes()
}

// Update handles messages and user input.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.progress.Width = min(40, max(10, msg.Width-30))
		m.scrollToCursor()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd

	case connStateMsg:
		m.state = msg.state
		m.keys.Reconnect.SetEnabled(m.state.Terminal())
		cmds := []tea.Cmd{waitForState(m.states, m.conn)}
		if m.showStatus {
			cmds = append(cmds, m.progress.SetPercent(m.state.Progress()))
		}
		return m, tea.Batch(cmds...)

	case recordsChangedMsg:
		return m, tea.Batch(m.refresh(), waitForRecords(m.recordsChanges()))

	case revealTickMsg:
		if msg.gen != m.generation || m.revealed >= len(m.list) {
			return m, nil
		}
		m.revealed++
		if m.revealed < len(m.list) {
			return m, revealTick(m.generation)
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			logging.Warnf("clipboard: %v", msg.err)
			return m, m.setFlash(i18n.T("flash.copy_failed", msg.err), true)
		}
		return m, m.setFlash(i18n.T("flash.copied", msg.text), false)

	case themeSavedMsg:
		if msg.err != nil {
			logging.Warnf("saving theme: %v", msg.err)
			return m, m.setFlash(i18n.T("flash.theme_failed", msg.err), true)
		}
		return m, nil

	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Close):
		m.showStatus = false
		m.help.ShowAll = false
		return m, nil
	case key.Matches(msg, m.keys.Status):
		m.showStatus = !m.showStatus
		if m.showStatus {
			return m, m.progress.SetPercent(m.state.Progress())
		}
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.applyTheme(m.theme.Toggle())
		return m, m.saveTheme()
	case key.Matches(msg, m.keys.Reconnect):
		if m.conn == nil || !m.state.Terminal() {
			return m, nil
		}
		return m, m.connectCmd()
	}

	// List navigation and copy are inert behind the status overlay.
	if m.showStatus {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.moveCursor(-len(m.list))
	case key.Matches(msg, m.keys.End):
		m.moveCursor(len(m.list))
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	}
	return m, nil
}

// refresh pulls the current list. A new snapshot restarts the reveal
// animation; pushes only reveal the prepended rows.
func (m *Model) refresh() tea.Cmd {
	if m.records == nil {
		return nil
	}
	gen := m.records.Generation()
	list := m.records.Snapshot()

	var cmd tea.Cmd
	if gen != m.generation {
		m.generation = gen
		m.revealed = 0
		cmd = revealTick(gen)
	} else if added := len(list) - len(m.list); added > 0 {
		m.revealed += added
		if m.cursor > 0 {
			// Keep the same record selected as rows are prepended.
			m.cursor += added
		}
	}

	m.list = list
	m.stats = model.ComputeStats(list)
	m.loaded = m.records.Loaded()
	m.revealed = min(m.revealed, len(m.list))
	m.clampCursor()
	return cmd
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.list) {
		m.cursor = len(m.list) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if maxOffset := max(0, len(m.list)-h); m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Selected returns the highlighted record.
func (m Model) Selected() (model.ServiceRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return model.ServiceRecord{}, false
	}
	return m.list[m.cursor], true
}

func (m Model) copySelected() tea.Cmd {
	r, ok := m.Selected()
	if !ok {
		return nil
	}
	text, write := r.String(), m.clipboard
	return func() tea.Msg {
		return clipboardMsg{text: text, err: write(text)}
	}
}

func (m Model) saveTheme() tea.Cmd {
	if m.prefs == nil {
		return nil
	}
	prefs, t := m.prefs, m.theme
	return func() tea.Msg {
		return themeSavedMsg{err: prefs.SetTheme(t)}
	}
}

func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	m.flash = text
	m.flashErr = isErr
	return expireFlash(m.flashSeq)
}

// Run starts the dashboard on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	opts.Context = ctx
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		logging.Errorf("TUI run error: %v", err)
		return err
	}
	return nil
}
