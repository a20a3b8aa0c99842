// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/signwatch/internal/i18n"
)

// keyMap implements help.KeyMap.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Home      key.Binding
	End       key.Binding
	Status    key.Binding
	Theme     key.Binding
	Copy      key.Binding
	Reconnect key.Binding
	Help      key.Binding
	Close     key.Binding
	Quit      key.Binding
}

// newKeyMap builds the bindings with help text in the active language.
func newKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", i18n.T("help.up"))),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", i18n.T("help.down"))),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", i18n.T("help.page_up"))),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "f", " "), key.WithHelp("pgdn", i18n.T("help.page_down"))),
		Home:      key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home/g", i18n.T("help.top"))),
		End:       key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end/G", i18n.T("help.bottom"))),
		Status:    key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", i18n.T("help.status"))),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", i18n.T("help.theme"))),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", i18n.T("help.copy"))),
		Reconnect: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", i18n.T("help.reconnect")), key.WithDisabled()),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", i18n.T("help.more"))),
		Close:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", i18n.T("help.close"))),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", i18n.T("help.quit"))),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Status, k.Theme, k.Copy, k.Reconnect, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End},
		{k.Status, k.Theme, k.Copy, k.Reconnect},
		{k.Help, k.Close, k.Quit},
	}
}
