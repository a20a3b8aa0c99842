// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/toeirei/signwatch/internal/i18n"
	"github.com/toeirei/signwatch/internal/model"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header (2) + stat cards (4) + list pane border and title (3) + footer (1)
	chromeHeight = 10
)

func (m Model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

// listHeight is the number of record rows that fit in the list pane.
func (m Model) listHeight() int {
	_, h := m.size()
	return max(1, h-chromeHeight)
}

// View renders the dashboard.
func (m Model) View() string {
	w, _ := m.size()

	header := m.viewHeader(w)
	cards := m.viewStats(w)

	var body string
	switch {
	case m.showStatus:
		body = m.overlay(w, m.viewStatus())
	case m.help.ShowAll:
		body = m.overlay(w, m.styles.modal.Render(m.help.View(m.keys)))
	default:
		body = m.viewList(w)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, cards, body, m.viewFooter(w))
}

// overlay centres content in the space the list pane would take.
func (m Model) overlay(w int, content string) string {
	return lipgloss.Place(w, m.listHeight()+3, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewHeader(w int) string {
	title := m.styles.title.Render("◉ " + i18n.T("app.title"))
	subtitle := m.styles.subtitle.Render(i18n.T("app.subtitle"))
	themeName := m.styles.subtitle.Render(i18n.T("theme." + string(m.theme)))
	return AlignFooter(title, m.badge(), w) + "\n" + AlignFooter(subtitle, themeName, w)
}

// badge summarises the connection in one token.
func (m Model) badge() string {
	s := m.state
	switch s.Phase {
	case model.PhaseConnected:
		return m.styles.badgeOK.Render("✓ " + i18n.T("conn.connected"))
	case model.PhaseConnecting:
		return m.spinner.View() + m.styles.badgeBusy.Render(i18n.T("conn.connecting"))
	case model.PhaseRetrying:
		return m.spinner.View() + m.styles.badgeBusy.Render(i18n.T("conn.retrying", s.Attempt, s.MaxAttempts))
	case model.PhaseFailed:
		return m.styles.badgeFail.Render("⚠ " + i18n.T("conn.failed"))
	default:
		return m.styles.subtitle.Render("○ " + i18n.T("conn.idle"))
	}
}

func (m Model) viewStats(w int) string {
	items := []struct {
		label string
		value int
	}{
		{i18n.T("stats.uins"), m.stats.Uins},
		{i18n.T("stats.commands"), m.stats.Commands},
		{i18n.T("stats.versions"), m.stats.Versions},
		{i18n.T("stats.paths"), m.stats.Paths},
		{i18n.T("stats.records"), m.stats.Total},
	}
	// Each card is a fifth of the width including its border.
	inner := max(8, w/len(items)-2)
	cards := make([]string, 0, len(items))
	for _, it := range items {
		content := m.styles.cardValue.Render(humanize.Comma(int64(it.value))) + "\n" +
			m.styles.cardLabel.Render(truncate(it.label, inner-4))
		cards = append(cards, m.styles.card.Width(inner).Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) viewList(w int) string {
	inner := max(10, w-4)
	h := m.listHeight()

	chip := m.styles.waitChip.Render("○ " + i18n.T("list.connecting"))
	switch {
	case m.state.Connected():
		chip = m.styles.liveChip.Render("● " + i18n.T("list.live"))
	case m.hasError() && len(m.list) > 0:
		// The list stays visible after a failure; flag it in the title row.
		chip = m.styles.errorText.Render(truncate("⚠ "+m.errorDetail(), inner/2))
	}
	title := m.styles.paneTitle.Render(i18n.T("list.title")) + " " +
		m.styles.subtitle.Render(i18n.T("list.count", humanize.Comma(int64(len(m.list)))))
	lines := []string{AlignFooter(title, chip, inner)}

	switch {
	case len(m.list) == 0:
		lines = append(lines, lipgloss.Place(inner, h, lipgloss.Center, lipgloss.Center, m.viewEmpty()))
	default:
		rows := make([]string, 0, h)
		rowStyle := lipgloss.NewStyle().MaxWidth(inner)
		for i := m.offset; i < len(m.list) && len(rows) < h; i++ {
			if i >= m.revealed {
				rows = append(rows, "")
				continue
			}
			rows = append(rows, rowStyle.Render(m.viewRow(i)))
		}
		for len(rows) < h {
			rows = append(rows, "")
		}
		lines = append(lines, rows...)
	}

	return m.styles.pane.Width(w - 2).Render(strings.Join(lines, "\n"))
}

func (m Model) viewRow(i int) string {
	r := m.list[i]
	marker := "  "
	uin := m.styles.uin
	if i == m.cursor {
		marker = m.styles.rowSelected.Render("▸ ")
		uin = m.styles.rowSelected
	}
	return marker + renderAvatar(r) + " " +
		uin.Render(truncate(r.Uin, 16)) + " " +
		m.styles.chipCmd.Render(truncate(r.Cmd, 20)) + " " +
		m.styles.chipVer.Render(truncate(r.Version, 16)) + " " +
		m.styles.chipPath.Render(truncate(r.Path, 40))
}

func (m Model) hasError() bool {
	return m.state.Terminal() || m.state.Err != nil
}

func (m Model) errorDetail() string {
	if d := m.state.Detail(); d != "" {
		return d
	}
	return i18n.T("status.transport_error")
}

// viewEmpty renders the loading, error or no-services state.
func (m Model) viewEmpty() string {
	switch {
	case m.hasError():
		lines := []string{
			m.styles.errorText.Bold(true).Render("⚠ " + i18n.T("empty.error")),
			m.styles.emptyHint.Render(m.errorDetail()),
		}
		if m.state.Terminal() {
			lines = append(lines, "", m.styles.emptyHint.Render(i18n.T("empty.reconnect_hint")))
		}
		return lipgloss.JoinVertical(lipgloss.Center, lines...)
	case !m.loaded:
		return m.spinner.View() + m.styles.emptyTitle.Render(i18n.T("empty.loading"))
	default:
		return lipgloss.JoinVertical(lipgloss.Center,
			m.styles.emptyTitle.Render("▢ "+i18n.T("empty.none")),
			m.styles.emptyHint.Render(i18n.T("empty.none_hint")),
		)
	}
}

func (m Model) phaseStyle() lipgloss.Style {
	switch m.state.Phase {
	case model.PhaseConnected:
		return m.styles.badgeOK
	case model.PhaseFailed:
		return m.styles.badgeFail
	case model.PhaseIdle:
		return m.styles.subtitle
	default:
		return m.styles.badgeBusy
	}
}

// viewStatus is the connection detail modal.
func (m Model) viewStatus() string {
	s := m.state
	row := func(label, value string) string {
		return m.styles.label.Render(label) + value
	}

	lines := []string{
		m.styles.modalTitle.Render(i18n.T("status.title")),
		"",
		row(i18n.T("status.state"), m.phaseStyle().Render(i18n.T("phase."+s.Phase.String()))),
		row(i18n.T("status.endpoint"), truncate(s.Endpoint, 40)),
		row(i18n.T("status.attempts"), fmt.Sprintf("%d/%d", s.Attempt, s.MaxAttempts)),
	}
	if !s.Since.IsZero() {
		lines = append(lines, row(i18n.T("status.since"), humanize.Time(s.Since)))
	}
	if s.Attempt > 0 && s.Attempt < s.MaxAttempts {
		lines = append(lines, "", m.styles.label.Render(i18n.T("status.reconnecting"))+m.progress.View())
	}
	if m.hasError() {
		lines = append(lines, "", m.styles.errorBox.Width(48).Render(m.errorDetail()))
	}
	lines = append(lines, "", m.styles.help.Render(i18n.T("status.close_hint")))
	return m.styles.modal.Render(strings.Join(lines, "\n"))
}

func (m Model) viewFooter(w int) string {
	left := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.flash != "" {
		style := m.styles.flashOK
		if m.flashErr {
			style = m.styles.flashFail
		}
		left = style.Render(m.flash)
	}
	right := ""
	if len(m.list) > 0 {
		right = fmt.Sprintf("%d/%d", m.cursor+1, len(m.list))
	}
	return m.styles.footer.Width(w).MaxWidth(w).Render(AlignFooter(left, right, w-2))
}
