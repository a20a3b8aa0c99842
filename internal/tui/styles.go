// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// package tui provides the terminal dashboard for signwatch.
// This file defines the light and dark palettes and the lipgloss styles
// derived from them.
package tui // import "github.com/toeirei/signwatch/internal/tui"

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/signwatch/internal/state"
)

// palette holds the core colors of one theme.
type palette struct {
	text      lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	danger    lipgloss.Color
	border    lipgloss.Color
	surface   lipgloss.Color
	footerFg  lipgloss.Color
	footerBg  lipgloss.Color
	chipCmd   lipgloss.Color
	chipVer   lipgloss.Color
	chipPath  lipgloss.Color
}

var palettes = map[state.Theme]palette{
	state.ThemeLight: {
		text:      lipgloss.Color("#1F2937"),
		subtle:    lipgloss.Color("#6B7280"),
		highlight: lipgloss.Color("#4F46E5"),
		success:   lipgloss.Color("#059669"),
		warning:   lipgloss.Color("#D97706"),
		danger:    lipgloss.Color("#DC2626"),
		border:    lipgloss.Color("#D1D5DB"),
		surface:   lipgloss.Color("#F3F4F6"),
		footerFg:  lipgloss.Color("#4B5563"),
		footerBg:  lipgloss.Color("#E5E7EB"),
		chipCmd:   lipgloss.Color("#2563EB"),
		chipVer:   lipgloss.Color("#7C3AED"),
		chipPath:  lipgloss.Color("#0D9488"),
	},
	state.ThemeDark: {
		text:      lipgloss.Color("#E5E7EB"),
		subtle:    lipgloss.Color("#9CA3AF"),
		highlight: lipgloss.Color("#818CF8"),
		success:   lipgloss.Color("#34D399"),
		warning:   lipgloss.Color("#FBBF24"),
		danger:    lipgloss.Color("#F87171"),
		border:    lipgloss.Color("#374151"),
		surface:   lipgloss.Color("#1F2937"),
		footerFg:  lipgloss.Color("#9CA3AF"),
		footerBg:  lipgloss.Color("#111827"),
		chipCmd:   lipgloss.Color("#60A5FA"),
		chipVer:   lipgloss.Color("#A78BFA"),
		chipPath:  lipgloss.Color("#2DD4BF"),
	},
}

// avatarColors are shared by both themes; they read well on either background.
var avatarColors = []lipgloss.Color{
	"#EF4444", "#F97316", "#F59E0B", "#84CC16", "#10B981",
	"#06B6D4", "#3B82F6", "#6366F1", "#8B5CF6", "#D946EF",
	"#EC4899", "#14B8A6",
}

// styles is the full set of styles for one theme.
type styles struct {
	p palette

	title    lipgloss.Style
	subtitle lipgloss.Style

	badgeOK   lipgloss.Style
	badgeBusy lipgloss.Style
	badgeFail lipgloss.Style

	card      lipgloss.Style
	cardValue lipgloss.Style
	cardLabel lipgloss.Style

	pane      lipgloss.Style
	paneTitle lipgloss.Style
	liveChip  lipgloss.Style
	waitChip  lipgloss.Style

	row         lipgloss.Style
	rowSelected lipgloss.Style
	uin         lipgloss.Style
	chipCmd     lipgloss.Style
	chipVer     lipgloss.Style
	chipPath    lipgloss.Style

	emptyTitle lipgloss.Style
	emptyHint  lipgloss.Style
	errorText  lipgloss.Style

	modal      lipgloss.Style
	modalTitle lipgloss.Style
	label      lipgloss.Style
	errorBox   lipgloss.Style

	help      lipgloss.Style
	footer    lipgloss.Style
	flashOK   lipgloss.Style
	flashFail lipgloss.Style
}

func chip(fg lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(fg).
		Border(lipgloss.RoundedBorder(), false, true).
		BorderForeground(fg)
}

func newStyles(t state.Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[state.ThemeLight]
	}
	return styles{
		p: p,

		title:    lipgloss.NewStyle().Foreground(p.highlight).Bold(true),
		subtitle: lipgloss.NewStyle().Foreground(p.subtle),

		badgeOK:   lipgloss.NewStyle().Foreground(p.success).Bold(true),
		badgeBusy: lipgloss.NewStyle().Foreground(p.warning).Bold(true),
		badgeFail: lipgloss.NewStyle().Foreground(p.danger).Bold(true),

		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 2),
		cardValue: lipgloss.NewStyle().Foreground(p.text).Bold(true),
		cardLabel: lipgloss.NewStyle().Foreground(p.subtle),

		pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		paneTitle: lipgloss.NewStyle().Foreground(p.text).Bold(true),
		liveChip:  lipgloss.NewStyle().Foreground(p.success),
		waitChip:  lipgloss.NewStyle().Foreground(p.warning),

		row:         lipgloss.NewStyle().Foreground(p.text),
		rowSelected: lipgloss.NewStyle().Foreground(p.highlight).Bold(true),
		uin:         lipgloss.NewStyle().Foreground(p.text).Bold(true),
		chipCmd:     chip(p.chipCmd),
		chipVer:     chip(p.chipVer),
		chipPath:    chip(p.chipPath),

		emptyTitle: lipgloss.NewStyle().Foreground(p.text).Bold(true),
		emptyHint:  lipgloss.NewStyle().Foreground(p.subtle),
		errorText:  lipgloss.NewStyle().Foreground(p.danger),

		modal: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(p.highlight).
			Padding(1, 2).
			Width(56),
		modalTitle: lipgloss.NewStyle().Foreground(p.highlight).Bold(true),
		label:      lipgloss.NewStyle().Foreground(p.subtle).Width(12),
		errorBox: lipgloss.NewStyle().
			Foreground(p.danger).
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.danger).
			Padding(0, 1),

		help:      lipgloss.NewStyle().Foreground(p.subtle),
		footer:    lipgloss.NewStyle().Foreground(p.footerFg).Background(p.footerBg).Padding(0, 1).Italic(true),
		flashOK:   lipgloss.NewStyle().Foreground(p.success),
		flashFail: lipgloss.NewStyle().Foreground(p.danger),
	}
}
