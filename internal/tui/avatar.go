// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/signwatch/internal/model"
	"github.com/zeebo/xxh3"
)

// avatarColor picks a stable color for a record from its uin and version.
func avatarColor(r model.ServiceRecord) lipgloss.Color {
	h := xxh3.HashString(r.AvatarSeed())
	return avatarColors[h%uint64(len(avatarColors))]
}

// avatarGlyph is the upper-cased first letter of the command, or '#'.
func avatarGlyph(r model.ServiceRecord) string {
	for _, c := range strings.TrimSpace(r.Cmd) {
		if unicode.IsLetter(c) || unicode.IsDigit(c) {
			return string(unicode.ToUpper(c))
		}
	}
	return "#"
}

func renderAvatar(r model.ServiceRecord) string {
	return lipgloss.NewStyle().
		Background(avatarColor(r)).
		Foreground(lipgloss.Color("#FFFFFF")).
		Bold(true).
		Render(" " + avatarGlyph(r) + " ")
}
