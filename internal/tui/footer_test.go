package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/signwatch/internal/model"
)

func TestAlignFooter(t *testing.T) {
	got := AlignFooter("left", "right", 20)
	if len(got) != 20 {
		t.Fatalf("expected width 20, got %d (%q)", len(got), got)
	}
	if got := AlignFooter("aaaa", "bbbb", 3); got != "aaaa bbbb" {
		t.Fatalf("narrow width should keep one space, got %q", got)
	}
	styled := lipgloss.NewStyle().Bold(true).Render("x")
	if w := lipgloss.Width(AlignFooter(styled, "y", 10)); w != 10 {
		t.Fatalf("styled tokens should align by visible width, got %d", w)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		w    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 6, "hello…"},
		{"abc", 0, ""},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.w); got != tc.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tc.in, tc.w, got, tc.want)
		}
	}
}

func TestAvatarStable(t *testing.T) {
	r := model.ServiceRecord{Cmd: "sign", Version: "1.0", Uin: "10001"}
	if avatarColor(r) != avatarColor(r) {
		t.Fatalf("avatar color must be deterministic")
	}
	if avatarGlyph(r) != "S" {
		t.Fatalf("expected S, got %q", avatarGlyph(r))
	}
	if avatarGlyph(model.ServiceRecord{Cmd: " -"}) != "#" {
		t.Fatalf("expected fallback glyph")
	}
}
