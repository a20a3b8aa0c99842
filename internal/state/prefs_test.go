package state

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseThemeAndToggle(t *testing.T) {
	if th, ok := ParseTheme(" Dark "); !ok || th != ThemeDark {
		t.Fatalf("ParseTheme(Dark) = %q, %v", th, ok)
	}
	if _, ok := ParseTheme("sepia"); ok {
		t.Fatalf("sepia should not parse")
	}
	if ThemeLight.Toggle() != ThemeDark || ThemeDark.Toggle() != ThemeLight {
		t.Fatalf("Toggle should flip light and dark")
	}
	if Theme("").Toggle() != ThemeDark {
		t.Fatalf("unset theme is light, so it toggles to dark")
	}
}

func TestOpen_MissingFileDefaultsToLight(t *testing.T) {
	p, err := Open(filepath.Join(t.TempDir(), "none", "state.yaml"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Theme() != ThemeLight {
		t.Fatalf("expected light, got %q", p.Theme())
	}
}

func TestSetTheme_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signwatch", "state.yaml")
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := p.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Theme() != ThemeDark {
		t.Fatalf("expected dark after reopen, got %q", reopened.Theme())
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	if err := p.SetTheme("neon"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestOpen_CorruptFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("theme: [dark"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Open(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if p == nil || p.Theme() != ThemeLight {
		t.Fatalf("corrupt file should still yield light defaults")
	}
}

func TestOpen_UnknownStoredThemeIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := os.WriteFile(path, []byte("theme: solarized\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Theme() != ThemeLight {
		t.Fatalf("unknown stored theme should fall back to light, got %q", p.Theme())
	}
}

func TestSetTheme_InMemoryWhenNoPath(t *testing.T) {
	p, _ := Open("")
	if err := p.SetTheme(ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if p.Theme() != ThemeDark {
		t.Fatalf("expected dark")
	}
}
