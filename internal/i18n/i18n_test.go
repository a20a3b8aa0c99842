// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package i18n

import (
	"path"
	"testing"

	"gopkg.in/yaml.v3"
)

func readLocale(t *testing.T, code string) map[string]string {
	t.Helper()
	data, err := localeFS.ReadFile(path.Join("locales", code+".yaml"))
	if err != nil {
		t.Fatalf("read %s: %v", code, err)
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatalf("parse %s: %v", code, err)
	}
	return m
}

func TestLocalesHaveSameKeys(t *testing.T) {
	en := readLocale(t, "en")
	for code := range GetAvailableLocales() {
		if code == "en" {
			continue
		}
		other := readLocale(t, code)
		for k := range en {
			if _, ok := other[k]; !ok {
				t.Errorf("%s is missing %q", code, k)
			}
		}
		for k := range other {
			if _, ok := en[k]; !ok {
				t.Errorf("%s has extra key %q", code, k)
			}
		}
	}
}

func TestTranslate(t *testing.T) {
	Init("en")
	if got := T("conn.retrying", 2, 5); got != "Retrying (2/5)" {
		t.Fatalf("got %q", got)
	}
	if got := T("no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key: got %q", got)
	}

	SetLang("zh")
	defer Init("en")
	if GetLang() != "zh" {
		t.Fatalf("GetLang = %q", GetLang())
	}
	if got := T("conn.connected"); got != "已连接" {
		t.Fatalf("zh: got %q", got)
	}
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	Init("xx")
	defer Init("en")
	if got := T("help.quit"); got != "quit" {
		t.Fatalf("got %q", got)
	}
}

func TestAvailableLocales(t *testing.T) {
	got := GetAvailableLocales()
	if got["en"] == "" || got["zh"] == "" {
		t.Fatalf("expected en and zh, got %v", got)
	}
}

func TestStatusReconnectingFitsLabel(t *testing.T) {
	for code := range GetAvailableLocales() {
		v := readLocale(t, code)["status.reconnecting"]
		if n := len([]rune(v)); n == 0 || n > 12 {
			t.Errorf("%s status.reconnecting has %d runes", code, n)
		}
	}
}
