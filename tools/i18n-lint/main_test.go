// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.
package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLintFindsProblems(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ui", "a.go"), `package ui
func f() {
	_ = i18n.T("app.title")
	_ = i18n.T("list.count", 3)
	_ = i18n.T("phase." + p.String())
	_ = i18n.T("not.defined")
}`)
	writeFile(t, filepath.Join(root, "ui", "a_test.go"), `package ui
var _ = i18n.T("only.in.tests")`)
	writeFile(t, filepath.Join(root, "_examples", "x.go"), `package x
var _ = i18n.T("ignored.example")`)

	locales := filepath.Join(root, "locales")
	writeFile(t, filepath.Join(locales, "en.yaml"), "app.title: A\nlist.count: \"%d\"\nphase.idle: Idle\nphase.failed: Failed\nstale.key: x\n")
	writeFile(t, filepath.Join(locales, "zh.yaml"), "app:\n  title: A\nlist.count: \"%d\"\nphase.idle: I\n")

	r, err := lint(root, locales)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if _, ok := r.undefined["not.defined"]; !ok || len(r.undefined) != 1 {
		t.Fatalf("undefined = %v", r.undefined)
	}
	if len(r.orphaned) != 1 || r.orphaned[0] != "stale.key" {
		t.Fatalf("orphaned = %v", r.orphaned)
	}
	zh := r.missing["zh.yaml"]
	if len(zh) != 2 || zh[0] != "phase.failed" || zh[1] != "stale.key" {
		t.Fatalf("missing = %v", r.missing)
	}
	if !r.failed() {
		t.Fatal("report should fail")
	}
}

func TestLintConsistent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), `package a
var _ = i18n.T("help.quit")`)
	locales := filepath.Join(root, "l")
	writeFile(t, filepath.Join(locales, "en.yaml"), "help.quit: quit\n")
	writeFile(t, filepath.Join(locales, "zh.yaml"), "help.quit: 退出\n")

	r, err := lint(root, locales)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if r.failed() || len(r.orphaned) != 0 {
		t.Fatalf("expected clean report, got %+v", r)
	}
}

func TestRepositoryLocalesAreConsistent(t *testing.T) {
	root := filepath.Join("..", "..")
	r, err := lint(root, filepath.Join(root, localesDir))
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if r.failed() {
		t.Fatalf("undefined=%v missing=%v", r.undefined, r.missing)
	}
}
