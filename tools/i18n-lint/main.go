// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-lint checks that every translation key used in the Go sources exists
// in the primary locale and that all locales carry the same keys.
//
// Usage (from the repository root):
//
//	go run ./tools/i18n-lint
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
)

// keyRe matches i18n.T("key" and captures a trailing + for keys built at
// runtime, e.g. i18n.T("phase."+p.String()).
var keyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"\s*(\+)?`)

// usage records the literal keys and the dynamic prefixes found in sources.
type usage struct {
	keys     map[string][]string // key -> files
	prefixes map[string][]string
}

func (u usage) covers(key string) bool {
	if _, ok := u.keys[key]; ok {
		return true
	}
	for p := range u.prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

type report struct {
	undefined map[string][]string // used in code, missing from the primary locale
	orphaned  []string            // in the primary locale, never used
	missing   map[string][]string // locale file -> keys absent there
}

func (r report) failed() bool {
	return len(r.undefined) > 0 || len(r.missing) > 0
}

func main() {
	r, err := lint(".", localesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-lint: %v\n", err)
		os.Exit(2)
	}
	printReport(os.Stdout, r)
	if r.failed() {
		os.Exit(1)
	}
}

func lint(root, locales string) (report, error) {
	used, err := scanSources(root)
	if err != nil {
		return report{}, err
	}
	primary, err := loadLocale(filepath.Join(locales, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("primary locale: %w", err)
	}

	r := report{undefined: map[string][]string{}, missing: map[string][]string{}}
	for k, files := range used.keys {
		if _, ok := primary[k]; !ok {
			r.undefined[k] = files
		}
	}
	for k := range primary {
		if !used.covers(k) {
			r.orphaned = append(r.orphaned, k)
		}
	}
	sort.Strings(r.orphaned)

	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	for _, f := range files {
		if filepath.Base(f) == primaryLocale {
			continue
		}
		other, err := loadLocale(f)
		if err != nil {
			return report{}, fmt.Errorf("%s: %w", f, err)
		}
		var absent []string
		for k := range primary {
			if _, ok := other[k]; !ok {
				absent = append(absent, k)
			}
		}
		if len(absent) > 0 {
			sort.Strings(absent)
			r.missing[filepath.Base(f)] = absent
		}
	}
	return r, nil
}

// scanSources collects i18n.T keys from non-test Go files. Directories
// starting with "_" or "." and the tools tree are skipped, as the go tool
// does.
func scanSources(root string) (usage, error) {
	u := usage{keys: map[string][]string{}, prefixes: map[string][]string{}}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") || name == "tools") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range keyRe.FindAllStringSubmatch(string(content), -1) {
			if m[2] == "+" {
				u.prefixes[m[1]] = append(u.prefixes[m[1]], path)
			} else {
				u.keys[m[1]] = append(u.keys[m[1]], path)
			}
		}
		return nil
	})
	return u, err
}

// loadLocale returns the flattened keys of a locale file. Nested maps are
// joined with dots so both flat and nested layouts are accepted.
func loadLocale(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	out := map[string]string{}
	flatten("", data, out)
	return out, nil
}

func flatten(prefix string, node interface{}, out map[string]string) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, val, out)
		}
	default:
		if prefix != "" {
			out[prefix] = fmt.Sprint(v)
		}
	}
}

func printReport(w *os.File, r report) {
	var undefined []string
	for k := range r.undefined {
		undefined = append(undefined, k)
	}
	sort.Strings(undefined)
	for _, k := range undefined {
		fmt.Fprintf(w, "undefined: %s (used in %s)\n", k, strings.Join(r.undefined[k], ", "))
	}

	var locales []string
	for f := range r.missing {
		locales = append(locales, f)
	}
	sort.Strings(locales)
	for _, f := range locales {
		for _, k := range r.missing[f] {
			fmt.Fprintf(w, "missing in %s: %s\n", f, k)
		}
	}

	for _, k := range r.orphaned {
		fmt.Fprintf(w, "unused: %s\n", k)
	}

	if !r.failed() {
		fmt.Fprintln(w, "translations are consistent")
	}
}
