// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/toeirei/signwatch/internal/config"
	"github.com/toeirei/signwatch/internal/logging"
	"github.com/toeirei/signwatch/internal/state"
	"github.com/toeirei/signwatch/internal/tui"
)

// runTUI is the dashboard runner. Tests replace it.
var runTUI = tui.Run

// runDashboard starts the interactive dashboard. The terminal belongs to the
// dashboard, so logs go to a file.
func runDashboard(cmd *cobra.Command) error {
	logPath := appConfig.Log.File
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	if closer, err := logging.OpenFile(logPath); err != nil {
		logging.Warnf("could not open log file %s: %v", logPath, err)
	} else {
		defer func() { _ = closer.Close() }()
	}

	var prefs *state.Prefs
	if path, err := state.DefaultPath(); err != nil {
		logging.Warnf("theme preference will not be saved: %v", err)
	} else {
		p, err := state.Open(path)
		if err != nil {
			logging.Warnf("using default preferences: %v", err)
		}
		prefs = p
	}
	theme, _ := state.ParseTheme(appConfig.Theme)

	app, err := newFeedApp(appConfig, appOptions{journal: true})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runTUI(ctx, tui.Options{
		Conn:         app.manager,
		Records:      app.store,
		StateChanges: app.changes.C(),
		Prefs:        prefs,
		Theme:        theme,
	})
}
