// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/toeirei/signwatch/internal/conn"
	"github.com/toeirei/signwatch/internal/feed"
	"github.com/toeirei/signwatch/internal/i18n"
	"github.com/toeirei/signwatch/internal/model"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the feed and print connection changes and new services",
		Long: `Connects to the sign feed and prints one line per connection state change
and per announced service until interrupted.

Exits with status 1 once the reconnect budget (feed.max_attempts) is used up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd)
		},
	}
}

func newEventLogger(w io.Writer) *clog.Logger {
	return clog.NewWithOptions(w, clog.Options{ReportTimestamp: true, Prefix: "signwatch"})
}

// runWatch follows the feed headlessly.
func runWatch(cmd *cobra.Command) error {
	out := newEventLogger(cmd.OutOrStdout())

	app, err := newFeedApp(appConfig, appOptions{
		journal:   true,
		onState:   func(st model.ConnectionState) { logState(out, st) },
		onMessage: func(msg feed.Message) { logMessage(out, msg) },
	})
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.manager.Connect(ctx)
	err = app.manager.Wait(ctx)
	switch {
	case errors.Is(err, conn.ErrRetriesExhausted):
		return &exitError{code: 1, err: err}
	case ctx.Err() != nil:
		return nil
	}
	return err
}

func logState(out *clog.Logger, st model.ConnectionState) {
	kv := []interface{}{"phase", st.Phase.String(), "endpoint", st.Endpoint}
	if st.Attempt > 0 {
		kv = append(kv, "attempt", st.Attempt, "max", st.MaxAttempts)
	}
	if d := st.Detail(); d != "" {
		kv = append(kv, "detail", d)
	}
	switch st.Phase {
	case model.PhaseFailed:
		out.Error(i18n.T("cli.watch.state"), kv...)
	case model.PhaseRetrying:
		out.Warn(i18n.T("cli.watch.state"), kv...)
	default:
		out.Info(i18n.T("cli.watch.state"), kv...)
	}
}

func logMessage(out *clog.Logger, msg feed.Message) {
	switch msg.Kind {
	case feed.KindList:
		st := model.ComputeStats(msg.Records)
		out.Info(i18n.T("cli.watch.snapshot"), "services", st.Total, "uins", st.Uins, "versions", st.Versions)
	case feed.KindPush:
		for _, r := range msg.Records {
			out.Info(i18n.T("cli.watch.push"), "uin", r.Uin, "cmd", r.Cmd, "version", r.Version, "path", r.Path)
		}
	}
}
