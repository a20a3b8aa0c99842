// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/toeirei/signwatch/internal/conn"
	"github.com/toeirei/signwatch/internal/i18n"
	"github.com/toeirei/signwatch/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// listOutput is the --json document.
type listOutput struct {
	Stats    model.Stats           `json:"stats"`
	Services []model.ServiceRecord `json:"services"`
}

func newListCmd() *cobra.Command {
	var timeout time.Duration
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the current service list and exit",
		Long: `Connects to the sign feed, waits for the first full snapshot and prints it
as a table (or JSON with --json) followed by the aggregate statistics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := fetchSnapshot(cmd.Context(), timeout)
			if err != nil {
				return err
			}
			if asJSON {
				return writeListJSON(cmd.OutOrStdout(), records)
			}
			writeListTable(cmd.OutOrStdout(), records)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "How long to wait for the snapshot")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

// fetchSnapshot connects once and returns the first snapshot. The journal is
// not opened for one-shot reads.
func fetchSnapshot(parent context.Context, timeout time.Duration) ([]model.ServiceRecord, error) {
	app, err := newFeedApp(appConfig, appOptions{})
	if err != nil {
		return nil, err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	changes := app.store.Changes()
	app.manager.Connect(ctx)
	done := app.manager.Done()
	for !app.store.Loaded() {
		select {
		case <-changes:
		case <-done:
			if app.store.Loaded() {
				break
			}
			if st := app.manager.State(); st.Terminal() {
				return nil, fmt.Errorf("%s: %w", st.Endpoint, conn.ErrRetriesExhausted)
			}
			if ctx.Err() != nil {
				return nil, snapshotTimeout(ctx, timeout)
			}
			return nil, conn.ErrClosed
		case <-ctx.Done():
			return nil, snapshotTimeout(ctx, timeout)
		}
	}
	return app.store.Snapshot(), nil
}

func snapshotTimeout(ctx context.Context, timeout time.Duration) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", i18n.T("cli.list.timeout", timeout), ctx.Err())
	}
	return ctx.Err()
}

func writeListJSON(w io.Writer, records []model.ServiceRecord) error {
	if records == nil {
		records = []model.ServiceRecord{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listOutput{Stats: model.ComputeStats(records), Services: records})
}

func writeListTable(w io.Writer, records []model.ServiceRecord) {
	st := model.ComputeStats(records)
	if len(records) == 0 {
		fmt.Fprintln(w, i18n.T("empty.none"))
	} else {
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
		cell := lipgloss.NewStyle().Padding(0, 1)
		t := table.New().
			Border(lipgloss.NormalBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return header
				}
				return cell
			}).
			Headers("#", "UIN", "CMD", "VERSION", "PATH")
		for i, r := range records {
			t.Row(humanize.Comma(int64(i+1)), r.Uin, r.Cmd, r.Version, r.Path)
		}
		fmt.Fprintln(w, t.Render())
	}
	fmt.Fprintf(w, "%s: %s  %s: %s  %s: %s  %s: %s  %s: %s\n",
		i18n.T("stats.records"), humanize.Comma(int64(st.Total)),
		i18n.T("stats.uins"), humanize.Comma(int64(st.Uins)),
		i18n.T("stats.commands"), humanize.Comma(int64(st.Commands)),
		i18n.T("stats.versions"), humanize.Comma(int64(st.Versions)),
		i18n.T("stats.paths"), humanize.Comma(int64(st.Paths)),
	)
}
