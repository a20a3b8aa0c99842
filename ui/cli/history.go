// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"
	"github.com/toeirei/signwatch/internal/db"
	"github.com/toeirei/signwatch/internal/i18n"
	"github.com/toeirei/signwatch/internal/model"
)

// errJournalDisabled is returned by the history commands when journal.enabled
// is false.
var errJournalDisabled = errors.New("connection journal is disabled (journal.enabled=false)")

func openJournal() (db.Store, error) {
	if !appConfig.Journal.Enabled {
		return nil, errJournalDisabled
	}
	s, err := db.NewStoreFromDSN(appConfig.Journal.Type, appConfig.Journal.Dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return s, nil
}

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded connection state changes",
		Long: `Prints the connection journal, newest first. The journal is written by the
dashboard and 'watch' while journal.enabled is true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			events, err := j.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			writeHistory(cmd.OutOrStdout(), events, time.Now())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to show (0 for all)")
	cmd.AddCommand(newHistoryExportCmd(), newHistoryPruneCmd())
	return cmd
}

func writeHistory(w io.Writer, events []model.ConnEvent, now time.Time) {
	if len(events) == 0 {
		fmt.Fprintln(w, i18n.T("cli.history.empty"))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TIME", "PHASE", "ATTEMPT", "ENDPOINT", "DETAIL")
	for _, ev := range events {
		attempt := ""
		if ev.Attempt > 0 {
			attempt = strconv.Itoa(ev.Attempt)
		}
		ts := ev.Timestamp.Local().Format(time.DateTime) + " (" + humanize.RelTime(ev.Timestamp, now, "ago", "from now") + ")"
		t.Row(strconv.FormatInt(ev.ID, 10), ts, ev.Phase, attempt, ev.Endpoint, ev.Detail)
	}
	fmt.Fprintln(w, t.Render())
}

func newHistoryExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as JSON lines",
		Long: `Writes every journal event, oldest first, as one JSON object per line.
The output is Zstandard-compressed when the file name ends in '.zst'.
Without --output the events are written to stdout.

Examples:
  signwatch history export --output events.jsonl
  signwatch history export --output events.jsonl.zst`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			if output == "" || output == "-" {
				_, err := exportJournal(cmd, j, cmd.OutOrStdout(), false)
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("could not create export file: %w", err)
			}
			n, err := exportJournal(cmd, j, f, strings.HasSuffix(output, ".zst"))
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.history.exported", humanize.Comma(n), output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file ('.zst' suffix enables compression)")
	return cmd
}

// exportJournal streams the journal to w and returns the number of events.
func exportJournal(cmd *cobra.Command, j db.Store, w io.Writer, compress bool) (int64, error) {
	var zw *zstd.Encoder
	if compress {
		var err error
		zw, err = zstd.NewWriter(w)
		if err != nil {
			return 0, fmt.Errorf("could not create zstd writer: %w", err)
		}
		w = zw
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	var n int64
	err := j.Each(cmd.Context(), func(ev model.ConnEvent) error {
		n++
		return enc.Encode(ev)
	})
	if err == nil {
		err = bw.Flush()
	}
	if zw != nil {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return n, fmt.Errorf("export journal: %w", err)
	}
	return n, nil
}

func newHistoryPruneCmd() *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the newest journal events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must not be negative")
			}
			j, err := openJournal()
			if err != nil {
				return err
			}
			defer func() { _ = j.Close() }()

			removed, err := j.Prune(cmd.Context(), keep)
			if err != nil {
				return fmt.Errorf("prune journal: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.history.pruned", humanize.Comma(removed)))
			return nil
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 1000, "Number of newest events to keep")
	return cmd
}
