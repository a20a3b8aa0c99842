// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface for signwatch using the Cobra
// library. It defines the root command, the shared flags, configuration
// loading and the main entry point for execution.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/toeirei/signwatch/buildvars"
	"github.com/toeirei/signwatch/internal/config"
	"github.com/toeirei/signwatch/internal/db"
	"github.com/toeirei/signwatch/internal/i18n"
	"github.com/toeirei/signwatch/internal/logging"
	"golang.org/x/term"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

const modulePath = "github.com/toeirei/signwatch"

var verbose bool

var appConfig config.Config

// isTerminal reports whether w is an interactive terminal. Tests replace it.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// setupDefaultServices loads the configuration and prepares logging and
// i18n. It runs before every command.
func setupDefaultServices(cmd *cobra.Command, args []string) error {
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if appConfig.Language == "" {
		appConfig.Language = "en"
	}
	i18n.Init(appConfig.Language)

	logging.SetOutput(cmd.ErrOrStderr())
	if err := logging.SetLevel(appConfig.Log.Level); err != nil {
		return err
	}
	if verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	}

	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("%s: %w", i18n.T("cli.invalid_config"), err)
	}
	return nil
}

// Execute runs the CLI entrypoint. The main package should call this function
// and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

// applyDefaultFlags registers the flags that mirror configuration keys. Flag
// names are the dotted config keys so viper binds them directly.
func applyDefaultFlags(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.PersistentFlags()
	f.StringVar(new(string), "config", "", "config file")
	f.String("feed.endpoint", d.Feed.Endpoint, "Websocket endpoint of the sign feed")
	f.String("feed.reconnect_delay", d.Feed.ReconnectDelay, "Delay before a reconnect attempt")
	f.String("feed.heartbeat_interval", d.Feed.HeartbeatInterval, "Interval between keepalive frames")
	f.Int("feed.max_attempts", d.Feed.MaxAttempts, "Connection attempts before giving up")
	f.String("feed.handshake_timeout", d.Feed.HandshakeTimeout, "Websocket handshake timeout")
	f.String("language", d.Language, `Interface language ("en", "zh")`)
	f.String("theme", "", `Dashboard theme ("light", "dark"); defaults to the saved preference`)
	f.String("log.level", d.Log.Level, "Log level (debug, info, warn, error)")
	f.String("log.file", "", "Log file for the dashboard (default: user cache dir)")
	f.Bool("journal.enabled", d.Journal.Enabled, "Record connection transitions")
	f.String("journal.type", d.Journal.Type, "Journal database type (sqlite, postgres, mysql)")
	f.String("journal.dsn", d.Journal.Dsn, "Journal database connection string (DSN)")
	f.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signwatch",
		Short: "Live dashboard for sign service instances.",
		Long: `signwatch connects to the sign feed over a websocket, keeps the list of
online sign services in sync and shows connection health, statistics and
the service list.

Running without a subcommand launches the interactive dashboard when the
output is a terminal, and falls back to 'watch' otherwise.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupDefaultServices,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return runWatch(cmd)
			}
			return runDashboard(cmd)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	applyDefaultFlags(cmd)

	cmd.AddCommand(
		newWatchCmd(),
		newListCmd(),
		newHistoryCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// Skip config loading so a broken config never hides the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func versionString() string {
	v, _, _ := resolveBuildVersion(nil)
	return v
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, ok := debug.ReadBuildInfo(); ok {
			info = local
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// Some build paths only record the module version as a dependency.
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" && resolvedCommit == "dev" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" && resolvedDate == "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit provided via ldflags.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
