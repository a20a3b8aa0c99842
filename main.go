// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for signwatch.
//
// Usage:
//
//	go run . [flags]
//	./signwatch [flags]
//
// This launches the dashboard, or the headless watcher when stdout is not a
// terminal. See --help for subcommands.
package main

import (
	"os"

	"github.com/toeirei/signwatch/ui/cli"
)

func main() {
	// cobra has already printed the error.
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
