// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for signwatch using Cobra.
// It loads configuration, wires the feed connection, the service store and the
// connection journal together, and hands them to the dashboard or to one of
// the headless commands.
package cli
