// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db stores the connection journal: one row per connection state
// transition. SQLite is the default backend; PostgreSQL and MySQL are
// supported through the same bun models and per-dialect migrations.
//
// Received service records are never written here.
package db
