// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedDB is returned for database types other than sqlite,
	// postgres and mysql.
	ErrUnsupportedDB = errors.New("unsupported database type")
	// ErrClosed is returned by a Recorder after Close.
	ErrClosed = errors.New("journal closed")
)

func unsupported(dbType string) error {
	return fmt.Errorf("%w: '%s'", ErrUnsupportedDB, dbType)
}
