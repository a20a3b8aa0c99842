// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"net/http"

	"github.com/toeirei/signwatch/internal/config"
	"github.com/toeirei/signwatch/internal/conn"
	"github.com/toeirei/signwatch/internal/db"
	"github.com/toeirei/signwatch/internal/feed"
	"github.com/toeirei/signwatch/internal/logging"
	"github.com/toeirei/signwatch/internal/model"
	"github.com/toeirei/signwatch/internal/store"
	"github.com/toeirei/signwatch/internal/tui"
)

// newDialer builds the production transport. Tests replace it.
var newDialer = func(cc conn.Config) conn.Dialer {
	h := http.Header{}
	h.Set("User-Agent", "signwatch/"+versionString())
	return conn.WebsocketDialer{HandshakeTimeout: cc.HandshakeTimeout, Header: h}
}

// feedApp is one wired feed session: connection manager, service store and
// optional journal.
type feedApp struct {
	store    *store.Store
	manager  *conn.Manager
	changes  *tui.Signal
	journal  db.Store
	recorder *db.Recorder
}

type appOptions struct {
	journal   bool
	onState   func(model.ConnectionState)
	onMessage func(feed.Message)
}

// newFeedApp wires the components for cfg. A journal that cannot be opened
// is logged and skipped; the feed still works without it.
func newFeedApp(cfg config.Config, opts appOptions) (*feedApp, error) {
	cc, err := cfg.Conn()
	if err != nil {
		return nil, err
	}

	a := &feedApp{store: store.New(), changes: tui.NewSignal()}

	if opts.journal && cfg.Journal.Enabled {
		j, err := db.NewStoreFromDSN(cfg.Journal.Type, cfg.Journal.Dsn)
		if err != nil {
			logging.Warnf("connection journal unavailable: %v", err)
		} else {
			a.journal = j
			a.recorder = db.NewRecorder(j)
		}
	}

	a.manager = conn.New(cc, newDialer(cc),
		conn.WithStateHandler(func(st model.ConnectionState) {
			if a.recorder != nil {
				a.recorder.Observe(st)
			}
			a.changes.Notify()
			if opts.onState != nil {
				opts.onState(st)
			}
		}),
		conn.WithMessageHandler(func(msg feed.Message) {
			a.store.Apply(msg)
			if opts.onMessage != nil {
				opts.onMessage(msg)
			}
		}),
	)
	return a, nil
}

// Close stops the connection and flushes the journal.
func (a *feedApp) Close() {
	a.manager.Close()
	if a.recorder != nil {
		_ = a.recorder.Close()
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			logging.Warnf("closing journal: %v", err)
		}
	}
}
