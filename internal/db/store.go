// Copyright (c) 2026 Signwatch Team
// Signwatch - live sign service dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/toeirei/signwatch/internal/model"
	"github.com/uptrace/bun"
)

// Store is the connection journal.
type Store interface {
	// Record appends an event and returns its ID.
	Record(ctx context.Context, ev model.ConnEvent) (int64, error)
	// Recent returns up to limit events, newest first. limit <= 0 means all.
	Recent(ctx context.Context, limit int) ([]model.ConnEvent, error)
	// Each calls fn for every event in chronological order, stopping at the
	// first error.
	Each(ctx context.Context, fn func(model.ConnEvent) error) error
	// Prune deletes all but the newest keep events and reports how many
	// rows were removed.
	Prune(ctx context.Context, keep int) (int64, error)
	Close() error
}

// ConnEventModel is the bun mapping of model.ConnEvent.
type ConnEventModel struct {
	bun.BaseModel `bun:"table:connection_events"`
	ID            int64     `bun:"id,pk,autoincrement"`
	OccurredAt    time.Time `bun:"occurred_at"`
	Phase         string    `bun:"phase"`
	Attempt       int       `bun:"attempt"`
	Endpoint      string    `bun:"endpoint"`
	Detail        string    `bun:"detail"`
}

func connEventToModel(m ConnEventModel) model.ConnEvent {
	return model.ConnEvent{
		ID:        m.ID,
		Timestamp: m.OccurredAt.UTC(),
		Phase:     m.Phase,
		Attempt:   m.Attempt,
		Endpoint:  m.Endpoint,
		Detail:    m.Detail,
	}
}

// BunStore implements Store for every supported dialect.
type BunStore struct {
	bun    *bun.DB
	dbType string
}

// BunDB exposes the underlying *bun.DB for tests and maintenance.
func (s *BunStore) BunDB() *bun.DB { return s.bun }

// Type returns the configured database type.
func (s *BunStore) Type() string { return s.dbType }

func (s *BunStore) Record(ctx context.Context, ev model.ConnEvent) (int64, error) {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	m := &ConnEventModel{
		OccurredAt: ts.UTC(),
		Phase:      ev.Phase,
		Attempt:    ev.Attempt,
		Endpoint:   ev.Endpoint,
		Detail:     ev.Detail,
	}
	q := s.bun.NewInsert().Model(m)
	if s.dbType == "postgres" {
		q = q.Returning("id")
	}
	res, err := q.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("record connection event: %w", err)
	}
	if m.ID == 0 {
		if id, err := res.LastInsertId(); err == nil {
			m.ID = id
		}
	}
	return m.ID, nil
}

func (s *BunStore) Recent(ctx context.Context, limit int) ([]model.ConnEvent, error) {
	var rows []ConnEventModel
	q := s.bun.NewSelect().Model(&rows).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("query connection events: %w", err)
	}
	out := make([]model.ConnEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, connEventToModel(r))
	}
	return out, nil
}

func (s *BunStore) Each(ctx context.Context, fn func(model.ConnEvent) error) error {
	rows, err := s.bun.NewSelect().Model((*ConnEventModel)(nil)).Order("id ASC").Rows(ctx)
	if err != nil {
		return fmt.Errorf("query connection events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var m ConnEventModel
		if err := s.bun.ScanRow(ctx, rows, &m); err != nil {
			return fmt.Errorf("scan connection event: %w", err)
		}
		if err := fn(connEventToModel(m)); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *BunStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	var ids []int64
	err := s.bun.NewSelect().Model((*ConnEventModel)(nil)).Column("id").
		Order("id DESC").Limit(1).Offset(keep).Scan(ctx, &ids)
	if err != nil {
		return 0, fmt.Errorf("find prune boundary: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.bun.NewDelete().Model((*ConnEventModel)(nil)).Where("id <= ?", ids[0]).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune connection events: %w", err)
	}
	n, _ := res.RowsAffected()
	dbLogf("db: pruned %d connection events", n)
	return n, nil
}

func (s *BunStore) Close() error {
	return s.bun.Close()
}
