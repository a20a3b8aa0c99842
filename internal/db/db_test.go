package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/toeirei/signwatch/internal/model"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *BunStore {
	t.Helper()
	dsn := "file:test_" + t.Name() + "?mode=memory&cache=shared"
	s, err := NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	bs, ok := s.(*BunStore)
	if !ok {
		t.Fatalf("store is %T, want *BunStore", s)
	}
	return bs
}

func event(phase string, attempt int, at time.Time) model.ConnEvent {
	return model.ConnEvent{Timestamp: at, Phase: phase, Attempt: attempt, Endpoint: "wss://example.test/feed"}
}

func TestNewStoreFromDSN_MigrationsApplied(t *testing.T) {
	s := newTestStore(t)

	var version string
	if err := s.BunDB().QueryRow("SELECT version FROM schema_migrations").Scan(&version); err != nil {
		t.Fatalf("schema_migrations not populated: %v", err)
	}
	if version != "0001_connection_events" {
		t.Fatalf("unexpected migration version %q", version)
	}

	// Running again must be a no-op.
	if err := RunMigrations(s.BunDB().DB, "sqlite"); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
	var n int
	if err := s.BunDB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 migration row, got %d", n)
	}
}

func TestNewStoreFromDSN_Unsupported(t *testing.T) {
	_, err := NewStoreFromDSN("oracle", "whatever")
	if !errors.Is(err, ErrUnsupportedDB) {
		t.Fatalf("expected ErrUnsupportedDB, got %v", err)
	}
}

func TestNewStoreFromDSN_OpenError(t *testing.T) {
	prev := sqlOpenFunc
	sqlOpenFunc = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	defer func() { sqlOpenFunc = prev }()

	if _, err := NewStoreFromDSN("sqlite", ":memory:"); err == nil {
		t.Fatalf("expected open error")
	}
}

func TestNewStoreFromDSN_CreatesSQLiteDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	s, err := NewStoreFromDSN("sqlite", path)
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, err := s.Record(context.Background(), event("connecting", 1, time.Now())); err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	phases := []string{"connecting", "connected", "retrying", "connecting", "failed"}
	for i, p := range phases {
		id, err := s.Record(ctx, event(p, i, base.Add(time.Duration(i)*time.Second)))
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		if id != int64(i+1) {
			t.Fatalf("expected id %d, got %d", i+1, id)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].Phase != "failed" || got[1].Phase != "connecting" {
		t.Fatalf("unexpected recent events: %+v", got)
	}
	if !got[0].Timestamp.Equal(base.Add(4 * time.Second)) {
		t.Fatalf("timestamp not preserved: %v", got[0].Timestamp)
	}
	if got[0].Endpoint != "wss://example.test/feed" || got[0].Attempt != 4 {
		t.Fatalf("fields not preserved: %+v", got[0])
	}

	all, err := s.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent(0): %v", err)
	}
	if len(all) != len(phases) {
		t.Fatalf("expected %d events, got %d", len(phases), len(all))
	}
}

func TestEach_ChronologicalAndStops(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := s.Record(ctx, event(fmt.Sprintf("p%d", i), 0, time.Time{})); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	var seen []string
	if err := s.Each(ctx, func(ev model.ConnEvent) error {
		seen = append(seen, ev.Phase)
		return nil
	}); err != nil {
		t.Fatalf("Each: %v", err)
	}
	if fmt.Sprint(seen) != "[p0 p1 p2 p3]" {
		t.Fatalf("unexpected order %v", seen)
	}

	stop := errors.New("stop")
	count := 0
	err := s.Each(ctx, func(model.ConnEvent) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) || count != 2 {
		t.Fatalf("expected early stop after 2, got count=%d err=%v", count, err)
	}
}

func TestPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		if _, err := s.Record(ctx, event("connecting", i, time.Time{})); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	n, err := s.Prune(ctx, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 rows pruned, got %d", n)
	}
	left, _ := s.Recent(ctx, 0)
	if len(left) != 2 || left[0].Attempt != 5 || left[1].Attempt != 4 {
		t.Fatalf("unexpected survivors: %+v", left)
	}

	n, err = s.Prune(ctx, 10)
	if err != nil || n != 0 {
		t.Fatalf("pruning below keep should be a no-op, got n=%d err=%v", n, err)
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\n CREATE INDEX i ON a (x);\n")
	if len(got) != 2 || got[1] != "CREATE INDEX i ON a (x)" {
		t.Fatalf("unexpected split: %q", got)
	}
}

func TestIsMemoryDSN(t *testing.T) {
	cases := map[string]bool{
		":memory:":                             true,
		"file::memory:?cache=shared":           true,
		"file:test_x?mode=memory&cache=shared": true,
		"/var/lib/signwatch/journal.db":        false,
	}
	for dsn, want := range cases {
		if got := isMemoryDSN(dsn); got != want {
			t.Fatalf("isMemoryDSN(%q) = %v, want %v", dsn, got, want)
		}
	}
}
