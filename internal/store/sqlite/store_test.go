package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/storeapp/store-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// insertTestDatabase creates a catalog database row and returns its ID.
func insertTestDatabase(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.Databases().Insert(context.Background(), &domain.Database{Name: name})
	if err != nil {
		t.Fatalf("insert database %q: %v", name, err)
	}
	return id
}

// insertTestLocation creates a location row and returns its ID.
func insertTestLocation(t *testing.T, s *Store, name string, databaseID int64) int64 {
	t.Helper()
	id, err := s.Locations().Insert(context.Background(), &domain.Location{Name: name, DatabaseID: databaseID})
	if err != nil {
		t.Fatalf("insert location %q: %v", name, err)
	}
	return id
}

// insertTestTag creates a tag row and returns its ID.
func insertTestTag(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.Tags().Insert(context.Background(), &domain.Tag{Name: name, Color: 0xFF0000})
	if err != nil {
		t.Fatalf("insert tag %q: %v", name, err)
	}
	return id
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{
		"users", "sessions", "item_databases", "locations", "tags",
		"items", "item_tags", "item_properties", "item_attachments",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}
