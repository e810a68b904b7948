// Package sqlite provides the SQLite-backed catalog store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for the StoRe server.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, and applies the schema.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Users implements store.Catalog.
func (s *Store) Users() store.Users { return userStore{s} }

// Sessions implements store.Catalog.
func (s *Store) Sessions() store.Sessions { return sessionStore{s} }

// Databases implements store.Catalog.
func (s *Store) Databases() store.Resources[*domain.Database] { return databaseStore{s} }

// Locations implements store.Catalog.
func (s *Store) Locations() store.Resources[*domain.Location] { return locationStore{s} }

// Tags implements store.Catalog.
func (s *Store) Tags() store.Resources[*domain.Tag] { return tagStore{s} }

// Items implements store.Catalog.
func (s *Store) Items() store.Resources[*domain.Item] { return itemStore{s} }

// TagInUse implements store.Catalog.
func (s *Store) TagInUse(ctx context.Context, tagID int64) (bool, error) {
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM item_tags WHERE tag_id = ?)`, tagID).Scan(&inUse)
	if err != nil {
		return false, err
	}
	return inUse, nil
}

// insertReturningID runs insert inside a transaction, reads back the
// generated row ID within the same transaction, optionally runs then with
// that ID (child-row inserts), and commits. If any step fails the whole
// insert is rolled back and no partial row is visible.
func (s *Store) insertReturningID(ctx context.Context, insert func(*sql.Tx) error, then func(*sql.Tx, int64) error) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insert(tx); err != nil {
		return 0, err
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT last_insert_rowid()`).Scan(&id); err != nil {
		return 0, fmt.Errorf("read generated id: %w", err)
	}

	if then != nil {
		if err := then(tx, id); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// constraintErr maps driver constraint failures onto store sentinels.
// onFK is the sentinel a foreign key failure maps to: store.ErrMissingParent
// for inserts and updates, store.ErrInUse for deletes. Anything unrecognized
// passes through untouched and ends up classified as internal.
func constraintErr(err error, onFK error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return onFK
	}
	return err
}

// rowsAffected converts a zero-row result into store.ErrNotFound.
func rowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// nullInt64Ptr returns a sql.NullInt64 from an *int64.
func nullInt64Ptr(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// nullStringPtr returns a sql.NullString from a *string.
func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// int64Ptr returns an *int64 from a sql.NullInt64.
func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

// stringPtr returns a *string from a sql.NullString.
func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
