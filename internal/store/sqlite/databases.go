package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"
)

// databaseStore implements store.Resources for databases.
type databaseStore struct {
	s *Store
}

// Insert inserts a new database and returns its generated ID.
// Returns store.ErrAlreadyExists on a duplicate name.
func (d databaseStore) Insert(ctx context.Context, v *domain.Database) (int64, error) {
	id, err := d.s.insertReturningID(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO item_databases (name) VALUES (?)`, v.Name)
		return err
	}, nil)
	if err != nil {
		return 0, constraintErr(err, store.ErrMissingParent)
	}
	return id, nil
}

// Get retrieves a database by ID.
// Returns store.ErrNotFound if the database does not exist.
func (d databaseStore) Get(ctx context.Context, id int64) (*domain.Database, error) {
	var v domain.Database
	err := d.s.db.QueryRowContext(ctx,
		`SELECT id, name FROM item_databases WHERE id = ?`, id).Scan(&v.ID, &v.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all databases in rowid order.
func (d databaseStore) List(ctx context.Context) ([]*domain.Database, error) {
	rows, err := d.s.db.QueryContext(ctx,
		`SELECT id, name FROM item_databases ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Database
	for rows.Next() {
		var v domain.Database
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if out == nil {
		out = []*domain.Database{}
	}
	return out, nil
}

// Update performs a full row update on an existing database.
// Returns store.ErrNotFound if no row was affected.
func (d databaseStore) Update(ctx context.Context, v *domain.Database) error {
	res, err := d.s.db.ExecContext(ctx,
		`UPDATE item_databases SET name = ? WHERE id = ?`, v.Name, v.ID)
	if err != nil {
		return constraintErr(err, store.ErrMissingParent)
	}
	return rowsAffected(res)
}

// Delete removes a database by ID. The schema rejects the delete while
// locations still reference the row, surfaced as store.ErrInUse.
func (d databaseStore) Delete(ctx context.Context, id int64) error {
	res, err := d.s.db.ExecContext(ctx,
		`DELETE FROM item_databases WHERE id = ?`, id)
	if err != nil {
		return constraintErr(err, store.ErrInUse)
	}
	return rowsAffected(res)
}
