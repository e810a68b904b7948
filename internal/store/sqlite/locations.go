package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"
)

// locationStore implements store.Resources for locations.
type locationStore struct {
	s *Store
}

// Insert inserts a new location and returns its generated ID.
// Returns store.ErrAlreadyExists on a duplicate name and
// store.ErrMissingParent when the referenced database does not exist.
func (l locationStore) Insert(ctx context.Context, v *domain.Location) (int64, error) {
	id, err := l.s.insertReturningID(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO locations (name, database_id) VALUES (?, ?)`,
			v.Name, v.DatabaseID)
		return err
	}, nil)
	if err != nil {
		return 0, constraintErr(err, store.ErrMissingParent)
	}
	return id, nil
}

// Get retrieves a location by ID.
// Returns store.ErrNotFound if the location does not exist.
func (l locationStore) Get(ctx context.Context, id int64) (*domain.Location, error) {
	var v domain.Location
	err := l.s.db.QueryRowContext(ctx,
		`SELECT id, name, database_id FROM locations WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.DatabaseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all locations in rowid order.
func (l locationStore) List(ctx context.Context) ([]*domain.Location, error) {
	rows, err := l.s.db.QueryContext(ctx,
		`SELECT id, name, database_id FROM locations ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Location
	for rows.Next() {
		var v domain.Location
		if err := rows.Scan(&v.ID, &v.Name, &v.DatabaseID); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if out == nil {
		out = []*domain.Location{}
	}
	return out, nil
}

// Update performs a full row update on an existing location.
// Returns store.ErrNotFound if no row was affected.
func (l locationStore) Update(ctx context.Context, v *domain.Location) error {
	res, err := l.s.db.ExecContext(ctx,
		`UPDATE locations SET name = ?, database_id = ? WHERE id = ?`,
		v.Name, v.DatabaseID, v.ID)
	if err != nil {
		return constraintErr(err, store.ErrMissingParent)
	}
	return rowsAffected(res)
}

// Delete removes a location by ID. The schema rejects the delete while items
// still reference the row, surfaced as store.ErrInUse.
func (l locationStore) Delete(ctx context.Context, id int64) error {
	res, err := l.s.db.ExecContext(ctx,
		`DELETE FROM locations WHERE id = ?`, id)
	if err != nil {
		return constraintErr(err, store.ErrInUse)
	}
	return rowsAffected(res)
}
