package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"
)

// tagStore implements store.Resources for tags.
type tagStore struct {
	s *Store
}

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t    domain.Tag
		icon sql.NullInt64
	)
	if err := scanner.Scan(&t.ID, &t.Name, &t.Color, &icon); err != nil {
		return nil, err
	}
	t.Icon = int64Ptr(icon)
	return &t, nil
}

// Insert inserts a new tag and returns its generated ID.
// Returns store.ErrAlreadyExists on a duplicate name.
func (t tagStore) Insert(ctx context.Context, v *domain.Tag) (int64, error) {
	id, err := t.s.insertReturningID(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tags (name, color, icon) VALUES (?, ?, ?)`,
			v.Name, v.Color, nullInt64Ptr(v.Icon))
		return err
	}, nil)
	if err != nil {
		return 0, constraintErr(err, store.ErrMissingParent)
	}
	return id, nil
}

// Get retrieves a tag by ID.
// Returns store.ErrNotFound if the tag does not exist.
func (t tagStore) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	row := t.s.db.QueryRowContext(ctx,
		`SELECT id, name, color, icon FROM tags WHERE id = ?`, id)

	v, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// List returns all tags in rowid order.
func (t tagStore) List(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := t.s.db.QueryContext(ctx,
		`SELECT id, name, color, icon FROM tags ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Tag
	for rows.Next() {
		v, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if out == nil {
		out = []*domain.Tag{}
	}
	return out, nil
}

// Update performs a full row update on an existing tag.
// Returns store.ErrNotFound if no row was affected.
func (t tagStore) Update(ctx context.Context, v *domain.Tag) error {
	res, err := t.s.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ?, icon = ? WHERE id = ?`,
		v.Name, v.Color, nullInt64Ptr(v.Icon), v.ID)
	if err != nil {
		return constraintErr(err, store.ErrMissingParent)
	}
	return rowsAffected(res)
}

// Delete removes a tag by ID. The item_tags constraint rejects the delete
// while items still reference the tag, surfaced as store.ErrInUse; the
// service layer additionally pre-checks via TagInUse for the friendlier
// conflict message.
func (t tagStore) Delete(ctx context.Context, id int64) error {
	res, err := t.s.db.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return constraintErr(err, store.ErrInUse)
	}
	return rowsAffected(res)
}
