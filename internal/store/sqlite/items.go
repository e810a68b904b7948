package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"
)

// Property scopes. Internal and custom properties are two disjoint lists that
// share one table, discriminated by this column.
const (
	scopeInternal = "internal"
	scopeCustom   = "custom"
)

// itemStore implements store.Resources for items.
//
// An item spans four tables: the items row plus item_tags, item_properties
// and item_attachments child rows. Writes touch all of them inside one
// transaction; reads reassemble the item from all four.
type itemStore struct {
	s *Store
}

// Insert inserts a new item with all child rows and returns its generated ID.
// Returns store.ErrAlreadyExists on a duplicate name and
// store.ErrMissingParent when the location or a tag does not exist.
func (i itemStore) Insert(ctx context.Context, v *domain.Item) (int64, error) {
	id, err := i.s.insertReturningID(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (name, description, image, location_id, amount, last_edited, created)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			v.Name, v.Description, v.Image, v.LocationID, v.Amount, v.LastEdited, v.Created)
		return err
	}, func(tx *sql.Tx, id int64) error {
		return insertItemChildren(ctx, tx, id, v)
	})
	if err != nil {
		return 0, constraintErr(err, store.ErrMissingParent)
	}
	return id, nil
}

// Get retrieves an item by ID, including tags, properties and attachments.
// Returns store.ErrNotFound if the item does not exist.
func (i itemStore) Get(ctx context.Context, id int64) (*domain.Item, error) {
	var v domain.Item
	err := i.s.db.QueryRowContext(ctx, `
		SELECT id, name, description, image, location_id, amount, last_edited, created
		FROM items WHERE id = ?`, id).
		Scan(&v.ID, &v.Name, &v.Description, &v.Image, &v.LocationID, &v.Amount, &v.LastEdited, &v.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := i.loadChildren(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all items in rowid order, each with its child rows.
func (i itemStore) List(ctx context.Context) ([]*domain.Item, error) {
	rows, err := i.s.db.QueryContext(ctx, `
		SELECT id, name, description, image, location_id, amount, last_edited, created
		FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Item
	for rows.Next() {
		var v domain.Item
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Image, &v.LocationID, &v.Amount, &v.LastEdited, &v.Created); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, v := range out {
		if err := i.loadChildren(ctx, v); err != nil {
			return nil, err
		}
	}

	if out == nil {
		out = []*domain.Item{}
	}
	return out, nil
}

// Update performs a full row update on an existing item, replacing all child
// rows, inside one transaction. Returns store.ErrNotFound if the items row
// does not exist.
func (i itemStore) Update(ctx context.Context, v *domain.Item) error {
	tx, err := i.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE items SET name = ?, description = ?, image = ?, location_id = ?,
			amount = ?, last_edited = ?, created = ?
		WHERE id = ?`,
		v.Name, v.Description, v.Image, v.LocationID, v.Amount, v.LastEdited, v.Created, v.ID)
	if err != nil {
		return constraintErr(err, store.ErrMissingParent)
	}
	if err := rowsAffected(res); err != nil {
		return err
	}

	// Replace child rows with the new set.
	for _, table := range []string{"item_tags", "item_properties", "item_attachments"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE item_id = ?`, v.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertItemChildren(ctx, tx, v.ID, v); err != nil {
		return constraintErr(err, store.ErrMissingParent)
	}

	return tx.Commit()
}

// Delete removes an item by ID. Child rows cascade.
func (i itemStore) Delete(ctx context.Context, id int64) error {
	res, err := i.s.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return constraintErr(err, store.ErrInUse)
	}
	return rowsAffected(res)
}

// insertItemChildren inserts tag references, properties and attachments for
// an item within the given transaction.
func insertItemChildren(ctx context.Context, tx *sql.Tx, itemID int64, v *domain.Item) error {
	for _, tagID := range v.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_tags (item_id, tag_id) VALUES (?, ?)`, itemID, tagID); err != nil {
			return err
		}
	}

	for scope, props := range map[string][]domain.Property{
		scopeInternal: v.PropertiesInternal,
		scopeCustom:   v.PropertiesCustom,
	} {
		for _, p := range props {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO item_properties (item_id, scope, name, value, display_type, min, max)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				itemID, scope, p.Name, p.Value, nullStringPtr(p.DisplayType), nullInt64Ptr(p.Min), nullInt64Ptr(p.Max)); err != nil {
				return err
			}
		}
	}

	for name, ref := range v.Attachments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_attachments (item_id, name, ref) VALUES (?, ?, ?)`, itemID, name, ref); err != nil {
			return err
		}
	}

	return nil
}

// loadChildren populates tags, properties and attachments on an item.
func (i itemStore) loadChildren(ctx context.Context, v *domain.Item) error {
	tags, err := i.loadTags(ctx, v.ID)
	if err != nil {
		return err
	}
	v.Tags = tags

	internal, custom, err := i.loadProperties(ctx, v.ID)
	if err != nil {
		return err
	}
	v.PropertiesInternal = internal
	v.PropertiesCustom = custom

	attachments, err := i.loadAttachments(ctx, v.ID)
	if err != nil {
		return err
	}
	v.Attachments = attachments

	return nil
}

func (i itemStore) loadTags(ctx context.Context, itemID int64) ([]int64, error) {
	rows, err := i.s.db.QueryContext(ctx,
		`SELECT tag_id FROM item_tags WHERE item_id = ? ORDER BY tag_id ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []int64{}
	for rows.Next() {
		var tagID int64
		if err := rows.Scan(&tagID); err != nil {
			return nil, err
		}
		tags = append(tags, tagID)
	}
	return tags, rows.Err()
}

func (i itemStore) loadProperties(ctx context.Context, itemID int64) (internal, custom []domain.Property, err error) {
	rows, err := i.s.db.QueryContext(ctx, `
		SELECT id, scope, name, value, display_type, min, max
		FROM item_properties WHERE item_id = ? ORDER BY id ASC`, itemID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	internal, custom = []domain.Property{}, []domain.Property{}
	for rows.Next() {
		var (
			p           domain.Property
			scope       string
			displayType sql.NullString
			min, max    sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &scope, &p.Name, &p.Value, &displayType, &min, &max); err != nil {
			return nil, nil, err
		}
		p.DisplayType = stringPtr(displayType)
		p.Min = int64Ptr(min)
		p.Max = int64Ptr(max)

		if scope == scopeInternal {
			internal = append(internal, p)
		} else {
			custom = append(custom, p)
		}
	}
	return internal, custom, rows.Err()
}

func (i itemStore) loadAttachments(ctx context.Context, itemID int64) (map[string]string, error) {
	rows, err := i.s.db.QueryContext(ctx,
		`SELECT name, ref FROM item_attachments WHERE item_id = ?`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := map[string]string{}
	for rows.Next() {
		var name, ref string
		if err := rows.Scan(&name, &ref); err != nil {
			return nil, err
		}
		attachments[name] = ref
	}
	return attachments, rows.Err()
}
