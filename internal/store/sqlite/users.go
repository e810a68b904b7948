package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"
)

// userStore implements store.Users.
type userStore struct {
	s *Store
}

// Insert inserts a new user and returns its generated ID.
// Returns store.ErrAlreadyExists on a duplicate username.
func (u userStore) Insert(ctx context.Context, user *domain.User) (int64, error) {
	id, err := u.s.insertReturningID(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
			user.Username, user.PasswordHash)
		return err
	}, nil)
	if err != nil {
		return 0, constraintErr(err, store.ErrMissingParent)
	}
	return id, nil
}

// GetByUsername retrieves a user by username.
// Returns store.ErrNotFound if the user does not exist.
func (u userStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := u.s.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
