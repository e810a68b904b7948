package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"
)

// sessionStore implements store.Sessions.
type sessionStore struct {
	s *Store
}

// Insert persists a new session. Returns store.ErrAlreadyExists if the token
// is already taken; the session manager regenerates and retries on that.
func (st sessionStore) Insert(ctx context.Context, sess *domain.Session) error {
	_, err := st.s.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id) VALUES (?, ?)`,
		sess.Token, sess.UserID)
	if err != nil {
		return constraintErr(err, store.ErrMissingParent)
	}
	return nil
}

// Get retrieves a session by token.
// Returns store.ErrNotFound if the token was never issued or was revoked.
func (st sessionStore) Get(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	err := st.s.db.QueryRowContext(ctx,
		`SELECT token, user_id FROM sessions WHERE token = ?`, token).
		Scan(&sess.Token, &sess.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// Delete revokes a session by token.
// Returns store.ErrNotFound if the session does not exist, so a second
// revocation of the same token fails rather than silently succeeding.
func (st sessionStore) Delete(ctx context.Context, token string) error {
	res, err := st.s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return err
	}
	return rowsAffected(res)
}
