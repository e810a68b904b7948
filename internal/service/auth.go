// Package service contains the business logic of the StoRe server: the
// session manager and the per-kind catalog resource services.
package service

import (
	"context"
	"log/slog"

	"github.com/storeapp/store-server/internal/auth"
	"github.com/storeapp/store-server/internal/domain"
	apperrors "github.com/storeapp/store-server/internal/errors"
	"github.com/storeapp/store-server/internal/store"
)

// AuthService issues, validates and revokes session tokens.
type AuthService struct {
	users    store.Users
	sessions store.Sessions
	source   auth.TokenSource
	alphabet string
	length   int
	logger   *slog.Logger
}

// NewAuthService creates a session manager over the given stores.
func NewAuthService(users store.Users, sessions store.Sessions, source auth.TokenSource, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		source:   source,
		alphabet: auth.TokenAlphabet,
		length:   auth.TokenLength,
		logger:   logger,
	}
}

// Login verifies the credentials and issues a new session token.
//
// Unknown username and wrong password report the same invalid-credentials
// error. Token issuance draws random tokens until the persistence insert
// succeeds; a uniqueness violation means another session holds the token, so
// the loop draws again. No lock is held across retries, and any other store
// failure aborts the call.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if apperrors.Is(err, store.ErrNotFound) {
		return "", apperrors.ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Error("user lookup failed", "username", username, "error", err)
		return "", apperrors.Wrap(err, apperrors.CodeInternal, "user lookup failed")
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", apperrors.ErrInvalidCredentials
	}

	for {
		token, err := s.source.Generate(s.alphabet, s.length)
		if err != nil {
			return "", apperrors.Wrap(err, apperrors.CodeInternal, "token generation failed")
		}

		err = s.sessions.Insert(ctx, &domain.Session{Token: token, UserID: user.ID})
		if err == nil {
			s.logger.Info("session issued", "user_id", user.ID)
			return token, nil
		}
		if !apperrors.Is(err, store.ErrAlreadyExists) {
			s.logger.Error("session insert failed", "user_id", user.ID, "error", err)
			return "", apperrors.Wrap(err, apperrors.CodeInternal, "session insert failed")
		}
		// Token collision: draw a fresh one and try again.
	}
}

// Validate resolves a token to its session.
//
// A malformed token (wrong length, non-alphanumeric bytes) is rejected
// before the store is consulted. An unknown token reports invalid-session
// with no distinction between forged, revoked and never issued.
func (s *AuthService) Validate(ctx context.Context, token string) (*domain.Session, error) {
	if !auth.ValidToken(token, s.length) {
		return nil, apperrors.Validation("invalid characters in session id")
	}

	sess, err := s.sessions.Get(ctx, token)
	if apperrors.Is(err, store.ErrNotFound) {
		return nil, apperrors.ErrInvalidSession
	}
	if err != nil {
		s.logger.Error("session lookup failed", "error", err)
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "session lookup failed")
	}
	return sess, nil
}

// Logout revokes a session token. Revoking a token that is not currently
// valid (including one already revoked) fails with invalid-session; nothing
// is mutated in that case.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if !auth.ValidToken(token, s.length) {
		return apperrors.Validation("invalid characters in session id")
	}

	err := s.sessions.Delete(ctx, token)
	if apperrors.Is(err, store.ErrNotFound) {
		return apperrors.ErrInvalidSession
	}
	if err != nil {
		s.logger.Error("session delete failed", "error", err)
		return apperrors.Wrap(err, apperrors.CodeInternal, "session delete failed")
	}
	return nil
}
