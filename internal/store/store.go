// Package store defines the persistence contract for the StoRe catalog and
// provides an in-memory implementation. The durable implementation lives in
// the sqlite subpackage.
package store

import (
	"context"
	"errors"

	"github.com/storeapp/store-server/internal/domain"
)

// Sentinel errors returned by store implementations. The service layer maps
// these onto the API error taxonomy; nothing below this package should leak
// driver error text to a client.
var (
	// ErrNotFound is returned when a row does not exist. Updates and deletes
	// that affect zero rows report it too, so a no-op update is not
	// distinguished from a missing row.
	ErrNotFound = errors.New("store: not found")

	// ErrAlreadyExists is returned on a uniqueness violation, either a
	// duplicate resource name or a duplicate session token.
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrMissingParent is returned when an insert or update references a
	// parent row that does not exist.
	ErrMissingParent = errors.New("store: missing parent")

	// ErrInUse is returned when a delete is blocked because other rows still
	// reference the row.
	ErrInUse = errors.New("store: in use")
)

// Resources is the CRUD surface for one resource kind. T is the pointer type
// of a domain resource (e.g. *domain.Tag).
//
// Insert persists v and returns the server-assigned ID; the insert and the
// ID readback are atomic with respect to concurrent inserts. Update and
// Delete return ErrNotFound when no row was affected.
type Resources[T domain.Entity] interface {
	Insert(ctx context.Context, v T) (int64, error)
	Get(ctx context.Context, id int64) (T, error)
	List(ctx context.Context) ([]T, error)
	Update(ctx context.Context, v T) error
	Delete(ctx context.Context, id int64) error
}

// Users is the read surface for user accounts.
type Users interface {
	Insert(ctx context.Context, u *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Sessions is the persistence surface for issued session tokens.
// Insert returns ErrAlreadyExists on a token collision so the caller can
// draw a fresh token and retry.
type Sessions interface {
	Insert(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// Catalog bundles every store surface behind one handle.
type Catalog interface {
	Users() Users
	Sessions() Sessions
	Databases() Resources[*domain.Database]
	Locations() Resources[*domain.Location]
	Tags() Resources[*domain.Tag]
	Items() Resources[*domain.Item]

	// TagInUse reports whether any item currently references the tag.
	TagInUse(ctx context.Context, tagID int64) (bool, error)

	Close() error
}
