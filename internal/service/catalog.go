package service

import (
	"context"
	"log/slog"

	"github.com/storeapp/store-server/internal/auth"
	"github.com/storeapp/store-server/internal/domain"
	apperrors "github.com/storeapp/store-server/internal/errors"
	"github.com/storeapp/store-server/internal/store"
)

// Catalog bundles the session manager and the four resource services over
// one store.
type Catalog struct {
	Auth      *AuthService
	Databases *Resource[*domain.Database]
	Locations *Resource[*domain.Location]
	Tags      *Resource[*domain.Tag]
	Items     *Resource[*domain.Item]
}

// NewCatalog wires the services over the given store.
//
// Reference checks: a location must name an existing database, an item must
// name an existing location and only existing tags. Tag deletion is blocked
// while any item references the tag; database and location deletion instead
// rely on the store's referential constraint, so those conflicts surface
// from the delete itself.
func NewCatalog(cat store.Catalog, source auth.TokenSource, logger *slog.Logger) *Catalog {
	c := &Catalog{
		Auth:      NewAuthService(cat.Users(), cat.Sessions(), source, logger),
		Databases: NewResource("database", cat.Databases(), logger),
	}

	c.Locations = NewResource("location", cat.Locations(), logger).
		WithRefCheck(func(ctx context.Context, l *domain.Location) error {
			return checkParent(ctx, cat.Databases(), l.DatabaseID, "unknown database id", logger)
		})

	c.Tags = NewResource("tag", cat.Tags(), logger).
		WithDeleteCheck(func(ctx context.Context, id int64) error {
			inUse, err := cat.TagInUse(ctx, id)
			if err != nil {
				logger.Error("tag dependency check failed", "tag_id", id, "error", err)
				return apperrors.Wrap(err, apperrors.CodeInternal, "tag dependency check failed")
			}
			if inUse {
				return apperrors.Conflict("there is an item that depends on this tag")
			}
			return nil
		})

	c.Items = NewResource("item", cat.Items(), logger).
		WithRefCheck(func(ctx context.Context, i *domain.Item) error {
			if err := checkParent(ctx, cat.Locations(), i.LocationID, "unknown location id", logger); err != nil {
				return err
			}
			for _, tagID := range i.Tags {
				if err := checkParent(ctx, cat.Tags(), tagID, "unknown tag id", logger); err != nil {
					return err
				}
			}
			return nil
		})

	return c
}

// checkParent verifies that a referenced row exists, translating absence
// into a not-found error carrying the given message.
func checkParent[T domain.Entity](ctx context.Context, st store.Resources[T], id int64, missing string, logger *slog.Logger) error {
	_, err := st.Get(ctx, id)
	if apperrors.Is(err, store.ErrNotFound) {
		return apperrors.NotFound(missing)
	}
	if err != nil {
		logger.Error("reference check failed", "id", id, "error", err)
		return apperrors.Wrap(err, apperrors.CodeInternal, "reference check failed")
	}
	return nil
}
