package service

import (
	"context"
	"log/slog"

	"github.com/storeapp/store-server/internal/domain"
	apperrors "github.com/storeapp/store-server/internal/errors"
	"github.com/storeapp/store-server/internal/store"
)

// Resource applies the shared CRUD protocol for one resource kind: IDs are
// server-assigned, declared references are checked before writes, store
// constraint failures are classified into the API error taxonomy. The four
// catalog kinds are instances of this one type rather than four hand-written
// services.
type Resource[T domain.Entity] struct {
	kind   string
	store  store.Resources[T]
	logger *slog.Logger

	// checkRefs validates declared foreign-key references before a write and
	// returns a not-found error naming the missing dependency.
	checkRefs func(ctx context.Context, v T) error

	// beforeDelete rejects deletes that would orphan dependents when the
	// check lives in the application rather than the schema (tags only).
	beforeDelete func(ctx context.Context, id int64) error
}

// NewResource creates the CRUD service for one resource kind.
func NewResource[T domain.Entity](kind string, st store.Resources[T], logger *slog.Logger) *Resource[T] {
	return &Resource[T]{kind: kind, store: st, logger: logger}
}

// WithRefCheck sets the pre-write reference check hook.
func (r *Resource[T]) WithRefCheck(check func(ctx context.Context, v T) error) *Resource[T] {
	r.checkRefs = check
	return r
}

// WithDeleteCheck sets the pre-delete dependency check hook.
func (r *Resource[T]) WithDeleteCheck(check func(ctx context.Context, id int64) error) *Resource[T] {
	r.beforeDelete = check
	return r
}

// Create validates and persists a new resource, returning its assigned ID.
// A caller-supplied non-zero ID is rejected before any store access.
func (r *Resource[T]) Create(ctx context.Context, v T) (int64, error) {
	if v.EntityID() != 0 {
		return 0, apperrors.Validationf("%s id must be 0", r.kind)
	}
	if r.checkRefs != nil {
		if err := r.checkRefs(ctx, v); err != nil {
			return 0, err
		}
	}

	id, err := r.store.Insert(ctx, v)
	if err != nil {
		return 0, r.classify(err)
	}
	return id, nil
}

// Get retrieves a resource by ID.
func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	v, err := r.store.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, r.classify(err)
	}
	return v, nil
}

// List returns all resources of this kind in store-default order.
func (r *Resource[T]) List(ctx context.Context) ([]T, error) {
	out, err := r.store.List(ctx)
	if err != nil {
		return nil, r.classify(err)
	}
	return out, nil
}

// Update replaces an existing resource. The ID in the request path and in
// the payload must match. An update affecting zero rows reports not-found,
// whether the row never existed or the update was a true no-op.
func (r *Resource[T]) Update(ctx context.Context, pathID int64, v T) error {
	if v.EntityID() != pathID {
		return apperrors.Validationf("the %s ids don't match", r.kind)
	}
	if r.checkRefs != nil {
		if err := r.checkRefs(ctx, v); err != nil {
			return err
		}
	}

	if err := r.store.Update(ctx, v); err != nil {
		return r.classify(err)
	}
	return nil
}

// Delete removes a resource by ID.
func (r *Resource[T]) Delete(ctx context.Context, id int64) error {
	if r.beforeDelete != nil {
		if err := r.beforeDelete(ctx, id); err != nil {
			return err
		}
	}

	if err := r.store.Delete(ctx, id); err != nil {
		return r.classify(err)
	}
	return nil
}

// classify maps store sentinels onto the API error taxonomy. Unrecognized
// failures are logged in full and reported as internal with the detail
// stripped, so storage internals never reach a client.
func (r *Resource[T]) classify(err error) error {
	switch {
	case apperrors.Is(err, store.ErrNotFound):
		return apperrors.NotFoundf("%s not found", r.kind)
	case apperrors.Is(err, store.ErrAlreadyExists):
		return apperrors.Conflictf("there already is a %s with this name", r.kind)
	case apperrors.Is(err, store.ErrMissingParent):
		return apperrors.NotFoundf("unknown %s dependency id", r.kind)
	case apperrors.Is(err, store.ErrInUse):
		return apperrors.Conflictf("there is a resource that depends on this %s", r.kind)
	default:
		r.logger.Error("store operation failed", "kind", r.kind, "error", err)
		return apperrors.Wrapf(err, apperrors.CodeInternal, "%s storage failure", r.kind)
	}
}
