package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeapp/store-server/internal/auth"
	"github.com/storeapp/store-server/internal/domain"
	apperrors "github.com/storeapp/store-server/internal/errors"
	"github.com/storeapp/store-server/internal/store"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	return NewCatalog(store.NewMemory(nil), auth.RandomTokenSource{}, testLogger())
}

func assertCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestCreate_RejectsNonZeroID(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.Databases.Create(ctx, &domain.Database{ID: 7, Name: "Warehouse"})
	assertCode(t, err, apperrors.CodeValidation)

	// The store was never touched.
	all, err := c.Databases.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreate_DuplicateName(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	_, err := c.Databases.Create(ctx, &domain.Database{Name: "Warehouse"})
	require.NoError(t, err)

	_, err = c.Databases.Create(ctx, &domain.Database{Name: "Warehouse"})
	assertCode(t, err, apperrors.CodeConflict)
}

func TestCreateLocation_UnknownDatabase(t *testing.T) {
	c := newTestCatalog(t)

	for _, ref := range []int64{9999, 0} {
		_, err := c.Locations.Create(context.Background(), &domain.Location{Name: "Aisle 1", DatabaseID: ref})
		assertCode(t, err, apperrors.CodeNotFound)
		assert.Contains(t, err.Error(), "unknown database id")
	}
}

func TestCreateItem_UnknownLocation(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Items.Create(context.Background(), &domain.Item{Name: "Box", LocationID: 9999})
	assertCode(t, err, apperrors.CodeNotFound)
	assert.Contains(t, err.Error(), "unknown location id")
}

func TestCreateItem_UnknownTag(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	dbID, err := c.Databases.Create(ctx, &domain.Database{Name: "Warehouse"})
	require.NoError(t, err)
	locID, err := c.Locations.Create(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: dbID})
	require.NoError(t, err)

	_, err = c.Items.Create(ctx, &domain.Item{Name: "Box", LocationID: locID, Tags: []int64{9999}})
	assertCode(t, err, apperrors.CodeNotFound)
	assert.Contains(t, err.Error(), "unknown tag id")

	// Nothing was persisted.
	all, err := c.Items.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdate_MismatchedIDs(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	id, err := c.Databases.Create(ctx, &domain.Database{Name: "Warehouse"})
	require.NoError(t, err)

	err = c.Databases.Update(ctx, id, &domain.Database{ID: id + 1, Name: "Basement"})
	assertCode(t, err, apperrors.CodeValidation)

	// Unchanged.
	got, err := c.Databases.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", got.Name)
}

func TestUpdate_UnknownID(t *testing.T) {
	c := newTestCatalog(t)

	err := c.Databases.Update(context.Background(), 9999, &domain.Database{ID: 9999, Name: "Ghost"})
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestDeleteTag_ReferencedByItem(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	dbID, err := c.Databases.Create(ctx, &domain.Database{Name: "Warehouse"})
	require.NoError(t, err)
	locID, err := c.Locations.Create(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: dbID})
	require.NoError(t, err)
	tagID, err := c.Tags.Create(ctx, &domain.Tag{Name: "fragile"})
	require.NoError(t, err)
	itemID, err := c.Items.Create(ctx, &domain.Item{Name: "Box", LocationID: locID, Tags: []int64{tagID}})
	require.NoError(t, err)

	err = c.Tags.Delete(ctx, tagID)
	assertCode(t, err, apperrors.CodeConflict)
	assert.Contains(t, err.Error(), "item that depends on this tag")

	// Once the item is gone the tag can be deleted.
	require.NoError(t, c.Items.Delete(ctx, itemID))
	require.NoError(t, c.Tags.Delete(ctx, tagID))
}

func TestDelete_UnknownID(t *testing.T) {
	c := newTestCatalog(t)

	err := c.Tags.Delete(context.Background(), 9999)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestGet_UnknownID(t *testing.T) {
	c := newTestCatalog(t)

	_, err := c.Items.Get(context.Background(), 9999)
	assertCode(t, err, apperrors.CodeNotFound)
}
