package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/store"
)

func TestLocationInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dbID := insertTestDatabase(t, s, "Warehouse")

	id, err := s.Locations().Insert(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: dbID})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.Locations().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Aisle 1" {
		t.Errorf("Name: got %q, want %q", got.Name, "Aisle 1")
	}
	if got.DatabaseID != dbID {
		t.Errorf("DatabaseID: got %d, want %d", got.DatabaseID, dbID)
	}
}

func TestLocationInsert_MissingDatabase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Locations().Insert(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: 9999})
	if !errors.Is(err, store.ErrMissingParent) {
		t.Fatalf("expected ErrMissingParent, got %v", err)
	}

	// Nothing persisted.
	all, err := s.Locations().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected 0 locations, got %d", len(all))
	}
}

func TestLocationInsert_DuplicateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dbID := insertTestDatabase(t, s, "Warehouse")
	insertTestLocation(t, s, "Aisle 1", dbID)

	_, err := s.Locations().Insert(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: dbID})
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestLocationUpdate_MissingDatabase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dbID := insertTestDatabase(t, s, "Warehouse")
	id := insertTestLocation(t, s, "Aisle 1", dbID)

	err := s.Locations().Update(ctx, &domain.Location{ID: id, Name: "Aisle 1", DatabaseID: 9999})
	if !errors.Is(err, store.ErrMissingParent) {
		t.Fatalf("expected ErrMissingParent, got %v", err)
	}
}

func TestLocationDelete_InUse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dbID := insertTestDatabase(t, s, "Warehouse")
	locID := insertTestLocation(t, s, "Aisle 1", dbID)

	_, err := s.Items().Insert(ctx, &domain.Item{Name: "Box", LocationID: locID})
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}

	err = s.Locations().Delete(ctx, locID)
	if !errors.Is(err, store.ErrInUse) {
		t.Fatalf("expected ErrInUse, got %v", err)
	}
}
