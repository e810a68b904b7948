package store

import (
	"context"
	"errors"
	"testing"

	"github.com/storeapp/store-server/internal/domain"
)

func TestMemoryInsert_AssignsRandomSmallID(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	id, err := m.Databases().Insert(ctx, &domain.Database{Name: "Warehouse"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id < 1 || id > 65535 {
		t.Errorf("id %d outside the expected range [1, 65535]", id)
	}

	got, err := m.Databases().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Warehouse" {
		t.Errorf("Name: got %q, want %q", got.Name, "Warehouse")
	}
}

func TestMemoryInsert_RetriesOnIDCollision(t *testing.T) {
	// A scripted ID source that repeats a taken ID before yielding a free one.
	seq := []int64{7, 7, 7, 8}
	i := 0
	m := NewMemory(func() int64 {
		id := seq[i%len(seq)]
		i++
		return id
	})
	ctx := context.Background()

	first, err := m.Databases().Insert(ctx, &domain.Database{Name: "one"})
	if err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if first != 7 {
		t.Fatalf("first id: got %d, want 7", first)
	}

	second, err := m.Databases().Insert(ctx, &domain.Database{Name: "two"})
	if err != nil {
		t.Fatalf("second Insert: %v", err)
	}
	if second != 8 {
		t.Fatalf("second id: got %d, want 8 after collision retries", second)
	}
}

func TestMemoryInsert_DuplicateName(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	if _, err := m.Tags().Insert(ctx, &domain.Tag{Name: "fragile"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	_, err := m.Tags().Insert(ctx, &domain.Tag{Name: "fragile"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemoryLocation_MissingDatabase(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	_, err := m.Locations().Insert(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: 9999})
	if !errors.Is(err, ErrMissingParent) {
		t.Fatalf("expected ErrMissingParent, got %v", err)
	}
}

func TestMemoryItem_MissingTag(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	dbID, err := m.Databases().Insert(ctx, &domain.Database{Name: "Warehouse"})
	if err != nil {
		t.Fatalf("insert database: %v", err)
	}
	locID, err := m.Locations().Insert(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: dbID})
	if err != nil {
		t.Fatalf("insert location: %v", err)
	}

	_, err = m.Items().Insert(ctx, &domain.Item{Name: "Box", LocationID: locID, Tags: []int64{9999}})
	if !errors.Is(err, ErrMissingParent) {
		t.Fatalf("expected ErrMissingParent, got %v", err)
	}
}

func TestMemoryDelete_InUse(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	dbID, err := m.Databases().Insert(ctx, &domain.Database{Name: "Warehouse"})
	if err != nil {
		t.Fatalf("insert database: %v", err)
	}
	locID, err := m.Locations().Insert(ctx, &domain.Location{Name: "Aisle 1", DatabaseID: dbID})
	if err != nil {
		t.Fatalf("insert location: %v", err)
	}
	tagID, err := m.Tags().Insert(ctx, &domain.Tag{Name: "fragile"})
	if err != nil {
		t.Fatalf("insert tag: %v", err)
	}
	itemID, err := m.Items().Insert(ctx, &domain.Item{Name: "Box", LocationID: locID, Tags: []int64{tagID}})
	if err != nil {
		t.Fatalf("insert item: %v", err)
	}

	if err := m.Databases().Delete(ctx, dbID); !errors.Is(err, ErrInUse) {
		t.Errorf("database delete: expected ErrInUse, got %v", err)
	}
	if err := m.Locations().Delete(ctx, locID); !errors.Is(err, ErrInUse) {
		t.Errorf("location delete: expected ErrInUse, got %v", err)
	}
	if err := m.Tags().Delete(ctx, tagID); !errors.Is(err, ErrInUse) {
		t.Errorf("tag delete: expected ErrInUse, got %v", err)
	}

	// After the item goes away the chain unwinds bottom-up.
	if err := m.Items().Delete(ctx, itemID); err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if err := m.Tags().Delete(ctx, tagID); err != nil {
		t.Errorf("delete tag after item removed: %v", err)
	}
	if err := m.Locations().Delete(ctx, locID); err != nil {
		t.Errorf("delete location after item removed: %v", err)
	}
	if err := m.Databases().Delete(ctx, dbID); err != nil {
		t.Errorf("delete database after location removed: %v", err)
	}
}

func TestMemoryGet_ReturnsCopy(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	id, err := m.Tags().Insert(ctx, &domain.Tag{Name: "fragile", Color: 1})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := m.Tags().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got.Name = "mutated"

	again, err := m.Tags().Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Name != "fragile" {
		t.Errorf("stored row was aliased by the caller: %q", again.Name)
	}
}

func TestMemoryUpdate_NotFound(t *testing.T) {
	m := NewMemory(nil)

	err := m.Databases().Update(context.Background(), &domain.Database{ID: 9999, Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemorySessions(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	if err := m.Sessions().Insert(ctx, &domain.Session{Token: "AAAAaaaa", UserID: 1}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := m.Sessions().Insert(ctx, &domain.Session{Token: "AAAAaaaa", UserID: 2}); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on token collision, got %v", err)
	}

	sess, err := m.Sessions().Get(ctx, "AAAAaaaa")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.UserID != 1 {
		t.Errorf("UserID: got %d, want 1", sess.UserID)
	}

	if err := m.Sessions().Delete(ctx, "AAAAaaaa"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Sessions().Delete(ctx, "AAAAaaaa"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second revoke, got %v", err)
	}
}
