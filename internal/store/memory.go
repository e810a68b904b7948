package store

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/storeapp/store-server/internal/domain"
)

// Memory is a non-persistent Catalog implementation. It predates the SQLite
// store and survives as the demo variant and as the test double for the
// service layer.
//
// Every resource map is guarded by its own mutex, held for the duration of
// each access including whole-map iteration. Cross-kind checks (foreign keys,
// delete dependencies) run before the owning lock is taken, so at most one
// lock is ever held at a time.
type Memory struct {
	users     *memUsers
	sessions  *memSessions
	databases *memTable[*domain.Database]
	locations *memTable[*domain.Location]
	tags      *memTable[*domain.Tag]
	items     *memTable[*domain.Item]
}

// NewMemory creates an empty in-memory catalog. newID draws candidate
// resource IDs; pass nil for the default random small-integer source.
// Allocation regenerates on collision under the map lock, so IDs are unique
// per kind but not sequential.
func NewMemory(newID func() int64) *Memory {
	if newID == nil {
		newID = func() int64 { return rand.Int64N(65535) + 1 }
	}

	m := &Memory{
		users:    &memUsers{rows: make(map[int64]domain.User)},
		sessions: &memSessions{rows: make(map[string]domain.Session)},
	}

	m.databases = &memTable[*domain.Database]{
		rows:  make(map[int64]*domain.Database),
		newID: newID,
		clone: func(d *domain.Database) *domain.Database { c := *d; return &c },
		name:  func(d *domain.Database) string { return d.Name },
		setID: func(d *domain.Database, id int64) { d.ID = id },
	}
	m.locations = &memTable[*domain.Location]{
		rows:  make(map[int64]*domain.Location),
		newID: newID,
		clone: func(l *domain.Location) *domain.Location { c := *l; return &c },
		name:  func(l *domain.Location) string { return l.Name },
		setID: func(l *domain.Location, id int64) { l.ID = id },
	}
	m.tags = &memTable[*domain.Tag]{
		rows:  make(map[int64]*domain.Tag),
		newID: newID,
		clone: cloneTag,
		name:  func(t *domain.Tag) string { return t.Name },
		setID: func(t *domain.Tag, id int64) { t.ID = id },
	}
	m.items = &memTable[*domain.Item]{
		rows:  make(map[int64]*domain.Item),
		newID: newID,
		clone: cloneItem,
		name:  func(i *domain.Item) string { return i.Name },
		setID: func(i *domain.Item, id int64) { i.ID = id },
	}

	// Referential integrity mirrors the SQLite schema: parents must exist on
	// write, referenced rows refuse deletion.
	m.locations.beforeWrite = func(ctx context.Context, l *domain.Location) error {
		if !m.databases.exists(l.DatabaseID) {
			return ErrMissingParent
		}
		return nil
	}
	m.items.beforeWrite = func(ctx context.Context, i *domain.Item) error {
		if !m.locations.exists(i.LocationID) {
			return ErrMissingParent
		}
		for _, tagID := range i.Tags {
			if !m.tags.exists(tagID) {
				return ErrMissingParent
			}
		}
		return nil
	}
	m.databases.beforeDelete = func(ctx context.Context, id int64) error {
		if m.locations.any(func(l *domain.Location) bool { return l.DatabaseID == id }) {
			return ErrInUse
		}
		return nil
	}
	m.locations.beforeDelete = func(ctx context.Context, id int64) error {
		if m.items.any(func(i *domain.Item) bool { return i.LocationID == id }) {
			return ErrInUse
		}
		return nil
	}
	m.tags.beforeDelete = func(ctx context.Context, id int64) error {
		inUse, err := m.TagInUse(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return ErrInUse
		}
		return nil
	}

	return m
}

// Users implements Catalog.
func (m *Memory) Users() Users { return m.users }

// Sessions implements Catalog.
func (m *Memory) Sessions() Sessions { return m.sessions }

// Databases implements Catalog.
func (m *Memory) Databases() Resources[*domain.Database] { return m.databases }

// Locations implements Catalog.
func (m *Memory) Locations() Resources[*domain.Location] { return m.locations }

// Tags implements Catalog.
func (m *Memory) Tags() Resources[*domain.Tag] { return m.tags }

// Items implements Catalog.
func (m *Memory) Items() Resources[*domain.Item] { return m.items }

// TagInUse implements Catalog.
func (m *Memory) TagInUse(_ context.Context, tagID int64) (bool, error) {
	referenced := m.items.any(func(i *domain.Item) bool {
		for _, id := range i.Tags {
			if id == tagID {
				return true
			}
		}
		return false
	})
	return referenced, nil
}

// Close implements Catalog. There is nothing to release.
func (m *Memory) Close() error { return nil }

// memTable is one mutex-guarded resource map. T is the pointer type of the
// stored resource; rows are cloned on the way in and out so callers never
// alias stored state.
type memTable[T domain.Entity] struct {
	mu    sync.Mutex
	rows  map[int64]T
	newID func() int64

	clone func(T) T
	name  func(T) string
	setID func(T, int64)

	beforeWrite  func(ctx context.Context, v T) error
	beforeDelete func(ctx context.Context, id int64) error
}

// Insert implements Resources.
func (t *memTable[T]) Insert(ctx context.Context, v T) (int64, error) {
	if t.beforeWrite != nil {
		if err := t.beforeWrite(ctx, v); err != nil {
			return 0, err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for _, row := range t.rows {
		if t.name(row) == t.name(v) {
			return 0, ErrAlreadyExists
		}
	}

	// Draw random IDs until one is free.
	id := t.newID()
	for {
		if _, taken := t.rows[id]; !taken {
			break
		}
		id = t.newID()
	}

	stored := t.clone(v)
	t.setID(stored, id)
	t.rows[id] = stored
	return id, nil
}

// Get implements Resources.
func (t *memTable[T]) Get(_ context.Context, id int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return t.clone(row), nil
}

// List implements Resources.
func (t *memTable[T]) List(_ context.Context) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, t.clone(row))
	}
	return out, nil
}

// Update implements Resources.
func (t *memTable[T]) Update(ctx context.Context, v T) error {
	if t.beforeWrite != nil {
		if err := t.beforeWrite(ctx, v); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := v.EntityID()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	for rowID, row := range t.rows {
		if rowID != id && t.name(row) == t.name(v) {
			return ErrAlreadyExists
		}
	}

	t.rows[id] = t.clone(v)
	return nil
}

// Delete implements Resources.
func (t *memTable[T]) Delete(ctx context.Context, id int64) error {
	if t.beforeDelete != nil {
		if err := t.beforeDelete(ctx, id); err != nil {
			return err
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *memTable[T]) exists(id int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[id]
	return ok
}

func (t *memTable[T]) any(pred func(T) bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		if pred(row) {
			return true
		}
	}
	return false
}

// memUsers is the in-memory user table.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.User
}

// Insert implements Users.
func (u *memUsers) Insert(_ context.Context, user *domain.User) (int64, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, row := range u.rows {
		if row.Username == user.Username {
			return 0, ErrAlreadyExists
		}
	}

	u.nextID++
	stored := *user
	stored.ID = u.nextID
	u.rows[stored.ID] = stored
	return stored.ID, nil
}

// GetByUsername implements Users.
func (u *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, row := range u.rows {
		if row.Username == username {
			c := row
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// memSessions is the in-memory session registry.
type memSessions struct {
	mu   sync.Mutex
	rows map[string]domain.Session
}

// Insert implements Sessions.
func (s *memSessions) Insert(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.rows[sess.Token]; taken {
		return ErrAlreadyExists
	}
	s.rows[sess.Token] = *sess
	return nil
}

// Get implements Sessions.
func (s *memSessions) Get(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.rows[token]
	if !ok {
		return nil, ErrNotFound
	}
	c := sess
	return &c, nil
}

// Delete implements Sessions.
func (s *memSessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[token]; !ok {
		return ErrNotFound
	}
	delete(s.rows, token)
	return nil
}

func cloneTag(t *domain.Tag) *domain.Tag {
	c := *t
	if t.Icon != nil {
		icon := *t.Icon
		c.Icon = &icon
	}
	return &c
}

func cloneItem(i *domain.Item) *domain.Item {
	c := *i
	c.Tags = append([]int64(nil), i.Tags...)
	c.PropertiesInternal = cloneProperties(i.PropertiesInternal)
	c.PropertiesCustom = cloneProperties(i.PropertiesCustom)
	if i.Attachments != nil {
		c.Attachments = make(map[string]string, len(i.Attachments))
		for name, ref := range i.Attachments {
			c.Attachments[name] = ref
		}
	}
	return &c
}

func cloneProperties(props []domain.Property) []domain.Property {
	if props == nil {
		return nil
	}
	out := make([]domain.Property, len(props))
	for i, p := range props {
		out[i] = p
		if p.DisplayType != nil {
			dt := *p.DisplayType
			out[i].DisplayType = &dt
		}
		if p.Min != nil {
			v := *p.Min
			out[i].Min = &v
		}
		if p.Max != nil {
			v := *p.Max
			out[i].Max = &v
		}
	}
	return out
}
