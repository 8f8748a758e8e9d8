package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelgames/boardhouse/internal/apperr"
)

// MemStore is an in-memory Store for tests and local development, mirroring
// internal/store.MemStore's deep-copy-in/deep-copy-out discipline.
type MemStore struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]*User
	names map[string]uuid.UUID
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{byID: map[uuid.UUID]*User{}, names: map[string]uuid.UUID{}}
}

func (m *MemStore) Create(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.names[u.DisplayName]; exists {
		return apperr.BadRequestf("display name %q is already taken", u.DisplayName)
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt = &now

	cp := *u
	m.byID[u.ID] = &cp
	m.names[u.DisplayName] = u.ID
	return nil
}

func (m *MemStore) FindByDisplayName(ctx context.Context, displayName string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.names[displayName]
	if !ok {
		return nil, apperr.NotFoundf("no user %q", displayName)
	}
	cp := *m.byID[id]
	return &cp, nil
}

func (m *MemStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFoundf("no user %s", id)
	}
	cp := *u
	return &cp, nil
}
