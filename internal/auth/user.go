// Package auth issues and verifies the bearer tokens spec §6 requires on every mutating
// endpoint, and owns the player identity record spec §4's data model names separately from
// the game row: id, display name, kind, and (for humans) a credential hash.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kestrelgames/boardhouse/internal/apperr"
)

// User is a human player identity: a display name and a bcrypt password hash. AI
// identities are name-keyed into the ai.Registry instead and never get a User row.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:",pk,type:uuid,default:uuid_generate_v4()"`
	DisplayName  string    `bun:"display_name,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`

	CreatedAt *time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

var _ bun.BeforeAppendModelHook = (*User)(nil)

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	if _, ok := query.(*bun.InsertQuery); ok {
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		now := time.Now()
		u.CreatedAt = &now
	}
	return nil
}

// Store persists user identities, behind an interface so tests can use an in-memory fake
// the same way internal/store does for game rows.
type Store interface {
	Create(ctx context.Context, u *User) error
	FindByDisplayName(ctx context.Context, displayName string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// BunStore is the Postgres-backed Store, grounded on the same repository pattern as
// internal/store.BunStore.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Create(ctx context.Context, u *User) error {
	if _, err := s.db.NewInsert().Model(u).Exec(ctx); err != nil {
		return apperr.Internalf("auth: create user: %v", err)
	}
	return nil
}

func (s *BunStore) FindByDisplayName(ctx context.Context, displayName string) (*User, error) {
	u := new(User)
	if err := s.db.NewSelect().Model(u).Where("display_name = ?", displayName).Scan(ctx); err != nil {
		return nil, apperr.NotFoundf("no user %q", displayName)
	}
	return u, nil
}

func (s *BunStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u := new(User)
	if err := s.db.NewSelect().Model(u).Where("id = ?", id).Scan(ctx); err != nil {
		return nil, apperr.NotFoundf("no user %s", id)
	}
	return u, nil
}
