package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
)

// Store is the persistence contract the orchestrator and HTTP layer depend on. Kept as a
// narrow interface (rather than a concrete *BunStore) so tests can substitute MemStore.
type Store interface {
	Create(ctx context.Context, row *Row) error
	Get(ctx context.Context, id uuid.UUID) (*Row, error)
	Update(ctx context.Context, row *Row) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListInProgress(ctx context.Context, kind games.Kind) ([]*Row, error)
	// DeleteAIBound removes every row whose participants are entirely AI-controlled, used
	// by RESET_DB_ON_STARTUP (spec §6 Environment).
	DeleteAIBound(ctx context.Context) error
}

// BunStore implements Store on top of a bun.DB (postgres via pgdialect/pgdriver), grounded
// on the donor's ExecutionRepository: Insert/Update/Select by primary key, Scan for reads,
// sql.ErrNoRows mapped to a typed not-found failure.
type BunStore struct {
	db *bun.DB
}

var _ Store = (*BunStore)(nil)

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

func (s *BunStore) Create(ctx context.Context, row *Row) error {
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return apperr.Internalf("store: create row: %v", err)
	}
	return nil
}

func (s *BunStore) Get(ctx context.Context, id uuid.UUID) (*Row, error) {
	row := &Row{}
	err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFoundf("game %s not found", id)
		}
		return nil, apperr.Internalf("store: get row %s: %v", id, err)
	}
	return row, nil
}

func (s *BunStore) Update(ctx context.Context, row *Row) error {
	res, err := s.db.NewUpdate().
		Model(row).
		Column("status", "current_turn", "state", "participants", "updated_at").
		Where("id = ?", row.ID).
		Exec(ctx)
	if err != nil {
		return apperr.Internalf("store: update row %s: %v", row.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("game %s not found", row.ID)
	}
	return nil
}

func (s *BunStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.NewDelete().Model((*Row)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return apperr.Internalf("store: delete row %s: %v", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFoundf("game %s not found", id)
	}
	return nil
}

func (s *BunStore) ListInProgress(ctx context.Context, kind games.Kind) ([]*Row, error) {
	var rows []*Row
	err := s.db.NewSelect().
		Model(&rows).
		Where("kind = ?", kind).
		Where("status = ?", games.InProgress).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, apperr.Internalf("store: list in-progress %s rows: %v", kind, err)
	}
	return rows, nil
}

func (s *BunStore) DeleteAIBound(ctx context.Context) error {
	// A row is AI-bound iff every participant has kind "ai"; jsonb containment can't express
	// a universal quantifier directly, so this negates the existential "any human seat".
	_, err := s.db.NewDelete().
		Model((*Row)(nil)).
		Where("NOT EXISTS (SELECT 1 FROM jsonb_array_elements(participants) AS p WHERE p->>'kind' = ?)", "human").
		Exec(ctx)
	if err != nil {
		return apperr.Internalf("store: delete ai-bound rows: %v", err)
	}
	return nil
}
