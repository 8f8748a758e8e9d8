package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
)

// MemStore is an in-memory Store for tests and local development without a database,
// standing in for BunStore behind the same interface.
type MemStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*Row
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{rows: map[uuid.UUID]*Row{}}
}

func (m *MemStore) Create(ctx context.Context, row *Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	now := time.Now()
	row.CreatedAt, row.UpdatedAt = &now, &now
	cp := *row
	m.rows[row.ID] = &cp
	return nil
}

func (m *MemStore) Get(ctx context.Context, id uuid.UUID) (*Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, apperr.NotFoundf("game %s not found", id)
	}
	cp := *row
	return &cp, nil
}

func (m *MemStore) Update(ctx context.Context, row *Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[row.ID]; !ok {
		return apperr.NotFoundf("game %s not found", row.ID)
	}
	now := time.Now()
	row.UpdatedAt = &now
	cp := *row
	m.rows[row.ID] = &cp
	return nil
}

func (m *MemStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return apperr.NotFoundf("game %s not found", id)
	}
	delete(m.rows, id)
	return nil
}

func (m *MemStore) ListInProgress(ctx context.Context, kind games.Kind) ([]*Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Row
	for _, row := range m.rows {
		if row.Kind == kind && row.Status == games.InProgress {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemStore) DeleteAIBound(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, row := range m.rows {
		allAI := true
		for _, p := range row.Participants {
			if p.Kind != "ai" {
				allAI = false
				break
			}
		}
		if allAI {
			delete(m.rows, id)
		}
	}
	return nil
}
