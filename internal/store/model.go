// Package store owns the game row: the sole authoritative record of each in-progress or
// finished game (spec §3 Data Model, §4.7). Rows are mutated only by the orchestrator,
// under a per-row logical lock (see internal/orchestrator); the store itself does no
// locking of its own beyond what the underlying database provides per-statement.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kestrelgames/boardhouse/internal/games"
)

// Participant is one seat's identity on a game row: a human (bearer-authenticated) or a
// named AI registry entry.
type Participant struct {
	ID   string `json:"id"`
	Kind string `json:"kind"` // "human" or "ai"
	// Seat is the engine-local seat tag this participant occupies, e.g. "x", "white", "p1".
	Seat string `json:"seat"`
	// Name is the AI registry name (for Kind == "ai"); empty for humans.
	Name string `json:"name,omitempty"`
}

// Row is the persisted record for one game instance (spec §3's "Game row"), modeled the
// way the execution/workflow tables are in the donor's bun repositories: a UUID primary
// key, timestamp mixin, and a jsonb payload column holding the game-specific document.
type Row struct {
	bun.BaseModel `bun:"table:game_rows,alias:gr"`

	ID           uuid.UUID       `bun:",pk,type:uuid,default:uuid_generate_v4()" json:"id"`
	Kind         games.Kind      `bun:"kind,notnull" json:"kind"`
	Status       games.Status    `bun:"status,notnull" json:"status"`
	CurrentTurn  string          `bun:"current_turn,notnull" json:"current_turn"`
	State        json.RawMessage `bun:"state,type:jsonb,notnull" json:"state"`
	Participants []Participant   `bun:"participants,type:jsonb,notnull" json:"participants"`

	CreatedAt *time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at,omitempty"`
}

var _ bun.BeforeAppendModelHook = (*Row)(nil)

func (r *Row) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now()
	switch query.(type) {
	case *bun.InsertQuery:
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		r.CreatedAt = &now
		r.UpdatedAt = &now
	case *bun.UpdateQuery:
		r.UpdatedAt = &now
	}
	return nil
}

// ParticipantFor returns the participant occupying seat, or false if no such seat exists
// on the row (a malformed configuration the orchestrator should treat as internal error).
func (r *Row) ParticipantFor(seat string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.Seat == seat {
			return p, true
		}
	}
	return Participant{}, false
}

// ParticipantByID returns the participant with the given id, or false if none is bound to
// this row (used to authorize operations, like undo, that aren't seat-specific).
func (r *Row) ParticipantByID(id string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// HasAIParticipant reports whether any seat on the row is AI-controlled.
func (r *Row) HasAIParticipant() bool {
	for _, p := range r.Participants {
		if p.Kind == "ai" {
			return true
		}
	}
	return false
}
