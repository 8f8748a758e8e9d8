// Package orchestrator implements the turn cascade (spec §4.5): load a row, authenticate
// the mover, validate and apply one move, persist and publish, then loop AI turns until
// the next human is on move, the game ends, or the AI cascade budget expires.
package orchestrator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/seekerror/logw"

	"github.com/kestrelgames/boardhouse/internal/ai"
	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/events"
	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/chess"
	"github.com/kestrelgames/boardhouse/internal/store"
)

// DefaultCascadeTimeout bounds how long a single Move/Create call will keep applying AI
// replies before returning whatever has been persisted so far (spec §5 cancellation).
const DefaultCascadeTimeout = 5 * time.Second

// Orchestrator wires the store, event bus and AI registry singletons (constructed once in
// cmd/server/main.go's init phase, per the Design Notes) into the per-row cascade.
type Orchestrator struct {
	Store          store.Store
	Bus            events.Bus
	Registry       *ai.Registry
	CascadeTimeout time.Duration

	locks *rowLocks
}

// New constructs an Orchestrator with the given collaborators, defaulting the cascade
// timeout if unset.
func New(st store.Store, bus events.Bus, registry *ai.Registry) *Orchestrator {
	return &Orchestrator{
		Store:          st,
		Bus:            bus,
		Registry:       registry,
		CascadeTimeout: DefaultCascadeTimeout,
		locks:          newRowLocks(),
	}
}

// Create starts a new game row for kind from config, binds the given seats, and — should
// the very first mover be AI-controlled — runs the cascade immediately.
func (o *Orchestrator) Create(ctx context.Context, kind games.Kind, config json.RawMessage, participants []store.Participant) (*store.Row, error) {
	engine, err := games.EngineFor(kind)
	if err != nil {
		return nil, apperr.BadRequestf("%v", err)
	}
	state, err := engine.Initial(config)
	if err != nil {
		return nil, err
	}
	encoded, err := engine.EncodeState(state)
	if err != nil {
		return nil, apperr.Internalf("orchestrator: encode initial state: %v", err)
	}

	row := &store.Row{
		Kind:         kind,
		Status:       games.InProgress,
		CurrentTurn:  state.CurrentTurn(),
		State:        encoded,
		Participants: participants,
	}
	if err := o.Store.Create(ctx, row); err != nil {
		return nil, err
	}

	o.Bus.Publish(ctx, events.StreamKey(kind, row.ID.String()), events.Event{
		Type: events.Create, State: encoded, Status: games.InProgress, At: time.Now(),
	})

	if err := o.cascade(ctx, row, engine, state, games.InProgress); err != nil {
		return row, err
	}
	return row, nil
}

// Get fetches one row by id, verifying it belongs to kind.
func (o *Orchestrator) Get(ctx context.Context, kind games.Kind, id uuid.UUID) (*store.Row, error) {
	row, err := o.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Kind != kind {
		return nil, apperr.NotFoundf("no %s game %s", kind, id)
	}
	return row, nil
}

// List returns every in-progress row for kind.
func (o *Orchestrator) List(ctx context.Context, kind games.Kind) ([]*store.Row, error) {
	return o.Store.ListInProgress(ctx, kind)
}

// Delete removes a row by id, verifying it belongs to kind.
func (o *Orchestrator) Delete(ctx context.Context, kind games.Kind, id uuid.UUID) error {
	unlock := o.locks.lock(id)
	defer unlock()

	row, err := o.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	if row.Kind != kind {
		return apperr.NotFoundf("no %s game %s", kind, id)
	}
	return o.Store.Delete(ctx, id)
}

// Move applies one human move by principal and runs the resulting AI cascade (spec §4.5
// steps 1-6).
func (o *Orchestrator) Move(ctx context.Context, kind games.Kind, id uuid.UUID, principal string, moveRaw json.RawMessage) (*store.Row, error) {
	unlock := o.locks.lock(id)
	defer unlock()

	row, err := o.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Kind != kind {
		return nil, apperr.NotFoundf("no %s game %s", kind, id)
	}
	if row.Status.IsTerminal() {
		return nil, apperr.GameOverf("game %s is already over", id)
	}

	engine, err := games.EngineFor(row.Kind)
	if err != nil {
		return nil, apperr.Internalf("%v", err)
	}
	state, err := engine.DecodeState(row.State)
	if err != nil {
		return nil, apperr.Internalf("orchestrator: decode state: %v", err)
	}

	mover, ok := row.ParticipantFor(state.CurrentTurn())
	if !ok {
		return nil, apperr.Internalf("orchestrator: no participant bound to seat %q on game %s", state.CurrentTurn(), id)
	}
	if mover.Kind != "human" || mover.ID != principal {
		return nil, apperr.NotYourTurnf("it is not %s's turn", principal)
	}

	move, err := engine.ParseMove(moveRaw)
	if err != nil {
		return nil, err
	}

	newState, status, err := engine.Apply(state, move)
	if err != nil {
		return nil, err
	}

	if err := o.persist(ctx, row, engine, newState, status, events.Move, mover.ID, move); err != nil {
		return nil, err
	}

	if err := o.cascade(ctx, row, engine, newState, status); err != nil {
		return row, err
	}
	return row, nil
}

// Undo replays the stored history truncated per spec §4.5 (Chess only).
func (o *Orchestrator) Undo(ctx context.Context, id uuid.UUID, principal string) (*store.Row, error) {
	unlock := o.locks.lock(id)
	defer unlock()

	row, err := o.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Kind != games.Chess {
		return nil, apperr.BadRequestf("undo is only supported for chess games")
	}
	if _, ok := row.ParticipantByID(principal); !ok {
		return nil, apperr.Unauthorizedf("%s is not a participant in game %s", principal, id)
	}

	engine := chess.Engine{}
	state, err := engine.DecodeState(row.State)
	if err != nil {
		return nil, apperr.Internalf("orchestrator: decode state: %v", err)
	}

	plies := 1
	if row.HasAIParticipant() {
		plies = 2
	}

	undone, err := chess.Undo(state, plies)
	if err != nil {
		return nil, err
	}

	status := games.Status(undone.(chess.State).Status)
	if err := o.persist(ctx, row, engine, undone, status, events.Undo, principal, nil); err != nil {
		return nil, err
	}
	return row, nil
}

// cascade applies AI replies until the game ends, a human is on move, an AI fails to
// produce a move, or the cascade's wall-clock budget expires — in which case it commits
// whatever has been persisted so far and leaves the turn pointer untouched (spec §5).
func (o *Orchestrator) cascade(ctx context.Context, row *store.Row, engine games.Engine, state games.State, status games.Status) error {
	cctx, cancel := context.WithTimeout(ctx, o.CascadeTimeout)
	defer cancel()

	for !status.IsTerminal() {
		if cctx.Err() != nil {
			logw.Warningf(ctx, "orchestrator: cascade budget expired for game %s, leaving turn pointer untouched", row.ID)
			return nil
		}

		mover, ok := row.ParticipantFor(state.CurrentTurn())
		if !ok || mover.Kind != "ai" {
			return nil
		}

		strategy, ok := o.Registry.Lookup(row.Kind, mover.Name)
		if !ok {
			logw.Errorf(ctx, "orchestrator: no AI strategy %s:%s registered, leaving turn pointer untouched on game %s", row.Kind, mover.Name, row.ID)
			return nil
		}

		mv, err := strategy.SelectMove(cctx, state)
		if err != nil || mv == nil {
			logw.Errorf(ctx, "orchestrator: AI %s:%s produced no move for game %s: %v", row.Kind, mover.Name, row.ID, err)
			return nil
		}

		newState, newStatus, err := engine.Apply(state, mv)
		if err != nil {
			logw.Errorf(ctx, "orchestrator: AI %s:%s proposed an illegal move for game %s: %v", row.Kind, mover.Name, row.ID, err)
			return nil
		}
		state, status = newState, newStatus

		if err := o.persist(ctx, row, engine, state, status, events.Move, mover.ID, mv); err != nil {
			return err
		}
	}
	return nil
}

// persist encodes state into row, writes it through the store, and publishes the
// corresponding stream event strictly after the write succeeds (spec §5 lock discipline).
func (o *Orchestrator) persist(ctx context.Context, row *store.Row, engine games.Engine, state games.State, status games.Status, evType events.Type, by string, move games.Move) error {
	encoded, err := engine.EncodeState(state)
	if err != nil {
		return apperr.Internalf("orchestrator: encode state: %v", err)
	}
	row.State = encoded
	row.Status = status
	row.CurrentTurn = state.CurrentTurn()

	if err := o.Store.Update(ctx, row); err != nil {
		return err
	}

	var moveJSON json.RawMessage
	if move != nil {
		if b, err := json.Marshal(move); err == nil {
			moveJSON = b
		}
	}
	o.Bus.Publish(ctx, events.StreamKey(row.Kind, row.ID.String()), events.Event{
		Type: evType, By: by, Move: moveJSON, State: encoded, Status: status, At: time.Now(),
	})
	return nil
}
