// Package games defines the shared rule-engine contract implemented once per game kind
// under internal/games/<kind>. Each kind's engine is a pure state-transition function:
// no I/O, no locking, safe to call from the orchestrator or from a search core.
package games

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a game variant served by the platform.
type Kind string

const (
	TicTacToe Kind = "tictactoe"
	Connect4  Kind = "connect4"
	Chess     Kind = "chess"
	Santorini Kind = "santorini"
	Nim       Kind = "nim"
	Wythoff   Kind = "wythoff"
	Azul      Kind = "azul"
)

// Status is either InProgress or a terminal tag, e.g. "white_won", "draw", "stalemate".
type Status string

const (
	InProgress Status = "in_progress"
	Draw       Status = "draw"
)

func (s Status) IsTerminal() bool {
	return s != InProgress
}

// State is an opaque, JSON-round-trippable game state. CurrentTurn identifies the seat
// (not a player id) whose move it is, e.g. "x"/"o", "white"/"black", "p1"/"p2".
type State interface {
	CurrentTurn() string
}

// Move is an opaque, JSON-round-trippable move descriptor. Implementations should have a
// readable String() for logging and event payloads.
type Move interface {
	fmt.Stringer
}

// Engine is the per-game-kind rule engine contract (spec §4.1).
type Engine interface {
	// Initial returns a deterministic initial state for the given configuration.
	Initial(config json.RawMessage) (State, error)
	// LegalMoves returns every legal move at state.CurrentTurn(). Empty iff the mover has
	// no move (semantics are game-dependent: loss for Santorini, draw-adjudication point
	// for Azul-adjacent combinatorial games).
	LegalMoves(s State) []Move
	// Apply validates and applies a move, returning the resulting state and status, or a
	// typed failure if the move is illegal.
	Apply(s State, m Move) (State, Status, error)
	// Clone returns a deep structural copy of s suitable for search.
	Clone(s State) State
	// ParseMove decodes a move descriptor from its wire JSON form.
	ParseMove(raw json.RawMessage) (Move, error)
	// EncodeState and DecodeState round-trip a state through its persisted JSON form.
	EncodeState(s State) (json.RawMessage, error)
	DecodeState(raw json.RawMessage) (State, error)
}
