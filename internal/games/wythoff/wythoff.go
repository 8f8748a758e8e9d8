// Package wythoff implements Wythoff's game: remove any positive amount from one pile, or
// the same positive amount from both; the player taking the last object wins (normal play).
package wythoff

import (
	"encoding/json"
	"fmt"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
)

// State is the pair (A, B) of pile sizes plus the seat to move.
type State struct {
	A    int    `json:"a"`
	B    int    `json:"b"`
	Turn string `json:"turn"`
}

func (s State) CurrentTurn() string { return s.Turn }

// MoveKind distinguishes a single-pile removal from a diagonal (both-pile) removal.
type MoveKind string

const (
	Single   MoveKind = "single"
	Diagonal MoveKind = "diagonal"
)

// Move removes Count from Pile ("a" or "b") if Kind is Single, or Count from both piles
// if Kind is Diagonal (Pile is then ignored).
type Move struct {
	Kind  MoveKind `json:"kind"`
	Pile  string   `json:"pile,omitempty"`
	Count int      `json:"count"`
}

func (m Move) String() string {
	if m.Kind == Diagonal {
		return fmt.Sprintf("diagonal -%d", m.Count)
	}
	return fmt.Sprintf("%s -%d", m.Pile, m.Count)
}

// Config overrides the default pile sizes (3, 5).
type Config struct {
	A int `json:"a"`
	B int `json:"b"`
}

type Engine struct{}

func opponent(turn string) string {
	if turn == "p1" {
		return "p2"
	}
	return "p1"
}

func (Engine) Initial(config json.RawMessage) (games.State, error) {
	a, b := 3, 5
	if len(config) > 0 {
		var cfg Config
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, apperr.BadRequestf("invalid config: %v", err)
		}
		if cfg.A != 0 || cfg.B != 0 {
			a, b = cfg.A, cfg.B
		}
	}
	return State{A: a, B: b, Turn: "p1"}, nil
}

func (Engine) LegalMoves(s games.State) []games.Move {
	st := s.(State)
	var moves []games.Move
	for c := 1; c <= st.A; c++ {
		moves = append(moves, Move{Kind: Single, Pile: "a", Count: c})
	}
	for c := 1; c <= st.B; c++ {
		moves = append(moves, Move{Kind: Single, Pile: "b", Count: c})
	}
	for c := 1; c <= min(st.A, st.B); c++ {
		moves = append(moves, Move{Kind: Diagonal, Count: c})
	}
	return moves
}

func (Engine) Apply(s games.State, m games.Move) (games.State, games.Status, error) {
	st := s.(State)
	mv := m.(Move)

	next := st
	switch mv.Kind {
	case Single:
		switch mv.Pile {
		case "a":
			if mv.Count < 1 || mv.Count > st.A {
				return nil, games.InProgress, apperr.IllegalMove("invalid-count", "cannot remove %d from pile a", mv.Count)
			}
			next.A -= mv.Count
		case "b":
			if mv.Count < 1 || mv.Count > st.B {
				return nil, games.InProgress, apperr.IllegalMove("invalid-count", "cannot remove %d from pile b", mv.Count)
			}
			next.B -= mv.Count
		default:
			return nil, games.InProgress, apperr.BadRequestf("invalid pile: %q", mv.Pile)
		}
	case Diagonal:
		if mv.Count < 1 || mv.Count > st.A || mv.Count > st.B {
			return nil, games.InProgress, apperr.IllegalMove("invalid-count", "cannot remove %d from both piles", mv.Count)
		}
		next.A -= mv.Count
		next.B -= mv.Count
	default:
		return nil, games.InProgress, apperr.BadRequestf("invalid move kind: %q", mv.Kind)
	}

	if next.A == 0 && next.B == 0 {
		winner := st.Turn
		next.Turn = ""
		return next, games.Status(fmt.Sprintf("%s_won", winner)), nil
	}

	next.Turn = opponent(st.Turn)
	return next, games.InProgress, nil
}

func (Engine) Clone(s games.State) games.State {
	return s.(State)
}

func (Engine) ParseMove(raw json.RawMessage) (games.Move, error) {
	var m Move
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, apperr.BadRequestf("invalid move: %v", err)
	}
	return m, nil
}

func (Engine) EncodeState(s games.State) (json.RawMessage, error) {
	return json.Marshal(s.(State))
}

func (Engine) DecodeState(raw json.RawMessage) (games.State, error) {
	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode wythoff state: %w", err)
	}
	return s, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
