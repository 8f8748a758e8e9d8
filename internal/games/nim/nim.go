// Package nim implements misère Nim: players alternately remove any positive number of
// objects from one pile; the player forced to take the last object loses.
package nim

import (
	"encoding/json"
	"fmt"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
)

// State is the ordered sequence of pile sizes plus the seat to move, "p1" or "p2".
type State struct {
	Piles []int  `json:"piles"`
	Turn  string `json:"turn"`
}

func (s State) CurrentTurn() string { return s.Turn }

// Move removes Count objects from Pile.
type Move struct {
	Pile  int `json:"pile"`
	Count int `json:"count"`
}

func (m Move) String() string { return fmt.Sprintf("pile %d -%d", m.Pile, m.Count) }

// Config optionally overrides the default pile sizes [1,3,5,7].
type Config struct {
	Piles []int `json:"piles"`
}

type Engine struct{}

func opponent(turn string) string {
	if turn == "p1" {
		return "p2"
	}
	return "p1"
}

func (Engine) Initial(config json.RawMessage) (games.State, error) {
	piles := []int{1, 3, 5, 7}
	if len(config) > 0 {
		var cfg Config
		if err := json.Unmarshal(config, &cfg); err != nil {
			return nil, apperr.BadRequestf("invalid config: %v", err)
		}
		if len(cfg.Piles) > 0 {
			piles = cfg.Piles
		}
	}
	return State{Piles: append([]int(nil), piles...), Turn: "p1"}, nil
}

func (Engine) LegalMoves(s games.State) []games.Move {
	st := s.(State)
	var moves []games.Move
	for i, n := range st.Piles {
		for c := 1; c <= n; c++ {
			moves = append(moves, Move{Pile: i, Count: c})
		}
	}
	return moves
}

func (Engine) Apply(s games.State, m games.Move) (games.State, games.Status, error) {
	st := s.(State)
	mv := m.(Move)

	if mv.Pile < 0 || mv.Pile >= len(st.Piles) {
		return nil, games.InProgress, apperr.BadRequestf("pile out of range: %d", mv.Pile)
	}
	if mv.Count < 1 || mv.Count > st.Piles[mv.Pile] {
		return nil, games.InProgress, apperr.IllegalMove("invalid-count", "cannot remove %d from pile %d (%d remaining)", mv.Count, mv.Pile, st.Piles[mv.Pile])
	}

	next := st
	next.Piles = append([]int(nil), st.Piles...)
	next.Piles[mv.Pile] -= mv.Count

	if total(next.Piles) == 0 {
		// Misère: the player who took the last object loses.
		next.Turn = ""
		return next, games.Status(fmt.Sprintf("%s_won", opponent(st.Turn))), nil
	}

	next.Turn = opponent(st.Turn)
	return next, games.InProgress, nil
}

func (Engine) Clone(s games.State) games.State {
	st := s.(State)
	st.Piles = append([]int(nil), st.Piles...)
	return st
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
		return nil, fmt.Errorf("decode nim state: %w", err)
	}
	return s, nil
}

func total(piles []int) int {
	sum := 0
	for _, n := range piles {
		sum += n
	}
	return sum
}
