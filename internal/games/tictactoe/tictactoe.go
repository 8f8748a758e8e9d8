// Package tictactoe implements the 3x3 tic-tac-toe rule engine.
package tictactoe

import (
	"encoding/json"
	"fmt"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
)

// Mark is a cell occupant.
type Mark string

const (
	Empty Mark = ""
	X     Mark = "x"
	O     Mark = "o"
)

func (m Mark) opponent() Mark {
	if m == X {
		return O
	}
	return X
}

// State is the 9-cell board, row-major, plus the mark to move next.
type State struct {
	Cells [9]Mark `json:"cells"`
	Turn  Mark    `json:"turn"`
}

func (s State) CurrentTurn() string { return string(s.Turn) }

// Move places Turn's mark at Cell (0..8).
type Move struct {
	Cell int `json:"cell"`
}

func (m Move) String() string { return fmt.Sprintf("cell %d", m.Cell) }

// Engine implements games.Engine for tic-tac-toe.
type Engine struct{}

var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func (Engine) Initial(config json.RawMessage) (games.State, error) {
	return State{Turn: X}, nil
}

func (Engine) LegalMoves(s games.State) []games.Move {
	st := s.(State)
	var moves []games.Move
	for i, c := range st.Cells {
		if c == Empty {
			moves = append(moves, Move{Cell: i})
		}
	}
	return moves
}

func (Engine) Apply(s games.State, m games.Move) (games.State, games.Status, error) {
	st := s.(State)
	mv := m.(Move)

	if mv.Cell < 0 || mv.Cell > 8 {
		return nil, games.InProgress, apperr.BadRequestf("cell out of range: %d", mv.Cell)
	}
	if st.Cells[mv.Cell] != Empty {
		return nil, games.InProgress, apperr.IllegalMove("cell-occupied", "cell %d is occupied", mv.Cell)
	}

	next := st
	next.Cells[mv.Cell] = st.Turn

	if winner := winnerOf(next.Cells); winner != Empty {
		next.Turn = Empty
		return next, games.Status(fmt.Sprintf("%s_won", winner)), nil
	}
	if isFull(next.Cells) {
		next.Turn = Empty
		return next, games.Draw, nil
	}

	next.Turn = st.Turn.opponent()
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
		return nil, fmt.Errorf("decode tictactoe state: %w", err)
	}
	return s, nil
}

func winnerOf(cells [9]Mark) Mark {
	for _, line := range lines {
		a, b, c := cells[line[0]], cells[line[1]], cells[line[2]]
		if a != Empty && a == b && b == c {
			return a
		}
	}
	return Empty
}

func isFull(cells [9]Mark) bool {
	for _, c := range cells {
		if c == Empty {
			return false
		}
	}
	return true
}
