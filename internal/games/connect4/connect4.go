// Package connect4 implements the 7x6 Connect-4 rule engine.
package connect4

import (
	"encoding/json"
	"fmt"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
)

const (
	Cols = 7
	Rows = 6
)

// Piece is a cell occupant.
type Piece string

const (
	Empty Piece = ""
	Red   Piece = "red"
	Blue  Piece = "blue"
)

func (p Piece) opponent() Piece {
	if p == Red {
		return Blue
	}
	return Red
}

// State is the 42-cell board (row 0 is the top row) and the piece to move next. Cells are
// stored row-major, index = row*Cols + col, per spec §8 scenario 1.
type State struct {
	Cells   [Rows * Cols]Piece `json:"cells"`
	Turn    Piece              `json:"turn"`
	History []int              `json:"history"`
}

func (s State) CurrentTurn() string { return string(s.Turn) }

// Move drops a piece into Column (0..6).
type Move struct {
	Column int `json:"column"`
}

func (m Move) String() string { return fmt.Sprintf("col %d", m.Column) }

type Engine struct{}

func (Engine) Initial(config json.RawMessage) (games.State, error) {
	return State{Turn: Red}, nil
}

func (Engine) LegalMoves(s games.State) []games.Move {
	st := s.(State)
	var moves []games.Move
	for c := 0; c < Cols; c++ {
		if st.Cells[c] == Empty { // top row of the column is the indicator
			moves = append(moves, Move{Column: c})
		}
	}
	return moves
}

func (Engine) Apply(s games.State, m games.Move) (games.State, games.Status, error) {
	st := s.(State)
	mv := m.(Move)

	if mv.Column < 0 || mv.Column >= Cols {
		return nil, games.InProgress, apperr.BadRequestf("column out of range: %d", mv.Column)
	}

	row := -1
	for r := Rows - 1; r >= 0; r-- {
		if st.Cells[r*Cols+mv.Column] == Empty {
			row = r
			break
		}
	}
	if row < 0 {
		return nil, games.InProgress, apperr.IllegalMove("column-full", "column %d is full", mv.Column)
	}

	next := st
	next.Cells[row*Cols+mv.Column] = st.Turn
	next.History = append(append([]int(nil), st.History...), mv.Column)

	if wins(next.Cells, row, mv.Column, st.Turn) {
		winner := st.Turn
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
	st := s.(State)
	st.History = append([]int(nil), st.History...)
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
		return nil, fmt.Errorf("decode connect4 state: %w", err)
	}
	return s, nil
}

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func wins(cells [Rows * Cols]Piece, row, col int, p Piece) bool {
	for _, d := range directions {
		count := 1
		count += runLength(cells, row, col, d[0], d[1], p)
		count += runLength(cells, row, col, -d[0], -d[1], p)
		if count >= 4 {
			return true
		}
	}
	return false
}

func runLength(cells [Rows * Cols]Piece, row, col, dr, dc int, p Piece) int {
	n := 0
	r, c := row+dr, col+dc
	for r >= 0 && r < Rows && c >= 0 && c < Cols && cells[r*Cols+c] == p {
		n++
		r += dr
		c += dc
	}
	return n
}

func isFull(cells [Rows * Cols]Piece) bool {
	for c := 0; c < Cols; c++ {
		if cells[c] == Empty {
			return false
		}
	}
	return true
}
