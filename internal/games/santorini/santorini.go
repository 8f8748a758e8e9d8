// Package santorini implements Santorini: an initial two-worker placement phase per
// player, followed by alternating move-then-build turns. Moving to a level-3 cell wins
// immediately; a player with no legal move loses (spec §4.1.2).
package santorini

import (
	"encoding/json"
	"fmt"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
)

const (
	Rows = 5
	Cols = 5
	N    = Rows * Cols

	// DomeLevel is the level a built-on level-3 cell reaches; no further build is legal.
	DomeLevel = 4
	// WinLevel is the level a worker must move onto to win immediately.
	WinLevel = 3
)

const (
	PhasePlacement = "placement"
	PhasePlay      = "play"
)

// Cell holds a build level (0..4, 4 = domed) and the occupying worker's seat, or "".
type Cell struct {
	Level  int    `json:"level"`
	Worker string `json:"worker,omitempty"`
}

// State is the 5x5 board, the phase, the seat to move, and per-seat placement counts.
type State struct {
	Cells  [N]Cell        `json:"cells"`
	Phase  string         `json:"phase"`
	Turn   string         `json:"turn"`
	Placed map[string]int `json:"placed"`
}

func (s State) CurrentTurn() string { return s.Turn }

// Kind distinguishes a placement move from a move-and-build turn.
type Kind string

const (
	Place Kind = "place"
	Step  Kind = "step"
)

// Move places a worker (Kind==Place, Cell set) or moves a worker from From to To and
// builds at Build (Kind==Step). Build is ignored (and may be omitted) when the move to
// To reaches WinLevel, since that wins immediately without a build.
type Move struct {
	Kind  Kind `json:"kind"`
	Cell  int  `json:"cell,omitempty"`
	From  int  `json:"from,omitempty"`
	To    int  `json:"to,omitempty"`
	Build int  `json:"build,omitempty"`
}

func (m Move) String() string {
	if m.Kind == Place {
		return fmt.Sprintf("place@%d", m.Cell)
	}
	return fmt.Sprintf("%d->%d build@%d", m.From, m.To, m.Build)
}

type Engine struct{}

func opponent(turn string) string {
	if turn == "p1" {
		return "p2"
	}
	return "p1"
}

func (Engine) Initial(config json.RawMessage) (games.State, error) {
	return State{
		Phase:  PhasePlacement,
		Turn:   "p1",
		Placed: map[string]int{"p1": 0, "p2": 0},
	}, nil
}

// neighbors returns the up-to-8 king-adjacent cell indices of idx on the 5x5 grid.
func neighbors(idx int) []int {
	r, c := idx/Cols, idx%Cols
	var out []int
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nr, nc := r+dr, c+dc
			if nr < 0 || nr >= Rows || nc < 0 || nc >= Cols {
				continue
			}
			out = append(out, nr*Cols+nc)
		}
	}
	return out
}

func (Engine) LegalMoves(s games.State) []games.Move {
	st := s.(State)
	var moves []games.Move

	if st.Phase == PhasePlacement {
		for i, cell := range st.Cells {
			if cell.Worker == "" {
				moves = append(moves, Move{Kind: Place, Cell: i})
			}
		}
		return moves
	}

	for from, cell := range st.Cells {
		if cell.Worker != st.Turn {
			continue
		}
		for _, to := range neighbors(from) {
			toCell := st.Cells[to]
			if toCell.Worker != "" || toCell.Level >= DomeLevel {
				continue
			}
			if toCell.Level-cell.Level > 1 {
				continue
			}
			if toCell.Level >= WinLevel {
				// Winning move: no build required.
				moves = append(moves, Move{Kind: Step, From: from, To: to})
				continue
			}
			for _, build := range neighbors(to) {
				// The vacated cell (build == from) is buildable on; every other
				// occupied cell is not.
				if build != from && st.Cells[build].Worker != "" {
					continue
				}
				if st.Cells[build].Level >= DomeLevel {
					continue
				}
				moves = append(moves, Move{Kind: Step, From: from, To: to, Build: build})
			}
		}
	}
	return moves
}

func (Engine) Apply(s games.State, m games.Move) (games.State, games.Status, error) {
	st := s.(State)
	mv := m.(Move)
	next := cloneState(st)

	switch mv.Kind {
	case Place:
		if next.Phase != PhasePlacement {
			return nil, games.InProgress, apperr.IllegalMove("wrong-phase", "placement already complete")
		}
		if mv.Cell < 0 || mv.Cell >= N {
			return nil, games.InProgress, apperr.BadRequestf("cell out of range: %d", mv.Cell)
		}
		if next.Cells[mv.Cell].Worker != "" {
			return nil, games.InProgress, apperr.IllegalMove("occupied", "cell %d is occupied", mv.Cell)
		}
		next.Cells[mv.Cell].Worker = st.Turn
		next.Placed[st.Turn]++

		if next.Placed["p1"] >= 2 && next.Placed["p2"] >= 2 {
			next.Phase = PhasePlay
			next.Turn = "p1"
		} else {
			next.Turn = opponent(st.Turn)
		}
		if status := stuckStatus(next); status != games.InProgress {
			return next, status, nil
		}
		return next, games.InProgress, nil

	case Step:
		if next.Phase != PhasePlay {
			return nil, games.InProgress, apperr.IllegalMove("wrong-phase", "placement not yet complete")
		}
		if mv.From < 0 || mv.From >= N || mv.To < 0 || mv.To >= N {
			return nil, games.InProgress, apperr.BadRequestf("cell out of range")
		}
		from, to := next.Cells[mv.From], next.Cells[mv.To]
		if from.Worker != st.Turn {
			return nil, games.InProgress, apperr.IllegalMove("no-worker", "no worker of %s at %d", st.Turn, mv.From)
		}
		if to.Worker != "" {
			return nil, games.InProgress, apperr.IllegalMove("occupied", "cell %d is occupied", mv.To)
		}
		if to.Level >= DomeLevel {
			return nil, games.InProgress, apperr.IllegalMove("domed", "cell %d is domed", mv.To)
		}
		if to.Level-from.Level > 1 {
			return nil, games.InProgress, apperr.IllegalMove("too-high", "cannot climb more than one level")
		}

		next.Cells[mv.From].Worker = ""
		next.Cells[mv.To].Worker = st.Turn

		if to.Level >= WinLevel {
			return next, games.Status(fmt.Sprintf("%s_won", st.Turn)), nil
		}

		if mv.Build < 0 || mv.Build >= N {
			return nil, games.InProgress, apperr.BadRequestf("build cell out of range")
		}
		build := next.Cells[mv.Build]
		if build.Worker != "" {
			return nil, games.InProgress, apperr.IllegalMove("occupied", "cannot build on occupied cell %d", mv.Build)
		}
		if build.Level >= DomeLevel {
			return nil, games.InProgress, apperr.IllegalMove("domed", "cannot build on domed cell %d", mv.Build)
		}
		next.Cells[mv.Build].Level++

		next.Turn = opponent(st.Turn)
		if status := stuckStatus(next); status != games.InProgress {
			return next, status, nil
		}
		return next, games.InProgress, nil

	default:
		return nil, games.InProgress, apperr.BadRequestf("invalid move kind: %q", mv.Kind)
	}
}

// stuckStatus reports the terminal "<opponent>_won" status the instant next.Turn has no
// legal move in the play phase (spec §4.1.2: "a player with no legal move loses"), so a row
// never persists with current_turn pointing at a player who can submit nothing. Returns
// games.InProgress otherwise, including throughout the placement phase.
func stuckStatus(next State) games.Status {
	if next.Phase != PhasePlay {
		return games.InProgress
	}
	if len((Engine{}).LegalMoves(next)) > 0 {
		return games.InProgress
	}
	return games.Status(fmt.Sprintf("%s_won", opponent(next.Turn)))
}

func (Engine) Clone(s games.State) games.State {
	return cloneState(s.(State))
}

func cloneState(st State) State {
	next := st
	placed := make(map[string]int, len(st.Placed))
	for k, v := range st.Placed {
		placed[k] = v
	}
	next.Placed = placed
	return next
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
		return nil, fmt.Errorf("decode santorini state: %w", err)
	}
	if s.Placed == nil {
		s.Placed = map[string]int{"p1": 0, "p2": 0}
	}
	return s, nil
}
