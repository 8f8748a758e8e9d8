// Package connect4ai implements a depth-bounded negamax with alpha-beta pruning and a
// windowed heuristic leaf evaluation for Connect-4 (spec §4.3.2). It is a standalone
// negamax rather than a reuse of pkg/search's alpha-beta, since that package's Score and
// Board types are chess-specific; the structure (explore/cutoff/move-ordering shape) is
// grounded on pkg/search/alphabeta.go's idiom, re-expressed over plain ints.
package connect4ai

import (
	"context"
	"math/rand"
	"sort"

	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/connect4"
)

const (
	defaultDepth = 7
	winScore     = 1_000_000
)

// Strategy is a negamax Connect-4 player. Depth bounds the search; Rand breaks ordering
// ties deterministically per seed.
type Strategy struct {
	Depth int
	rand  *rand.Rand
}

func New(depth int, seed int64) Strategy {
	if depth <= 0 {
		depth = defaultDepth
	}
	return Strategy{Depth: depth, rand: rand.New(rand.NewSource(seed))}
}

func (s Strategy) SelectMove(ctx context.Context, state games.State) (games.Move, error) {
	e := connect4.Engine{}
	st := state.(connect4.State)

	moves := orderedMoves(e, st, s.rand)
	if len(moves) == 0 {
		return nil, nil
	}

	depth := s.Depth
	if depth <= 0 {
		depth = defaultDepth
	}

	alpha, beta := -winScore-1, winScore+1
	best := moves[0]
	bestScore := alpha - 1

	for _, m := range moves {
		mv := m.(connect4.Move)
		child, status, err := e.Apply(st, mv)
		if err != nil {
			continue
		}

		var value int
		switch {
		case status == games.Status(string(st.Turn)+"_won"):
			value = winScore - 1
		case status == games.Draw:
			value = 0
		default:
			value = -negamax(e, child.(connect4.State), depth-1, -beta, -alpha, s.rand)
		}

		if value > bestScore {
			bestScore = value
			best = m
		}
		if value > alpha {
			alpha = value
		}
	}
	return best, nil
}

func negamax(e connect4.Engine, st connect4.State, depth, alpha, beta int, r *rand.Rand) int {
	moves := orderedMoves(e, st, r)
	if len(moves) == 0 {
		return evaluate(st, st.Turn)
	}
	if depth == 0 {
		return evaluate(st, st.Turn)
	}

	best := alpha - 1
	for _, m := range moves {
		mv := m.(connect4.Move)
		child, status, err := e.Apply(st, mv)
		if err != nil {
			continue
		}

		var value int
		switch {
		case status == games.Status(string(st.Turn)+"_won"):
			value = winScore - (defaultDepth - depth)
		case status == games.Draw:
			value = 0
		default:
			value = -negamax(e, child.(connect4.State), depth-1, -beta, -alpha, r)
		}

		if value > best {
			best = value
		}
		if value > alpha {
			alpha = value
		}
		if alpha >= beta {
			break
		}
	}
	return best
}

// orderedMoves lists legal moves center-column-first, with a small random perturbation to
// break ties deterministically per seed rather than favoring the lowest column index.
func orderedMoves(e connect4.Engine, st connect4.State, r *rand.Rand) []games.Move {
	moves := e.LegalMoves(st)
	center := connect4.Cols / 2

	jitter := make([]int, len(moves))
	for i := range jitter {
		jitter[i] = r.Intn(3)
	}

	sort.SliceStable(moves, func(i, j int) bool {
		ci := abs(moves[i].(connect4.Move).Column - center)
		cj := abs(moves[j].(connect4.Move).Column - center)
		if ci != cj {
			return ci < cj
		}
		return jitter[i] < jitter[j]
	})
	return moves
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// evaluate scores st from the perspective of the seat to move (turn), crediting own
// windows of 4, penalizing the opponent's near-completions, and rewarding center-column
// occupancy.
func evaluate(st connect4.State, turn connect4.Piece) int {
	opp := opponentOf(turn)
	score := 0

	for r := 0; r < connect4.Rows; r++ {
		for c := 0; c < connect4.Cols; c++ {
			if st.Cells[r*connect4.Cols+c] == turn {
				if c == connect4.Cols/2 {
					score += 3
				}
			}
		}
	}

	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for _, d := range dirs {
		for r := 0; r < connect4.Rows; r++ {
			for c := 0; c < connect4.Cols; c++ {
				endR, endC := r+3*d[0], c+3*d[1]
				if endR < 0 || endR >= connect4.Rows || endC < 0 || endC >= connect4.Cols {
					continue
				}
				var window [4]connect4.Piece
				for i := 0; i < 4; i++ {
					window[i] = st.Cells[(r+i*d[0])*connect4.Cols+(c+i*d[1])]
				}
				score += windowScore(window, turn, opp)
			}
		}
	}
	return score
}

func windowScore(window [4]connect4.Piece, me, opp connect4.Piece) int {
	mine, theirs, empty := 0, 0, 0
	for _, p := range window {
		switch p {
		case me:
			mine++
		case opp:
			theirs++
		default:
			empty++
		}
	}
	if mine > 0 && theirs > 0 {
		return 0
	}
	switch {
	case mine == 4:
		return 10000
	case mine == 3 && empty == 1:
		return 50
	case mine == 2 && empty == 2:
		return 10
	case theirs == 4:
		return -10000
	case theirs == 3 && empty == 1:
		return -60
	case theirs == 2 && empty == 2:
		return -10
	default:
		return 0
	}
}

func opponentOf(p connect4.Piece) connect4.Piece {
	if p == connect4.Red {
		return connect4.Blue
	}
	return connect4.Red
}
