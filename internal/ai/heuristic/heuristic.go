// Package heuristic implements simple, search-free AI strategies grounded in the donor's
// pkg/eval.Random idiom (a seeded *rand.Rand held on the strategy value): a uniform-random
// legal-move picker usable against any games.Engine, and a greedy scored mover for
// Santorini that favors climbing and reaching the win level.
package heuristic

import (
	"context"
	"math/rand"

	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/santorini"
)

// Random picks uniformly among the legal moves at the current state. Usable as a smoke-test
// opponent for any game kind, and as the Azul fallback strategy when no predictor weights
// are configured.
type Random struct {
	rand *rand.Rand
}

func NewRandom(seed int64) Random {
	return Random{rand: rand.New(rand.NewSource(seed))}
}

func (s Random) SelectMove(ctx context.Context, engine games.Engine, state games.State) (games.Move, error) {
	moves := engine.LegalMoves(state)
	if len(moves) == 0 {
		return nil, nil
	}
	return moves[s.rand.Intn(len(moves))], nil
}

// Santorini is a one-ply greedy scorer: among legal moves, prefer an immediate win, then
// the move that most improves the mover's worker height, then the highest build, breaking
// ties by a small amount of randomness. The opponent's position is not scored.
type Santorini struct {
	rand *rand.Rand
}

func NewSantorini(seed int64) Santorini {
	return Santorini{rand: rand.New(rand.NewSource(seed))}
}

func (s Santorini) SelectMove(ctx context.Context, state games.State) (games.Move, error) {
	e := santorini.Engine{}
	moves := e.LegalMoves(state)
	if len(moves) == 0 {
		return nil, nil
	}

	st := state.(santorini.State)
	best := moves[0]
	bestScore := -1 << 30
	for _, m := range moves {
		mv := m.(santorini.Move)
		score := scoreMove(st, mv) + s.rand.Intn(3)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best, nil
}

func scoreMove(st santorini.State, mv santorini.Move) int {
	if mv.Kind == santorini.Place {
		// Prefer central cells during placement: central cells have more neighbors to
		// climb toward and build from.
		r, c := mv.Cell/santorini.Cols, mv.Cell%santorini.Cols
		dr, dc := r-santorini.Rows/2, c-santorini.Cols/2
		return -(dr*dr + dc*dc)
	}

	toLevel := st.Cells[mv.To].Level
	fromLevel := st.Cells[mv.From].Level

	if toLevel >= santorini.WinLevel {
		return 1000
	}

	// Climbing is good; descending is a last resort. Building higher near the moved
	// worker keeps future climbs available.
	return 10*(toLevel-fromLevel) + st.Cells[mv.Build].Level
}
