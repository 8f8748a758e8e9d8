// Package search contains search functionality and utilities.
package search

import (
	"context"
	"errors"

	"github.com/kestrelgames/boardhouse/pkg/board"
	"github.com/kestrelgames/boardhouse/pkg/eval"
)

// ErrHalted is an error indicating that the search was halted.
var ErrHalted = errors.New("search halted")

// Context carries per-search parameters threaded through a recursive search, as opposed
// to Options which configures the overall iterative deepening harness.
type Context struct {
	// Alpha and Beta, if valid, bound the root search window.
	Alpha, Beta eval.Score
	// TT is the transposition table to use, if any. Required.
	TT TranspositionTable
	// Noise adds a small amount of randomness to leaf evaluation, to avoid always playing
	// the same game against itself.
	Noise eval.Random
	// Ponder, if set, are moves to explore first regardless of priority, e.g. from a
	// previous iteration's principal variation.
	Ponder []board.Move
}

// Search implements search of the game tree to a given depth. Thread-safe.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int) (uint64, eval.Score, []board.Move, error)
}

// QuietSearch implements a search restricted to "quiet" (non-volatile) positions, used to
// avoid the horizon effect at the leaves of a full search. Thread-safe.
type QuietSearch interface {
	QuietSearch(ctx context.Context, sctx *Context, b *board.Board) (uint64, eval.Score)
}
