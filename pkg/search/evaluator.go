package search

import (
	"context"

	"github.com/kestrelgames/boardhouse/pkg/board"
	"github.com/kestrelgames/boardhouse/pkg/eval"
)

// Evaluator is a static position evaluator used at the leaves of a (quiescence) search. It
// receives the search Context so implementations may consult the search window, though
// most implementations ignore it and delegate to an eval.Evaluator.
type Evaluator interface {
	Evaluate(ctx context.Context, sctx *Context, b *board.Board) eval.Pawns
}

// StaticEvaluator adapts a context-free eval.Evaluator into a search Evaluator.
type StaticEvaluator struct {
	Eval eval.Evaluator
}

func (s StaticEvaluator) Evaluate(ctx context.Context, sctx *Context, b *board.Board) eval.Pawns {
	return s.Eval.Evaluate(ctx, b)
}
