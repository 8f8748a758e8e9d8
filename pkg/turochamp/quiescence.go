package turochamp

import (
	"context"
	"sort"

	"github.com/kestrelgames/boardhouse/pkg/board"
	"github.com/kestrelgames/boardhouse/pkg/eval"
	"github.com/kestrelgames/boardhouse/pkg/search"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// Quiescence implements TUROCHAMP's selective "considerable moves" search:
//
//   (1) Re-captures are considerable.
//   (2) Capture of en prise pieces are considerable.
//   (3) Capture of higher value pieces are considerable.
//   (4) Checkmate are considerable.
//
// Additionally, it adds the "has already castled" bonus to the evaluator.
type Quiescence struct {
	Eval eval.Evaluator
}

func (q Quiescence) QuietSearch(ctx context.Context, sctx *search.Context, b *board.Board) (uint64, eval.Score) {
	run := &runQuiescence{eval: q.Eval, b: b}

	low, high := eval.NegInfScore, eval.InfScore
	if !sctx.Alpha.IsInvalid() {
		low = sctx.Alpha
	}
	if !sctx.Beta.IsInvalid() {
		high = sctx.Beta
	}

	score := run.search(ctx, low, high)
	return run.nodes, score
}

type runQuiescence struct {
	eval  eval.Evaluator
	b     *board.Board
	nodes uint64
}

// search returns the score from the perspective of the side to move.
func (r *runQuiescence) search(ctx context.Context, alpha, beta eval.Score) eval.Score {
	if contextx.IsCancelled(ctx) {
		return eval.ZeroScore
	}
	if r.b.Result().Outcome == board.Draw {
		return eval.ZeroScore
	}

	r.nodes++

	hasLegalMoves := false
	turn := r.b.Turn()
	score := eval.HeuristicScore(evaluate(ctx, r.b, r.eval))
	alpha = eval.Max(alpha, score)

	mayRecapture := false
	var target board.Square
	if m, ok := r.b.LastMove(); ok && m.IsCapture() {
		mayRecapture = true
		target = m.To
	}

	moves := r.b.Position().PseudoLegalMoves(turn)
	sort.Sort(board.ByMVVLVA(moves))

	for _, m := range moves {
		if !r.b.PushMove(m) {
			continue
		}

		considerable := false
		if r.b.Position().IsCheckMate(turn.Opponent()) {
			considerable = true
		}
		if m.IsCapture() {
			if mayRecapture && m.To == target {
				considerable = true
			}
			if pieceValue(m.Piece) < pieceValue(m.Capture) {
				considerable = true
			}
			if !r.b.Position().IsAttacked(turn, m.To) {
				considerable = true
			}
		}

		if considerable {
			score := r.search(ctx, beta.Negate(), alpha.Negate())
			alpha = eval.Max(alpha, score.Negate())
		}

		r.b.PopMove()
		hasLegalMoves = true

		if alpha == beta || beta.Less(alpha) {
			break // cutoff
		}
	}

	if !hasLegalMoves {
		if result := r.b.AdjudicateNoLegalMoves(); result.Reason == board.Checkmate {
			return eval.NegInfScore
		}
		return eval.ZeroScore
	}
	return alpha
}

func evaluate(ctx context.Context, b *board.Board, evaluator eval.Evaluator) eval.Pawns {
	score := evaluator.Evaluate(ctx, b)
	if b.HasCastled(b.Turn()) {
		score += 10
	}
	return score
}
