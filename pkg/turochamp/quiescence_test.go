package turochamp_test

import (
	"context"
	"testing"

	"github.com/kestrelgames/boardhouse/pkg/board"
	"github.com/kestrelgames/boardhouse/pkg/board/fen"
	"github.com/kestrelgames/boardhouse/pkg/eval"
	"github.com/kestrelgames/boardhouse/pkg/search"
	"github.com/kestrelgames/boardhouse/pkg/turochamp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuiescence(t *testing.T) {
	tests := []struct {
		fen        string
		moves      []string
		minNodes   uint64
		favorsWhom string // "white", "black" or "" for roughly balanced
	}{
		{fen.Initial, nil, 1, ""},
		{fen.Initial, []string{"d2d4"}, 1, ""}, // no captures, so equal to startpos w/ black to move
		{"kr6/pppppppp/8/8/8/8/6Q1/7K w - - 0 1", nil, 2, "black"},  // queen undefended vs. a defended rook
		{"k7/pppppp1p/6b1/7P/8/8/8/7K w - - 0 1", nil, 2, "black"}, // bishop outweighs the lone pawn
		{"k7/pppppnpn/8/n6Q/8/8/8/7K w - - 0 1", nil, 2, "black"},  // three undefended knights
		{"2b2rk1/r1Pp2p1/ppn1p3/q3N1Bp/3P4/2NQR2P/PPP2PP1/R5K1 b - - 4 18", nil, 2, "white"},
	}

	qs := turochamp.Quiescence{Eval: turochamp.Evaluator{}}

	for _, tt := range tests {
		pos, turn, np, fm, err := fen.Decode(tt.fen)
		require.NoError(t, err)

		b := board.NewBoard(board.NewZobristTable(0), pos, turn, np, fm)
		for _, m := range tt.moves {
			move, err := board.ParseMove(m)
			require.NoError(t, err)
			b.PushMove(move)
		}

		sctx := &search.Context{Alpha: eval.InvalidScore, Beta: eval.InvalidScore, TT: search.NoTranspositionTable{}}

		nodes, actual := qs.QuietSearch(context.Background(), sctx, b)
		assert.GreaterOrEqualf(t, nodes, tt.minNodes, "failed: %v", tt.fen)

		mover := b.Turn()
		switch tt.favorsWhom {
		case "white":
			if mover == board.White {
				assert.Falsef(t, actual.Less(eval.ZeroScore), "expected non-negative for mover: %v", tt.fen)
			} else {
				assert.Falsef(t, eval.ZeroScore.Less(actual), "expected non-positive for mover: %v", tt.fen)
			}
		case "black":
			if mover == board.Black {
				assert.Falsef(t, actual.Less(eval.ZeroScore), "expected non-negative for mover: %v", tt.fen)
			} else {
				assert.Falsef(t, eval.ZeroScore.Less(actual), "expected non-positive for mover: %v", tt.fen)
			}
		}
	}
}
