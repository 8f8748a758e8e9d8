// Package chessai implements Chess AI personalities directly on the donor search engine
// (spec §4.3.2, §4.4): a modern alpha-beta personality with quiescence over a material +
// piece-square evaluator, plus three historical personalities -- TUROCHAMP (1948),
// Bernstein (1957) and SARGON (1978) -- each reusing its own evaluator/quiescence and
// opening book exactly as the standalone engine binaries wire them up.
package chessai

import (
	"context"
	"math/rand"

	"github.com/kestrelgames/boardhouse/internal/apperr"
	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/chess"
	"github.com/kestrelgames/boardhouse/pkg/bernstein"
	"github.com/kestrelgames/boardhouse/pkg/board"
	"github.com/kestrelgames/boardhouse/pkg/board/fen"
	"github.com/kestrelgames/boardhouse/pkg/engine"
	"github.com/kestrelgames/boardhouse/pkg/eval"
	"github.com/kestrelgames/boardhouse/pkg/sargon"
	"github.com/kestrelgames/boardhouse/pkg/search"
	"github.com/kestrelgames/boardhouse/pkg/search/searchctl"
	"github.com/kestrelgames/boardhouse/pkg/turochamp"
	"github.com/seekerror/stdlib/pkg/lang"
)

const defaultDepth = 4

// Strategy is a depth-bounded Chess AI personality: a search root, an optional opening
// book consulted before falling back to search, and a seeded tie-breaker for choosing
// among book moves.
type Strategy struct {
	Name  string
	Depth int
	Root  search.Search
	Book  engine.Book
	rand  *rand.Rand
}

// Modern is the default personality: alpha-beta with quiescence over a material +
// piece-square evaluator, no opening book.
func Modern(depth int, seed int64) Strategy {
	return newStrategy("modern", depth, search.AlphaBeta{
		Eval: search.Quiescence{
			Explore: search.FullExploration,
			Eval:    search.StaticEvaluator{Eval: PieceSquare{}},
		},
	}, engine.NoBook, seed)
}

// Turochamp is Alan Turing and David Champernowne's 1948 TUROCHAMP personality: its
// "considerable moves" quiescence search over its own positional evaluator.
func Turochamp(depth int, seed int64) Strategy {
	return newStrategy("turochamp", depth, search.AlphaBeta{
		Eval: turochamp.Quiescence{Eval: turochamp.Evaluator{}},
	}, engine.NoBook, seed)
}

// Bernstein is the 1957 Bernstein program's personality: material evaluation, opening
// with its one recorded line (1.e4).
func Bernstein(depth int, seed int64) Strategy {
	return newStrategy("bernstein", depth, search.AlphaBeta{
		Eval: search.Quiescence{
			Explore: search.FullExploration,
			Eval:    search.StaticEvaluator{Eval: eval.Material{}},
		},
	}, bernstein.Book, seed)
}

// Sargon is the 1978 SARGON program's personality: material evaluation, opening with its
// two recorded lines (1.e4 e5, 1.d4 d5).
func Sargon(depth int, seed int64) Strategy {
	return newStrategy("sargon", depth, search.AlphaBeta{
		Eval: search.Quiescence{
			Explore: search.FullExploration,
			Eval:    search.StaticEvaluator{Eval: eval.Material{}},
		},
	}, sargon.Book, seed)
}

func newStrategy(name string, depth int, root search.Search, book engine.Book, seed int64) Strategy {
	if depth <= 0 {
		depth = defaultDepth
	}
	return Strategy{Name: name, Depth: depth, Root: root, Book: book, rand: rand.New(rand.NewSource(seed))}
}

func (s Strategy) SelectMove(ctx context.Context, state games.State) (games.Move, error) {
	st := state.(chess.State)

	b, err := fen.NewBoard(st.FEN)
	if err != nil {
		return nil, apperr.Internalf("decode fen: %v", err)
	}

	if s.Book != nil {
		if moves, err := s.Book.Find(ctx, st.FEN); err == nil && len(moves) > 0 {
			mv := moves[s.rand.Intn(len(moves))]
			return chess.Move{UCI: uciString(mv)}, nil
		}
	}

	launcher := &searchctl.Iterative{Root: s.Root}
	_, out := launcher.Launch(ctx, b, search.NoTranspositionTable{}, eval.Random{}, searchctl.Options{
		DepthLimit: lang.Some(uint(s.Depth)),
	})

	var last search.PV
	for pv := range out {
		last = pv
	}
	if len(last.Moves) == 0 {
		return nil, nil
	}
	return chess.Move{UCI: uciString(last.Moves[0])}, nil
}

func uciString(m board.Move) string {
	if m.Promotion == 0 {
		return m.From.String() + m.To.String()
	}
	return m.From.String() + m.To.String() + promotionLetter(m.Promotion)
}

func promotionLetter(p board.Piece) string {
	switch p {
	case board.Queen:
		return "q"
	case board.Rook:
		return "r"
	case board.Bishop:
		return "b"
	case board.Knight:
		return "n"
	default:
		return ""
	}
}
