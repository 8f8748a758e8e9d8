package chessai

import (
	"context"

	"github.com/kestrelgames/boardhouse/pkg/board"
	"github.com/kestrelgames/boardhouse/pkg/eval"
)

// PieceSquare evaluates material, per eval.Material's nominal values, plus classic
// piece-square tables scored for the side to move (spec §4.3.2: "material + piece-square
// tables" for the alpha-beta Chess AI). The donor's eval package has a material evaluator
// but no positional tables, so these are added fresh, in the same
// context.Context/*board.Board/Pawns shape as eval.Material.
type PieceSquare struct{}

func (PieceSquare) Evaluate(ctx context.Context, b *board.Board) eval.Pawns {
	pos := b.Position()
	turn := b.Turn()
	opp := turn.Opponent()

	material := eval.Material{}.Evaluate(ctx, b)
	return material + positional(pos, turn) - positional(pos, opp)
}

// positional sums the piece-square value, in centipawns converted to Pawns, of every piece
// c still has on the board.
func positional(pos *board.Position, c board.Color) eval.Pawns {
	var total int
	for p := board.ZeroPiece; p < board.NumPieces; p++ {
		for _, sq := range pos.Piece(c, p).ToSquares() {
			total += squareValue(p, sq, c)
		}
	}
	return eval.Pawns(total) / 100
}

// squareValue looks up a piece-square table entry. Tables are authored from the owning
// side's own point of view (rank 0 = that side's home rank, file 0 = the a-file); ownRank
// and col translate a board square into that frame for either color.
func squareValue(p board.Piece, sq board.Square, c board.Color) int {
	ownRank := sq.Rank().V()
	if c == board.Black {
		ownRank = 7 - ownRank
	}
	col := 7 - int(sq.File())

	switch p {
	case board.Pawn:
		return pawnPST[ownRank][col]
	case board.Knight:
		return knightPST[ownRank][col]
	case board.Bishop:
		return bishopPST[ownRank][col]
	case board.Rook:
		return rookPST[ownRank][col]
	case board.Queen:
		return queenPST[ownRank][col]
	case board.King:
		return kingPST[ownRank][col]
	default:
		return 0
	}
}

// Tables below are indexed [ownRank][file a..h], ownRank 0 is the piece's home rank. Values
// are the familiar centipawn piece-square tables used throughout open-source engines.
var pawnPST = [8][8]int{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightPST = [8][8]int{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopPST = [8][8]int{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

var rookPST = [8][8]int{
	{0, 0, 0, 5, 5, 0, 0, 0},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var queenPST = [8][8]int{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

// kingPST favors a castled, sheltered king; it does not distinguish middlegame from
// endgame, since the alpha-beta AI personality has no phase detection (spec §4.3.2 asks
// only for material + piece-square tables, not tapered evaluation).
var kingPST = [8][8]int{
	{20, 30, 10, 0, 0, 10, 30, 20},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
}
