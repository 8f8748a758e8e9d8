package board

import (
	"fmt"
	"strings"
)

// MoveType indicates the type of move. The no-progress counter is reset with any non-Normal move.
type MoveType uint8

const (
	Normal    MoveType = iota
	Push               // Pawn move
	Jump               // Pawn 2-square move
	EnPassant          // Implicitly a pawn capture
	QueenSideCastle
	KingSideCastle
	Capture
	Promotion
	CapturePromotion
)

// Move represents a not-necessarily legal move along with contextual metadata.
type Move struct {
	Type      MoveType
	Piece     Piece    // piece being moved
	From, To  Square
	Promotion Piece // desired piece for promotion, if any.
	Capture   Piece // captured piece, if any.
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or "a7a8q".
// The parsed move does not contain contextual information like castling or en passant.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return Move{}, fmt.Errorf("invalid from: '%v': %v", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return Move{}, fmt.Errorf("invalid to: '%v': %v", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion: '%v'", str)
		}
		return Move{From: from, To: to, Promotion: promo}, nil
	}

	return Move{From: from, To: to}, nil
}

// Equals compares moves by the squares and promotion piece only, so that a parsed move -
// which carries no contextual metadata - can be matched against a pseudo-legal move.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

// IsCastle returns true iff the move is a castling move.
func (m Move) IsCastle() bool {
	return m.Type == KingSideCastle || m.Type == QueenSideCastle
}

// IsCapture returns true iff the move captures a piece, including en passant.
func (m Move) IsCapture() bool {
	return m.Type == Capture || m.Type == CapturePromotion || m.Type == EnPassant
}

// EnPassantCapture returns the square of the pawn captured en passant, if applicable.
func (m Move) EnPassantCapture() (Square, bool) {
	if m.Type != EnPassant {
		return ZeroSquare, false
	}
	return NewSquare(m.To.File(), m.From.Rank()), true
}

// EnPassantTarget returns the en passant target square created by a 2-square pawn jump.
func (m Move) EnPassantTarget() (Square, bool) {
	if m.Type != Jump {
		return ZeroSquare, false
	}
	mid := (m.From.Rank() + m.To.Rank()) / 2
	return NewSquare(m.From.File(), mid), true
}

// CastlingRookMove returns the rook squares moved alongside a castling king move.
func (m Move) CastlingRookMove() (Square, Square, bool) {
	switch m.Type {
	case KingSideCastle:
		if m.From.Rank() == Rank1 {
			return H1, F1, true
		}
		return H8, F8, true
	case QueenSideCastle:
		if m.From.Rank() == Rank1 {
			return A1, D1, true
		}
		return A8, D8, true
	default:
		return ZeroSquare, ZeroSquare, false
	}
}

// CastlingRightsLost returns the castling rights revoked as a result of making this move,
// whether by moving the king, moving a rook off its home square or capturing one there.
func (m Move) CastlingRightsLost() Castling {
	var lost Castling

	if m.Piece == King {
		switch m.From {
		case E1:
			lost |= WhiteKingSideCastle | WhiteQueenSideCastle
		case E8:
			lost |= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	lost |= rookCornerRights(m.From)
	lost |= rookCornerRights(m.To)
	return lost
}

func rookCornerRights(sq Square) Castling {
	switch sq {
	case H1:
		return WhiteKingSideCastle
	case A1:
		return WhiteQueenSideCastle
	case H8:
		return BlackKingSideCastle
	case A8:
		return BlackQueenSideCastle
	default:
		return 0
	}
}

func (m Move) String() string {
	if m.Promotion.IsValid() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// PrintMoves prints a sequence of moves, space-separated.
func PrintMoves(moves []Move) string {
	var list []string
	for _, m := range moves {
		list = append(list, m.String())
	}
	return strings.Join(list, " ")
}

// ByMVVLVA sorts moves by most-valuable-victim/least-valuable-attacker, without requiring
// an evaluation function: it is a cheap, board-package-local approximation based on the
// Piece enum order, which is itself ordered by ascending nominal value.
type ByMVVLVA []Move

func (l ByMVVLVA) Len() int      { return len(l) }
func (l ByMVVLVA) Swap(i, j int) { l[i], l[j] = l[j], l[i] }
func (l ByMVVLVA) Less(i, j int) bool {
	return mvvlvaRank(l[i]) > mvvlvaRank(l[j])
}

func mvvlvaRank(m Move) int {
	switch m.Type {
	case Capture, CapturePromotion:
		return int(m.Capture)*8 - int(m.Piece)
	case Promotion:
		return int(m.Promotion) * 8
	case EnPassant:
		return int(Pawn) * 8
	default:
		return 0
	}
}
