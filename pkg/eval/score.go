package eval

import (
	"fmt"
	"math"

	"github.com/kestrelgames/boardhouse/pkg/board"
)

// Pawns is a static position evaluation expressed in units of a pawn, positive favoring
// the side being evaluated. It is the currency of Evaluator implementations, prior to
// being folded into a search Score.
type Pawns float64

func (p Pawns) String() string {
	return fmt.Sprintf("%.2f", float64(p))
}

// Unit returns the signed Pawns unit for the color: 1 for White and -1 for Black.
func Unit(c board.Color) Pawns {
	if c == board.White {
		return 1
	}
	return -1
}

// scoreUnit is the number of internal Score units per Pawn.
const scoreUnit = 1000

// mateRange is the band, just inside each infinity, reserved for mate-distance encoding:
// a score within mateRange of InfScore means "mate in N plies" for some small N, and
// likewise for NegInfScore and being mated.
const mateRange = 1000

// Score is a signed search score, extending Pawns with +/- infinity sentinels and a
// mate-distance encoding near those bounds, so that shorter mates are always preferred
// to longer ones by ordinary score comparison.
type Score struct {
	v int32
}

var (
	// NegInfScore and InfScore bound all valid, non-invalid scores.
	NegInfScore = Score{-(1 << 30)}
	InfScore    = Score{1 << 30}
	// ZeroScore is a neutral score, e.g. for a drawn position.
	ZeroScore = Score{0}
	// InvalidScore marks a score that was not actually computed, e.g. due to a halted search.
	InvalidScore = Score{math.MinInt32}
)

// HeuristicScore converts a static Pawns evaluation into a search Score.
func HeuristicScore(p Pawns) Score {
	return Score{int32(p * scoreUnit)}
}

// MateInXScore returns the score for delivering mate in n plies. n=0 means the position
// on the board is already checkmate.
func MateInXScore(n int) Score {
	return Score{InfScore.v - int32(n)}
}

// IsInvalid returns true iff the score is the sentinel invalid value.
func (s Score) IsInvalid() bool {
	return s == InvalidScore
}

// Less reports whether s is strictly less than o.
func (s Score) Less(o Score) bool {
	return s.v < o.v
}

// Negate returns the score from the opponent's perspective. NegInfScore and InfScore
// remain exact negations of each other, so negating a mate score stays in the mate band.
func (s Score) Negate() Score {
	return Score{-s.v}
}

// MateDistance returns the number of plies to mate and true, if the score falls within
// the mate band. Positive means the side to move delivers mate; negative means it is mated.
func (s Score) MateDistance() (int, bool) {
	switch {
	case s.v > InfScore.v-int32(mateRange) && s.v <= InfScore.v:
		return int(InfScore.v - s.v), true
	case s.v < NegInfScore.v+int32(mateRange) && s.v >= NegInfScore.v:
		return -int(s.v - NegInfScore.v), true
	default:
		return 0, false
	}
}

// IncrementMateDistance nudges a mate score one ply further from the node it was computed
// at, as it propagates up the search tree, so shorter mates keep sorting ahead of longer ones.
func IncrementMateDistance(s Score) Score {
	switch {
	case s.v > InfScore.v-int32(mateRange) && s.v <= InfScore.v:
		return Score{s.v - 1}
	case s.v < NegInfScore.v+int32(mateRange) && s.v >= NegInfScore.v:
		return Score{s.v + 1}
	default:
		return s
	}
}

// Max returns the larger of the two scores.
func Max(a, b Score) Score {
	if a.Less(b) {
		return b
	}
	return a
}

// Min returns the smaller of the two scores.
func Min(a, b Score) Score {
	if b.Less(a) {
		return b
	}
	return a
}

func (s Score) String() string {
	if n, ok := s.MateDistance(); ok {
		if n >= 0 {
			return fmt.Sprintf("mate in %d", n)
		}
		return fmt.Sprintf("mated in %d", -n)
	}
	return fmt.Sprintf("%.2f", float64(s.v)/scoreUnit)
}
