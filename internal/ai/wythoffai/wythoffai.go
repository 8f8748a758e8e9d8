// Package wythoffai implements the closed-form optimal Wythoff's-game strategy (spec
// §4.3.3), based on the golden-ratio characterization of cold (P-) positions.
package wythoffai

import (
	"context"
	"math"

	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/wythoff"
)

const goldenRatio = 1.6180339887498948482045868343656381177203091798057628621354486227

// Strategy selects the optimal Wythoff move: moves to a cold position if one is reachable,
// otherwise (the mover is already losing) returns any legal move.
type Strategy struct{}

func (Strategy) SelectMove(ctx context.Context, s games.State) (games.Move, error) {
	st := s.(wythoff.State)
	a, b := st.A, st.B

	if isCold(a, b) {
		// Already losing with perfect play: any legal move is as good as another.
		if a > 0 {
			return wythoff.Move{Kind: wythoff.Single, Pile: "a", Count: 1}, nil
		}
		if b > 0 {
			return wythoff.Move{Kind: wythoff.Single, Pile: "b", Count: 1}, nil
		}
		return nil, nil
	}

	// Try reducing pile a alone.
	for c := 1; c <= a; c++ {
		if isCold(a-c, b) {
			return wythoff.Move{Kind: wythoff.Single, Pile: "a", Count: c}, nil
		}
	}
	// Try reducing pile b alone.
	for c := 1; c <= b; c++ {
		if isCold(a, b-c) {
			return wythoff.Move{Kind: wythoff.Single, Pile: "b", Count: c}, nil
		}
	}
	// Try the diagonal move.
	m := a
	if b < m {
		m = b
	}
	for c := 1; c <= m; c++ {
		if isCold(a-c, b-c) {
			return wythoff.Move{Kind: wythoff.Diagonal, Count: c}, nil
		}
	}

	// Unreachable for a non-cold position, but fail safe with a legal move.
	if a > 0 {
		return wythoff.Move{Kind: wythoff.Single, Pile: "a", Count: 1}, nil
	}
	return wythoff.Move{Kind: wythoff.Single, Pile: "b", Count: 1}, nil
}

// isCold reports whether (a, b) is a P-position (previous player wins): the pair sorted
// ascending equals (floor(k*phi), floor(k*phi^2)) where k = |a-b|.
func isCold(a, b int) bool {
	if a == 0 && b == 0 {
		return true
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	k := hi - lo
	wantLo := int(math.Floor(float64(k) * goldenRatio))
	wantHi := wantLo + k
	return lo == wantLo && hi == wantHi
}
