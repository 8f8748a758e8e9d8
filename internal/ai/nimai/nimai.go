// Package nimai implements the closed-form optimal misère-Nim strategy (spec §4.3.3).
package nimai

import (
	"context"

	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/nim"
)

// Strategy selects the optimal misère-Nim move.
type Strategy struct{}

func (Strategy) SelectMove(ctx context.Context, s games.State) (games.Move, error) {
	st := s.(nim.State)

	nimsum := 0
	bigPiles := 0
	bigIdx := -1
	ones := 0
	for i, n := range st.Piles {
		nimsum ^= n
		if n > 1 {
			bigPiles++
			bigIdx = i
		}
		if n == 1 {
			ones++
		}
	}

	if bigPiles == 0 {
		// Every remaining pile is 0 or 1: no strategic choice remains, each move takes
		// exactly one whole pile. Take any nonempty pile.
		for i, n := range st.Piles {
			if n > 0 {
				return nim.Move{Pile: i, Count: n}, nil
			}
		}
		return nil, nil
	}

	if bigPiles == 1 {
		// Exactly one pile has size > 1: the pivotal misère decision. Leave the
		// opponent an odd number of 1-piles, since from N one-piles the player to
		// move loses iff N is odd.
		n := st.Piles[bigIdx]
		if ones%2 == 0 {
			// Leave 1 in the big pile: ones+1 is odd.
			return nim.Move{Pile: bigIdx, Count: n - 1}, nil
		}
		// ones is already odd: take the whole big pile, leaving ones unchanged.
		return nim.Move{Pile: bigIdx, Count: n}, nil
	}

	// More than one pile > 1: normal nim-sum play still applies, since the misère
	// adjustment only matters at the transition into the <=1 regime.
	if nimsum == 0 {
		// Losing position under normal play: no move preserves the invariant. Play
		// to reduce the first pile larger than 1 to 1, postponing the transition.
		for i, n := range st.Piles {
			if n > 1 {
				return nim.Move{Pile: i, Count: n - 1}, nil
			}
		}
	}
	for i, n := range st.Piles {
		target := n ^ nimsum
		if target < n {
			return nim.Move{Pile: i, Count: n - target}, nil
		}
	}

	// Fallback: take one object from the first nonempty pile.
	for i, n := range st.Piles {
		if n > 0 {
			return nim.Move{Pile: i, Count: 1}, nil
		}
	}
	return nil, nil
}
