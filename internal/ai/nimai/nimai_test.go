package nimai_test

import (
	"context"
	"testing"

	"github.com/kestrelgames/boardhouse/internal/ai/nimai"
	"github.com/kestrelgames/boardhouse/internal/games/nim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Misère endgame from the all-piles-at-most-one phase: piles [0,0,1,1,1], 3 ones
// remaining. Every move takes one whole 1-pile and leaves 2 (even) for the opponent,
// so no winning move exists here; the strategy must still return a move the engine
// accepts.
func TestMisereEndgameReturnsLegalMove(t *testing.T) {
	s := nimai.Strategy{}
	st := nim.State{Piles: []int{0, 0, 1, 1, 1}, Turn: "p1"}
	m, err := s.SelectMove(context.Background(), st)
	require.NoError(t, err)
	require.NotNil(t, m)

	e := nim.Engine{}
	_, _, err = e.Apply(st, m)
	assert.NoError(t, err)
}

func TestNormalPositionReducesNimsumToZero(t *testing.T) {
	s := nimai.Strategy{}
	e := nim.Engine{}

	// [3,5,7], all piles >1 (nimsum=1, nonzero), standard nim-sum play applies.
	st := nim.State{Piles: []int{3, 5, 7}, Turn: "p1"}
	m, err := s.SelectMove(context.Background(), st)
	require.NoError(t, err)
	require.NotNil(t, m)

	next, _, err := e.Apply(st, m)
	require.NoError(t, err)

	ns := next.(nim.State)
	nimsum := 0
	for _, n := range ns.Piles {
		nimsum ^= n
	}
	assert.Equal(t, 0, nimsum)
}

func TestFinalMoveWinsGame(t *testing.T) {
	s := nimai.Strategy{}
	e := nim.Engine{}

	// Single pile of 2 left, mover must take objects; misère means taking the
	// last object loses, so with 2 remaining the mover should take exactly 1,
	// leaving the opponent to take the last and lose.
	st := nim.State{Piles: []int{2}, Turn: "p1"}
	m, err := s.SelectMove(context.Background(), st)
	require.NoError(t, err)

	mv := m.(nim.Move)
	assert.Equal(t, 1, mv.Count)
}
