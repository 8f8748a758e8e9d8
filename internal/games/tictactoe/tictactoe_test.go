package tictactoe_test

import (
	"encoding/json"
	"testing"

	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/tictactoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWin(t *testing.T) {
	e := tictactoe.Engine{}
	s, err := e.Initial(nil)
	require.NoError(t, err)

	moves := []int{0, 3, 1, 4, 2} // X: 0,1,2 top row; O: 3,4
	var status games.Status
	for i, cell := range moves {
		next, st, err := e.Apply(s, tictactoe.Move{Cell: cell})
		require.NoError(t, err, "move %d", i)
		s, status = next, st
	}
	assert.Equal(t, games.Status("x_won"), status)
}

func TestIllegalMoveOnOccupiedCell(t *testing.T) {
	e := tictactoe.Engine{}
	s, _ := e.Initial(nil)
	s, _, err := e.Apply(s, tictactoe.Move{Cell: 0})
	require.NoError(t, err)

	_, _, err = e.Apply(s, tictactoe.Move{Cell: 0})
	require.Error(t, err)
}

func TestStateRoundTrip(t *testing.T) {
	e := tictactoe.Engine{}
	s, _ := e.Initial(nil)
	s, _, _ = e.Apply(s, tictactoe.Move{Cell: 4})

	raw, err := e.EncodeState(s)
	require.NoError(t, err)

	decoded, err := e.DecodeState(raw)
	require.NoError(t, err)
	assert.Equal(t, s, decoded)

	var probe map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &probe))
	assert.Contains(t, probe, "cells")
}

func TestDrawWhenBoardFills(t *testing.T) {
	e := tictactoe.Engine{}
	s, _ := e.Initial(nil)
	// X O X
	// X O O
	// O X X
	seq := []int{0, 1, 2, 4, 3, 5, 7, 6, 8}
	var status games.Status
	for _, cell := range seq {
		next, st, err := e.Apply(s, tictactoe.Move{Cell: cell})
		require.NoError(t, err)
		s, status = next, st
	}
	assert.Equal(t, games.Draw, status)
}
