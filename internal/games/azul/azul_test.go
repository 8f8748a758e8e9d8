package azul_test

import (
	"encoding/json"
	"testing"

	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/azul"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initial(t *testing.T, players int) azul.State {
	t.Helper()
	e := azul.Engine{}
	cfg, err := json.Marshal(azul.Config{Players: players, Seed: 42})
	require.NoError(t, err)
	s, err := e.Initial(cfg)
	require.NoError(t, err)
	return s.(azul.State)
}

func TestInitialTileConservation(t *testing.T) {
	st := initial(t, 2)

	total := 0
	for _, n := range st.Bag {
		total += n
	}
	for _, f := range st.Factories {
		for _, n := range f {
			total += n
		}
	}
	for _, n := range st.Center {
		total += n
	}
	assert.Equal(t, azul.TotalTiles, total)
}

func TestFactoriesHaveFourTilesEach(t *testing.T) {
	st := initial(t, 2)
	assert.Len(t, st.Factories, 5) // 2*2+1

	for _, f := range st.Factories {
		sum := 0
		for _, n := range f {
			sum += n
		}
		assert.Equal(t, 4, sum)
	}
}

func TestLegalMovesNonEmptyAtStart(t *testing.T) {
	st := initial(t, 2)
	e := azul.Engine{}
	moves := e.LegalMoves(st)
	assert.NotEmpty(t, moves)
}

func TestApplyMovesResidueToCenter(t *testing.T) {
	st := initial(t, 2)
	e := azul.Engine{}

	var color azul.Color
	for c := 0; c < azul.NumColors; c++ {
		if st.Factories[0][c] > 0 {
			color = azul.Color(c)
			break
		}
	}

	next, status, err := e.Apply(st, azul.Move{Source: 0, Color: color, Destination: 0})
	require.NoError(t, err)
	assert.Equal(t, games.InProgress, status)

	ns := next.(azul.State)
	assert.Equal(t, [azul.NumColors]int{}, ns.Factories[0])

	leftover := 0
	for c := 0; c < azul.NumColors; c++ {
		leftover += ns.Center[c]
	}
	assert.Greater(t, leftover, 0, "non-taken colors from the factory must land in the center")
}

func TestApplyRejectsColorMismatchOnPatternLine(t *testing.T) {
	st := initial(t, 2)
	e := azul.Engine{}

	var firstColor azul.Color
	for c := 0; c < azul.NumColors; c++ {
		if st.Factories[0][c] > 0 {
			firstColor = azul.Color(c)
			break
		}
	}
	next, _, err := e.Apply(st, azul.Move{Source: 0, Color: firstColor, Destination: 4})
	require.NoError(t, err)
	ns := next.(azul.State)
	ns.Turn = st.Turn // the same player tries a second color on the same pattern line

	var otherColor azul.Color = -1
	for i := 1; i < len(ns.Factories); i++ {
		for c := 0; c < azul.NumColors; c++ {
			if azul.Color(c) != firstColor && ns.Factories[i][c] > 0 {
				otherColor = azul.Color(c)
				break
			}
		}
		if otherColor != -1 {
			break
		}
	}
	if otherColor == -1 {
		t.Skip("no second distinct color available in this seeded deal")
	}

	_, _, err = e.Apply(ns, azul.Move{Source: 1, Color: otherColor, Destination: 4})
	assert.Error(t, err)
}

func TestFirstPlayerMarkerGoesToFloorOnCenterTake(t *testing.T) {
	st := initial(t, 2)
	e := azul.Engine{}

	// Drain all factories into the center by taking every color out of every factory.
	cur := st
	for i, f := range st.Factories {
		for c := 0; c < azul.NumColors; c++ {
			if f[c] == 0 {
				continue
			}
			next, _, err := e.Apply(cur, azul.Move{Source: i, Color: azul.Color(c), Destination: azul.Floor})
			require.NoError(t, err)
			cur = next.(azul.State)
			break
		}
	}

	require.True(t, cur.FirstMarkerInCenter)

	var centerColor azul.Color = -1
	for c := 0; c < azul.NumColors; c++ {
		if cur.Center[c] > 0 {
			centerColor = azul.Color(c)
			break
		}
	}
	require.NotEqual(t, azul.Color(-1), centerColor)

	mover := cur.Turn
	next, _, err := e.Apply(cur, azul.Move{Source: len(cur.Factories), Color: centerColor, Destination: azul.Floor})
	require.NoError(t, err)
	ns := next.(azul.State)

	found := false
	for _, v := range ns.Players[mover].Floor {
		if v == azul.MarkerToken {
			found = true
		}
	}
	assert.True(t, found)
	assert.False(t, ns.FirstMarkerInCenter)
}

func TestCloneIsIndependent(t *testing.T) {
	st := initial(t, 2)
	e := azul.Engine{}
	clone := e.Clone(st).(azul.State)

	clone.Players[0].Score = 999
	clone.Factories[0][0] = 999

	assert.NotEqual(t, 999, st.Players[0].Score)
	assert.NotEqual(t, 999, st.Factories[0][0])
}

func TestEncodeDecodeStateRoundTrip(t *testing.T) {
	st := initial(t, 3)
	e := azul.Engine{}

	raw, err := e.EncodeState(st)
	require.NoError(t, err)

	decoded, err := e.DecodeState(raw)
	require.NoError(t, err)

	ds := decoded.(azul.State)
	assert.Equal(t, st.Round, ds.Round)
	assert.Equal(t, st.Turn, ds.Turn)
	assert.Equal(t, st.Factories, ds.Factories)
	assert.Equal(t, st.Players, ds.Players)
}
