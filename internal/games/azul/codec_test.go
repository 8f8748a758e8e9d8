package azul_test

import (
	"testing"

	"github.com/kestrelgames/boardhouse/internal/games/azul"
	"github.com/stretchr/testify/assert"
)

func TestActionEncodeDecodeRoundTrip(t *testing.T) {
	for source := 0; source <= 5; source++ {
		for c := 0; c < azul.NumColors; c++ {
			for dest := 0; dest < azul.NumDestinations; dest++ {
				mv := azul.Move{Source: source, Color: azul.Color(c), Destination: dest}
				action := azul.EncodeAction(mv)
				got := azul.DecodeAction(action)
				assert.Equal(t, mv, got)
			}
		}
	}
}

func TestActionSpaceSizeForTwoPlayers(t *testing.T) {
	// 5 factories + 1 center = 6 sources, 5 colors, 6 destinations (5 rows + floor).
	assert.Equal(t, 6*azul.NumColors*azul.NumDestinations, azul.ActionSpace(5))
}

func TestEncodeObservationRotatesToCurrentMover(t *testing.T) {
	st := initial(t, 2)
	st.Turn = 1

	obs := azul.Encode(st)
	assert.Equal(t, 1, obs.CurrentPlayer)
	assert.Len(t, obs.Score, 2)
	assert.Len(t, obs.Factories, len(st.Factories)+1)

	// index 0 in the rotated observation is always the mover, i.e. player 1's score.
	assert.Equal(t, float32(st.Players[1].Score), obs.Score[0])
	assert.Equal(t, float32(st.Players[0].Score), obs.Score[1])
}

func TestEncodeFactoriesMatchRawCounts(t *testing.T) {
	st := initial(t, 3)
	obs := azul.Encode(st)

	for f, counts := range st.Factories {
		for c := 0; c < azul.NumColors; c++ {
			assert.Equal(t, float32(counts[c]), obs.Factories[f][c])
		}
	}
	for c := 0; c < azul.NumColors; c++ {
		assert.Equal(t, float32(st.Center[c]), obs.Factories[len(st.Factories)][c])
	}
}

// RoundOneHot is a fixed 8-position vector regardless of how far into the game st is, with
// rounds 8 and beyond all clamped onto the last slot, so a predictor always sees the same
// tensor shape.
func TestRoundOneHotIsFixedLengthAndClampsAtEight(t *testing.T) {
	st := initial(t, 2)

	st.Round = 1
	obs := azul.Encode(st)
	assert.Len(t, obs.RoundOneHot, 8)
	assert.Equal(t, float32(1), obs.RoundOneHot[0])

	st.Round = 8
	obs = azul.Encode(st)
	assert.Len(t, obs.RoundOneHot, 8)
	assert.Equal(t, float32(1), obs.RoundOneHot[7])

	st.Round = 40
	obs = azul.Encode(st)
	assert.Len(t, obs.RoundOneHot, 8)
	assert.Equal(t, float32(1), obs.RoundOneHot[7])
}

func TestEncodeGlobalBlockCarriesFloorRowsBonusPreviewAndRemainingTiles(t *testing.T) {
	st := initial(t, 2)
	st.Players[st.Turn].Floor[0] = int(azul.Blue)
	st.Players[st.Turn].Floor[1] = azul.MarkerToken
	st.Players[st.Turn].FloorLen = 2

	obs := azul.Encode(st)
	assert.Equal(t, float32(azul.Blue), obs.FloorRows[0][0])
	assert.Equal(t, float32(azul.MarkerToken), obs.FloorRows[0][1])
	assert.Equal(t, float32(azul.EmptySlot), obs.FloorRows[0][2])

	assert.Len(t, obs.BonusPreview, len(st.Players))
	assert.Equal(t, [3]float32{0, 0, 0}, obs.BonusPreview[0])

	var wantRemaining [azul.NumColors]float32
	for c := 0; c < azul.NumColors; c++ {
		total := st.Bag[c] + st.Discard[c] + st.Center[c]
		for _, f := range st.Factories {
			total += f[c]
		}
		wantRemaining[c] = float32(total)
	}
	assert.Equal(t, wantRemaining, obs.RemainingTiles)
}

// Mask must agree with LegalMoves: every legal move's EncodeAction index is true, and no
// other index is.
func TestMaskAgreesWithLegalMoves(t *testing.T) {
	st := initial(t, 2)
	e := azul.Engine{}

	mask := azul.Mask(st)
	legal := map[int]bool{}
	for _, mv := range e.LegalMoves(st) {
		legal[azul.EncodeAction(mv.(azul.Move))] = true
	}

	for idx, ok := range mask {
		assert.Equal(t, legal[idx], ok, "mismatch at action index %d", idx)
	}
	assert.Len(t, mask, azul.ActionSpace(len(st.Factories)))
}
