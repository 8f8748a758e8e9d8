package mcts_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/kestrelgames/boardhouse/internal/ai/mcts"
	"github.com/kestrelgames/boardhouse/internal/games/azul"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AzulEvaluator must route through azul.Encode/azul.Mask rather than reading raw state
// directly: its priors should assign all their mass to the moves azul.Mask marks legal,
// zero to everything else, and sum to 1 over the legal set.
func TestAzulEvaluatorPriorsMatchMask(t *testing.T) {
	e := azul.Engine{}
	cfg, err := json.Marshal(azul.Config{Players: 2, Seed: 9})
	require.NoError(t, err)
	init, err := e.Initial(cfg)
	require.NoError(t, err)
	st := init.(azul.State)

	moves := e.LegalMoves(st)
	require.NotEmpty(t, moves)

	value, priors := mcts.AzulEvaluator{}.Evaluate(context.Background(), e, st, moves)
	require.Len(t, priors, len(moves))

	mask := azul.Mask(st)
	sum := 0.0
	for i, mv := range moves {
		idx := azul.EncodeAction(mv.(azul.Move))
		if mask[idx] {
			assert.Greater(t, priors[i], 0.0)
		}
		sum += priors[i]
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.GreaterOrEqual(t, value, -1.0)
	assert.LessOrEqual(t, value, 1.0)
}
