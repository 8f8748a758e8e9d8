package mcts

import (
	"context"

	"github.com/kestrelgames/boardhouse/internal/games"
	"github.com/kestrelgames/boardhouse/internal/games/azul"
)

// AzulEvaluator is the single-player-optimization leaf evaluator Azul's default Strategy
// uses instead of Rollout. It is the predictor expansion calls with (obs(leaf.state),
// mask(leaf.state)): it encodes the leaf through azul.Encode and scores it off that fixed
// tensor (the mover's projected score margin over the field, plus the bonus-preview block's
// completed rows/cols/color-sets, normalized into roughly [-1, 1]), and derives its
// priors from azul.Mask rather than handing MCTS a uniform distribution over every legal
// move. Azul has no "win/lose" terminal tag to drive Rollout's outcomeValue convention, so
// scoring the position directly is both cheaper and more informative than a random playout
// to the (possibly many rounds away) true end of game.
type AzulEvaluator struct{}

func (AzulEvaluator) Evaluate(ctx context.Context, engine games.Engine, state games.State, moves []games.Move) (float64, []float64) {
	st := state.(azul.State)
	obs := azul.Encode(st)

	total := float32(0)
	for _, s := range obs.Score {
		total += s
	}
	avg := total / float32(len(obs.Score))

	// obs is rotated so index 0 is always the mover (azul.Encode's convention); the bonus
	// preview rewards a wall's completed rows/columns/color sets before they pay out at game
	// end.
	margin := obs.Score[0] - avg
	bonusPreview := obs.BonusPreview[0][0] + obs.BonusPreview[0][1] + obs.BonusPreview[0][2]

	// A 20-point lead over the field average is roughly "clearly ahead" for an Azul
	// scoreline; scale by it and clip into [-1, 1].
	value := float64(margin/20 + bonusPreview*0.05)
	if value > 1 {
		value = 1
	}
	if value < -1 {
		value = -1
	}

	mask := azul.Mask(st)
	legal := 0
	for _, ok := range mask {
		if ok {
			legal++
		}
	}
	priors := make([]float64, len(moves))
	for i, mv := range moves {
		idx := azul.EncodeAction(mv.(azul.Move))
		if idx < len(mask) && mask[idx] && legal > 0 {
			priors[i] = 1.0 / float64(legal)
		}
	}

	return value, priors
}
