package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// The aggregator ratio must always be the floored quotient
// answer1 * 10^decimals / answer2, regardless of the feed magnitudes.
func TestAggregatorRatio_FlooredQuotient(t *testing.T) {
	f := setupAggregator(t)
	now := f.Ctx.BlockTime().Unix()

	rapid.Check(t, func(rt *rapid.T) {
		answer1 := rapid.Int64Range(1, 1_000_000_000_000).Draw(rt, "answer1")
		answer2 := rapid.Int64Range(1, 1_000_000_000_000).Draw(rt, "answer2")

		require.NoError(rt, f.Keeper.StoreRelayedRound(f.Ctx, "usd-bond", newRound(1, answer1, now)))
		require.NoError(rt, f.Keeper.StoreRelayedRound(f.Ctx, "eur-bond", newRound(1, answer2, now)))

		round, decimals, err := f.Keeper.LatestRoundData(f.Ctx, "usd-eur")
		require.NoError(rt, err)

		scale := math.NewIntWithDecimal(1, int(decimals))
		numerator := math.NewInt(answer1).Mul(scale)
		a2 := math.NewInt(answer2)

		// floor property: answer*a2 <= a1*scale < (answer+1)*a2
		require.True(rt, round.Answer.Mul(a2).LTE(numerator),
			"ratio %s too large for %d/%d", round.Answer, answer1, answer2)
		require.True(rt, round.Answer.Add(math.OneInt()).Mul(a2).GT(numerator),
			"ratio %s too small for %d/%d", round.Answer, answer1, answer2)
	})
}
