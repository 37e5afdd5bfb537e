package keeper

import (
	"context"

	"cosmossdk.io/math"

	"github.com/obligo-chain/obligo/x/pricefeed/types"
)

// LatestRoundData resolves an id against feeds first, then aggregators, and
// returns the latest round together with the decimals the answer is scaled
// by. Feeds that never received a delivery return the zero round rather than
// an error; unknown ids fail with ErrSourceNotFound.
func (k Keeper) LatestRoundData(ctx context.Context, id string) (types.Round, uint32, error) {
	if feed, found := k.GetFeed(ctx, id); found {
		return k.GetLatestRound(ctx, id), feed.Decimals, nil
	}

	if agg, found := k.GetAggregator(ctx, id); found {
		round, err := k.latestAggregatedRound(ctx, agg)
		if err != nil {
			return types.Round{}, 0, err
		}
		return round, agg.Decimals, nil
	}

	return types.Round{}, 0, types.ErrSourceNotFound.Wrapf("no feed or aggregator with id %s", id)
}

// GetRoundData returns a specific historical round of a feed or aggregator.
// Aggregators store no rounds of their own; their history is composed on
// demand from the two underlying feeds' rounds with the same round id.
func (k Keeper) GetRoundData(ctx context.Context, id string, roundId math.Int) (types.Round, uint32, error) {
	if feed, found := k.GetFeed(ctx, id); found {
		round, found := k.GetRound(ctx, id, roundId)
		if !found {
			return types.Round{}, 0, types.ErrRoundNotFound.Wrapf("feed %s round %s", id, roundId)
		}
		return round, feed.Decimals, nil
	}

	if agg, found := k.GetAggregator(ctx, id); found {
		round1, found1 := k.GetRound(ctx, agg.Feed1Id, roundId)
		round2, found2 := k.GetRound(ctx, agg.Feed2Id, roundId)
		if !found1 || !found2 {
			return types.Round{}, 0, types.ErrRoundNotFound.Wrapf("aggregator %s round %s", id, roundId)
		}
		round, err := aggregatedRound(agg, round1, round2)
		if err != nil {
			return types.Round{}, 0, err
		}
		return round, agg.Decimals, nil
	}

	return types.Round{}, 0, types.ErrSourceNotFound.Wrapf("no feed or aggregator with id %s", id)
}

// Decimals returns the answer scale of a feed or aggregator
func (k Keeper) Decimals(ctx context.Context, id string) (uint32, error) {
	if feed, found := k.GetFeed(ctx, id); found {
		return feed.Decimals, nil
	}
	if agg, found := k.GetAggregator(ctx, id); found {
		return agg.Decimals, nil
	}
	return 0, types.ErrSourceNotFound.Wrapf("no feed or aggregator with id %s", id)
}

// Description returns the human-readable description of a feed, or a
// synthesized one for aggregators.
func (k Keeper) Description(ctx context.Context, id string) (string, error) {
	if feed, found := k.GetFeed(ctx, id); found {
		return feed.Description, nil
	}
	if agg, found := k.GetAggregator(ctx, id); found {
		return agg.Feed1Id + " / " + agg.Feed2Id, nil
	}
	return "", types.ErrSourceNotFound.Wrapf("no feed or aggregator with id %s", id)
}

// Version reports the implementation version of a feed or aggregator
func (k Keeper) Version(ctx context.Context, id string) (uint64, error) {
	if _, found := k.GetFeed(ctx, id); found {
		return types.FeedVersion, nil
	}
	if _, found := k.GetAggregator(ctx, id); found {
		return types.AggregatorVersion, nil
	}
	return 0, types.ErrSourceNotFound.Wrapf("no feed or aggregator with id %s", id)
}

// latestAggregatedRound composes the ratio round from the two feeds' latest
// rounds. While either feed is still unwritten the aggregator serves the
// zero round rather than an error.
func (k Keeper) latestAggregatedRound(ctx context.Context, agg types.Aggregator) (types.Round, error) {
	round1 := k.GetLatestRound(ctx, agg.Feed1Id)
	round2 := k.GetLatestRound(ctx, agg.Feed2Id)

	if round1.IsZero() || round2.IsZero() {
		return types.ZeroRound(), nil
	}

	return aggregatedRound(agg, round1, round2)
}

// aggregatedRound computes an aggregator's ratio round:
// answer = answer1 * 10^decimals / answer2, floored. Round metadata (ids and
// timestamps) comes from feed1 only; feed2 contributes the divisor and the
// update-time window check.
func aggregatedRound(agg types.Aggregator, round1, round2 types.Round) (types.Round, error) {
	skew := round1.UpdatedAt - round2.UpdatedAt
	if skew < 0 {
		skew = -skew
	}
	if skew > types.AggregatorToleranceSeconds {
		return types.Round{}, types.ErrPriceFeedsTimeMismatch.Wrapf(
			"feed %s updated at %d, feed %s updated at %d",
			agg.Feed1Id, round1.UpdatedAt, agg.Feed2Id, round2.UpdatedAt,
		)
	}

	if round2.Answer.IsZero() {
		return types.Round{}, types.ErrInvalidPriceValue.Wrapf("feed %s answer is zero", agg.Feed2Id)
	}

	scale := math.NewIntWithDecimal(1, int(agg.Decimals))
	answer := flooredQuo(round1.Answer.Mul(scale), round2.Answer)

	return types.Round{
		RoundId:         round1.RoundId,
		Answer:          answer,
		StartedAt:       round1.StartedAt,
		UpdatedAt:       round1.UpdatedAt,
		AnsweredInRound: round1.AnsweredInRound,
	}, nil
}

// flooredQuo divides rounding toward negative infinity. math.Int.Quo
// truncates toward zero, which rounds the wrong way for negative answers.
func flooredQuo(num, den math.Int) math.Int {
	quo := num.Quo(den)
	if quo.Mul(den).Equal(num) {
		return quo
	}
	if num.IsNegative() != den.IsNegative() {
		return quo.Sub(math.OneInt())
	}
	return quo
}
