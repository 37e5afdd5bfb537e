package keeper

import (
	"context"
	"encoding/json"
	"math/big"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/pricefeed/types"
)

// SetRound writes a round record for a feed. Re-delivery of the same round id
// overwrites the previous record: the store keeps the last write.
func (k Keeper) SetRound(ctx context.Context, feedId string, round types.Round) error {
	if err := round.Validate(); err != nil {
		return err
	}

	bz, err := json.Marshal(round)
	if err != nil {
		return types.ErrInvalidRound.Wrapf("failed to marshal round: %s", err)
	}

	store := k.getStore(ctx)
	store.Set(types.GetRoundKey(feedId, round.RoundId), bz)
	return nil
}

// GetRound retrieves a specific round of a feed
func (k Keeper) GetRound(ctx context.Context, feedId string, roundId math.Int) (types.Round, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetRoundKey(feedId, roundId))
	if bz == nil {
		return types.Round{}, false
	}

	var round types.Round
	if err := json.Unmarshal(bz, &round); err != nil {
		return types.Round{}, false
	}
	return round, true
}

// SetLatestRoundId records the most recently delivered round id for a feed.
// The pointer always follows the latest delivery, even when an older round
// id arrives after a newer one.
func (k Keeper) SetLatestRoundId(ctx context.Context, feedId string, roundId math.Int) {
	store := k.getStore(ctx)
	store.Set(types.GetLatestRoundKey(feedId), types.RoundIdBytes(roundId))
}

// GetLatestRoundId returns the feed's latest round pointer
func (k Keeper) GetLatestRoundId(ctx context.Context, feedId string) (math.Int, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetLatestRoundKey(feedId))
	if bz == nil {
		return math.ZeroInt(), false
	}
	return math.NewIntFromBigInt(newBigIntFromBytes(bz)), true
}

// GetLatestRound returns the round the latest pointer designates, or the
// zero round when the feed has never received a delivery.
func (k Keeper) GetLatestRound(ctx context.Context, feedId string) types.Round {
	latestId, found := k.GetLatestRoundId(ctx, feedId)
	if !found {
		return types.ZeroRound()
	}
	round, found := k.GetRound(ctx, feedId, latestId)
	if !found {
		return types.ZeroRound()
	}
	return round
}

// GetAllRounds returns every stored round of a feed in round id order
func (k Keeper) GetAllRounds(ctx context.Context, feedId string) ([]types.Round, error) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.GetRoundsByFeedPrefix(feedId))
	defer iterator.Close()

	var rounds []types.Round
	for ; iterator.Valid(); iterator.Next() {
		var round types.Round
		if err := json.Unmarshal(iterator.Value(), &round); err != nil {
			return nil, types.ErrInvalidRound.Wrapf("corrupted round record: %s", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, nil
}

// SubmitRound records a new round on a locally-sourced feed. Relay-mirrored
// feeds reject direct submission; they only accept authenticated deliveries
// through the IBC path.
func (k Keeper) SubmitRound(ctx sdk.Context, submitter string, feedId string, round types.Round) error {
	feed, found := k.GetFeed(ctx, feedId)
	if !found {
		return types.ErrFeedNotFound.Wrapf("feed %s", feedId)
	}
	if !feed.Local {
		return types.ErrNotLocalFeed.Wrapf("feed %s is relay-mirrored", feedId)
	}
	if feed.Admin != "" && feed.Admin != submitter {
		return types.ErrInvalidAuthority.Wrapf("submitter %s is not the feed admin", submitter)
	}

	if err := k.storeRound(ctx, feedId, round); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundSubmitted,
			sdk.NewAttribute(types.AttributeKeyFeedId, feedId),
			sdk.NewAttribute(types.AttributeKeyRoundId, round.RoundId.String()),
			sdk.NewAttribute(types.AttributeKeyAnswer, round.Answer.String()),
		),
	)

	k.metrics.RoundsSubmitted.WithLabelValues(feedId).Inc()
	k.metrics.LatestAnswer.WithLabelValues(feedId).Set(answerGaugeValue(round.Answer))

	k.Logger(ctx).Info("round submitted",
		"feed_id", feedId,
		"round_id", round.RoundId.String(),
		"submitter", submitter,
	)
	return nil
}

// StoreRelayedRound records a round delivered through the relay for a
// mirrored feed. The caller has already authenticated the delivery against
// the feed's configured source pair. Deliveries may arrive out of order; the
// latest pointer still advances unconditionally so reads always reflect the
// most recent delivery.
func (k Keeper) StoreRelayedRound(ctx sdk.Context, feedId string, round types.Round) error {
	if err := k.storeRound(ctx, feedId, round); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundReceived,
			sdk.NewAttribute(types.AttributeKeyFeedId, feedId),
			sdk.NewAttribute(types.AttributeKeyRoundId, round.RoundId.String()),
			sdk.NewAttribute(types.AttributeKeyAnswer, round.Answer.String()),
		),
	)

	k.metrics.RoundsReceived.WithLabelValues(feedId).Inc()
	k.metrics.LatestAnswer.WithLabelValues(feedId).Set(answerGaugeValue(round.Answer))

	k.Logger(ctx).Info("relayed round stored",
		"feed_id", feedId,
		"round_id", round.RoundId.String(),
		"answer", round.Answer.String(),
	)
	return nil
}

func (k Keeper) storeRound(ctx sdk.Context, feedId string, round types.Round) error {
	if err := k.SetRound(ctx, feedId, round); err != nil {
		return err
	}
	k.SetLatestRoundId(ctx, feedId, round.RoundId)
	return nil
}

// answerGaugeValue converts a stored answer to a float for the metrics
// gauge. Precision loss here is acceptable; the store keeps the exact value.
func answerGaugeValue(answer math.Int) float64 {
	f, _ := math.LegacyNewDecFromInt(answer).Float64()
	return f
}

func sdkIntFromString(s string) (math.Int, bool) {
	return math.NewIntFromString(s)
}

func newBigIntFromBytes(bz []byte) *big.Int {
	return new(big.Int).SetBytes(bz)
}
