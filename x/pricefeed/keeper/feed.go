package keeper

import (
	"context"
	"encoding/json"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/pricefeed/types"
)

// SetFeed stores a feed configuration
func (k Keeper) SetFeed(ctx context.Context, feed types.Feed) error {
	if err := feed.Validate(); err != nil {
		return err
	}

	bz, err := json.Marshal(feed)
	if err != nil {
		return types.ErrInvalidFeed.Wrapf("failed to marshal feed: %s", err)
	}

	store := k.getStore(ctx)
	store.Set(types.GetFeedKey(feed.FeedId), bz)
	return nil
}

// GetFeed retrieves a feed configuration by id
func (k Keeper) GetFeed(ctx context.Context, feedId string) (types.Feed, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetFeedKey(feedId))
	if bz == nil {
		return types.Feed{}, false
	}

	var feed types.Feed
	if err := json.Unmarshal(bz, &feed); err != nil {
		return types.Feed{}, false
	}
	return feed, true
}

// HasFeed reports whether a feed with the given id exists
func (k Keeper) HasFeed(ctx context.Context, feedId string) bool {
	return k.getStore(ctx).Has(types.GetFeedKey(feedId))
}

// CreateFeed registers a new feed. The authority must match the module's
// governance account. Feed and aggregator ids share one namespace so that
// consumers can resolve either through the same lookup.
func (k Keeper) CreateFeed(ctx sdk.Context, authority string, feed types.Feed) error {
	if authority != k.authority {
		return types.ErrInvalidAuthority.Wrapf("expected %s, got %s", k.authority, authority)
	}
	if k.HasFeed(ctx, feed.FeedId) {
		return types.ErrFeedAlreadyExists.Wrapf("feed %s", feed.FeedId)
	}
	if k.HasAggregator(ctx, feed.FeedId) {
		return types.ErrFeedAlreadyExists.Wrapf("id %s already used by an aggregator", feed.FeedId)
	}

	if err := k.SetFeed(ctx, feed); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeedCreated,
			sdk.NewAttribute(types.AttributeKeyFeedId, feed.FeedId),
			sdk.NewAttribute(types.AttributeKeySourceChannel, feed.SourceChannel),
			sdk.NewAttribute(types.AttributeKeySourceSender, feed.SourceSender),
		),
	)

	k.Logger(ctx).Info("feed created",
		"feed_id", feed.FeedId,
		"local", feed.Local,
		"decimals", feed.Decimals,
	)
	return nil
}

// IterateFeeds walks all stored feeds, stopping when cb returns true
func (k Keeper) IterateFeeds(ctx context.Context, cb func(types.Feed) bool) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.FeedKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var feed types.Feed
		if err := json.Unmarshal(iterator.Value(), &feed); err != nil {
			return types.ErrInvalidFeed.Wrapf("corrupted feed record: %s", err)
		}
		if cb(feed) {
			break
		}
	}
	return nil
}

// SetAggregator stores an aggregator configuration
func (k Keeper) SetAggregator(ctx context.Context, agg types.Aggregator) error {
	if err := agg.Validate(); err != nil {
		return err
	}

	bz, err := json.Marshal(agg)
	if err != nil {
		return types.ErrInvalidAggregator.Wrapf("failed to marshal aggregator: %s", err)
	}

	store := k.getStore(ctx)
	store.Set(types.GetAggregatorKey(agg.AggregatorId), bz)
	return nil
}

// GetAggregator retrieves an aggregator configuration by id
func (k Keeper) GetAggregator(ctx context.Context, aggregatorId string) (types.Aggregator, bool) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetAggregatorKey(aggregatorId))
	if bz == nil {
		return types.Aggregator{}, false
	}

	var agg types.Aggregator
	if err := json.Unmarshal(bz, &agg); err != nil {
		return types.Aggregator{}, false
	}
	return agg, true
}

// HasAggregator reports whether an aggregator with the given id exists
func (k Keeper) HasAggregator(ctx context.Context, aggregatorId string) bool {
	return k.getStore(ctx).Has(types.GetAggregatorKey(aggregatorId))
}

// CreateAggregator registers a ratio aggregator over two existing feeds.
func (k Keeper) CreateAggregator(ctx sdk.Context, authority string, agg types.Aggregator) error {
	if authority != k.authority {
		return types.ErrInvalidAuthority.Wrapf("expected %s, got %s", k.authority, authority)
	}
	if k.HasAggregator(ctx, agg.AggregatorId) {
		return types.ErrAggregatorAlreadyExists.Wrapf("aggregator %s", agg.AggregatorId)
	}
	if k.HasFeed(ctx, agg.AggregatorId) {
		return types.ErrAggregatorAlreadyExists.Wrapf("id %s already used by a feed", agg.AggregatorId)
	}
	if !k.HasFeed(ctx, agg.Feed1Id) {
		return types.ErrFeedNotFound.Wrapf("feed %s", agg.Feed1Id)
	}
	if !k.HasFeed(ctx, agg.Feed2Id) {
		return types.ErrFeedNotFound.Wrapf("feed %s", agg.Feed2Id)
	}

	if err := k.SetAggregator(ctx, agg); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAggregatorCreated,
			sdk.NewAttribute(types.AttributeKeyAggregatorId, agg.AggregatorId),
			sdk.NewAttribute(types.AttributeKeyFeedId, agg.Feed1Id),
			sdk.NewAttribute(types.AttributeKeyFeed2Id, agg.Feed2Id),
		),
	)

	k.Logger(ctx).Info("aggregator created",
		"aggregator_id", agg.AggregatorId,
		"feed1", agg.Feed1Id,
		"feed2", agg.Feed2Id,
	)
	return nil
}

// IterateAggregators walks all stored aggregators, stopping when cb returns
// true
func (k Keeper) IterateAggregators(ctx context.Context, cb func(types.Aggregator) bool) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.AggregatorKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var agg types.Aggregator
		if err := json.Unmarshal(iterator.Value(), &agg); err != nil {
			return types.ErrInvalidAggregator.Wrapf("corrupted aggregator record: %s", err)
		}
		if cb(agg) {
			break
		}
	}
	return nil
}
