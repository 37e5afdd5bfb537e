package keeper_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	testkeeper "github.com/obligo-chain/obligo/testutil/keeper"
	"github.com/obligo-chain/obligo/x/pricefeed/types"
)

func TestCreateFeed(t *testing.T) {
	f := testkeeper.PricefeedKeeper(t)

	t.Run("requires the module authority", func(t *testing.T) {
		err := f.Keeper.CreateFeed(f.Ctx, testAddr().String(), types.Feed{
			FeedId: "usd-bond",
			Local:  true,
		})
		require.ErrorIs(t, err, types.ErrInvalidAuthority)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		createLocalFeed(t, f, "usd-bond", "", 8)

		err := f.Keeper.CreateFeed(f.Ctx, f.Authority, types.Feed{
			FeedId: "usd-bond",
			Local:  true,
		})
		require.ErrorIs(t, err, types.ErrFeedAlreadyExists)
	})

	t.Run("rejects local feeds with a relay source", func(t *testing.T) {
		err := f.Keeper.CreateFeed(f.Ctx, f.Authority, types.Feed{
			FeedId:        "bad-local",
			Local:         true,
			SourceChannel: "channel-0",
		})
		require.ErrorIs(t, err, types.ErrInvalidFeed)
	})

	t.Run("rejects relayed feeds without a source pair", func(t *testing.T) {
		err := f.Keeper.CreateFeed(f.Ctx, f.Authority, types.Feed{
			FeedId:        "bad-relay",
			SourceChannel: "channel-0",
		})
		require.ErrorIs(t, err, types.ErrInvalidFeed)
	})

	t.Run("stores the configuration", func(t *testing.T) {
		createRelayFeed(t, f, "eur-bond", "channel-1", "relayer-1", 6)

		feed, found := f.Keeper.GetFeed(f.Ctx, "eur-bond")
		require.True(t, found)
		require.Equal(t, "channel-1", feed.SourceChannel)
		require.Equal(t, "relayer-1", feed.SourceSender)
		require.Equal(t, uint32(6), feed.Decimals)
		require.False(t, feed.Local)
	})
}

func TestCreateAggregator(t *testing.T) {
	f := testkeeper.PricefeedKeeper(t)
	createLocalFeed(t, f, "usd-bond", "", 8)
	createLocalFeed(t, f, "eur-bond", "", 8)

	t.Run("requires the module authority", func(t *testing.T) {
		err := f.Keeper.CreateAggregator(f.Ctx, testAddr().String(), types.Aggregator{
			AggregatorId: "usd-eur",
			Feed1Id:      "usd-bond",
			Feed2Id:      "eur-bond",
		})
		require.ErrorIs(t, err, types.ErrInvalidAuthority)
	})

	t.Run("requires both underlying feeds", func(t *testing.T) {
		err := f.Keeper.CreateAggregator(f.Ctx, f.Authority, types.Aggregator{
			AggregatorId: "usd-gbp",
			Feed1Id:      "usd-bond",
			Feed2Id:      "gbp-bond",
		})
		require.ErrorIs(t, err, types.ErrFeedNotFound)
	})

	t.Run("id namespace is shared with feeds", func(t *testing.T) {
		err := f.Keeper.CreateAggregator(f.Ctx, f.Authority, types.Aggregator{
			AggregatorId: "usd-bond",
			Feed1Id:      "usd-bond",
			Feed2Id:      "eur-bond",
		})
		require.ErrorIs(t, err, types.ErrAggregatorAlreadyExists)
	})

	t.Run("stores the configuration", func(t *testing.T) {
		require.NoError(t, f.Keeper.CreateAggregator(f.Ctx, f.Authority, types.Aggregator{
			AggregatorId: "usd-eur",
			Feed1Id:      "usd-bond",
			Feed2Id:      "eur-bond",
			Decimals:     8,
		}))

		agg, found := f.Keeper.GetAggregator(f.Ctx, "usd-eur")
		require.True(t, found)
		require.Equal(t, "usd-bond", agg.Feed1Id)
		require.Equal(t, "eur-bond", agg.Feed2Id)

		err := f.Keeper.CreateAggregator(f.Ctx, f.Authority, types.Aggregator{
			AggregatorId: "usd-eur",
			Feed1Id:      "usd-bond",
			Feed2Id:      "eur-bond",
		})
		require.ErrorIs(t, err, types.ErrAggregatorAlreadyExists)
	})
}
