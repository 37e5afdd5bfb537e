package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	portkeeper "github.com/cosmos/ibc-go/v8/modules/core/05-port/keeper"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"

	"github.com/obligo-chain/obligo/x/pricefeed/types"
	"github.com/obligo-chain/obligo/x/shared/nonce"
)

// Keeper maintains the state of the pricefeed module: feed and aggregator
// registrations, the per-feed round history, and the outbound relay
// bookkeeping.
type Keeper struct {
	storeKey      storetypes.StoreKey
	bankKeeper    types.BankKeeper
	channelKeeper types.ChannelKeeper
	portKeeper    *portkeeper.Keeper
	scopedKeeper  types.ScopedKeeper
	authority     string
	metrics       *Metrics
	nonces        *nonce.Manager
}

// NewKeeper creates a new pricefeed Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	channelKeeper types.ChannelKeeper,
	portKeeper *portkeeper.Keeper,
	scopedKeeper types.ScopedKeeper,
	authority string,
) *Keeper {
	return &Keeper{
		storeKey:      key,
		bankKeeper:    bankKeeper,
		channelKeeper: channelKeeper,
		portKeeper:    portKeeper,
		scopedKeeper:  scopedKeeper,
		authority:     authority,
		metrics:       GetMetrics(),
		nonces:        nonce.NewManager(key, types.ModuleName),
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetAuthority returns the module's authority (governance account)
func (k Keeper) GetAuthority() string {
	return k.authority
}

// getStore returns the KVStore for the pricefeed module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// ClaimCapability claims a channel capability for later authentication.
func (k Keeper) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	return k.scopedKeeper.ClaimCapability(ctx, cap, name)
}

// GetChannelCapability retrieves a previously claimed channel capability.
func (k Keeper) GetChannelCapability(ctx sdk.Context, portID, channelID string) (*capabilitytypes.Capability, bool) {
	return k.scopedKeeper.GetCapability(ctx, host.ChannelCapabilityPath(portID, channelID))
}

// BindPort binds the IBC port for the pricefeed module and claims the
// capability.
func (k Keeper) BindPort(ctx sdk.Context) error {
	if k.portKeeper.IsBound(ctx, types.PortID) {
		return nil
	}

	portCap := k.portKeeper.BindPort(ctx, types.PortID)
	if err := k.scopedKeeper.ClaimCapability(ctx, portCap, host.PortPath(types.PortID)); err != nil {
		return err
	}
	return nil
}

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) {
	for _, feed := range genState.Feeds {
		if err := k.SetFeed(ctx, feed); err != nil {
			panic(fmt.Sprintf("failed to set feed %s: %s", feed.FeedId, err))
		}
	}
	for _, agg := range genState.Aggregators {
		if err := k.SetAggregator(ctx, agg); err != nil {
			panic(fmt.Sprintf("failed to set aggregator %s: %s", agg.AggregatorId, err))
		}
	}
	for _, fr := range genState.FeedRounds {
		for _, round := range fr.Rounds {
			if err := k.SetRound(ctx, fr.FeedId, round); err != nil {
				panic(fmt.Sprintf("failed to set round %s/%s: %s", fr.FeedId, round.RoundId, err))
			}
		}
		if fr.LatestRoundId != "" {
			latest, ok := sdkIntFromString(fr.LatestRoundId)
			if !ok {
				panic(fmt.Sprintf("invalid latest round id %s for feed %s", fr.LatestRoundId, fr.FeedId))
			}
			k.SetLatestRoundId(ctx, fr.FeedId, latest)
		}
	}
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	genState := types.GenesisState{
		Feeds:       []types.Feed{},
		Aggregators: []types.Aggregator{},
		FeedRounds:  []types.FeedRounds{},
	}

	if err := k.IterateFeeds(ctx, func(feed types.Feed) bool {
		genState.Feeds = append(genState.Feeds, feed)
		return false
	}); err != nil {
		panic(fmt.Sprintf("failed to export feeds: %s", err))
	}

	if err := k.IterateAggregators(ctx, func(agg types.Aggregator) bool {
		genState.Aggregators = append(genState.Aggregators, agg)
		return false
	}); err != nil {
		panic(fmt.Sprintf("failed to export aggregators: %s", err))
	}

	for _, feed := range genState.Feeds {
		rounds, err := k.GetAllRounds(ctx, feed.FeedId)
		if err != nil {
			panic(fmt.Sprintf("failed to export rounds for %s: %s", feed.FeedId, err))
		}
		fr := types.FeedRounds{FeedId: feed.FeedId, Rounds: rounds}
		if latest, found := k.GetLatestRoundId(ctx, feed.FeedId); found {
			fr.LatestRoundId = latest.String()
		}
		if len(fr.Rounds) > 0 || fr.LatestRoundId != "" {
			genState.FeedRounds = append(genState.FeedRounds, fr)
		}
	}

	return &genState
}
