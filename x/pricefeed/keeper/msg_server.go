package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/pricefeed/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the pricefeed MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// CreateFeed registers a new feed (local or relay-mirrored)
func (k msgServer) CreateFeed(goCtx context.Context, msg *types.MsgCreateFeed) (*types.MsgCreateFeedResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.Keeper.CreateFeed(ctx, msg.Authority, msg.Feed); err != nil {
		return nil, err
	}
	return &types.MsgCreateFeedResponse{}, nil
}

// CreateAggregator registers a new two-feed ratio aggregator
func (k msgServer) CreateAggregator(goCtx context.Context, msg *types.MsgCreateAggregator) (*types.MsgCreateAggregatorResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.Keeper.CreateAggregator(ctx, msg.Authority, msg.Aggregator); err != nil {
		return nil, err
	}
	return &types.MsgCreateAggregatorResponse{}, nil
}

// SubmitRound records a new round on a locally-sourced feed
func (k msgServer) SubmitRound(goCtx context.Context, msg *types.MsgSubmitRound) (*types.MsgSubmitRoundResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.Keeper.SubmitRound(ctx, msg.Submitter, msg.FeedId, msg.Round); err != nil {
		return nil, err
	}
	return &types.MsgSubmitRoundResponse{}, nil
}

// SendLatestRound relays a local feed's latest round across an IBC channel
func (k msgServer) SendLatestRound(goCtx context.Context, msg *types.MsgSendLatestRound) (*types.MsgSendLatestRoundResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	fee := sdk.NewCoins()
	if !msg.FeeAmount.IsNil() && msg.FeeAmount.IsPositive() {
		fee = sdk.NewCoins(sdk.NewCoin(msg.FeeDenom, msg.FeeAmount))
	}

	messageId, sequence, err := k.Keeper.SendLatestRound(
		ctx,
		msg.Sender,
		msg.FeedId,
		msg.DestinationPort,
		msg.DestinationChannel,
		fee,
		msg.GasLimit,
	)
	if err != nil {
		return nil, err
	}

	return &types.MsgSendLatestRoundResponse{
		MessageId: messageId,
		Sequence:  sequence,
	}, nil
}
