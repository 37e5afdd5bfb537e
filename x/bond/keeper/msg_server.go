package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/bond/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// IssueBond handles bond issuance
func (ms msgServer) IssueBond(goCtx context.Context, msg *types.MsgIssueBond) (*types.MsgIssueBondResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	issuer, err := sdk.AccAddressFromBech32(msg.Issuer)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid issuer address: %s", err)
	}
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}

	id, err := ms.Keeper.IssueBond(goCtx, issuer, owner)
	if err != nil {
		return nil, err
	}

	return &types.MsgIssueBondResponse{BondId: id}, nil
}

// TransferBond handles bond ownership transfer
func (ms msgServer) TransferBond(goCtx context.Context, msg *types.MsgTransferBond) (*types.MsgTransferBondResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}

	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}
	newOwner, err := sdk.AccAddressFromBech32(msg.NewOwner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("invalid new owner address: %s", err)
	}

	if err := ms.Keeper.TransferBond(goCtx, owner, newOwner, msg.BondId); err != nil {
		return nil, err
	}

	return &types.MsgTransferBondResponse{}, nil
}
