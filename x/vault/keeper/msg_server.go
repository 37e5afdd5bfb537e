package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/vault/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the vault MsgServer
// interface for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// CreateVault constructs a new vault servicing one bond
func (k msgServer) CreateVault(goCtx context.Context, msg *types.MsgCreateVault) (*types.MsgCreateVaultResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	id, err := k.Keeper.CreateVault(ctx, msg.Vault())
	if err != nil {
		return nil, err
	}
	return &types.MsgCreateVaultResponse{VaultId: id}, nil
}

// Deposit routes a priced principal or interest payment into the vault
func (k msgServer) Deposit(goCtx context.Context, msg *types.MsgDeposit) (*types.MsgDepositResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	shares, assets, err := k.Keeper.Deposit(ctx, msg.Caller, msg.VaultId, msg.MaxAssets, msg.TargetValue, msg.Principal)
	if err != nil {
		return nil, err
	}
	return &types.MsgDepositResponse{SharesMinted: shares, AssetsUsed: assets}, nil
}

// Withdraw redeems shares for custodied assets
func (k msgServer) Withdraw(goCtx context.Context, msg *types.MsgWithdraw) (*types.MsgWithdrawResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.Keeper.Withdraw(ctx, msg.Owner, msg.VaultId, msg.Assets, msg.Receiver); err != nil {
		return nil, err
	}
	return &types.MsgWithdrawResponse{SharesBurned: msg.Assets}, nil
}

// SetFeesBips updates the interest fee skim
func (k msgServer) SetFeesBips(goCtx context.Context, msg *types.MsgSetFeesBips) (*types.MsgSetFeesBipsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.Keeper.SetFeesBips(ctx, msg.Admin, msg.VaultId, msg.FeesBips); err != nil {
		return nil, err
	}
	return &types.MsgSetFeesBipsResponse{}, nil
}

// SetFeesRecipient updates the fee recipient
func (k msgServer) SetFeesRecipient(goCtx context.Context, msg *types.MsgSetFeesRecipient) (*types.MsgSetFeesRecipientResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := msg.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := k.Keeper.SetFeesRecipient(ctx, msg.Admin, msg.VaultId, msg.FeesRecipient); err != nil {
		return nil, err
	}
	return &types.MsgSetFeesRecipientResponse{}, nil
}

// DepositAssets is permanently disabled. All inflows go through Deposit.
func (k msgServer) DepositAssets(goCtx context.Context, msg *types.MsgDepositAssets) (*types.MsgDepositAssetsResponse, error) {
	return nil, types.ErrDepositsDisabled
}

// MintShares is permanently disabled. All inflows go through Deposit.
func (k msgServer) MintShares(goCtx context.Context, msg *types.MsgMintShares) (*types.MsgMintSharesResponse, error) {
	return nil, types.ErrDepositsDisabled
}
