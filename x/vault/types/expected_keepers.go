package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
)

// BankKeeper defines the expected bank keeper for vault custody.
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	SpendableCoins(ctx context.Context, addr sdk.AccAddress) sdk.Coins
}

// BondKeeper resolves bond ownership. The vault calls OwnerOf on every
// authorization decision; the result is never cached.
type BondKeeper interface {
	OwnerOf(ctx context.Context, id uint64) (sdk.AccAddress, error)
}

// PricefeedKeeper provides price rounds for valuation.
type PricefeedKeeper interface {
	LatestRoundData(ctx context.Context, id string) (pricefeedtypes.Round, uint32, error)
	Decimals(ctx context.Context, id string) (uint32, error)
}

// AccountKeeper exposes module account addresses.
type AccountKeeper interface {
	GetModuleAddress(name string) sdk.AccAddress
}
