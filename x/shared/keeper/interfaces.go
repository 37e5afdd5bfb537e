// Package keeper provides shared keeper interfaces for cross-module
// communication. Versioned interfaces keep the API contracts between
// modules stable.
package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
)

// BondKeeperV1 defines the minimal bond keeper interface for cross-module
// use. Modules should depend on this interface rather than the concrete
// keeper.
type BondKeeperV1 interface {
	// OwnerOf resolves the current owner of a bond. Callers must invoke it
	// on every authorization decision and never cache the result.
	OwnerOf(ctx context.Context, id uint64) (sdk.AccAddress, error)
}

// PricefeedKeeperV1 defines the minimal pricefeed keeper interface for
// cross-module use.
type PricefeedKeeperV1 interface {
	// LatestRoundData returns the latest round of a feed or aggregator
	// together with its answer decimals.
	LatestRoundData(ctx context.Context, id string) (pricefeedtypes.Round, uint32, error)

	// Decimals returns the answer scale of a feed or aggregator.
	Decimals(ctx context.Context, id string) (uint32, error)
}

// VaultKeeperV1 defines the minimal vault keeper interface for
// cross-module use.
type VaultKeeperV1 interface {
	// Creditor resolves the vault's current creditor through the live bond
	// ownership lookup.
	Creditor(ctx context.Context, vaultId uint64) (sdk.AccAddress, error)

	// GetShares returns a holder's share balance in a vault.
	GetShares(ctx context.Context, vaultId uint64, addr string) sdkmath.Int
}

const (
	// BondKeeperVersion is the current bond keeper interface version.
	BondKeeperVersion = "v1.0.0"

	// PricefeedKeeperVersion is the current pricefeed keeper interface version.
	PricefeedKeeperVersion = "v1.0.0"

	// VaultKeeperVersion is the current vault keeper interface version.
	VaultKeeperVersion = "v1.0.0"
)
