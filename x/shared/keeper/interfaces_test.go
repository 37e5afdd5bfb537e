package keeper_test

import (
	bondkeeper "github.com/obligo-chain/obligo/x/bond/keeper"
	pricefeedkeeper "github.com/obligo-chain/obligo/x/pricefeed/keeper"
	sharedkeeper "github.com/obligo-chain/obligo/x/shared/keeper"
	vaultkeeper "github.com/obligo-chain/obligo/x/vault/keeper"
)

// Compile-time checks that the concrete keepers implement the shared
// versioned interfaces.
var (
	_ sharedkeeper.BondKeeperV1      = bondkeeper.Keeper{}
	_ sharedkeeper.PricefeedKeeperV1 = pricefeedkeeper.Keeper{}
	_ sharedkeeper.VaultKeeperV1     = vaultkeeper.Keeper{}
)
