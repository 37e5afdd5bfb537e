package keeper

import (
	"testing"
	"time"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/bond/keeper"
	"github.com/obligo-chain/obligo/x/bond/types"
)

// BondKeeper creates a bond keeper on an isolated in-memory store.
func BondKeeper(t testing.TB) (*keeper.Keeper, sdk.Context) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.DefaultContext(storeKey, storetypes.NewTransientStoreKey("transient_"+types.StoreKey))
	ctx = ctx.WithBlockTime(time.Now())

	return keeper.NewKeeper(storeKey), ctx
}
