package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdkstd "github.com/cosmos/cosmos-sdk/std"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	bondkeeper "github.com/obligo-chain/obligo/x/bond/keeper"
	bondtypes "github.com/obligo-chain/obligo/x/bond/types"
	pricefeedkeeper "github.com/obligo-chain/obligo/x/pricefeed/keeper"
	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
	"github.com/obligo-chain/obligo/x/vault/keeper"
	"github.com/obligo-chain/obligo/x/vault/types"
)

// VaultFixture bundles the vault keeper with the live dependencies a test
// scenario drives: the bond registry for ownership transfers, the pricefeed
// keeper for round seeding and the bank keeper for balances.
type VaultFixture struct {
	Keeper          *keeper.Keeper
	BondKeeper      *bondkeeper.Keeper
	PricefeedKeeper *pricefeedkeeper.Keeper
	BankKeeper      bankkeeper.Keeper
	AccountKeeper   authkeeper.AccountKeeper
	Authority       string
	Ctx             sdk.Context
}

// VaultKeeper creates a vault keeper wired to real bond, pricefeed, auth
// and bank keepers on one in-memory multistore.
func VaultKeeper(t testing.TB) VaultFixture {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	bondStoreKey := storetypes.NewKVStoreKey(bondtypes.StoreKey)
	pricefeedStoreKey := storetypes.NewKVStoreKey(pricefeedtypes.StoreKey)
	authStoreKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankStoreKey := storetypes.NewKVStoreKey(banktypes.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bondStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(pricefeedStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(authStoreKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankStoreKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	sdkstd.RegisterInterfaces(registry)
	authtypes.RegisterInterfaces(registry)
	banktypes.RegisterInterfaces(registry)
	cdc := codec.NewProtoCodec(registry)
	authority := authtypes.NewModuleAddress(govtypes.ModuleName)

	maccPerms := map[string][]string{
		authtypes.FeeCollectorName:      nil,
		minttypes.ModuleName:            {authtypes.Minter},
		pricefeedtypes.FeeCollectorName: nil,
		types.ModuleName:                nil,
	}

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authStoreKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()),
		sdk.GetConfig().GetBech32AccountAddrPrefix(),
		authority.String(),
	)

	bankKeeper := bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankStoreKey),
		accountKeeper,
		map[string]bool{},
		authority.String(),
		log.NewNopLogger(),
	)

	bondKeeper := bondkeeper.NewKeeper(bondStoreKey)

	pricefeedKeeper := pricefeedkeeper.NewKeeper(
		pricefeedStoreKey,
		bankKeeper,
		NewMockChannelKeeper(),
		nil,
		NewMockScopedKeeper(),
		authority.String(),
	)

	k := keeper.NewKeeper(
		storeKey,
		bankKeeper,
		bondKeeper,
		pricefeedKeeper,
		accountKeeper,
	)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{Time: time.Now()}, false, log.NewNopLogger())

	return VaultFixture{
		Keeper:          k,
		BondKeeper:      bondKeeper,
		PricefeedKeeper: pricefeedKeeper,
		BankKeeper:      bankKeeper,
		AccountKeeper:   accountKeeper,
		Authority:       authority.String(),
		Ctx:             ctx,
	}
}
