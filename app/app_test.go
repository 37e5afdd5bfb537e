package app

import (
	"testing"

	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	"github.com/stretchr/testify/require"

	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
	vaulttypes "github.com/obligo-chain/obligo/x/vault/types"
)

func TestModuleAccountPermissions(t *testing.T) {
	perms := GetMaccPerms()

	require.Contains(t, perms, vaulttypes.ModuleName)
	require.Contains(t, perms, pricefeedtypes.FeeCollectorName)
	require.Equal(t, []string{authtypes.Minter}, perms[minttypes.ModuleName])
}

func TestBlockedModuleAccountAddrs(t *testing.T) {
	blocked := BlockedModuleAccountAddrs()

	require.True(t, blocked[authtypes.NewModuleAddress(authtypes.FeeCollectorName).String()])
	require.True(t, blocked[authtypes.NewModuleAddress(vaulttypes.ModuleName).String()])
	require.True(t, blocked[authtypes.NewModuleAddress(pricefeedtypes.FeeCollectorName).String()])
	require.False(t, blocked["obligo1arbitraryuseraddress"])
}

func TestDefaultGenesisConfig(t *testing.T) {
	cfg := DefaultGenesisConfig()

	require.Equal(t, "obligo-testnet", cfg.ChainID)
	require.Equal(t, int64(50000000000000), cfg.TotalSupply)
	require.Equal(t, uint32(125), cfg.MaxValidators)
	require.NotEmpty(t, cfg.Quorum)
}
