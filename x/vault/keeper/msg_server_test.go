package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/obligo-chain/obligo/x/vault/keeper"
	"github.com/obligo-chain/obligo/x/vault/types"
)

func TestMsgServerDeposit(t *testing.T) {
	s := setupVaultScenario(t, 0)
	srv := keeper.NewMsgServerImpl(*s.f.Keeper)

	resp, err := srv.Deposit(s.f.Ctx, &types.MsgDeposit{
		Caller:      s.creditor.String(),
		VaultId:     s.vaultId,
		MaxAssets:   math.NewInt(500),
		TargetValue: math.NewInt(1000),
		Principal:   true,
	})
	require.NoError(t, err)
	require.Equal(t, int64(500), resp.SharesMinted.Int64())
	require.Equal(t, int64(500), resp.AssetsUsed.Int64())

	_, err = srv.Withdraw(s.f.Ctx, &types.MsgWithdraw{
		Owner:    s.debtor.String(),
		VaultId:  s.vaultId,
		Assets:   math.NewInt(500),
		Receiver: s.debtor.String(),
	})
	require.NoError(t, err)
}

func TestMsgServerDisabledEntryPoints(t *testing.T) {
	s := setupVaultScenario(t, 0)
	srv := keeper.NewMsgServerImpl(*s.f.Keeper)

	// The raw asset-inflow paths are permanently disabled: everything must
	// go through the priced deposit.
	_, err := srv.DepositAssets(s.f.Ctx, &types.MsgDepositAssets{
		Caller:   s.debtor.String(),
		VaultId:  s.vaultId,
		Assets:   math.NewInt(100),
		Receiver: s.debtor.String(),
	})
	require.ErrorIs(t, err, types.ErrDepositsDisabled)

	_, err = srv.MintShares(s.f.Ctx, &types.MsgMintShares{
		Caller:   s.debtor.String(),
		VaultId:  s.vaultId,
		Shares:   math.NewInt(100),
		Receiver: s.debtor.String(),
	})
	require.ErrorIs(t, err, types.ErrDepositsDisabled)
}
