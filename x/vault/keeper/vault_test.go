package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	testkeeper "github.com/obligo-chain/obligo/testutil/keeper"
	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
	"github.com/obligo-chain/obligo/x/vault/types"
)

const (
	testDenom  = "uusd"
	testFeedId = "bond-price"
)

func testAddr() sdk.AccAddress {
	return sdk.AccAddress(ed25519.GenPrivKey().PubKey().Address())
}

// vaultScenario is one vault servicing one bond, with a live price source
// answering 2.0 and all parties funded.
type vaultScenario struct {
	f        testkeeper.VaultFixture
	vaultId  uint64
	bondId   uint64
	admin    sdk.AccAddress
	debtor   sdk.AccAddress
	creditor sdk.AccAddress
	feesRecv sdk.AccAddress
}

func (s *vaultScenario) ctx() sdk.Context { return s.f.Ctx }

func (s *vaultScenario) vault(t *testing.T) types.Vault {
	t.Helper()
	vault, err := s.f.Keeper.GetVault(s.f.Ctx, s.vaultId)
	require.NoError(t, err)
	return vault
}

func (s *vaultScenario) shares(addr sdk.AccAddress) math.Int {
	return s.f.Keeper.GetShares(s.f.Ctx, s.vaultId, addr.String())
}

func (s *vaultScenario) balance(addr sdk.AccAddress) math.Int {
	return s.f.BankKeeper.GetBalance(s.f.Ctx, addr, testDenom).Amount
}

// submitPrice stores a fresh price round on the scenario's feed. The answer
// is scaled by 8 decimals.
func (s *vaultScenario) submitPrice(t *testing.T, roundId, answer int64) {
	t.Helper()
	now := s.f.Ctx.BlockTime().Unix()
	require.NoError(t, s.f.PricefeedKeeper.SubmitRound(s.f.Ctx, s.admin.String(), testFeedId, pricefeedtypes.Round{
		RoundId:         math.NewInt(roundId),
		Answer:          math.NewInt(answer),
		StartedAt:       now,
		UpdatedAt:       now,
		AnsweredInRound: math.NewInt(roundId),
	}))
}

// setupVaultScenario builds a vault over a freshly issued bond with a debt
// of 1000 value units, asset decimals 8 and a price of 2.0, so every value
// unit costs half an asset unit.
func setupVaultScenario(t *testing.T, feesBips uint32) *vaultScenario {
	t.Helper()

	s := &vaultScenario{
		f:        testkeeper.VaultKeeper(t),
		admin:    testAddr(),
		debtor:   testAddr(),
		creditor: testAddr(),
		feesRecv: testAddr(),
	}

	bondId, err := s.f.BondKeeper.IssueBond(s.f.Ctx, s.admin, s.creditor)
	require.NoError(t, err)
	s.bondId = bondId

	require.NoError(t, s.f.PricefeedKeeper.CreateFeed(s.f.Ctx, s.f.Authority, pricefeedtypes.Feed{
		FeedId:   testFeedId,
		Decimals: 8,
		Local:    true,
		Admin:    s.admin.String(),
	}))
	s.submitPrice(t, 1, 2_00000000)

	vaultId, err := s.f.Keeper.CreateVault(s.f.Ctx, types.Vault{
		Admin:           s.admin.String(),
		BondId:          bondId,
		Debtor:          s.debtor.String(),
		AssetDenom:      testDenom,
		AssetDecimals:   8,
		DebtAmount:      math.NewInt(1000),
		BondMaturity:    s.f.Ctx.BlockTime().Add(365 * 24 * time.Hour).Unix(),
		PrincipalRepaid: math.ZeroInt(),
		FeesBips:        feesBips,
		FeesRecipient:   s.feesRecv.String(),
		PriceSourceId:   testFeedId,
	})
	require.NoError(t, err)
	s.vaultId = vaultId

	funding := sdk.NewCoins(sdk.NewInt64Coin(testDenom, 10_000))
	testkeeper.FundAccount(t, s.f.Ctx, s.f.BankKeeper, s.debtor, funding)
	testkeeper.FundAccount(t, s.f.Ctx, s.f.BankKeeper, s.creditor, funding)

	return s
}

func baseVault(s *vaultScenario) types.Vault {
	return types.Vault{
		Admin:           s.admin.String(),
		BondId:          s.bondId,
		Debtor:          s.debtor.String(),
		AssetDenom:      testDenom,
		AssetDecimals:   8,
		DebtAmount:      math.NewInt(1000),
		BondMaturity:    s.f.Ctx.BlockTime().Add(24 * time.Hour).Unix(),
		PrincipalRepaid: math.ZeroInt(),
		FeesRecipient:   s.feesRecv.String(),
		PriceSourceId:   testFeedId,
	}
}

func TestCreateVault(t *testing.T) {
	s := setupVaultScenario(t, 0)

	t.Run("assigns sequential ids", func(t *testing.T) {
		require.Equal(t, uint64(1), s.vaultId)

		id, err := s.f.Keeper.CreateVault(s.f.Ctx, baseVault(s))
		require.NoError(t, err)
		require.Equal(t, uint64(2), id)
	})

	t.Run("maturity must be in the future", func(t *testing.T) {
		vault := baseVault(s)
		vault.BondMaturity = s.f.Ctx.BlockTime().Unix()
		_, err := s.f.Keeper.CreateVault(s.f.Ctx, vault)
		require.ErrorIs(t, err, types.ErrInvalidBondMaturity)
	})

	t.Run("bond must exist", func(t *testing.T) {
		vault := baseVault(s)
		vault.BondId = 99
		_, err := s.f.Keeper.CreateVault(s.f.Ctx, vault)
		require.ErrorIs(t, err, types.ErrInvalidVault)
	})

	t.Run("price source must exist", func(t *testing.T) {
		vault := baseVault(s)
		vault.PriceSourceId = "missing"
		_, err := s.f.Keeper.CreateVault(s.f.Ctx, vault)
		require.ErrorIs(t, err, types.ErrInvalidVault)
	})

	t.Run("debt must be positive", func(t *testing.T) {
		vault := baseVault(s)
		vault.DebtAmount = math.ZeroInt()
		_, err := s.f.Keeper.CreateVault(s.f.Ctx, vault)
		require.ErrorIs(t, err, types.ErrZeroAmount)
	})

	t.Run("fees are capped at construction", func(t *testing.T) {
		vault := baseVault(s)
		vault.FeesBips = types.MaxFeesBips + 1
		_, err := s.f.Keeper.CreateVault(s.f.Ctx, vault)
		require.ErrorIs(t, err, types.ErrExcessiveVaultFees)
	})
}

func TestCreditorFollowsBondOwnership(t *testing.T) {
	s := setupVaultScenario(t, 0)

	creditor, err := s.f.Keeper.Creditor(s.f.Ctx, s.vaultId)
	require.NoError(t, err)
	require.Equal(t, s.creditor, creditor)

	newOwner := testAddr()
	require.NoError(t, s.f.BondKeeper.TransferBond(s.f.Ctx, s.creditor, newOwner, s.bondId))

	// The very next lookup sees the transfer.
	creditor, err = s.f.Keeper.Creditor(s.f.Ctx, s.vaultId)
	require.NoError(t, err)
	require.Equal(t, newOwner, creditor)
}

func TestSetFeesBips(t *testing.T) {
	s := setupVaultScenario(t, 100)

	err := s.f.Keeper.SetFeesBips(s.f.Ctx, s.debtor.String(), s.vaultId, 200)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	err = s.f.Keeper.SetFeesBips(s.f.Ctx, s.admin.String(), s.vaultId, types.MaxFeesBips+1)
	require.ErrorIs(t, err, types.ErrExcessiveVaultFees)

	require.NoError(t, s.f.Keeper.SetFeesBips(s.f.Ctx, s.admin.String(), s.vaultId, types.MaxFeesBips))
	require.Equal(t, types.MaxFeesBips, s.vault(t).FeesBips)

	err = s.f.Keeper.SetFeesBips(s.f.Ctx, s.admin.String(), 99, 100)
	require.ErrorIs(t, err, types.ErrVaultNotFound)
}

func TestSetFeesRecipient(t *testing.T) {
	s := setupVaultScenario(t, 100)
	newRecipient := testAddr()

	err := s.f.Keeper.SetFeesRecipient(s.f.Ctx, s.debtor.String(), s.vaultId, newRecipient.String())
	require.ErrorIs(t, err, types.ErrUnauthorized)

	err = s.f.Keeper.SetFeesRecipient(s.f.Ctx, s.admin.String(), s.vaultId, "not-an-address")
	require.ErrorIs(t, err, types.ErrZeroAddress)

	require.NoError(t, s.f.Keeper.SetFeesRecipient(s.f.Ctx, s.admin.String(), s.vaultId, newRecipient.String()))
	require.Equal(t, newRecipient.String(), s.vault(t).FeesRecipient)
}

func TestVaultGenesisRoundTrip(t *testing.T) {
	s := setupVaultScenario(t, 100)

	// Fund the principal so shares and mutated vault state both export.
	_, _, err := s.f.Keeper.Deposit(s.f.Ctx, s.creditor.String(), s.vaultId,
		math.NewInt(500), math.NewInt(1000), true)
	require.NoError(t, err)

	exported := s.f.Keeper.ExportGenesis(s.f.Ctx)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Vaults, 1)
	require.Len(t, exported.ShareBalances, 1)
	require.Equal(t, uint64(2), exported.NextVaultId)

	f2 := testkeeper.VaultKeeper(t)
	f2.Keeper.InitGenesis(f2.Ctx, *exported)

	vault, err := f2.Keeper.GetVault(f2.Ctx, s.vaultId)
	require.NoError(t, err)
	require.True(t, vault.PrincipalPaid)

	shares := f2.Keeper.GetShares(f2.Ctx, s.vaultId, s.debtor.String())
	require.Equal(t, int64(500), shares.Int64())
	require.Equal(t, int64(500), f2.Keeper.GetTotalShares(f2.Ctx, s.vaultId).Int64())
}
