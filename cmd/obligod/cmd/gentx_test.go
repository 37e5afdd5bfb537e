package cmd

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/obligo-chain/obligo/app"
)

func newGenTxCmd(t *testing.T) *cobra.Command {
	t.Helper()
	encodingConfig := app.MakeEncodingConfig()
	return GenTxCmd(app.ModuleBasics, encodingConfig.TxConfig, banktypes.GenesisBalancesIterator{}, t.TempDir())
}

func TestProfileFromFlagsDefaults(t *testing.T) {
	cmd := newGenTxCmd(t)

	profile, err := profileFromFlags(cmd, "node-moniker")
	require.NoError(t, err)

	require.Equal(t, "node-moniker", profile.description.Moniker)
	require.Equal(t, math.LegacyMustNewDecFromStr("0.10"), profile.commission.Rate)
	require.Equal(t, math.LegacyMustNewDecFromStr("0.20"), profile.commission.MaxRate)
	require.Equal(t, math.LegacyMustNewDecFromStr("0.01"), profile.commission.MaxChangeRate)
	require.Equal(t, math.NewInt(1000000), profile.minSelfDelegation)
}

func TestProfileFromFlagsOverrides(t *testing.T) {
	cmd := newGenTxCmd(t)
	setFlag(t, cmd.Flags(), flagMoniker, "Obligo Validator 1")
	setFlag(t, cmd.Flags(), flagCommissionRate, "0.05")
	setFlag(t, cmd.Flags(), flagMinSelfDelegation, "2000000")

	profile, err := profileFromFlags(cmd, "node-moniker")
	require.NoError(t, err)
	require.Equal(t, "Obligo Validator 1", profile.description.Moniker)
	require.Equal(t, math.LegacyMustNewDecFromStr("0.05"), profile.commission.Rate)
	require.Equal(t, math.NewInt(2000000), profile.minSelfDelegation)
}

func TestProfileFromFlagsRejectsBadValues(t *testing.T) {
	cmd := newGenTxCmd(t)
	setFlag(t, cmd.Flags(), flagCommissionRate, "not-a-dec")
	_, err := profileFromFlags(cmd, "node")
	require.ErrorContains(t, err, "invalid commission rate")

	cmd = newGenTxCmd(t)
	setFlag(t, cmd.Flags(), flagMinSelfDelegation, "1.5")
	_, err = profileFromFlags(cmd, "node")
	require.ErrorContains(t, err, "invalid min self delegation")
}

func TestCreateValidatorMsgSetsDelegator(t *testing.T) {
	initSDKConfig()
	cmd := newGenTxCmd(t)

	profile, err := profileFromFlags(cmd, "node")
	require.NoError(t, err)

	addr := sdk.AccAddress([]byte("test-validator-addr-"))
	valPubKey := ed25519.GenPrivKey().PubKey()
	amount := sdk.NewInt64Coin(app.BondDenom, 10_000_000_000)

	msg, err := profile.createValidatorMsg(addr, valPubKey, amount)
	require.NoError(t, err)
	require.Equal(t, addr.String(), msg.DelegatorAddress)
	require.Equal(t, sdk.ValAddress(addr).String(), msg.ValidatorAddress)
	require.Equal(t, amount, msg.Value)
}
