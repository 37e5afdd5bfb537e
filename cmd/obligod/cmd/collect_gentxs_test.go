package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/crypto/keys/ed25519"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	slashingtypes "github.com/cosmos/cosmos-sdk/x/slashing/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	"github.com/obligo-chain/obligo/app"
)

func newCreateValidatorMsg(t *testing.T, pk *ed25519.PubKey, amount sdkmath.Int, denom string) *stakingtypes.MsgCreateValidator {
	t.Helper()

	msg, err := stakingtypes.NewMsgCreateValidator(
		sdk.ValAddress(pk.Address()).String(),
		pk,
		sdk.NewCoin(denom, amount),
		stakingtypes.NewDescription("node1", "", "", "", ""),
		stakingtypes.NewCommissionRates(
			sdkmath.LegacyMustNewDecFromStr("0.10"),
			sdkmath.LegacyMustNewDecFromStr("0.20"),
			sdkmath.LegacyMustNewDecFromStr("0.01"),
		),
		sdkmath.NewInt(1),
	)
	require.NoError(t, err)
	return msg
}

func TestGenesisValidatorFromMsg(t *testing.T) {
	encodingConfig := app.MakeEncodingConfig()
	pk := ed25519.GenPrivKey().PubKey().(*ed25519.PubKey)

	msg := newCreateValidatorMsg(t, pk, sdkmath.NewInt(5_000_000), "uobl")

	validator, err := genesisValidatorFromMsg(encodingConfig.InterfaceRegistry, msg)
	require.NoError(t, err)
	require.Equal(t, "node1", validator.Name)
	require.Equal(t, sdk.TokensToConsensusPower(msg.Value.Amount, sdk.DefaultPowerReduction), validator.Power)
	require.Equal(t, pk.Address().Bytes(), validator.Address.Bytes())
}

func TestGenesisValidatorFromMsgZeroPower(t *testing.T) {
	encodingConfig := app.MakeEncodingConfig()
	pk := ed25519.GenPrivKey().PubKey().(*ed25519.PubKey)

	msg := newCreateValidatorMsg(t, pk, sdkmath.ZeroInt(), "uobl")

	_, err := genesisValidatorFromMsg(encodingConfig.InterfaceRegistry, msg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "zero consensus power")
}

func TestBondGenesisValidators(t *testing.T) {
	initSDKConfig()
	encodingConfig := app.MakeEncodingConfig()
	clientCtx := client.Context{}.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig)

	genesisState := app.ModuleBasics.DefaultGenesis(encodingConfig.Codec)
	bondDenom := stakingtypes.GetGenesisStateFromAppState(encodingConfig.Codec, genesisState).Params.BondDenom

	pk := ed25519.GenPrivKey().PubKey().(*ed25519.PubKey)
	delegator := sdk.AccAddress(pk.Address())

	bankGenesis := banktypes.GetGenesisStateFromAppState(encodingConfig.Codec, genesisState)
	bankGenesis.Balances = append(bankGenesis.Balances, banktypes.Balance{
		Address: delegator.String(),
		Coins:   sdk.NewCoins(sdk.NewCoin(bondDenom, sdkmath.NewInt(10_000_000))),
	})
	genesisState[banktypes.ModuleName] = encodingConfig.Codec.MustMarshalJSON(bankGenesis)

	msg := newCreateValidatorMsg(t, pk, sdkmath.NewInt(6_000_000), bondDenom)

	validators, err := bondGenesisValidators(clientCtx, genesisState, []*stakingtypes.MsgCreateValidator{msg})
	require.NoError(t, err)
	require.Len(t, validators, 1)
	require.Equal(t, "node1", validators[0].Name)

	// the validator is bonded directly into the staking genesis
	stakingGenesis := stakingtypes.GetGenesisStateFromAppState(encodingConfig.Codec, genesisState)
	require.Len(t, stakingGenesis.Validators, 1)
	require.Equal(t, stakingtypes.Bonded, stakingGenesis.Validators[0].Status)
	require.Equal(t, sdkmath.NewInt(6_000_000), stakingGenesis.Validators[0].Tokens)
	require.Len(t, stakingGenesis.Delegations, 1)
	require.Equal(t, delegator.String(), stakingGenesis.Delegations[0].DelegatorAddress)
	require.Len(t, stakingGenesis.LastValidatorPowers, 1)
	require.Equal(t,
		sdk.TokensToConsensusPower(sdkmath.NewInt(6_000_000), sdk.DefaultPowerReduction),
		stakingGenesis.LastValidatorPowers[0].Power)

	// the self-delegation moved from the delegator to the bonded pool
	bankGenesis = banktypes.GetGenesisStateFromAppState(encodingConfig.Codec, genesisState)
	bondedPool := authtypes.NewModuleAddress(stakingtypes.BondedPoolName).String()
	require.Equal(t, sdkmath.NewInt(6_000_000),
		findBalance(bankGenesis.Balances, bondedPool).Coins.AmountOf(bondDenom))
	require.Equal(t, sdkmath.NewInt(4_000_000),
		findBalance(bankGenesis.Balances, delegator.String()).Coins.AmountOf(bondDenom))

	// signing info is pre-created so slashing tracks uptime from block one
	var slashingGenesis slashingtypes.GenesisState
	encodingConfig.Codec.MustUnmarshalJSON(genesisState[slashingtypes.ModuleName], &slashingGenesis)
	require.Len(t, slashingGenesis.SigningInfos, 1)
	require.Equal(t, sdk.ConsAddress(pk.Address()).String(), slashingGenesis.SigningInfos[0].Address)
}

func TestBondGenesisValidatorsMissingBalance(t *testing.T) {
	initSDKConfig()
	encodingConfig := app.MakeEncodingConfig()
	clientCtx := client.Context{}.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig)

	genesisState := app.ModuleBasics.DefaultGenesis(encodingConfig.Codec)
	bondDenom := stakingtypes.GetGenesisStateFromAppState(encodingConfig.Codec, genesisState).Params.BondDenom

	pk := ed25519.GenPrivKey().PubKey().(*ed25519.PubKey)
	msg := newCreateValidatorMsg(t, pk, sdkmath.NewInt(6_000_000), bondDenom)

	_, err := bondGenesisValidators(clientCtx, genesisState, []*stakingtypes.MsgCreateValidator{msg})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no balance entry in genesis")
}

func TestBondGenesisValidatorsWrongDenom(t *testing.T) {
	initSDKConfig()
	encodingConfig := app.MakeEncodingConfig()
	clientCtx := client.Context{}.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig)

	genesisState := app.ModuleBasics.DefaultGenesis(encodingConfig.Codec)

	pk := ed25519.GenPrivKey().PubKey().(*ed25519.PubKey)
	msg := newCreateValidatorMsg(t, pk, sdkmath.NewInt(6_000_000), "nosuchdenom")

	_, err := bondGenesisValidators(clientCtx, genesisState, []*stakingtypes.MsgCreateValidator{msg})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bond denom")
}
