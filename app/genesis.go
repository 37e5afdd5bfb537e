package app

import (
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	crisistypes "github.com/cosmos/cosmos-sdk/x/crisis/types"
	distrtypes "github.com/cosmos/cosmos-sdk/x/distribution/types"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types/v1"
	minttypes "github.com/cosmos/cosmos-sdk/x/mint/types"
	slashingtypes "github.com/cosmos/cosmos-sdk/x/slashing/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

// GenesisState maps module names to their genesis state.
type GenesisState map[string]json.RawMessage

// NewDefaultGenesisState generates the default state for the application.
func NewDefaultGenesisState(cdc codec.JSONCodec) GenesisState {
	return ModuleBasics.DefaultGenesis(cdc)
}

// GenesisConfig holds the network parameters applied on top of the module
// defaults when building a genesis file.
type GenesisConfig struct {
	ChainID                     string
	TotalSupply                 int64
	MaxValidators               uint32
	UnbondingPeriodSeconds      int64
	DoubleSignPenalty           string
	DowntimePenalty             string
	DowntimeWindowBlocks        uint64
	DowntimeJailDurationSeconds int64
	MinDepositAmount            int64
	VotingPeriodSeconds         int64
	Quorum                      string
	Threshold                   string
	VetoThreshold               string
}

// DefaultGenesisConfig returns the default Obligo network configuration.
func DefaultGenesisConfig() GenesisConfig {
	return GenesisConfig{
		ChainID:                     "obligo-testnet",
		TotalSupply:                 50000000000000, // 50M OBL
		MaxValidators:               125,
		UnbondingPeriodSeconds:      1814400, // 21 days
		DoubleSignPenalty:           "0.05",  // 5%
		DowntimePenalty:             "0.001", // 0.1%
		DowntimeWindowBlocks:        10000,
		DowntimeJailDurationSeconds: 86400,                  // 24 hours
		MinDepositAmount:            10000000000,            // 10,000 OBL
		VotingPeriodSeconds:         1209600,                // 14 days
		Quorum:                      "0.400000000000000000", // 40%
		Threshold:                   "0.667000000000000000", // 66.7%
		VetoThreshold:               "0.333000000000000000", // 33.3%
	}
}

// NewGenesisStateFromConfig creates a genesis state from the module defaults
// with the given network parameters applied.
func NewGenesisStateFromConfig(cdc codec.JSONCodec, config GenesisConfig) GenesisState {
	return ApplyGenesisConfig(cdc, NewDefaultGenesisState(cdc), config)
}

// ApplyGenesisConfig overlays the network parameters onto an existing genesis
// state and returns it.
func ApplyGenesisConfig(cdc codec.JSONCodec, genesis GenesisState, config GenesisConfig) GenesisState {
	// Bank module - fixed supply, transfers enabled
	var bankGenesis banktypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[banktypes.ModuleName], &bankGenesis)
	bankGenesis.Params = banktypes.Params{
		SendEnabled:        []*banktypes.SendEnabled{},
		DefaultSendEnabled: true,
	}
	bankGenesis.Supply = sdk.NewCoins(sdk.NewInt64Coin(BondDenom, config.TotalSupply))
	genesis[banktypes.ModuleName] = cdc.MustMarshalJSON(&bankGenesis)

	// Staking module - validator and delegation management
	var stakingGenesis stakingtypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[stakingtypes.ModuleName], &stakingGenesis)
	stakingGenesis.Params = stakingtypes.Params{
		UnbondingTime:     time.Duration(config.UnbondingPeriodSeconds) * time.Second,
		MaxValidators:     config.MaxValidators,
		MaxEntries:        7,
		HistoricalEntries: 10000,
		BondDenom:         BondDenom,
		MinCommissionRate: math.LegacyMustNewDecFromStr("0.05"), // 5% minimum commission
	}
	genesis[stakingtypes.ModuleName] = cdc.MustMarshalJSON(&stakingGenesis)

	// Slashing module - validator punishment
	var slashingGenesis slashingtypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[slashingtypes.ModuleName], &slashingGenesis)
	slashingGenesis.Params = slashingtypes.Params{
		SignedBlocksWindow:      int64(config.DowntimeWindowBlocks),
		MinSignedPerWindow:      math.LegacyMustNewDecFromStr("0.50"), // 50% minimum uptime
		DowntimeJailDuration:    time.Duration(config.DowntimeJailDurationSeconds) * time.Second,
		SlashFractionDoubleSign: math.LegacyMustNewDecFromStr(config.DoubleSignPenalty),
		SlashFractionDowntime:   math.LegacyMustNewDecFromStr(config.DowntimePenalty),
	}
	genesis[slashingtypes.ModuleName] = cdc.MustMarshalJSON(&slashingGenesis)

	// Governance module - on-chain governance
	var govGenesis govtypes.GenesisState
	cdc.MustUnmarshalJSON(genesis["gov"], &govGenesis)
	govGenesis.Params = &govtypes.Params{
		MinDeposit:                 sdk.NewCoins(sdk.NewInt64Coin(BondDenom, config.MinDepositAmount)),
		MaxDepositPeriod:           durationPtr(time.Duration(604800) * time.Second), // 7 days
		VotingPeriod:               durationPtr(time.Duration(config.VotingPeriodSeconds) * time.Second),
		Quorum:                     config.Quorum,
		Threshold:                  config.Threshold,
		VetoThreshold:              config.VetoThreshold,
		MinInitialDepositRatio:     "0.100000000000000000", // 10% initial deposit
		BurnVoteQuorum:             false,
		BurnProposalDepositPrevote: false,
		BurnVoteVeto:               false,
	}
	genesis["gov"] = cdc.MustMarshalJSON(&govGenesis)

	// Distribution module - fee distribution
	var distrGenesis distrtypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[distrtypes.ModuleName], &distrGenesis)
	distrGenesis.Params = distrtypes.Params{
		CommunityTax:        math.LegacyMustNewDecFromStr("0.20"), // 20% to treasury
		BaseProposerReward:  math.LegacyZeroDec(),                 // Deprecated
		BonusProposerReward: math.LegacyZeroDec(),                 // Deprecated
		WithdrawAddrEnabled: true,
	}
	genesis[distrtypes.ModuleName] = cdc.MustMarshalJSON(&distrGenesis)

	// Mint module - token emission (disabled, using fixed supply)
	var mintGenesis minttypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[minttypes.ModuleName], &mintGenesis)
	mintGenesis.Params = minttypes.Params{
		MintDenom:           BondDenom,
		InflationRateChange: math.LegacyMustNewDecFromStr("0.00"), // No inflation
		InflationMax:        math.LegacyMustNewDecFromStr("0.00"),
		InflationMin:        math.LegacyMustNewDecFromStr("0.00"),
		GoalBonded:          math.LegacyMustNewDecFromStr("0.67"),
		BlocksPerYear:       uint64(7884000), // ~4 second blocks
	}
	mintGenesis.Minter = minttypes.Minter{
		Inflation:        math.LegacyZeroDec(),
		AnnualProvisions: math.LegacyZeroDec(),
	}
	genesis[minttypes.ModuleName] = cdc.MustMarshalJSON(&mintGenesis)

	// Crisis module - invariant checking
	var crisisGenesis crisistypes.GenesisState
	cdc.MustUnmarshalJSON(genesis[crisistypes.ModuleName], &crisisGenesis)
	crisisGenesis.ConstantFee = sdk.NewInt64Coin(BondDenom, 1000000000) // 1,000 OBL
	genesis[crisistypes.ModuleName] = cdc.MustMarshalJSON(&crisisGenesis)

	return genesis
}

func durationPtr(d time.Duration) *time.Duration {
	return &d
}
