package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	cryptocodec "github.com/cosmos/cosmos-sdk/crypto/codec"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/server"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	genutiltypes "github.com/cosmos/cosmos-sdk/x/genutil/types"
	slashingtypes "github.com/cosmos/cosmos-sdk/x/slashing/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"

	cmttypes "github.com/cometbft/cometbft/types"
)

// CollectGenTxsCmd returns the collect-gentxs command. Unlike the stock
// genutil flow, collected validators are bonded directly into the staking
// genesis so the chain starts with its validator set already live, and
// slashing signing info is pre-created for each of them.
func CollectGenTxsCmd(mbm module.BasicManager, defaultNodeHome string, genBalIterator genutiltypes.GenesisBalancesIterator, validator genutiltypes.MessageValidator) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect-gentxs",
		Short: "Collect genesis txs and output a genesis.json file",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCtx := server.GetServerContextFromCmd(cmd)
			clientCtx := client.GetClientContextFromCmd(cmd)

			config := serverCtx.Config
			config.SetRoot(clientCtx.HomeDir)

			genFile := config.GenesisFile()
			// add-genesis-account and hand edits may re-encode integers as
			// JSON numbers; restore the canonical form before reading.
			if err := canonicalizeGenesisFile(genFile); err != nil {
				return fmt.Errorf("failed to canonicalize genesis before collect-gentxs: %w", err)
			}
			genDoc, err := cmttypes.GenesisDocFromFile(genFile)
			if err != nil {
				return fmt.Errorf("failed to read genesis doc from file %s: %w", genFile, err)
			}

			var genesisState map[string]json.RawMessage
			if err = json.Unmarshal(genDoc.AppState, &genesisState); err != nil {
				return fmt.Errorf("failed to unmarshal genesis state: %w", err)
			}

			gentxDir := filepath.Join(config.RootDir, "config", "gentx")
			msgs, err := readGenTxMsgs(clientCtx, gentxDir)
			if err != nil {
				return err
			}
			if len(msgs) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No gentx files found in %s; leaving genesis unchanged.\n", gentxDir)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Collecting %d genesis transactions...\n", len(msgs))

			genesisValidators, err := bondGenesisValidators(clientCtx, genesisState, msgs)
			if err != nil {
				return err
			}

			if err = mbm.ValidateGenesis(clientCtx.Codec, clientCtx.TxConfig, genesisState); err != nil {
				return fmt.Errorf("failed to validate genesis state: %w", err)
			}

			appStateJSON, err := json.MarshalIndent(genesisState, "", " ")
			if err != nil {
				return fmt.Errorf("failed to marshal genesis state: %w", err)
			}

			genDoc.AppState = appStateJSON
			genDoc.Validators = genesisValidators

			if err = genDoc.ValidateAndComplete(); err != nil {
				return fmt.Errorf("failed to validate genesis doc: %w", err)
			}
			if err = genDoc.SaveAs(genFile); err != nil {
				return fmt.Errorf("failed to save genesis file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Genesis file updated: %s\n", genFile)
			for i, msg := range msgs {
				fmt.Fprintf(cmd.OutOrStdout(), "  %d. %s (%s)\n", i+1, msg.Description.Moniker, msg.ValidatorAddress)
			}

			return nil
		},
	}

	cmd.Flags().String(flags.FlagHome, defaultNodeHome, "The application home directory")
	flags.AddQueryFlagsToCmd(cmd)

	return cmd
}

// readGenTxMsgs loads every gentx file under dir and returns the decoded
// MsgCreateValidator messages. Duplicate validators and malformed gentxs
// are rejected.
func readGenTxMsgs(clientCtx client.Context, dir string) ([]*stakingtypes.MsgCreateValidator, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read gentx directory: %w", err)
	}

	var (
		msgs []*stakingtypes.MsgCreateValidator
		seen = make(map[string]struct{})
	)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		bz, err := os.ReadFile(path) // #nosec G304 - gentx files are operator supplied
		if err != nil {
			return nil, fmt.Errorf("failed to read gentx file %s: %w", path, err)
		}

		tx, err := clientCtx.TxConfig.TxJSONDecoder()(bz)
		if err != nil {
			return nil, fmt.Errorf("failed to decode gentx %s: %w", path, err)
		}

		txMsgs := tx.GetMsgs()
		if len(txMsgs) != 1 {
			return nil, fmt.Errorf("gentx %s must contain exactly one message, got %d", path, len(txMsgs))
		}
		msg, ok := txMsgs[0].(*stakingtypes.MsgCreateValidator)
		if !ok {
			return nil, fmt.Errorf("gentx %s message must be MsgCreateValidator", path)
		}
		if msg.ValidatorAddress == "" {
			return nil, fmt.Errorf("gentx %s: validator address is required", path)
		}
		if msg.Pubkey == nil {
			return nil, fmt.Errorf("gentx %s: pubkey is required", path)
		}
		if _, dup := seen[msg.ValidatorAddress]; dup {
			return nil, fmt.Errorf("duplicate gentx for validator %s", msg.ValidatorAddress)
		}
		seen[msg.ValidatorAddress] = struct{}{}

		msgs = append(msgs, msg)
	}

	return msgs, nil
}

// bondGenesisValidators moves each self-delegation from the delegator's bank
// balance into the bonded pool and writes the validator, delegation, power
// and signing-info records straight into the module genesis states. Returns
// the CometBFT genesis validator set.
func bondGenesisValidators(
	clientCtx client.Context,
	genesisState map[string]json.RawMessage,
	msgs []*stakingtypes.MsgCreateValidator,
) ([]cmttypes.GenesisValidator, error) {
	bankGenesis := banktypes.GetGenesisStateFromAppState(clientCtx.Codec, genesisState)
	stakingGenesis := stakingtypes.GetGenesisStateFromAppState(clientCtx.Codec, genesisState)
	genUtilGenesis := genutiltypes.GetGenesisStateFromAppState(clientCtx.Codec, genesisState)

	var slashingGenesis slashingtypes.GenesisState
	if genesisState[slashingtypes.ModuleName] != nil {
		clientCtx.Codec.MustUnmarshalJSON(genesisState[slashingtypes.ModuleName], &slashingGenesis)
	} else {
		slashingGenesis = *slashingtypes.DefaultGenesisState()
	}

	bondedPoolAddress := authtypes.NewModuleAddress(stakingtypes.BondedPoolName).String()
	bondedPoolBalance := ensureBalance(&bankGenesis.Balances, bondedPoolAddress)

	stakingGenesis.Validators = make([]stakingtypes.Validator, 0, len(msgs))
	stakingGenesis.Delegations = make([]stakingtypes.Delegation, 0, len(msgs))
	stakingGenesis.LastValidatorPowers = make([]stakingtypes.LastValidatorPower, 0, len(msgs))

	genesisValidators := make([]cmttypes.GenesisValidator, 0, len(msgs))
	lastTotalPower := math.NewInt(0)
	bondDenom := stakingGenesis.Params.BondDenom

	for idx, msg := range msgs {
		if msg.Value.Denom != bondDenom {
			return nil, fmt.Errorf("gentx %d uses %s but bond denom is %s", idx+1, msg.Value.Denom, bondDenom)
		}

		delegatorAddr := msg.DelegatorAddress
		if delegatorAddr == "" {
			valAddr, err := sdk.ValAddressFromBech32(msg.ValidatorAddress)
			if err != nil {
				return nil, fmt.Errorf("invalid validator address %s: %w", msg.ValidatorAddress, err)
			}
			delegatorAddr = sdk.AccAddress(valAddr).String()
		}

		delegatorBalance := findBalance(bankGenesis.Balances, delegatorAddr)
		if delegatorBalance == nil {
			return nil, fmt.Errorf("delegator %s has no balance entry in genesis", delegatorAddr)
		}
		if delegatorBalance.Coins.AmountOf(msg.Value.Denom).LT(msg.Value.Amount) {
			return nil, fmt.Errorf("delegator %s insufficient balance for self-delegation", delegatorAddr)
		}

		delegatorBalance.Coins = delegatorBalance.Coins.Sub(msg.Value)
		bondedPoolBalance.Coins = bondedPoolBalance.Coins.Add(msg.Value)

		shares := math.LegacyNewDecFromInt(msg.Value.Amount)
		stakingGenesis.Validators = append(stakingGenesis.Validators, stakingtypes.Validator{
			OperatorAddress:   msg.ValidatorAddress,
			ConsensusPubkey:   msg.Pubkey,
			Status:            stakingtypes.Bonded,
			Tokens:            msg.Value.Amount,
			DelegatorShares:   shares,
			Description:       msg.Description,
			UnbondingTime:     time.Unix(0, 0).UTC(),
			Commission:        stakingtypes.Commission{CommissionRates: msg.Commission, UpdateTime: time.Unix(0, 0).UTC()},
			MinSelfDelegation: msg.MinSelfDelegation,
		})
		stakingGenesis.Delegations = append(stakingGenesis.Delegations, stakingtypes.Delegation{
			DelegatorAddress: delegatorAddr,
			ValidatorAddress: msg.ValidatorAddress,
			Shares:           shares,
		})

		power := sdk.TokensToConsensusPower(msg.Value.Amount, sdk.DefaultPowerReduction)
		stakingGenesis.LastValidatorPowers = append(stakingGenesis.LastValidatorPowers, stakingtypes.LastValidatorPower{
			Address: msg.ValidatorAddress,
			Power:   power,
		})
		lastTotalPower = lastTotalPower.Add(math.NewInt(power))

		genesisValidator, err := genesisValidatorFromMsg(clientCtx.InterfaceRegistry, msg)
		if err != nil {
			return nil, err
		}
		genesisValidators = append(genesisValidators, genesisValidator)

		// Slashing tracks uptime from the first block, so each bonded
		// validator needs signing info up front.
		var pubKey cryptotypes.PubKey
		if err := clientCtx.InterfaceRegistry.UnpackAny(msg.Pubkey, &pubKey); err != nil {
			return nil, fmt.Errorf("failed to unpack validator pubkey for slashing info: %w", err)
		}
		consAddr := sdk.ConsAddress(pubKey.Address())
		slashingGenesis.SigningInfos = append(slashingGenesis.SigningInfos, slashingtypes.SigningInfo{
			Address: consAddr.String(),
			ValidatorSigningInfo: slashingtypes.NewValidatorSigningInfo(
				consAddr, 0, 0, time.Unix(0, 0).UTC(), false, 0,
			),
		})
	}

	stakingGenesis.LastTotalPower = lastTotalPower
	genUtilGenesis.GenTxs = []json.RawMessage{}

	genesisState[banktypes.ModuleName] = clientCtx.Codec.MustMarshalJSON(bankGenesis)
	genesisState[stakingtypes.ModuleName] = clientCtx.Codec.MustMarshalJSON(stakingGenesis)
	genesisState[slashingtypes.ModuleName] = clientCtx.Codec.MustMarshalJSON(&slashingGenesis)
	genesisState[genutiltypes.ModuleName] = clientCtx.Codec.MustMarshalJSON(genUtilGenesis)

	return genesisValidators, nil
}

func genesisValidatorFromMsg(registry codectypes.InterfaceRegistry, msg *stakingtypes.MsgCreateValidator) (cmttypes.GenesisValidator, error) {
	var pubKey cryptotypes.PubKey
	if err := registry.UnpackAny(msg.Pubkey, &pubKey); err != nil {
		return cmttypes.GenesisValidator{}, fmt.Errorf("failed to unpack validator pubkey: %w", err)
	}

	consensusPubKey, err := cryptocodec.ToCmtPubKeyInterface(pubKey)
	if err != nil {
		return cmttypes.GenesisValidator{}, fmt.Errorf("failed to convert validator pubkey: %w", err)
	}

	power := sdk.TokensToConsensusPower(msg.Value.Amount, sdk.DefaultPowerReduction)
	if power <= 0 {
		return cmttypes.GenesisValidator{}, fmt.Errorf("validator %s has zero consensus power", msg.ValidatorAddress)
	}

	return cmttypes.GenesisValidator{
		Address: consensusPubKey.Address(),
		PubKey:  consensusPubKey,
		Power:   power,
		Name:    msg.Description.Moniker,
	}, nil
}

func findBalance(balances []banktypes.Balance, address string) *banktypes.Balance {
	for i := range balances {
		if balances[i].Address == address {
			return &balances[i]
		}
	}
	return nil
}

func ensureBalance(balances *[]banktypes.Balance, address string) *banktypes.Balance {
	if existing := findBalance(*balances, address); existing != nil {
		return existing
	}
	*balances = append(*balances, banktypes.Balance{
		Address: address,
		Coins:   sdk.NewCoins(),
	})
	return &(*balances)[len(*balances)-1]
}
