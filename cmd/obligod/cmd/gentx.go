package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"cosmossdk.io/math"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	"github.com/cosmos/cosmos-sdk/server"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/x/genutil"
	genutiltypes "github.com/cosmos/cosmos-sdk/x/genutil/types"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
)

const (
	flagCommissionRate          = "commission-rate"
	flagCommissionMaxRate       = "commission-max-rate"
	flagCommissionMaxChangeRate = "commission-max-change-rate"
	flagMinSelfDelegation       = "min-self-delegation"
	flagPubKey                  = "pubkey"
	flagMoniker                 = "moniker"
	flagIdentity                = "identity"
	flagWebsite                 = "website"
	flagSecurityContact         = "security-contact"
	flagDetails                 = "details"
)

// validatorProfile carries the create-validator parameters collected from the
// gentx flags.
type validatorProfile struct {
	description       stakingtypes.Description
	commission        stakingtypes.CommissionRates
	minSelfDelegation math.Int
}

// profileFromFlags reads the validator profile off the command flags, falling
// back to the node moniker when --moniker is not given.
func profileFromFlags(cmd *cobra.Command, nodeMoniker string) (validatorProfile, error) {
	var p validatorProfile

	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	rate, err := math.LegacyNewDecFromStr(str(flagCommissionRate))
	if err != nil {
		return p, fmt.Errorf("invalid commission rate: %w", err)
	}
	maxRate, err := math.LegacyNewDecFromStr(str(flagCommissionMaxRate))
	if err != nil {
		return p, fmt.Errorf("invalid max commission rate: %w", err)
	}
	maxChangeRate, err := math.LegacyNewDecFromStr(str(flagCommissionMaxChangeRate))
	if err != nil {
		return p, fmt.Errorf("invalid max change rate: %w", err)
	}
	p.commission = stakingtypes.NewCommissionRates(rate, maxRate, maxChangeRate)

	minSelfDelegation, ok := math.NewIntFromString(str(flagMinSelfDelegation))
	if !ok {
		return p, fmt.Errorf("invalid min self delegation: %s", str(flagMinSelfDelegation))
	}
	p.minSelfDelegation = minSelfDelegation

	moniker := str(flagMoniker)
	if moniker == "" {
		moniker = nodeMoniker
	}
	p.description = stakingtypes.NewDescription(
		moniker,
		str(flagIdentity),
		str(flagWebsite),
		str(flagSecurityContact),
		str(flagDetails),
	)

	return p, nil
}

// createValidatorMsg assembles the MsgCreateValidator for a self-delegation.
// The delegator address is populated explicitly since the constructor only
// sets the validator address.
func (p validatorProfile) createValidatorMsg(addr sdk.AccAddress, valPubKey cryptotypes.PubKey, amount sdk.Coin) (*stakingtypes.MsgCreateValidator, error) {
	msg, err := stakingtypes.NewMsgCreateValidator(
		sdk.ValAddress(addr).String(),
		valPubKey,
		amount,
		p.description,
		p.commission,
		p.minSelfDelegation,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MsgCreateValidator: %w", err)
	}

	//lint:ignore SA1019 DelegatorAddress remains for MsgCreateValidator compatibility in upstream SDK.
	msg.DelegatorAddress = addr.String()
	return msg, nil
}

// GenTxCmd builds the application's gentx command
func GenTxCmd(mbm module.BasicManager, txEncCfg client.TxEncodingConfig, genBalIterator genutiltypes.GenesisBalancesIterator, defaultNodeHome string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gentx [key_name] [amount]",
		Short: "Generate a genesis tx carrying a self delegation",
		Long: `Generate a genesis transaction that creates a validator with a self-delegation,
that is signed by the key in the Keyring referenced by a given name.

Example:
  obligod gentx validator-1 10000000000uobl \
    --chain-id obligo-testnet \
    --moniker "Obligo Validator 1" \
    --commission-rate 0.10 \
    --commission-max-rate 0.20 \
    --commission-max-change-rate 0.01 \
    --min-self-delegation 1000000
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenTx(cmd, mbm, txEncCfg, args[0], args[1])
		},
	}

	cmd.Flags().String(flags.FlagHome, defaultNodeHome, "The application home directory")
	cmd.Flags().String(flagCommissionRate, "0.10", "The initial commission rate percentage")
	cmd.Flags().String(flagCommissionMaxRate, "0.20", "The maximum commission rate percentage")
	cmd.Flags().String(flagCommissionMaxChangeRate, "0.01", "The maximum commission change rate percentage (per day)")
	cmd.Flags().String(flagMinSelfDelegation, "1000000", "The minimum self delegation required on the validator")
	cmd.Flags().String(flagMoniker, "", "The validator's name")
	cmd.Flags().String(flagIdentity, "", "The optional identity signature (ex. UPort or Keybase)")
	cmd.Flags().String(flagWebsite, "", "The validator's (optional) website")
	cmd.Flags().String(flagSecurityContact, "", "The validator's (optional) security contact")
	cmd.Flags().String(flagDetails, "", "The validator's (optional) details")
	flags.AddTxFlagsToCmd(cmd)

	return cmd
}

func runGenTx(cmd *cobra.Command, mbm module.BasicManager, txEncCfg client.TxEncodingConfig, keyName, amountStr string) error {
	serverCtx := server.GetServerContextFromCmd(cmd)
	clientCtx, err := client.GetClientTxContext(cmd)
	if err != nil {
		return err
	}

	config := serverCtx.Config
	config.SetRoot(clientCtx.HomeDir)

	// add-genesis-account and hand edits may re-encode integers as JSON
	// numbers; restore the canonical form before reading.
	if err := canonicalizeGenesisFile(config.GenesisFile()); err != nil {
		return fmt.Errorf("failed to canonicalize genesis before gentx: %w", err)
	}

	nodeID, valPubKey, err := genutil.InitializeNodeValidatorFiles(config)
	if err != nil {
		return fmt.Errorf("failed to initialize node validator files: %w", err)
	}

	genDoc, err := cmttypes.GenesisDocFromFile(config.GenesisFile())
	if err != nil {
		return fmt.Errorf("failed to read genesis doc from file: %w", err)
	}

	var genesisState map[string]json.RawMessage
	if err = json.Unmarshal(genDoc.AppState, &genesisState); err != nil {
		return fmt.Errorf("failed to unmarshal genesis state: %w", err)
	}
	if err = mbm.ValidateGenesis(clientCtx.Codec, txEncCfg, genesisState); err != nil {
		return fmt.Errorf("failed to validate genesis state: %w", err)
	}

	key, err := clientCtx.Keyring.Key(keyName)
	if err != nil {
		return fmt.Errorf("failed to get key %s: %w", keyName, err)
	}
	addr, err := key.GetAddress()
	if err != nil {
		return fmt.Errorf("failed to get address: %w", err)
	}

	amount, err := sdk.ParseCoinNormalized(amountStr)
	if err != nil {
		return fmt.Errorf("failed to parse amount: %w", err)
	}

	profile, err := profileFromFlags(cmd, config.Moniker)
	if err != nil {
		return err
	}
	msg, err := profile.createValidatorMsg(addr, valPubKey, amount)
	if err != nil {
		return err
	}

	txBuilder := clientCtx.TxConfig.NewTxBuilder()
	if err := txBuilder.SetMsgs(msg); err != nil {
		return err
	}

	txFactory := tx.Factory{}.
		WithChainID(genDoc.ChainID).
		WithMemo("").
		WithKeybase(clientCtx.Keyring).
		WithTxConfig(clientCtx.TxConfig)
	if err = tx.Sign(context.Background(), txFactory, keyName, txBuilder, true); err != nil {
		return err
	}

	txBz, err := clientCtx.TxConfig.TxJSONEncoder()(txBuilder.GetTx())
	if err != nil {
		return fmt.Errorf("failed to encode tx: %w", err)
	}

	gentxDir := filepath.Join(config.RootDir, "config", "gentx")
	if err := os.MkdirAll(gentxDir, 0o750); err != nil {
		return fmt.Errorf("failed to create gentx dir: %w", err)
	}
	gentxFile := filepath.Join(gentxDir, fmt.Sprintf("gentx-%s.json", nodeID))
	if err := os.WriteFile(gentxFile, txBz, 0o600); err != nil {
		return fmt.Errorf("failed to write gentx file: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Genesis transaction written to %s\n", gentxFile)
	fmt.Fprintf(cmd.OutOrStdout(), "\nValidator details:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Address: %s\n", msg.ValidatorAddress)
	fmt.Fprintf(cmd.OutOrStdout(), "  Moniker: %s\n", msg.Description.Moniker)
	fmt.Fprintf(cmd.OutOrStdout(), "  Self-delegation: %s\n", amount)
	fmt.Fprintf(cmd.OutOrStdout(), "  Commission rate: %s\n", msg.Commission.Rate)

	return nil
}
