package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cmtjson "github.com/cometbft/cometbft/libs/json"
	cmtos "github.com/cometbft/cometbft/libs/os"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/server"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/x/genutil"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/spf13/cobra"

	"github.com/obligo-chain/obligo/app"
)

const (
	flagOverwrite    = "overwrite"
	flagRecover      = "recover"
	flagDefaultDenom = "default-denom"
)

// Consensus limits written into every new genesis. Sized for the 4-second
// block time the chain runs at.
const (
	genesisMaxBlockBytes   int64 = 2_097_152   // 2 MB
	genesisMaxBlockGas     int64 = 100_000_000 // 100M gas
	genesisEvidenceBlocks  int64 = 500_000     // ~23 days
	genesisEvidenceMaxSize int64 = 1_048_576   // 1 MB
)

// InitCmd returns a command that initializes the validator key, node key and
// genesis file for a new node.
func InitCmd(mbm module.BasicManager, defaultNodeHome string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [moniker]",
		Short: "Initialize private validator, p2p, genesis, and application configuration files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx := client.GetClientContextFromCmd(cmd)
			serverCtx := server.GetServerContextFromCmd(cmd)
			config := serverCtx.Config
			config.SetRoot(clientCtx.HomeDir)
			config.Moniker = args[0]

			chainID, _ := cmd.Flags().GetString(flags.FlagChainID)
			if chainID == "" {
				chainID = fmt.Sprintf("test-chain-%v", time.Now().Unix())
			}

			nodeID, _, err := genutil.InitializeNodeValidatorFiles(config)
			if err != nil {
				return err
			}

			genFile := config.GenesisFile()
			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)
			if !overwrite {
				if _, err := os.Stat(genFile); !os.IsNotExist(err) {
					return fmt.Errorf("genesis.json file already exists: %v", genFile)
				}
			}

			genesisState := mbm.DefaultGenesis(clientCtx.Codec)

			// overlay the network parameters (staking, slashing, gov, mint)
			genesisConfig := app.DefaultGenesisConfig()
			genesisConfig.ChainID = chainID
			app.ApplyGenesisConfig(clientCtx.Codec, genesisState, genesisConfig)

			denom, _ := cmd.Flags().GetString(flagDefaultDenom)
			if denom != "" && denom != sdkDefaultBondDenom(clientCtx, genesisState) {
				if err := setBondDenom(clientCtx, genesisState, denom); err != nil {
					return err
				}
			}

			appState, err := json.MarshalIndent(genesisState, "", " ")
			if err != nil {
				return fmt.Errorf("failed to marshal default genesis state: %w", err)
			}

			genDoc := &cmttypes.GenesisDoc{
				ChainID:         chainID,
				GenesisTime:     time.Now().UTC(),
				ConsensusParams: cmttypes.DefaultConsensusParams(),
				AppState:        appState,
			}
			genDoc.ConsensusParams.Block.MaxBytes = genesisMaxBlockBytes
			genDoc.ConsensusParams.Block.MaxGas = genesisMaxBlockGas
			genDoc.ConsensusParams.Evidence.MaxAgeNumBlocks = genesisEvidenceBlocks
			genDoc.ConsensusParams.Evidence.MaxAgeDuration = 21 * 24 * time.Hour
			genDoc.ConsensusParams.Evidence.MaxBytes = genesisEvidenceMaxSize

			if err = genDoc.ValidateAndComplete(); err != nil {
				return fmt.Errorf("failed to validate genesis doc: %w", err)
			}
			if err = writeCanonicalGenesis(genFile, genDoc); err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Join(clientCtx.HomeDir, "data"), 0o750); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Successfully initialized chain configuration\n")
			fmt.Fprintf(cmd.OutOrStdout(), "Chain ID: %s\n", chainID)
			fmt.Fprintf(cmd.OutOrStdout(), "Moniker: %s\n", config.Moniker)
			fmt.Fprintf(cmd.OutOrStdout(), "Node ID: %s\n", nodeID)
			fmt.Fprintf(cmd.OutOrStdout(), "Genesis file: %s\n", genFile)

			return nil
		},
	}

	cmd.Flags().String(flags.FlagChainID, "", "genesis file chain-id, if left blank will be randomly created")
	cmd.Flags().Bool(flagOverwrite, false, "overwrite the genesis.json file")
	cmd.Flags().Bool(flagRecover, false, "provide seed phrase to recover existing key instead of creating")
	cmd.Flags().String(flagDefaultDenom, app.BondDenom, "default denomination for the chain")
	cmd.Flags().String(flags.FlagHome, defaultNodeHome, "node's home directory")

	return cmd
}

func sdkDefaultBondDenom(clientCtx client.Context, genesisState map[string]json.RawMessage) string {
	staking := stakingtypes.GetGenesisStateFromAppState(clientCtx.Codec, genesisState)
	return staking.Params.BondDenom
}

// setBondDenom points the staking module at the requested denomination.
func setBondDenom(clientCtx client.Context, genesisState map[string]json.RawMessage, denom string) error {
	staking := stakingtypes.GetGenesisStateFromAppState(clientCtx.Codec, genesisState)
	staking.Params.BondDenom = denom
	bz, err := clientCtx.Codec.MarshalJSON(staking)
	if err != nil {
		return fmt.Errorf("failed to marshal staking genesis state: %w", err)
	}
	genesisState[stakingtypes.ModuleName] = bz
	return nil
}

// writeCanonicalGenesis saves the genesis doc with every integer encoded as
// a decimal string and a non-null app_hash, the form CometBFT's
// Amino-compatible JSON decoder expects, then re-validates the written form.
func writeCanonicalGenesis(path string, genDoc *cmttypes.GenesisDoc) error {
	bz, err := cmtjson.Marshal(genDoc)
	if err != nil {
		return fmt.Errorf("failed to marshal genesis doc: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(bz))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode genesis for canonicalization: %w", err)
	}

	pretty, err := json.MarshalIndent(stringifyNumbers(raw), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal canonical genesis: %w", err)
	}
	if _, err := cmttypes.GenesisDocFromJSON(pretty); err != nil {
		return fmt.Errorf("canonical genesis validation failed: %w", err)
	}

	if err := cmtos.WriteFile(path, pretty, 0o644); err != nil {
		return fmt.Errorf("failed to save genesis file: %w", err)
	}
	return nil
}

// canonicalizeGenesisFile rewrites an existing genesis file into the same
// canonical form init produces, tolerating files written by tools that
// encode integers as JSON numbers.
func canonicalizeGenesisFile(path string) error {
	bz, err := os.ReadFile(path) // #nosec G304 - path originates from operator-controlled arguments
	if err != nil {
		return fmt.Errorf("failed to read genesis file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(bz))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode genesis: %w", err)
	}

	pretty, err := json.MarshalIndent(stringifyNumbers(raw), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal canonical genesis: %w", err)
	}
	if _, err := cmttypes.GenesisDocFromJSON(pretty); err != nil {
		return fmt.Errorf("canonical genesis validation failed: %w", err)
	}
	return cmtos.WriteFile(path, pretty, 0o644)
}

// stringifyNumbers walks a decoded JSON tree turning numbers into decimal
// strings and null app_hash values into empty strings.
func stringifyNumbers(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, vv := range val {
			if k == "app_hash" && vv == nil {
				out[k] = ""
				continue
			}
			out[k] = stringifyNumbers(vv)
		}
		return out
	case []interface{}:
		for i, vv := range val {
			val[i] = stringifyNumbers(vv)
		}
		return val
	case json.Number:
		return val.String()
	case float64:
		return fmt.Sprintf("%.0f", val)
	default:
		return val
	}
}
