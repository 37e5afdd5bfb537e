package cmd

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"cosmossdk.io/log"
	cmtcfg "github.com/cometbft/cometbft/config"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/config"
	"github.com/cosmos/cosmos-sdk/client/debug"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/pruning"
	"github.com/cosmos/cosmos-sdk/client/rpc"
	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/server"
	serverconfig "github.com/cosmos/cosmos-sdk/server/config"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	authcmd "github.com/cosmos/cosmos-sdk/x/auth/client/cli"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/cosmos-sdk/x/crisis"
	genutilcli "github.com/cosmos/cosmos-sdk/x/genutil/client/cli"
	genutiltypes "github.com/cosmos/cosmos-sdk/x/genutil/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/obligo-chain/obligo/app"
)

var sdkConfigOnce sync.Once

// initSDKConfig seals the SDK config with the obligo bech32 prefixes. Safe to
// call from every entry point; only the first call takes effect.
func initSDKConfig() {
	sdkConfigOnce.Do(app.SetConfig)
}

// NewRootCmd builds the obligod root command. addHomeFlag controls whether
// --home is registered here; obligocli registers its own.
func NewRootCmd(addHomeFlag bool) *cobra.Command {
	initSDKConfig()

	encodingConfig := app.MakeEncodingConfig()
	baseClientCtx := client.Context{}.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig).
		WithLegacyAmino(encodingConfig.Amino).
		WithAccountRetriever(authtypes.AccountRetriever{}).
		WithInput(os.Stdin).
		WithHomeDir(app.DefaultNodeHome).
		WithViper("")

	rootCmd := &cobra.Command{
		Use:   "obligod",
		Short: "Obligo Blockchain Daemon",
		Long: `Obligo is a layer-1 blockchain for corporate bond custody. It tracks bond
ownership on-chain, custodies bond units in repayment vaults with priced deposits,
and values positions through IBC-relayed price feeds.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())

			clientCtx := baseClientCtx.WithCmdContext(cmd.Context())
			clientCtx, err := client.ReadPersistentCommandFlags(clientCtx, cmd.Flags())
			if err != nil {
				return err
			}
			clientCtx, err = config.ReadFromClientConfig(clientCtx)
			if err != nil {
				return err
			}

			// ReadFromClientConfig rebuilds the context from client.toml and can
			// drop the TxConfig, which makes tx commands panic when they prepare
			// the signing factory. Rebind it unconditionally.
			clientCtx = clientCtx.WithTxConfig(encodingConfig.TxConfig)
			if clientCtx.TxConfig == nil {
				clientCtx = clientCtx.WithTxConfig(app.MakeEncodingConfig().TxConfig)
			}

			if err := client.SetCmdClientContextHandler(clientCtx, cmd); err != nil {
				return err
			}

			appTemplate, appConfig := obligoAppConfig()
			return server.InterceptConfigsPreRunHandler(cmd, appTemplate, appConfig, obligoCometConfig())
		},
	}

	if addHomeFlag && rootCmd.PersistentFlags().Lookup(flags.FlagHome) == nil {
		rootCmd.PersistentFlags().String(flags.FlagHome, app.DefaultNodeHome, "directory for config and data")
	}
	if rootCmd.PersistentFlags().Lookup(flags.FlagChainID) == nil {
		rootCmd.PersistentFlags().String(flags.FlagChainID, "", "The network chain ID")
	}

	addGenesisCommands(rootCmd, encodingConfig)
	addNodeCommands(rootCmd)
	addClientCommands(rootCmd)

	return rootCmd
}

// addGenesisCommands wires the commands that prepare a chain before it starts:
// init, gentx and genesis-file maintenance.
func addGenesisCommands(rootCmd *cobra.Command, encodingConfig app.EncodingConfig) {
	rootCmd.AddCommand(
		InitCmd(app.ModuleBasics, app.DefaultNodeHome),
		GenTxCmd(app.ModuleBasics, encodingConfig.TxConfig, banktypes.GenesisBalancesIterator{}, app.DefaultNodeHome),
		CollectGenTxsCmd(app.ModuleBasics, app.DefaultNodeHome, banktypes.GenesisBalancesIterator{}, genutiltypes.DefaultMessageValidator),
		genutilcli.ValidateGenesisCmd(app.ModuleBasics),
		genutilcli.AddGenesisAccountCmd(app.DefaultNodeHome, addresscodec.NewBech32Codec(app.Bech32PrefixAccAddr)),
	)
}

// addNodeCommands wires start/export and the other commands that operate on a
// node's database.
func addNodeCommands(rootCmd *cobra.Command) {
	server.AddCommands(rootCmd, app.DefaultNodeHome, newApp, exportApp, func(startCmd *cobra.Command) {
		crisis.AddModuleInitFlags(startCmd)
	})
	rootCmd.AddCommand(
		pruning.Cmd(newApp, app.DefaultNodeHome),
		debug.Cmd(),
	)
}

// addClientCommands wires the commands that talk to a running node.
func addClientCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		server.StatusCommand(),
		newQueryCmd(),
		newTxCmd(),
		newKeysCmd(false), // home flag comes from the root command
	)
}

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "query",
		Aliases:                    []string{"q"},
		Short:                      "Querying subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		authcmd.QueryTxCmd(),
		authcmd.QueryTxsByEventsCmd(),
		rpc.ValidatorCommand(),
		server.QueryBlockCmd(),
		server.QueryBlocksCmd(),
		server.QueryBlockResultsCmd(),
	)
	app.ModuleBasics.AddQueryCommands(cmd)

	return cmd
}

func newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        "tx",
		Short:                      "Transactions subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	cmd.AddCommand(
		authcmd.GetSignCommand(),
		authcmd.GetSignBatchCommand(),
		authcmd.GetMultiSignCommand(),
		authcmd.GetMultiSignBatchCmd(),
		authcmd.GetValidateSignaturesCommand(),
		authcmd.GetBroadcastCommand(),
		authcmd.GetEncodeCommand(),
		authcmd.GetDecodeCommand(),
		authcmd.GetSimulateCmd(),
		GetTxBatchCmd(),
	)
	app.ModuleBasics.AddTxCommands(cmd)

	return cmd
}

func newApp(logger log.Logger, db dbm.DB, traceStore io.Writer, appOpts servertypes.AppOptions) servertypes.Application {
	return app.NewObligoApp(logger, db, traceStore, true, appOpts, server.DefaultBaseappOptions(appOpts)...)
}

func exportApp(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	height int64,
	forZeroHeight bool,
	jailAllowedAddrs []string,
	appOpts servertypes.AppOptions,
	modulesToExport []string,
) (servertypes.ExportedApp, error) {
	if home, ok := appOpts.Get(flags.FlagHome).(string); !ok || home == "" {
		return servertypes.ExportedApp{}, errors.New("application home not set")
	}
	viperAppOpts, ok := appOpts.(*viper.Viper)
	if !ok {
		return servertypes.ExportedApp{}, errors.New("appOpts is not viper.Viper")
	}
	viperAppOpts.Set(server.FlagInvCheckPeriod, 1)

	var obligoApp *app.ObligoApp
	if height == -1 {
		obligoApp = app.NewObligoApp(logger, db, traceStore, true, viperAppOpts)
	} else {
		obligoApp = app.NewObligoApp(logger, db, traceStore, false, viperAppOpts)
		if err := obligoApp.LoadHeight(height); err != nil {
			return servertypes.ExportedApp{}, err
		}
	}

	return obligoApp.ExportAppStateAndValidators(forZeroHeight, jailAllowedAddrs, modulesToExport)
}

// obligoAppConfig returns the app.toml template and defaults written by init.
// Min gas price defaults to 0.001uobl; a node started with an empty value
// halts, so validators get a working default they may still override.
func obligoAppConfig() (string, interface{}) {
	srvCfg := serverconfig.DefaultConfig()
	srvCfg.MinGasPrices = app.DefaultMinGasPrice.String()

	// Full nodes serve queries out of the box. Sentry operators can switch
	// the API off in app.toml.
	srvCfg.API.Enable = true
	srvCfg.API.Swagger = false
	srvCfg.GRPC.Enable = true

	return serverconfig.DefaultConfigTemplate, *srvCfg
}

// obligoCometConfig shortens the consensus timeouts to fit the 4-second block
// target the genesis consensus params assume.
func obligoCometConfig() *cmtcfg.Config {
	cfg := cmtcfg.DefaultConfig()
	cfg.Consensus.TimeoutPropose = 3 * time.Second
	cfg.Consensus.TimeoutProposeDelta = 500 * time.Millisecond
	cfg.Consensus.TimeoutPrevote = time.Second
	cfg.Consensus.TimeoutPrevoteDelta = 500 * time.Millisecond
	cfg.Consensus.TimeoutPrecommit = time.Second
	cfg.Consensus.TimeoutPrecommitDelta = 500 * time.Millisecond
	cfg.Consensus.TimeoutCommit = 0
	return cfg
}
