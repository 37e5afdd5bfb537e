package ibctesting

import (
	"encoding/json"

	dbm "github.com/cosmos/cosmos-db"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	"github.com/cosmos/cosmos-sdk/baseapp"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	simtestutil "github.com/cosmos/cosmos-sdk/testutil/sims"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitykeeper "github.com/cosmos/ibc-go/modules/capability/keeper"
	corekeeper "github.com/cosmos/ibc-go/v8/modules/core/keeper"
	ibctesting "github.com/cosmos/ibc-go/v8/testing"
	ibctestingtypes "github.com/cosmos/ibc-go/v8/testing/types"

	"github.com/obligo-chain/obligo/app"
	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
)

// Override the default testing app to use the full Obligo application.
func init() {
	ibctesting.DefaultTestingAppInit = SetupTestingApp
}

// SetupTestingApp builds an Obligo app and genesis state for the ibc-go testing harness.
func SetupTestingApp() (ibctesting.TestingApp, map[string]json.RawMessage) {
	db := dbm.NewMemDB()
	app.SetConfig()

	obligoApp := app.NewObligoApp(
		log.NewNopLogger(),
		db,
		nil,
		true,
		simtestutil.EmptyAppOptions{},
		baseapp.SetChainID("obligo-ibc"),
	)

	ctx := obligoApp.BaseApp.NewContext(true).WithBlockHeader(cmtproto.Header{})
	if err := obligoApp.PricefeedKeeper.BindPort(ctx); err != nil {
		panic(err)
	}
	if !obligoApp.IBCKeeper.PortKeeper.IsBound(ctx, pricefeedtypes.PortID) {
		panic("pricefeed port not bound")
	}

	return obligoTestingApp{obligoApp}, app.ModuleBasics.DefaultGenesis(obligoApp.AppCodec())
}

// BindCustomPorts ensures custom module ports are bound in the current chain context.
// Useful for ibctesting paths that create channels before module InitGenesis runs.
func BindCustomPorts(chain *ibctesting.TestChain) {
	obligoApp, ok := chain.App.(obligoTestingApp)
	if !ok {
		panic("chain app is not obligoTestingApp")
	}
	ctx := chain.GetContext()
	if err := obligoApp.PricefeedKeeper.BindPort(ctx); err != nil {
		panic(err)
	}
}

// BankBalance returns the balance for the given address using the Obligo app's bank keeper.
func BankBalance(chain *ibctesting.TestChain, addr sdk.AccAddress, denom string) sdk.Coin {
	obligoApp, ok := chain.App.(obligoTestingApp)
	if !ok {
		panic("chain app is not obligoTestingApp")
	}
	return obligoApp.BankKeeper.GetBalance(chain.GetContext(), addr, denom)
}

// obligoTestingApp satisfies ibctesting.TestingApp by forwarding to ObligoApp.
type obligoTestingApp struct{ *app.ObligoApp }

func (w obligoTestingApp) GetBaseApp() *baseapp.BaseApp                    { return w.BaseApp }
func (w obligoTestingApp) GetStakingKeeper() ibctestingtypes.StakingKeeper { return w.StakingKeeper }
func (w obligoTestingApp) GetIBCKeeper() *corekeeper.Keeper                { return w.IBCKeeper }
func (w obligoTestingApp) GetScopedIBCKeeper() capabilitykeeper.ScopedKeeper {
	return w.ScopedIBCKeeper
}
func (w obligoTestingApp) GetTxConfig() client.TxConfig      { return w.TxConfig() }
func (w obligoTestingApp) AppCodec() codec.Codec             { return w.ObligoApp.AppCodec() }
func (w obligoTestingApp) LastCommitID() storetypes.CommitID { return w.BaseApp.LastCommitID() }
func (w obligoTestingApp) LastBlockHeight() int64            { return w.BaseApp.LastBlockHeight() }

// GetObligoApp unwraps the underlying ObligoApp from a testing chain.
func GetObligoApp(chain *ibctesting.TestChain) *app.ObligoApp {
	if w, ok := chain.App.(obligoTestingApp); ok {
		return w.ObligoApp
	}
	panic("chain app is not obligoTestingApp")
}
