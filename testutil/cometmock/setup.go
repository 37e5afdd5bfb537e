// Package cometmock drives an in-memory Obligo app through the ABCI 2.0
// block lifecycle without a real CometBFT node.
package cometmock

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	cmttypes "github.com/cometbft/cometbft/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/baseapp"
	simtestutil "github.com/cosmos/cosmos-sdk/testutil/sims"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/app"
)

// CometMockApp is a mock consensus harness around an ObligoApp.
type CometMockApp struct {
	*app.ObligoApp
	config       MockConfig
	blockHeight  int64
	blockTime    time.Time
	validators   []*cmttypes.Validator
	validatorSet *cmttypes.ValidatorSet
	proposer     *cmttypes.Validator
}

// SetupCometMock initializes a new mock consensus harness for testing.
func SetupCometMock(t *testing.T, config MockConfig) *CometMockApp {
	t.Helper()

	require.NoError(t, config.Validate())

	db := dbm.NewMemDB()
	app.SetConfig()

	obligoApp := app.NewObligoApp(
		log.NewNopLogger(),
		db,
		nil,
		true,
		simtestutil.EmptyAppOptions{},
		baseapp.SetChainID(config.ChainID),
	)

	validators := createValidators(config.NumValidators)
	validatorSet := cmttypes.NewValidatorSet(validators)

	genesisState := app.NewDefaultGenesisState(obligoApp.AppCodec())
	stateBytes, err := json.Marshal(genesisState)
	require.NoError(t, err)

	_, err = obligoApp.InitChain(
		&abci.RequestInitChain{
			Time:            time.Now(),
			ChainId:         config.ChainID,
			InitialHeight:   config.InitialHeight,
			ConsensusParams: consensusParams(config),
			Validators:      []abci.ValidatorUpdate{},
			AppStateBytes:   stateBytes,
		},
	)
	require.NoError(t, err)

	return &CometMockApp{
		ObligoApp: obligoApp,
		config:    config,
		// the first finalized block must land exactly on InitialHeight
		blockHeight:  config.InitialHeight - 1,
		blockTime:    time.Now(),
		validators:   validators,
		validatorSet: validatorSet,
		proposer:     validators[0],
	}
}

// NextBlock finalizes and commits a block containing the given transactions.
// Individual tx results are returned in order.
func (m *CometMockApp) NextBlock(txs ...[]byte) []*abci.ExecTxResult {
	m.blockHeight++
	m.blockTime = m.blockTime.Add(m.config.BlockTime)

	res, err := m.FinalizeBlock(&abci.RequestFinalizeBlock{
		Height:          m.blockHeight,
		Time:            m.blockTime,
		Txs:             txs,
		ProposerAddress: m.proposer.Address,
	})
	if err != nil {
		panic(err)
	}

	if _, err := m.Commit(); err != nil {
		panic(err)
	}

	return res.TxResults
}

// NextBlocks advances multiple empty blocks.
func (m *CometMockApp) NextBlocks(n int) {
	for i := 0; i < n; i++ {
		m.NextBlock()
	}
}

// Context returns a fresh query context at the committed height.
func (m *CometMockApp) Context() sdk.Context {
	return m.NewContext(true)
}

// Height returns the height of the last finalized block.
func (m *CometMockApp) Height() int64 {
	return m.blockHeight
}

// Time returns the current block time.
func (m *CometMockApp) Time() time.Time {
	return m.blockTime
}

func createValidators(num int) []*cmttypes.Validator {
	validators := make([]*cmttypes.Validator, num)
	for i := 0; i < num; i++ {
		privKey := ed25519.GenPrivKey()
		validators[i] = cmttypes.NewValidator(privKey.PubKey(), 100)
	}
	return validators
}

func consensusParams(config MockConfig) *cmtproto.ConsensusParams {
	return &cmtproto.ConsensusParams{
		Block: &cmtproto.BlockParams{
			MaxBytes: config.MaxBlockSize,
			MaxGas:   config.MaxGas,
		},
		Evidence: &cmtproto.EvidenceParams{
			MaxAgeNumBlocks: 302400,
			MaxAgeDuration:  504 * time.Hour,
			MaxBytes:        10000,
		},
		Validator: &cmtproto.ValidatorParams{
			PubKeyTypes: []string{
				cmttypes.ABCIPubKeyTypeEd25519,
			},
		},
		Version: &cmtproto.VersionParams{
			App: 1,
		},
	}
}
