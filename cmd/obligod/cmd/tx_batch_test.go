package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/stretchr/testify/require"

	"github.com/obligo-chain/obligo/app"
)

func newBatchClientContext() client.Context {
	encodingConfig := app.MakeEncodingConfig()
	return client.Context{}.
		WithCodec(encodingConfig.Codec).
		WithInterfaceRegistry(encodingConfig.InterfaceRegistry).
		WithTxConfig(encodingConfig.TxConfig)
}

func TestGetTxBatchCmdStructure(t *testing.T) {
	cmd := GetTxBatchCmd()

	require.Equal(t, "batch", cmd.Name())
	require.NotNil(t, cmd.RunE)
	require.NotNil(t, cmd.Flags().Lookup(flagSequential))

	// broadcast flags come along for free
	require.NotNil(t, cmd.Flags().Lookup("from"))
	require.NotNil(t, cmd.Flags().Lookup("broadcast-mode"))

	// at least one tx file is required
	require.Error(t, cmd.Args(cmd, []string{}))
	require.NoError(t, cmd.Args(cmd, []string{"tx1.json"}))
}

func TestBroadcastTxFileMissingFile(t *testing.T) {
	clientCtx := newBatchClientContext()

	result := broadcastTxFile(clientCtx, filepath.Join(t.TempDir(), "missing.json"))
	require.Equal(t, "", result.TxHash)
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "failed to read tx file")
}

func TestBroadcastTxFileRejectsGarbage(t *testing.T) {
	clientCtx := newBatchClientContext()

	txFile := filepath.Join(t.TempDir(), "garbage.json")
	require.NoError(t, os.WriteFile(txFile, []byte(`{"not": "a tx"}`), 0o600))

	result := broadcastTxFile(clientCtx, txFile)
	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "failed to decode tx")
}
