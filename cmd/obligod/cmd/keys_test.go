package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/obligo-chain/obligo/app"
)

const testMnemonic12 = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestKeyring(t *testing.T) keyring.Keyring {
	t.Helper()
	initSDKConfig()

	kr, err := keyring.New("obligo", keyring.BackendTest, t.TempDir(), nil, app.MakeEncodingConfig().Codec)
	require.NoError(t, err)
	return kr
}

// runKeysCmd executes a keys subcommand against the given keyring, feeding
// stdin to interactive prompts, and returns the captured output.
func runKeysCmd(t *testing.T, cmd *cobra.Command, kr keyring.Keyring, stdin string, args ...string) (string, error) {
	t.Helper()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SetContext(context.Background())

	clientCtx := client.Context{}.
		WithCodec(app.MakeEncodingConfig().Codec).
		WithKeyring(kr).
		WithHomeDir(t.TempDir())
	require.NoError(t, client.SetCmdClientContextHandler(clientCtx, cmd))

	err := cmd.Execute()
	return out.String(), err
}

// mnemonicFromOutput finds the backup mnemonic line printed by `keys add`.
func mnemonicFromOutput(t *testing.T, output string) string {
	t.Helper()
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if n := len(strings.Fields(line)); (n == 12 || n == 24) && bip39.IsMnemonicValid(line) {
			return line
		}
	}
	t.Fatalf("no mnemonic found in output:\n%s", output)
	return ""
}

func TestAddKeyCommand(t *testing.T) {
	kr := newTestKeyring(t)

	out, err := runKeysCmd(t, AddKeyCommand(), kr, "", "bondkey")
	require.NoError(t, err)
	require.Contains(t, out, "- name: bondkey")
	require.Contains(t, out, "**IMPORTANT**")

	mnemonic := mnemonicFromOutput(t, out)
	require.Len(t, strings.Fields(mnemonic), 24)

	key, err := kr.Key("bondkey")
	require.NoError(t, err)
	require.Equal(t, "bondkey", key.Name)
}

func TestAddKeyCommand_TwelveWords(t *testing.T) {
	kr := newTestKeyring(t)

	out, err := runKeysCmd(t, AddKeyCommand(), kr, "", "shortkey", "--mnemonic-length", "12")
	require.NoError(t, err)

	mnemonic := mnemonicFromOutput(t, out)
	require.Len(t, strings.Fields(mnemonic), 12)
}

func TestAddKeyCommand_NoBackupHidesMnemonic(t *testing.T) {
	kr := newTestKeyring(t)

	out, err := runKeysCmd(t, AddKeyCommand(), kr, "", "quietkey", "--no-backup")
	require.NoError(t, err)
	require.Contains(t, out, "- name: quietkey")
	require.NotContains(t, out, "**IMPORTANT**")
}

func TestAddKeyCommand_RejectsBadMnemonicLength(t *testing.T) {
	kr := newTestKeyring(t)

	_, err := runKeysCmd(t, AddKeyCommand(), kr, "", "badkey", "--mnemonic-length", "15")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mnemonic length must be 12 or 24")
}

func TestRecoverKeyCommand(t *testing.T) {
	kr := newTestKeyring(t)

	out, err := runKeysCmd(t, RecoverKeyCommand(), kr, testMnemonic12+"\n", "recovered")
	require.NoError(t, err)
	require.Contains(t, out, "Key successfully recovered from 12-word mnemonic!")

	// The derived address must match a direct derivation at the same path.
	hdPath := hd.CreateHDPath(sdk.GetConfig().GetCoinType(), 0, 0)
	masterPriv, ch := hd.ComputeMastersFromSeed(bip39.NewSeed(testMnemonic12, ""))
	derivedPriv, err := hd.DerivePrivateKeyForPath(masterPriv, ch, hdPath.String())
	require.NoError(t, err)
	expected := sdk.AccAddress(hd.Secp256k1.Generate()(derivedPriv).PubKey().Address())

	key, err := kr.Key("recovered")
	require.NoError(t, err)
	addr, err := key.GetAddress()
	require.NoError(t, err)
	require.Equal(t, expected.String(), addr.String())
}

func TestRecoverKeyCommand_RejectsBadChecksum(t *testing.T) {
	kr := newTestKeyring(t)

	// last word should be "about"
	bad := strings.Replace(testMnemonic12, "about", "ability", 1)
	_, err := runKeysCmd(t, RecoverKeyCommand(), kr, bad+"\n", "badkey")
	require.Error(t, err)
	require.Contains(t, err.Error(), "checksum failed")
}

func TestAddKeyCommand_RecoverFlag(t *testing.T) {
	kr := newTestKeyring(t)

	out, err := runKeysCmd(t, AddKeyCommand(), kr, testMnemonic12+"\n", "viaflag", "--recover")
	require.NoError(t, err)
	require.Contains(t, out, "Key successfully recovered from 12-word mnemonic!")

	viaFlag, err := kr.Key("viaflag")
	require.NoError(t, err)

	_, err = runKeysCmd(t, RecoverKeyCommand(), kr, testMnemonic12+"\n", "viacmd")
	require.NoError(t, err)
	viaCmd, err := kr.Key("viacmd")
	require.NoError(t, err)

	addr1, err := viaFlag.GetAddress()
	require.NoError(t, err)
	addr2, err := viaCmd.GetAddress()
	require.NoError(t, err)
	require.Equal(t, addr1.String(), addr2.String())
}

func TestKeysLifecycle(t *testing.T) {
	kr := newTestKeyring(t)

	_, err := runKeysCmd(t, AddKeyCommand(), kr, "", "lifecycle", "--no-backup")
	require.NoError(t, err)

	out, err := runKeysCmd(t, ListKeysCommand(), kr, "")
	require.NoError(t, err)
	require.Contains(t, out, "- name: lifecycle")

	out, err = runKeysCmd(t, ShowKeysCommand(), kr, "", "lifecycle")
	require.NoError(t, err)
	require.Contains(t, out, "- name: lifecycle")
	require.Contains(t, out, "address: obligo")

	out, err = runKeysCmd(t, DeleteKeyCommand(), kr, "", "lifecycle", "--yes")
	require.NoError(t, err)
	require.Contains(t, out, "deleted successfully")

	out, err = runKeysCmd(t, ListKeysCommand(), kr, "")
	require.NoError(t, err)
	require.Contains(t, out, "No keys found.")
}

func TestShowKeysCommand_UnknownKey(t *testing.T) {
	kr := newTestKeyring(t)

	_, err := runKeysCmd(t, ShowKeysCommand(), kr, "", "nosuchkey")
	require.Error(t, err)
	require.Contains(t, err.Error(), "key not found")
}

func TestMnemonicValidation(t *testing.T) {
	tests := []struct {
		name     string
		mnemonic string
		valid    bool
	}{
		{"valid 12 words", testMnemonic12, true},
		{"valid 24 words", strings.Repeat("abandon ", 23) + "art", true},
		{"bad checksum", strings.Replace(testMnemonic12, "about", "ability", 1), false},
		{"wrong word count", "abandon abandon abandon", false},
		{"unknown word", strings.Replace(testMnemonic12, "about", "invalidword", 1), false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, bip39.IsMnemonicValid(tt.mnemonic))
		})
	}
}
