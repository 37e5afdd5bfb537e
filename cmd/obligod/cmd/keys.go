package cmd

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"os"
	"strings"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/input"
	"github.com/cosmos/cosmos-sdk/crypto/hd"
	"github.com/cosmos/cosmos-sdk/crypto/keyring"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/go-bip39"
	"github.com/spf13/cobra"

	"github.com/obligo-chain/obligo/app"
)

const (
	flagMnemonicLength = "mnemonic-length"
	flagNoBackup       = "no-backup"
	flagCoinType       = "coin-type"
	flagAccount        = "account"
	flagIndex          = "index"
	// flagRecover is defined in init.go
)

// KeysCmd returns the keys command. It includes the --home flag when invoked
// standalone; under the root command use newKeysCmd(false) so the persistent
// flag is not defined twice.
func KeysCmd() *cobra.Command {
	return newKeysCmd(true)
}

func newKeysCmd(includeHomeFlag bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage your application's keys with BIP39 mnemonic support",
		Long: `Manage the local keystore.

Keys are created from BIP39 mnemonics (12 or 24 words) generated with
crypto/rand entropy, and any mnemonic entered for recovery is checksum
validated before a key is derived from it.`,
	}

	if includeHomeFlag && cmd.PersistentFlags().Lookup(flags.FlagHome) == nil {
		cmd.PersistentFlags().String(flags.FlagHome, app.DefaultNodeHome, "directory for config and data")
	}
	if cmd.PersistentFlags().Lookup(flags.FlagKeyringBackend) == nil {
		cmd.PersistentFlags().String(flags.FlagKeyringBackend, flags.DefaultKeyringBackend, "Select keyring backend (os|file|kwallet|pass|test|memory)")
	}

	cmd.AddCommand(
		AddKeyCommand(),
		RecoverKeyCommand(),
		ListKeysCommand(),
		ShowKeysCommand(),
		DeleteKeyCommand(),
		ExportKeyCommand(),
		ImportKeyCommand(),
	)

	return cmd
}

// AddKeyCommand creates a new key in the keyring from a freshly generated
// mnemonic, or from an entered one when --recover is set.
func AddKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a new key with BIP39 mnemonic generation",
		Long: `Add a new encrypted key to the keyring.

A BIP39 mnemonic is generated from secure random entropy and printed once for
backup. Choose 12 words (128-bit) or 24 words (256-bit) with --mnemonic-length.

Examples:
  obligod keys add mykey                           # 24-word mnemonic (default)
  obligod keys add mykey --mnemonic-length 12
  obligod keys add mykey --no-backup               # skip mnemonic display`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := getKeyringClientContext(cmd)
			if err != nil {
				return err
			}

			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("argument 'name' cannot be empty")
			}

			if recoverExisting, _ := cmd.Flags().GetBool(flagRecover); recoverExisting {
				return runRecoverKey(cmd, clientCtx, name)
			}

			mnemonicLength, _ := cmd.Flags().GetInt(flagMnemonicLength)
			if mnemonicLength != 12 && mnemonicLength != 24 {
				return fmt.Errorf("mnemonic length must be 12 or 24 words")
			}

			// 12 words need 128 bits of entropy, 24 words need 256.
			entropy := make([]byte, mnemonicLength*32/3/8)
			if _, err := rand.Read(entropy); err != nil {
				return fmt.Errorf("failed to generate secure entropy: %w", err)
			}
			mnemonic, err := bip39.NewMnemonic(entropy)
			if err != nil {
				return fmt.Errorf("failed to generate mnemonic: %w", err)
			}
			if !bip39.IsMnemonicValid(mnemonic) {
				return fmt.Errorf("generated mnemonic failed validation")
			}

			key, err := newAccountFromMnemonic(cmd, clientCtx, name, mnemonic)
			if err != nil {
				return fmt.Errorf("failed to create key: %w", err)
			}
			if err := printKeyInfo(cmd, name, key); err != nil {
				return err
			}

			if noBackup, _ := cmd.Flags().GetBool(flagNoBackup); !noBackup {
				fmt.Fprintf(cmd.OutOrStdout(), "**IMPORTANT** Write this mnemonic phrase in a safe place.\n")
				fmt.Fprintf(cmd.OutOrStdout(), "It is the only way to recover your account if you ever forget your password.\n")
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n\n", mnemonic)
			}

			return nil
		},
	}

	cmd.Flags().Bool(flagRecover, false, "Recover key from an existing mnemonic instead of generating a new one")
	cmd.Flags().Int(flagMnemonicLength, 24, "Mnemonic length (12 or 24 words)")
	cmd.Flags().Bool(flagNoBackup, false, "Skip mnemonic backup prompt (WARNING: not recommended)")
	addHDFlags(cmd)
	addKeyringFlags(cmd)

	return cmd
}

// RecoverKeyCommand recovers a key from an entered BIP39 mnemonic.
func RecoverKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover [name]",
		Short: "Recover a key from BIP39 mnemonic phrase",
		Long: `Recover a key from an existing BIP39 mnemonic phrase.

The mnemonic is checksum-validated before the key is derived. Both 12-word and
24-word mnemonics are accepted.

Examples:
  obligod keys recover mykey
  obligod keys recover mykey --account 1 --index 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := getKeyringClientContext(cmd)
			if err != nil {
				return err
			}
			return runRecoverKey(cmd, clientCtx, args[0])
		},
	}

	addHDFlags(cmd)
	addKeyringFlags(cmd)

	return cmd
}

// runRecoverKey prompts for a mnemonic, validates it, and derives the key.
// Shared by `keys recover` and `keys add --recover`.
func runRecoverKey(cmd *cobra.Command, clientCtx client.Context, name string) error {
	buf := bufio.NewReader(cmd.InOrStdin())
	mnemonic, err := input.GetString("Enter your bip39 mnemonic", buf)
	if err != nil {
		return fmt.Errorf("failed to read mnemonic: %w", err)
	}

	words := strings.Fields(strings.TrimSpace(mnemonic))
	mnemonic = strings.Join(words, " ")

	if !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("invalid mnemonic: checksum failed")
	}
	if len(words) != 12 && len(words) != 24 {
		return fmt.Errorf("invalid mnemonic length: expected 12 or 24 words, got %d", len(words))
	}

	key, err := newAccountFromMnemonic(cmd, clientCtx, name, mnemonic)
	if err != nil {
		return fmt.Errorf("failed to recover key: %w", err)
	}
	if err := printKeyInfo(cmd, name, key); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Key successfully recovered from %d-word mnemonic!\n", len(words))
	return nil
}

// newAccountFromMnemonic derives a secp256k1 key at the HD path selected by
// the --coin-type/--account/--index flags and stores it under name.
func newAccountFromMnemonic(cmd *cobra.Command, clientCtx client.Context, name, mnemonic string) (*keyring.Record, error) {
	coinType, _ := cmd.Flags().GetUint32(flagCoinType)
	account, _ := cmd.Flags().GetUint32(flagAccount)
	index, _ := cmd.Flags().GetUint32(flagIndex)

	hdPath := hd.CreateHDPath(coinType, account, index)
	return clientCtx.Keyring.NewAccount(
		name,
		mnemonic,
		keyring.DefaultBIP39Passphrase,
		hdPath.String(),
		hd.Secp256k1,
	)
}

func printKeyInfo(cmd *cobra.Command, name string, key *keyring.Record) error {
	addr, err := key.GetAddress()
	if err != nil {
		return fmt.Errorf("failed to get address: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n- name: %s\n", name)
	fmt.Fprintf(out, "  type: local\n")
	fmt.Fprintf(out, "  address: %s\n", addr.String())
	fmt.Fprintf(out, "  pubkey: %s\n", key.PubKey.String())
	fmt.Fprintf(out, "\n")
	return nil
}

// ListKeysCommand lists all keys in the keyring.
func ListKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := getKeyringClientContext(cmd)
			if err != nil {
				return err
			}

			keys, err := clientCtx.Keyring.List()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No keys found.\n")
				return nil
			}

			for _, key := range keys {
				addr, err := key.GetAddress()
				if err != nil {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "- name: %s\n  address: %s\n\n", key.Name, addr.String())
			}

			return nil
		},
	}

	addKeyringFlags(cmd)

	return cmd
}

// ShowKeysCommand shows key information.
func ShowKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show key information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := getKeyringClientContext(cmd)
			if err != nil {
				return err
			}

			key, err := clientCtx.Keyring.Key(args[0])
			if err != nil {
				return fmt.Errorf("key not found: %w", err)
			}

			addr, err := key.GetAddress()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "- name: %s\n", key.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "  address: %s\n", addr.String())
			fmt.Fprintf(cmd.OutOrStdout(), "  pubkey: %s\n", key.PubKey.String())

			return nil
		},
	}

	addKeyringFlags(cmd)

	return cmd
}

// DeleteKeyCommand deletes a key from the keyring.
func DeleteKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a key",
		Long:  "Delete a key from the keyring. WARNING: This operation is irreversible unless you have a backup of your mnemonic.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := getKeyringClientContext(cmd)
			if err != nil {
				return err
			}

			name := args[0]

			if skipPrompt, _ := cmd.Flags().GetBool("yes"); !skipPrompt {
				buf := bufio.NewReader(cmd.InOrStdin())
				confirmation, err := input.GetString(fmt.Sprintf("Are you sure you want to delete key '%s'? [y/N]", name), buf)
				if err != nil {
					return err
				}
				if confirmation != "y" && confirmation != "Y" {
					fmt.Fprintf(cmd.OutOrStdout(), "Deletion cancelled.\n")
					return nil
				}
			}

			if err := clientCtx.Keyring.Delete(name); err != nil {
				return fmt.Errorf("failed to delete key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Key '%s' deleted successfully.\n", name)
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "skip confirmation prompt")
	addKeyringFlags(cmd)

	return cmd
}

// ExportKeyCommand exports a key in ASCII-armored encrypted format.
func ExportKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [name]",
		Short: "Export a key in ASCII-armored encrypted format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := getKeyringClientContext(cmd)
			if err != nil {
				return err
			}

			buf := bufio.NewReader(cmd.InOrStdin())
			passphrase, err := input.GetPassword("Enter passphrase to encrypt the exported key:", buf)
			if err != nil {
				return err
			}

			armor, err := clientCtx.Keyring.ExportPrivKeyArmor(args[0], passphrase)
			if err != nil {
				return fmt.Errorf("failed to export key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", armor)
			return nil
		},
	}

	addKeyringFlags(cmd)

	return cmd
}

// ImportKeyCommand imports a key from ASCII-armored encrypted format.
func ImportKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [name] [keyfile]",
		Short: "Import a key from ASCII-armored encrypted format",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := getKeyringClientContext(cmd)
			if err != nil {
				return err
			}

			armor, err := os.ReadFile(args[1]) // #nosec G304 - key import path provided by operator
			if err != nil {
				return fmt.Errorf("failed to read key file: %w", err)
			}

			buf := bufio.NewReader(cmd.InOrStdin())
			passphrase, err := input.GetPassword("Enter passphrase to decrypt the key:", buf)
			if err != nil {
				return err
			}

			if err := clientCtx.Keyring.ImportPrivKey(args[0], string(armor), passphrase); err != nil {
				return fmt.Errorf("failed to import key: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Key '%s' imported successfully.\n", args[0])
			return nil
		},
	}

	addKeyringFlags(cmd)

	return cmd
}

func addHDFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32(flagCoinType, sdk.GetConfig().GetCoinType(), "Coin type number for HD derivation")
	cmd.Flags().Uint32(flagAccount, 0, "Account number for HD derivation")
	cmd.Flags().Uint32(flagIndex, 0, "Address index number for HD derivation")
}

func addKeyringFlags(cmd *cobra.Command) {
	cmd.Flags().String(flags.FlagKeyringBackend, keyring.BackendOS, "Keyring backend")
	cmd.Flags().String(flags.FlagHome, app.DefaultNodeHome, "directory for config and data")
}

func getKeyringClientContext(cmd *cobra.Command) (client.Context, error) {
	clientCtx := client.GetClientContextFromCmd(cmd)
	existingKeyring := clientCtx.Keyring

	clientCtx, err := client.ReadPersistentCommandFlags(clientCtx, cmd.Flags())
	if err != nil {
		return clientCtx, err
	}

	if existingKeyring != nil {
		clientCtx = clientCtx.WithKeyring(existingKeyring)
	}

	return clientCtx, nil
}
