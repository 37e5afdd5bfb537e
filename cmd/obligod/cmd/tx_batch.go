package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
)

const flagSequential = "sequential"

// batchResult records the broadcast outcome for one signed tx file.
type batchResult struct {
	File   string
	TxHash string
	Code   uint32
	Err    error
}

// GetTxBatchCmd broadcasts a series of signed transaction files in order.
// Operators use it to replay vault deposits or bond transfers that were
// signed offline.
func GetTxBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [signed-tx-files...]",
		Short: "Broadcast multiple signed transactions in sequence",
		Long: `Broadcast a series of signed transaction files in order.

Each file must contain a JSON-encoded signed transaction, as produced by
'obligod tx sign'. With --sequential the command waits one block between
broadcasts so sequence numbers settle before the next transaction.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			sequential, _ := cmd.Flags().GetBool(flagSequential)

			bar := progressbar.NewOptions(len(args),
				progressbar.OptionSetDescription("Broadcasting transactions..."),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(40),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			)

			results := make([]batchResult, 0, len(args))
			for _, txFile := range args {
				result := broadcastTxFile(clientCtx, txFile)
				results = append(results, result)
				_ = bar.Add(1)

				if result.Err != nil && sequential {
					break
				}
				if sequential {
					time.Sleep(4 * time.Second)
				}
			}
			_ = bar.Finish()

			failed := 0
			fmt.Fprintf(cmd.OutOrStdout(), "\n")
			for _, result := range results {
				if result.Err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: failed: %v\n", result.File, result.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (code %d)\n", result.File, result.TxHash, result.Code)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d transactions failed to broadcast", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().Bool(flagSequential, false, "Wait one block between broadcasts so account sequences settle")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

func broadcastTxFile(clientCtx client.Context, txFile string) batchResult {
	result := batchResult{File: txFile}

	txBytes, err := os.ReadFile(txFile) // #nosec G304 - tx file path provided by operator
	if err != nil {
		result.Err = fmt.Errorf("failed to read tx file: %w", err)
		return result
	}

	stdTx, err := clientCtx.TxConfig.TxJSONDecoder()(txBytes)
	if err != nil {
		result.Err = fmt.Errorf("failed to decode tx: %w", err)
		return result
	}

	encoded, err := clientCtx.TxConfig.TxEncoder()(stdTx)
	if err != nil {
		result.Err = fmt.Errorf("failed to encode tx: %w", err)
		return result
	}

	res, err := clientCtx.BroadcastTx(encoded)
	if err != nil {
		result.Err = err
		return result
	}

	result.TxHash = res.TxHash
	result.Code = res.Code
	return result
}
