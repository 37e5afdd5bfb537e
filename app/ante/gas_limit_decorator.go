package ante

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	bondtypes "github.com/obligo-chain/obligo/x/bond/types"
	pricefeedtypes "github.com/obligo-chain/obligo/x/pricefeed/types"
	vaulttypes "github.com/obligo-chain/obligo/x/vault/types"
)

// Gas limits for different operation types to prevent exhaustion attacks
const (
	// Bond registry operations
	MaxGasPerBondIssue    uint64 = 150_000
	MaxGasPerBondTransfer uint64 = 100_000

	// Pricefeed operations
	MaxGasPerFeedCreate       uint64 = 200_000
	MaxGasPerAggregatorCreate uint64 = 200_000
	MaxGasPerRoundSubmit      uint64 = 100_000
	MaxGasPerRelaySend        uint64 = 250_000

	// Vault operations
	MaxGasPerVaultCreate   uint64 = 300_000
	MaxGasPerVaultDeposit  uint64 = 250_000
	MaxGasPerVaultWithdraw uint64 = 150_000
	MaxGasPerVaultAdmin    uint64 = 80_000

	// General limits
	MaxGasPerTx      uint64 = 10_000_000 // Maximum gas per transaction
	MaxGasPerMessage uint64 = 500_000    // Maximum gas per message in tx
	MaxMessagesPerTx int    = 10         // Maximum messages per transaction
)

// GasLimitDecorator enforces per-operation gas limits to prevent exhaustion attacks
type GasLimitDecorator struct{}

// NewGasLimitDecorator creates a new GasLimitDecorator
func NewGasLimitDecorator() GasLimitDecorator {
	return GasLimitDecorator{}
}

// AnteHandle enforces gas limits on transactions and individual messages
func (gld GasLimitDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (sdk.Context, error) {
	msgs := tx.GetMsgs()

	// Enforce maximum messages per transaction
	if len(msgs) > MaxMessagesPerTx {
		return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
			"transaction contains too many messages: %d > %d (prevents DoS)",
			len(msgs), MaxMessagesPerTx,
		)
	}

	gasBefore := ctx.GasMeter().GasConsumed()

	// Validate each message stays within its per-operation gas budget
	for i, msg := range msgs {
		requiredGas := requiredGasForMessage(msg)

		if requiredGas > MaxGasPerMessage {
			return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
				"message %d requires too much gas: %d > %d",
				i, requiredGas, MaxGasPerMessage,
			)
		}
	}

	// Check total transaction gas limit
	totalGasRequired := ctx.GasMeter().Limit()
	if totalGasRequired > MaxGasPerTx && !simulate {
		return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
			"transaction gas limit too high: %d > %d",
			totalGasRequired, MaxGasPerTx,
		)
	}

	newCtx, err := next(ctx, tx, simulate)
	if err != nil {
		return newCtx, err
	}

	gasAfter := newCtx.GasMeter().GasConsumed()
	gasUsed := gasAfter - gasBefore

	// Log excessive gas usage for monitoring
	if gasUsed > MaxGasPerTx/2 {
		ctx.Logger().Info("High gas consumption detected",
			"gas_used", gasUsed,
			"num_messages", len(msgs),
			"tx_hash", fmt.Sprintf("%X", ctx.TxBytes()),
		)
	}

	return newCtx, nil
}

// requiredGasForMessage returns the gas budget for a specific message type
func requiredGasForMessage(msg sdk.Msg) uint64 {
	switch msg.(type) {
	// Bond registry messages
	case *bondtypes.MsgIssueBond:
		return MaxGasPerBondIssue
	case *bondtypes.MsgTransferBond:
		return MaxGasPerBondTransfer

	// Pricefeed messages
	case *pricefeedtypes.MsgCreateFeed:
		return MaxGasPerFeedCreate
	case *pricefeedtypes.MsgCreateAggregator:
		return MaxGasPerAggregatorCreate
	case *pricefeedtypes.MsgSubmitRound:
		return MaxGasPerRoundSubmit
	case *pricefeedtypes.MsgSendLatestRound:
		return MaxGasPerRelaySend

	// Vault messages
	case *vaulttypes.MsgCreateVault:
		return MaxGasPerVaultCreate
	case *vaulttypes.MsgDeposit, *vaulttypes.MsgDepositAssets, *vaulttypes.MsgMintShares:
		return MaxGasPerVaultDeposit
	case *vaulttypes.MsgWithdraw:
		return MaxGasPerVaultWithdraw
	case *vaulttypes.MsgSetFeesBips, *vaulttypes.MsgSetFeesRecipient:
		return MaxGasPerVaultAdmin

	default:
		// For unknown message types, use a conservative default
		return MaxGasPerMessage
	}
}
