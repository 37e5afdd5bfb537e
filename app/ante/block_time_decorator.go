package ante

import (
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// MaxFutureBlockTime is how far ahead of local wall-clock time a block
// timestamp may be. Vault pricing and feed staleness checks trust the block
// clock, so a proposer pushing timestamps forward could sneak stale prices
// past the tolerance window.
const MaxFutureBlockTime = 30 * time.Second

// BlockTimeDecorator rejects transactions in blocks whose timestamp runs
// ahead of local time by more than MaxFutureBlockTime. Historical block
// times are never rejected: nodes catching up replay blocks whose
// timestamps are arbitrarily old.
type BlockTimeDecorator struct{}

func NewBlockTimeDecorator() BlockTimeDecorator {
	return BlockTimeDecorator{}
}

// AnteHandle implements sdk.AnteDecorator.
func (d BlockTimeDecorator) AnteHandle(ctx sdk.Context, tx sdk.Tx, simulate bool, next sdk.AnteHandler) (sdk.Context, error) {
	// Genesis and the first block carry operator-chosen timestamps.
	if simulate || ctx.BlockHeight() <= 1 {
		return next(ctx, tx, simulate)
	}

	now := time.Now()
	if blockTime := ctx.BlockTime(); blockTime.After(now.Add(MaxFutureBlockTime)) {
		return ctx, sdkerrors.ErrInvalidRequest.Wrapf(
			"block time %s is too far in the future (max drift: %s from %s)",
			blockTime, MaxFutureBlockTime, now,
		)
	}

	return next(ctx, tx, simulate)
}

// CheckTimestamp validates a proposed block timestamp against the previous
// block's timestamp and the local clock. Monotonicity is enforced here
// rather than in the ante handler, where the previous block time is not
// available.
func CheckTimestamp(blockTime, prevBlockTime, now time.Time) error {
	if blockTime.After(now.Add(MaxFutureBlockTime)) {
		return fmt.Errorf(
			"block time %s is too far in the future (max drift: %s from %s)",
			blockTime, MaxFutureBlockTime, now,
		)
	}

	if !prevBlockTime.IsZero() && blockTime.Before(prevBlockTime) {
		return fmt.Errorf(
			"block time %s is before previous block time %s",
			blockTime, prevBlockTime,
		)
	}

	return nil
}
