package ante_test

import (
	"testing"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/obligo-chain/obligo/app/ante"
)

func runBlockTimeDecorator(height int64, blockTime time.Time, simulate bool) error {
	ctx := sdk.Context{}.
		WithBlockHeight(height).
		WithBlockTime(blockTime).
		WithTxBytes([]byte{})
	handler := sdk.ChainAnteDecorators(ante.NewBlockTimeDecorator())

	_, err := handler(ctx, nil, simulate)
	return err
}

func TestBlockTimeDecorator(t *testing.T) {
	now := time.Now()

	t.Run("current block time passes", func(t *testing.T) {
		require.NoError(t, runBlockTimeDecorator(100, now, false))
	})

	t.Run("slightly ahead within drift passes", func(t *testing.T) {
		require.NoError(t, runBlockTimeDecorator(100, now.Add(15*time.Second), false))
	})

	t.Run("far future rejected", func(t *testing.T) {
		err := runBlockTimeDecorator(100, now.Add(2*time.Minute), false)
		require.Error(t, err)
		require.Contains(t, err.Error(), "too far in the future")
	})

	t.Run("historical block time passes", func(t *testing.T) {
		// catch-up replays blocks with old timestamps
		require.NoError(t, runBlockTimeDecorator(100, now.Add(-24*time.Hour), false))
	})

	t.Run("genesis block skipped", func(t *testing.T) {
		require.NoError(t, runBlockTimeDecorator(1, now.Add(time.Hour), false))
	})

	t.Run("simulation skipped", func(t *testing.T) {
		require.NoError(t, runBlockTimeDecorator(100, now.Add(time.Hour), true))
	})
}

func TestCheckTimestamp(t *testing.T) {
	now := time.Now()
	prev := now.Add(-10 * time.Second)

	tests := []struct {
		name          string
		blockTime     time.Time
		prevBlockTime time.Time
		errorContains string
	}{
		{
			name:          "valid block time",
			blockTime:     now,
			prevBlockTime: prev,
		},
		{
			name:          "too far in future",
			blockTime:     now.Add(2 * time.Minute),
			prevBlockTime: prev,
			errorContains: "too far in the future",
		},
		{
			name:          "before previous block",
			blockTime:     prev.Add(-time.Second),
			prevBlockTime: prev,
			errorContains: "before previous block time",
		},
		{
			name:          "equal to previous block",
			blockTime:     prev,
			prevBlockTime: prev,
		},
		{
			name:      "first block has no previous time",
			blockTime: now,
		},
		{
			name:          "at exact future limit",
			blockTime:     now.Add(ante.MaxFutureBlockTime),
			prevBlockTime: prev,
		},
		{
			name:          "just past future limit",
			blockTime:     now.Add(ante.MaxFutureBlockTime).Add(time.Second),
			prevBlockTime: prev,
			errorContains: "too far in the future",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ante.CheckTimestamp(tc.blockTime, tc.prevBlockTime, now)

			if tc.errorContains != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.errorContains)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
