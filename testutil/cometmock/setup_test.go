package cometmock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/obligo-chain/obligo/testutil/cometmock"
)

func TestMockConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cometmock.MockConfig) cometmock.MockConfig
		err    error
	}{
		{
			name:   "defaults are valid",
			mutate: func(c cometmock.MockConfig) cometmock.MockConfig { return c },
		},
		{
			name:   "no validators",
			mutate: func(c cometmock.MockConfig) cometmock.MockConfig { return c.WithValidators(0) },
			err:    cometmock.ErrInvalidValidatorCount,
		},
		{
			name:   "sub-millisecond block time",
			mutate: func(c cometmock.MockConfig) cometmock.MockConfig { return c.WithBlockTime(0) },
			err:    cometmock.ErrInvalidBlockTime,
		},
		{
			name:   "empty chain id",
			mutate: func(c cometmock.MockConfig) cometmock.MockConfig { return c.WithChainID("") },
			err:    cometmock.ErrMissingChainID,
		},
		{
			name: "zero initial height",
			mutate: func(c cometmock.MockConfig) cometmock.MockConfig {
				c.InitialHeight = 0
				return c
			},
			err: cometmock.ErrInvalidInitialHeight,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mutate(cometmock.DefaultMockConfig()).Validate()
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestCometMockBlockLifecycle(t *testing.T) {
	cfg := cometmock.DefaultMockConfig().
		WithChainID("obligo-mock-1").
		WithBlockTime(4 * time.Second)
	mock := cometmock.SetupCometMock(t, cfg)

	start := mock.Time()
	mock.NextBlocks(3)

	require.Equal(t, int64(3), mock.Height())
	require.Equal(t, mock.Height(), mock.LastBlockHeight())
	require.Equal(t, start.Add(12*time.Second), mock.Time())

	// a committed state is queryable between blocks
	ctx := mock.Context()
	supply := mock.BankKeeper.GetSupply(ctx, "uobl")
	require.True(t, supply.IsValid())
}

func TestCometMockRejectsGarbageTx(t *testing.T) {
	mock := cometmock.SetupCometMock(t, cometmock.DefaultMockConfig())

	results := mock.NextBlock([]byte("not a valid tx"))
	require.Len(t, results, 1)
	require.NotZero(t, results[0].Code)
}
