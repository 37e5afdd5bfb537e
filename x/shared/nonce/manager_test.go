package nonce_test

import (
	"encoding/binary"
	"testing"
	"time"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/obligo-chain/obligo/x/shared/nonce"
)

func setupManager(t *testing.T) (*nonce.Manager, sdk.Context, storetypes.StoreKey) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey("test")
	ctx := testutil.DefaultContext(storeKey, storetypes.NewTransientStoreKey("transient_test"))
	ctx = ctx.WithBlockTime(time.Now())

	return nonce.NewManager(storeKey, "testmodule"), ctx, storeKey
}

func TestNextOutboundNonce_Monotonic(t *testing.T) {
	manager, ctx, _ := setupManager(t)

	for want := uint64(1); want <= 5; want++ {
		got := manager.NextOutboundNonce(ctx, "channel-0", "sender1")
		require.Equal(t, want, got)
	}
}

func TestNextOutboundNonce_ScopedPerChannelAndSender(t *testing.T) {
	manager, ctx, _ := setupManager(t)

	require.Equal(t, uint64(1), manager.NextOutboundNonce(ctx, "channel-0", "sender1"))
	require.Equal(t, uint64(2), manager.NextOutboundNonce(ctx, "channel-0", "sender1"))

	// Other senders and channels count independently.
	require.Equal(t, uint64(1), manager.NextOutboundNonce(ctx, "channel-0", "sender2"))
	require.Equal(t, uint64(1), manager.NextOutboundNonce(ctx, "channel-1", "sender1"))

	require.Equal(t, uint64(3), manager.NextOutboundNonce(ctx, "channel-0", "sender1"))
}

func TestNextOutboundNonce_EmptySenderUsesModuleScope(t *testing.T) {
	manager, ctx, _ := setupManager(t)

	require.Equal(t, uint64(1), manager.NextOutboundNonce(ctx, "channel-0", ""))

	// Empty sender and the module name share one counter.
	require.Equal(t, uint64(2), manager.NextOutboundNonce(ctx, "channel-0", "testmodule"))
}

func TestNextOutboundNonce_EmptyChannelNormalized(t *testing.T) {
	manager, ctx, _ := setupManager(t)

	require.Equal(t, uint64(1), manager.NextOutboundNonce(ctx, "", "sender1"))
	require.Equal(t, uint64(2), manager.NextOutboundNonce(ctx, "", "sender1"))
}

func TestNextOutboundNonce_EpochRotation(t *testing.T) {
	manager, ctx, storeKey := setupManager(t)

	require.Equal(t, uint64(1), manager.NextOutboundNonce(ctx, "channel-0", "sender1"))
	require.Equal(t, uint64(0), manager.GetCurrentEpoch(ctx, "channel-0", "sender1"))

	seedCounter(ctx, storeKey, "channel-0", "sender1", nonce.NonceRotationThreshold)

	// The next issuance rotates the epoch and restarts the counter at 1.
	require.Equal(t, uint64(1), manager.NextOutboundNonce(ctx, "channel-0", "sender1"))
	require.Equal(t, uint64(1), manager.GetCurrentEpoch(ctx, "channel-0", "sender1"))

	require.Equal(t, uint64(2), manager.NextOutboundNonce(ctx, "channel-0", "sender1"))
	require.Equal(t, uint64(1), manager.GetCurrentEpoch(ctx, "channel-0", "sender1"))

	// Rotation on one pair leaves other pairs untouched.
	require.Equal(t, uint64(0), manager.GetCurrentEpoch(ctx, "channel-1", "sender1"))
}

func seedCounter(ctx sdk.Context, storeKey storetypes.StoreKey, channel, sender string, value uint64) {
	store := ctx.KVStore(storeKey)
	key := []byte(nonce.SendNoncePrefix + "/" + channel + "/" + sender)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, value)
	store.Set(key, bz)
}
