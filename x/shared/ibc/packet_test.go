package ibc_test

import (
	"errors"
	"testing"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	"github.com/stretchr/testify/require"

	sharedibc "github.com/obligo-chain/obligo/x/shared/ibc"
)

type mockClaimer struct {
	claimed []string
	err     error
}

func (m *mockClaimer) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	if m.err != nil {
		return m.err
	}
	m.claimed = append(m.claimed, name)
	return nil
}

func testContext(t *testing.T) sdk.Context {
	t.Helper()
	storeKey := storetypes.NewKVStoreKey("test")
	return testutil.DefaultContext(storeKey, storetypes.NewTransientStoreKey("transient_test"))
}

func newHandshake(claimer *mockClaimer) sharedibc.Handshake {
	return sharedibc.Handshake{
		Port:     "pricefeed",
		Version:  "pricefeed-1",
		Ordering: channeltypes.UNORDERED,
		Claimer:  claimer,
	}
}

func TestHandshakeOnOpenInit(t *testing.T) {
	ctx := testContext(t)
	cap := capabilitytypes.NewCapability(1)

	t.Run("valid handshake claims capability", func(t *testing.T) {
		claimer := &mockClaimer{}
		err := newHandshake(claimer).OnOpenInit(
			ctx, channeltypes.UNORDERED, "pricefeed", "channel-0", cap, "pricefeed-1")
		require.NoError(t, err)
		require.Equal(t, []string{host.ChannelCapabilityPath("pricefeed", "channel-0")}, claimer.claimed)
	})

	t.Run("wrong ordering", func(t *testing.T) {
		claimer := &mockClaimer{}
		err := newHandshake(claimer).OnOpenInit(
			ctx, channeltypes.ORDERED, "pricefeed", "channel-0", cap, "pricefeed-1")
		require.Error(t, err)
		require.Empty(t, claimer.claimed)
	})

	t.Run("wrong version", func(t *testing.T) {
		claimer := &mockClaimer{}
		err := newHandshake(claimer).OnOpenInit(
			ctx, channeltypes.UNORDERED, "pricefeed", "channel-0", cap, "other-1")
		require.Error(t, err)
	})

	t.Run("wrong port", func(t *testing.T) {
		claimer := &mockClaimer{}
		err := newHandshake(claimer).OnOpenInit(
			ctx, channeltypes.UNORDERED, "transfer", "channel-0", cap, "pricefeed-1")
		require.Error(t, err)
	})

	t.Run("claim failure propagates", func(t *testing.T) {
		claimer := &mockClaimer{err: errors.New("already claimed")}
		err := newHandshake(claimer).OnOpenInit(
			ctx, channeltypes.UNORDERED, "pricefeed", "channel-0", cap, "pricefeed-1")
		require.Error(t, err)
	})
}

func TestHandshakeOnOpenTry(t *testing.T) {
	ctx := testContext(t)
	cap := capabilitytypes.NewCapability(1)

	claimer := &mockClaimer{}
	err := newHandshake(claimer).OnOpenTry(
		ctx, channeltypes.UNORDERED, "pricefeed", "channel-0", cap, "pricefeed-1")
	require.NoError(t, err)
	require.Len(t, claimer.claimed, 1)

	err = newHandshake(&mockClaimer{}).OnOpenTry(
		ctx, channeltypes.UNORDERED, "pricefeed", "channel-0", cap, "bad-version")
	require.Error(t, err)
}

func TestHandshakeOnOpenAck(t *testing.T) {
	h := newHandshake(&mockClaimer{})
	require.NoError(t, h.OnOpenAck("pricefeed-1"))
	require.Error(t, h.OnOpenAck("pricefeed-2"))
}

func TestDecodeAcknowledgement(t *testing.T) {
	t.Run("result ack round trip", func(t *testing.T) {
		bz := channeltypes.SubModuleCdc.MustMarshalJSON(&channeltypes.Acknowledgement{
			Response: &channeltypes.Acknowledgement_Result{Result: []byte("ok")},
		})
		ack, err := sharedibc.DecodeAcknowledgement(bz)
		require.NoError(t, err)
		require.True(t, ack.Success())
	})

	t.Run("error ack round trip", func(t *testing.T) {
		errAck := channeltypes.NewErrorAcknowledgement(errors.New("boom"))
		bz := channeltypes.SubModuleCdc.MustMarshalJSON(&errAck)
		ack, err := sharedibc.DecodeAcknowledgement(bz)
		require.NoError(t, err)
		require.False(t, ack.Success())
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := sharedibc.DecodeAcknowledgement([]byte("not json"))
		require.Error(t, err)
	})

	t.Run("oversized ack rejected", func(t *testing.T) {
		_, err := sharedibc.DecodeAcknowledgement(make([]byte, 1024*1024+1))
		require.Error(t, err)
	})
}

func TestEmitValidationFailure(t *testing.T) {
	ctx := testContext(t)

	sharedibc.EmitValidationFailure(ctx, "pricefeed", "channel-3", "source mismatch")

	events := ctx.EventManager().Events()
	require.Len(t, events, 1)
	require.Equal(t, "ibc_packet_validation_failed", events[0].Type)

	attrs := map[string]string{}
	for _, a := range events[0].Attributes {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, "pricefeed", attrs["port"])
	require.Equal(t, "channel-3", attrs["channel"])
	require.Equal(t, "source mismatch", attrs["reason"])
}

func TestPacketEvents(t *testing.T) {
	ctx := testContext(t)

	sharedibc.EmitPacketReceived(ctx, "packet_received", "price_round", "channel-0", 7)
	sharedibc.EmitPacketAcked(ctx, "packet_acked", "channel-0", 7, true)
	sharedibc.EmitPacketTimeout(ctx, "packet_timeout", "channel-0", 8)

	events := ctx.EventManager().Events()
	require.Len(t, events, 3)
	require.Equal(t, "packet_received", events[0].Type)
	require.Equal(t, "packet_acked", events[1].Type)
	require.Equal(t, "packet_timeout", events[2].Type)

	attrs := map[string]string{}
	for _, a := range events[1].Attributes {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, "7", attrs["sequence"])
	require.Equal(t, "true", attrs["ack_success"])
}

func TestChannelEvents(t *testing.T) {
	ctx := testContext(t)

	counterparty := channeltypes.NewCounterparty("pricefeed", "channel-9")
	sharedibc.EmitChannelOpen(ctx, "channel_open", "pricefeed", "channel-0", counterparty)
	sharedibc.EmitChannelOpenAck(ctx, "channel_open_ack", "pricefeed", "channel-0", "channel-9")
	sharedibc.EmitChannelLifecycle(ctx, "channel_close", "pricefeed", "channel-0")

	events := ctx.EventManager().Events()
	require.Len(t, events, 3)

	attrs := map[string]string{}
	for _, a := range events[0].Attributes {
		attrs[a.Key] = a.Value
	}
	require.Equal(t, "channel-9", attrs["counterparty_channel_id"])
}
