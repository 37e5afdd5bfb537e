package keeper

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cometbft/cometbft/crypto/tmhash"
	sdk "github.com/cosmos/cosmos-sdk/types"
	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"

	"github.com/obligo-chain/obligo/x/pricefeed/types"
	sharedibc "github.com/obligo-chain/obligo/x/shared/ibc"
)

// DefaultRelayTimeout is how long an outbound relay packet stays valid
// before the counterparty may time it out.
const DefaultRelayTimeout = 10 * time.Minute

// SendLatestRound relays the latest round of a locally-sourced feed to its
// mirror on the destination chain. The relayer is fire-and-forget: it never
// reads back or mutates price state; it only forwards what the local feed
// currently holds. Returns the relay-assigned message id and the IBC packet
// sequence.
func (k Keeper) SendLatestRound(
	ctx sdk.Context,
	sender string,
	feedId string,
	destPort string,
	destChannel string,
	fee sdk.Coins,
	gasLimit uint64,
) ([]byte, uint64, error) {
	feed, found := k.GetFeed(ctx, feedId)
	if !found {
		return nil, 0, types.ErrFeedNotFound.Wrapf("feed %s", feedId)
	}
	if !feed.Local {
		return nil, 0, types.ErrNotLocalFeed.Wrapf("feed %s is relay-mirrored, nothing to forward", feedId)
	}

	round := k.GetLatestRound(ctx, feedId)
	if round.IsZero() {
		return nil, 0, types.ErrRoundNotFound.Wrapf("feed %s has no rounds to relay", feedId)
	}

	senderAddr, err := sdk.AccAddressFromBech32(sender)
	if err != nil {
		return nil, 0, types.ErrInvalidFeed.Wrapf("invalid sender address: %s", err)
	}

	if !fee.IsZero() {
		if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, senderAddr, types.FeeCollectorName, fee); err != nil {
			return nil, 0, types.ErrInsufficientRelayFee.Wrapf("failed to collect relay fee: %s", err)
		}
		for _, coin := range fee {
			k.metrics.RelayFeesPaid.WithLabelValues(coin.Denom).Add(answerGaugeValue(coin.Amount))
		}
	}

	if _, found := k.channelKeeper.GetChannel(ctx, destPort, destChannel); !found {
		return nil, 0, types.ErrRelaySendFailed.Wrapf("channel %s/%s not found", destPort, destChannel)
	}

	channelCap, found := k.GetChannelCapability(ctx, destPort, destChannel)
	if !found {
		return nil, 0, types.ErrRelaySendFailed.Wrapf(
			"channel capability not found for %s/%s", destPort, destChannel)
	}

	packetNonce := k.nonces.NextOutboundNonce(ctx, destChannel, sender)

	packetData := types.PriceRoundPacketData{
		Type:      types.PriceRoundType,
		Nonce:     packetNonce,
		FeedId:    feedId,
		Round:     round,
		Sender:    sender,
		GasLimit:  gasLimit,
		Timestamp: ctx.BlockTime().Unix(),
	}
	bz, err := packetData.GetBytes()
	if err != nil {
		return nil, 0, types.ErrInvalidPacket.Wrapf("failed to marshal packet: %s", err)
	}

	timeoutTimestamp := uint64(ctx.BlockTime().Add(DefaultRelayTimeout).UnixNano())
	sequence, err := k.channelKeeper.SendPacket(
		ctx,
		channelCap,
		destPort,
		destChannel,
		clienttypes.ZeroHeight(),
		timeoutTimestamp,
		bz,
	)
	if err != nil {
		return nil, 0, types.ErrRelaySendFailed.Wrapf("send packet: %s", err)
	}

	messageId := relayMessageId(destChannel, sequence, packetNonce)

	pending := types.PendingRelay{
		FeedId:    feedId,
		RoundId:   round.RoundId.String(),
		Channel:   destChannel,
		Sequence:  sequence,
		Nonce:     packetNonce,
		MessageId: messageId,
		Sender:    sender,
		SentAt:    ctx.BlockTime().Unix(),
	}
	if err := k.setPendingRelay(ctx, pending); err != nil {
		return nil, 0, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRoundRelayed,
			sdk.NewAttribute(types.AttributeKeyFeedId, feedId),
			sdk.NewAttribute(types.AttributeKeyRoundId, round.RoundId.String()),
			sdk.NewAttribute(types.AttributeKeyDestChannel, destChannel),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", sequence)),
			sdk.NewAttribute(types.AttributeKeyMessageId, hex.EncodeToString(messageId)),
		),
	)

	k.metrics.RelaysSent.WithLabelValues(destChannel, feedId).Inc()

	k.Logger(ctx).Info("latest round relayed",
		"feed_id", feedId,
		"round_id", round.RoundId.String(),
		"channel", destChannel,
		"sequence", sequence,
		"message_id", hex.EncodeToString(messageId),
	)
	return messageId, sequence, nil
}

// relayMessageId derives the unique message identifier for an outbound
// relay from its channel, sequence and nonce.
func relayMessageId(channel string, sequence uint64, nonce uint64) []byte {
	preimage := fmt.Sprintf("%s/%d/%d", channel, sequence, nonce)
	return tmhash.Sum([]byte(preimage))
}

// OnRecvPriceRound handles an inbound price round delivery. The delivery is
// accepted only when the packet's source channel and the payload's sender
// both match the mirrored feed's configured source pair. Rejections return
// an error acknowledgement so the sending chain learns the outcome; they
// never abort the receiving chain's transaction.
func (k Keeper) OnRecvPriceRound(ctx sdk.Context, packet channeltypes.Packet) channeltypes.Acknowledgement {
	data, err := types.ParsePacketData(packet.Data)
	if err != nil {
		k.metrics.PacketRejections.WithLabelValues(packet.DestinationChannel, "malformed").Inc()
		sharedibc.EmitValidationFailure(ctx, packet.DestinationPort, packet.DestinationChannel, "malformed")
		return channeltypes.NewErrorAcknowledgement(err)
	}

	priceRound, ok := data.(types.PriceRoundPacketData)
	if !ok {
		k.metrics.PacketRejections.WithLabelValues(packet.DestinationChannel, "unexpected_type").Inc()
		return channeltypes.NewErrorAcknowledgement(
			types.ErrUnexpectedMessage.Wrapf("unsupported packet type %s", data.GetType()))
	}

	if err := priceRound.ValidateBasic(); err != nil {
		k.metrics.PacketRejections.WithLabelValues(packet.DestinationChannel, "invalid").Inc()
		return channeltypes.NewErrorAcknowledgement(err)
	}

	feed, found := k.GetFeed(ctx, priceRound.FeedId)
	if !found {
		k.metrics.PacketRejections.WithLabelValues(packet.DestinationChannel, "unknown_feed").Inc()
		return channeltypes.NewErrorAcknowledgement(
			types.ErrFeedNotFound.Wrapf("feed %s", priceRound.FeedId))
	}
	if feed.Local {
		k.metrics.PacketRejections.WithLabelValues(packet.DestinationChannel, "local_feed").Inc()
		return channeltypes.NewErrorAcknowledgement(
			types.ErrUnexpectedMessage.Wrapf("feed %s is locally sourced and accepts no relay deliveries", priceRound.FeedId))
	}

	// Source authentication: the channel the packet arrived on and the
	// sender claimed in the payload must both match the feed's registration.
	if packet.DestinationChannel != feed.SourceChannel || priceRound.Sender != feed.SourceSender {
		k.metrics.PacketRejections.WithLabelValues(packet.DestinationChannel, "unauthorized").Inc()
		sharedibc.EmitValidationFailure(ctx, packet.DestinationPort, packet.DestinationChannel, "unauthorized_source")
		k.Logger(ctx).Error("relay delivery from unauthorized source",
			"feed_id", priceRound.FeedId,
			"packet_channel", packet.DestinationChannel,
			"packet_sender", priceRound.Sender,
			"expected_channel", feed.SourceChannel,
			"expected_sender", feed.SourceSender,
		)
		return channeltypes.NewErrorAcknowledgement(
			types.ErrInvalidSource.Wrapf(
				"delivery for feed %s from %s/%s, expected %s/%s",
				priceRound.FeedId,
				packet.DestinationChannel, priceRound.Sender,
				feed.SourceChannel, feed.SourceSender,
			))
	}

	if err := k.StoreRelayedRound(ctx, priceRound.FeedId, priceRound.Round); err != nil {
		return channeltypes.NewErrorAcknowledgement(err)
	}

	ack := types.PriceRoundAcknowledgement{
		Nonce:   priceRound.Nonce,
		Success: true,
		FeedId:  priceRound.FeedId,
		RoundId: priceRound.Round.RoundId.String(),
	}
	ackBz, err := ack.GetBytes()
	if err != nil {
		return channeltypes.NewErrorAcknowledgement(err)
	}
	return channeltypes.NewResultAcknowledgement(ackBz)
}

// OnRelayAcknowledgement resolves an in-flight relay when its
// acknowledgement arrives. Error acknowledgements are logged but change no
// price state; the relayed round already lives on the local feed.
func (k Keeper) OnRelayAcknowledgement(ctx sdk.Context, packet channeltypes.Packet, ackBz []byte) error {
	var ack channeltypes.Acknowledgement
	if err := json.Unmarshal(ackBz, &ack); err != nil {
		return types.ErrInvalidPacket.Wrapf("failed to unmarshal acknowledgement: %s", err)
	}

	pending, found := k.getPendingRelay(ctx, packet.SourceChannel, packet.Sequence)
	k.deletePendingRelay(ctx, packet.SourceChannel, packet.Sequence)

	result := "success"
	if _, isErr := ack.Response.(*channeltypes.Acknowledgement_Error); isErr {
		result = "error"
	}
	k.metrics.RelayAcks.WithLabelValues(packet.SourceChannel, result).Inc()

	if !found {
		k.Logger(ctx).Debug("acknowledgement for unknown relay",
			"channel", packet.SourceChannel,
			"sequence", packet.Sequence,
		)
		return nil
	}

	if result == "error" {
		k.Logger(ctx).Error("relay rejected by counterparty",
			"feed_id", pending.FeedId,
			"round_id", pending.RoundId,
			"channel", pending.Channel,
			"sequence", pending.Sequence,
			"error", ack.GetError(),
		)
	} else {
		k.Logger(ctx).Info("relay acknowledged",
			"feed_id", pending.FeedId,
			"round_id", pending.RoundId,
			"channel", pending.Channel,
			"sequence", pending.Sequence,
		)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacketAck,
			sdk.NewAttribute(types.AttributeKeyFeedId, pending.FeedId),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
			sdk.NewAttribute(types.AttributeKeyMessageId, hex.EncodeToString(pending.MessageId)),
		),
	)
	return nil
}

// OnRelayTimeout clears an in-flight relay whose packet timed out. The fee
// stays with the collector; the sender may re-send once a channel is live.
func (k Keeper) OnRelayTimeout(ctx sdk.Context, packet channeltypes.Packet) error {
	pending, found := k.getPendingRelay(ctx, packet.SourceChannel, packet.Sequence)
	k.deletePendingRelay(ctx, packet.SourceChannel, packet.Sequence)

	feedId := pending.FeedId
	if !found {
		feedId = "unknown"
	}
	k.metrics.RelayTimeouts.WithLabelValues(packet.SourceChannel, feedId).Inc()

	k.Logger(ctx).Error("relay packet timed out",
		"feed_id", feedId,
		"channel", packet.SourceChannel,
		"sequence", packet.Sequence,
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePacketTimeout,
			sdk.NewAttribute(types.AttributeKeyFeedId, feedId),
			sdk.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		),
	)
	return nil
}

func (k Keeper) setPendingRelay(ctx sdk.Context, pending types.PendingRelay) error {
	bz, err := json.Marshal(pending)
	if err != nil {
		return types.ErrRelaySendFailed.Wrapf("failed to marshal pending relay: %s", err)
	}
	store := ctx.KVStore(k.storeKey)
	store.Set(types.GetPendingRelayKey(pending.Channel, pending.Sequence), bz)
	return nil
}

func (k Keeper) getPendingRelay(ctx sdk.Context, channel string, sequence uint64) (types.PendingRelay, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(types.GetPendingRelayKey(channel, sequence))
	if bz == nil {
		return types.PendingRelay{}, false
	}
	var pending types.PendingRelay
	if err := json.Unmarshal(bz, &pending); err != nil {
		return types.PendingRelay{}, false
	}
	return pending, true
}

func (k Keeper) deletePendingRelay(ctx sdk.Context, channel string, sequence uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Delete(types.GetPendingRelayKey(channel, sequence))
}
