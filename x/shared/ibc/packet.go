// Package ibc provides channel and packet plumbing shared by modules that
// speak the relay protocol.
package ibc

import (
	"strconv"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	host "github.com/cosmos/ibc-go/v8/modules/core/24-host"
	"github.com/hashicorp/go-metrics"
)

// maxAckSize caps acknowledgement payloads before decoding.
const maxAckSize = 1024 * 1024

// CapabilityClaimer claims channel capabilities during the handshake.
type CapabilityClaimer interface {
	ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error
}

// Handshake checks channel opens against the port, version and ordering a
// module expects, and claims the channel capability on success.
type Handshake struct {
	Port     string
	Version  string
	Ordering channeltypes.Order
	Claimer  CapabilityClaimer
}

func (h Handshake) validate(order channeltypes.Order, portID, version string) error {
	if order != h.Ordering {
		return errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering,
			"expected %s channel, got %s", h.Ordering, order)
	}
	if version != h.Version {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest,
			"expected version %s, got %s", h.Version, version)
	}
	if portID != h.Port {
		return errorsmod.Wrapf(porttypes.ErrInvalidPort,
			"expected port %s, got %s", h.Port, portID)
	}
	return nil
}

func (h Handshake) claim(ctx sdk.Context, chanCap *capabilitytypes.Capability, portID, channelID string) error {
	if err := h.Claimer.ClaimCapability(ctx, chanCap, host.ChannelCapabilityPath(portID, channelID)); err != nil {
		return errorsmod.Wrap(err, "failed to claim channel capability")
	}
	return nil
}

// OnOpenInit validates a ChanOpenInit on the initiating side.
func (h Handshake) OnOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	portID, channelID string,
	chanCap *capabilitytypes.Capability,
	version string,
) error {
	if err := h.validate(order, portID, version); err != nil {
		return err
	}
	return h.claim(ctx, chanCap, portID, channelID)
}

// OnOpenTry validates a ChanOpenTry against the counterparty's version.
func (h Handshake) OnOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	portID, channelID string,
	chanCap *capabilitytypes.Capability,
	counterpartyVersion string,
) error {
	if err := h.validate(order, portID, counterpartyVersion); err != nil {
		return err
	}
	return h.claim(ctx, chanCap, portID, channelID)
}

// OnOpenAck validates the counterparty version on ChanOpenAck.
func (h Handshake) OnOpenAck(counterpartyVersion string) error {
	if counterpartyVersion != h.Version {
		return errorsmod.Wrapf(sdkerrors.ErrInvalidRequest,
			"invalid counterparty version: expected %s, got %s", h.Version, counterpartyVersion)
	}
	return nil
}

// DecodeAcknowledgement size-checks and unmarshals a packet acknowledgement.
// The size cap guards against memory exhaustion from oversized acks.
func DecodeAcknowledgement(bz []byte) (channeltypes.Acknowledgement, error) {
	if len(bz) > maxAckSize {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrInvalidRequest,
			"ack too large: %d > %d bytes", len(bz), maxAckSize)
	}

	var ack channeltypes.Acknowledgement
	if err := channeltypes.SubModuleCdc.UnmarshalJSON(bz, &ack); err != nil {
		return channeltypes.Acknowledgement{}, errorsmod.Wrapf(
			sdkerrors.ErrUnknownRequest,
			"cannot unmarshal packet acknowledgement: %v", err)
	}
	return ack, nil
}

// EmitValidationFailure records a rejected inbound packet on the event bus
// and the telemetry sink.
func EmitValidationFailure(ctx sdk.Context, port, channel, reason string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			"ibc_packet_validation_failed",
			sdk.NewAttribute("port", port),
			sdk.NewAttribute("channel", channel),
			sdk.NewAttribute("reason", reason),
		),
	)
	telemetry.IncrCounterWithLabels(
		[]string{"ibc", "packet_validation_failed"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("port", port),
			telemetry.NewLabel("channel", channel),
			telemetry.NewLabel("reason", reason),
		},
	)
}

// EmitChannelOpen records a channel open on either handshake side.
func EmitChannelOpen(ctx sdk.Context, eventType, portID, channelID string, counterparty channeltypes.Counterparty) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType,
		sdk.NewAttribute("channel_id", channelID),
		sdk.NewAttribute("port_id", portID),
		sdk.NewAttribute("counterparty_port_id", counterparty.PortId),
		sdk.NewAttribute("counterparty_channel_id", counterparty.ChannelId),
	))
}

// EmitChannelOpenAck records a completed handshake on the initiating side.
func EmitChannelOpenAck(ctx sdk.Context, eventType, portID, channelID, counterpartyChannelID string) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType,
		sdk.NewAttribute("channel_id", channelID),
		sdk.NewAttribute("port_id", portID),
		sdk.NewAttribute("counterparty_channel_id", counterpartyChannelID),
	))
}

// EmitChannelLifecycle records confirm and close transitions, which carry no
// counterparty detail.
func EmitChannelLifecycle(ctx sdk.Context, eventType, portID, channelID string) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType,
		sdk.NewAttribute("channel_id", channelID),
		sdk.NewAttribute("port_id", portID),
	))
}

// EmitPacketReceived records an inbound packet.
func EmitPacketReceived(ctx sdk.Context, eventType, packetType, channelID string, sequence uint64) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType,
		sdk.NewAttribute("packet_type", packetType),
		sdk.NewAttribute("channel_id", channelID),
		sdk.NewAttribute("sequence", strconv.FormatUint(sequence, 10)),
	))
}

// EmitPacketAcked records the counterparty's acknowledgement of an outbound
// packet.
func EmitPacketAcked(ctx sdk.Context, eventType, channelID string, sequence uint64, success bool) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType,
		sdk.NewAttribute("channel_id", channelID),
		sdk.NewAttribute("sequence", strconv.FormatUint(sequence, 10)),
		sdk.NewAttribute("ack_success", strconv.FormatBool(success)),
	))
}

// EmitPacketTimeout records an outbound packet that timed out.
func EmitPacketTimeout(ctx sdk.Context, eventType, channelID string, sequence uint64) {
	ctx.EventManager().EmitEvent(sdk.NewEvent(eventType,
		sdk.NewAttribute("channel_id", channelID),
		sdk.NewAttribute("sequence", strconv.FormatUint(sequence, 10)),
	))
}
