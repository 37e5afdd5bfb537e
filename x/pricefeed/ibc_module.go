package pricefeed

import (
	errorsmod "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	capabilitytypes "github.com/cosmos/ibc-go/modules/capability/types"
	channeltypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-go/v8/modules/core/05-port/types"
	ibcexported "github.com/cosmos/ibc-go/v8/modules/core/exported"

	"github.com/obligo-chain/obligo/x/pricefeed/keeper"
	"github.com/obligo-chain/obligo/x/pricefeed/types"
	sharedibc "github.com/obligo-chain/obligo/x/shared/ibc"
)

var _ porttypes.IBCModule = (*IBCModule)(nil)

// IBCModule implements the ICS26 interface for the pricefeed module.
// Channels opened on the pricefeed port carry relayed price rounds between
// domains.
type IBCModule struct {
	keeper    keeper.Keeper
	handshake sharedibc.Handshake
}

// NewIBCModule creates a new IBCModule given the keeper
func NewIBCModule(k keeper.Keeper) IBCModule {
	return IBCModule{
		keeper: k,
		handshake: sharedibc.Handshake{
			Port:     types.PortID,
			Version:  types.IBCVersion,
			Ordering: channeltypes.UNORDERED,
			Claimer:  capabilityClaimer{k},
		},
	}
}

// capabilityClaimer adapts the keeper to the shared claimer interface
type capabilityClaimer struct {
	keeper keeper.Keeper
}

func (c capabilityClaimer) ClaimCapability(ctx sdk.Context, cap *capabilitytypes.Capability, name string) error {
	return c.keeper.ClaimCapability(ctx, cap, name)
}

// OnChanOpenInit implements the IBCModule interface
func (im IBCModule) OnChanOpenInit(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID string,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	version string,
) (string, error) {
	if err := im.handshake.OnOpenInit(ctx, order, portID, channelID, chanCap, version); err != nil {
		return "", err
	}

	sharedibc.EmitChannelOpen(ctx, types.EventTypeChannelOpen, portID, channelID, counterparty)

	return version, nil
}

// OnChanOpenTry implements the IBCModule interface
func (im IBCModule) OnChanOpenTry(
	ctx sdk.Context,
	order channeltypes.Order,
	connectionHops []string,
	portID,
	channelID string,
	chanCap *capabilitytypes.Capability,
	counterparty channeltypes.Counterparty,
	counterpartyVersion string,
) (string, error) {
	if err := im.handshake.OnOpenTry(ctx, order, portID, channelID, chanCap, counterpartyVersion); err != nil {
		return "", err
	}

	sharedibc.EmitChannelOpen(ctx, types.EventTypeChannelOpen, portID, channelID, counterparty)

	return types.IBCVersion, nil
}

// OnChanOpenAck implements the IBCModule interface
func (im IBCModule) OnChanOpenAck(
	ctx sdk.Context,
	portID,
	channelID string,
	counterpartyChannelID string,
	counterpartyVersion string,
) error {
	if err := im.handshake.OnOpenAck(counterpartyVersion); err != nil {
		return err
	}

	sharedibc.EmitChannelOpenAck(ctx, types.EventTypeChannelOpenAck, portID, channelID, counterpartyChannelID)

	return nil
}

// OnChanOpenConfirm implements the IBCModule interface
func (im IBCModule) OnChanOpenConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	sharedibc.EmitChannelLifecycle(ctx, types.EventTypeChannelOpenConfirm, portID, channelID)

	return nil
}

// OnChanCloseInit implements the IBCModule interface
func (im IBCModule) OnChanCloseInit(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	// Relay channels stay open; closing would strand mirrored feeds
	return errorsmod.Wrap(sdkerrors.ErrInvalidRequest, "user cannot close channel")
}

// OnChanCloseConfirm implements the IBCModule interface
func (im IBCModule) OnChanCloseConfirm(
	ctx sdk.Context,
	portID,
	channelID string,
) error {
	sharedibc.EmitChannelLifecycle(ctx, types.EventTypeChannelClose, portID, channelID)

	return nil
}

// OnRecvPacket implements the IBCModule interface. Inbound packets carry
// price rounds for relay-mirrored feeds; everything else is rejected with an
// error acknowledgement.
func (im IBCModule) OnRecvPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) ibcexported.Acknowledgement {
	ack := im.keeper.OnRecvPriceRound(ctx, packet)

	sharedibc.EmitPacketReceived(
		ctx,
		types.EventTypePacketReceive,
		types.PriceRoundType,
		packet.DestinationChannel,
		packet.Sequence,
	)

	return ack
}

// OnAcknowledgementPacket implements the IBCModule interface
func (im IBCModule) OnAcknowledgementPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	acknowledgement []byte,
	relayer sdk.AccAddress,
) error {
	ack, err := sharedibc.DecodeAcknowledgement(acknowledgement)
	if err != nil {
		return err
	}

	if err := im.keeper.OnRelayAcknowledgement(ctx, packet, acknowledgement); err != nil {
		return err
	}

	sharedibc.EmitPacketAcked(ctx, types.EventTypePacketAck, packet.SourceChannel, packet.Sequence, ack.Success())

	return nil
}

// OnTimeoutPacket implements the IBCModule interface
func (im IBCModule) OnTimeoutPacket(
	ctx sdk.Context,
	packet channeltypes.Packet,
	relayer sdk.AccAddress,
) error {
	if err := im.keeper.OnRelayTimeout(ctx, packet); err != nil {
		return err
	}

	sharedibc.EmitPacketTimeout(ctx, types.EventTypePacketTimeout, packet.SourceChannel, packet.Sequence)

	return nil
}
