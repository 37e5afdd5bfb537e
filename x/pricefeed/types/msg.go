package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type URLs
const (
	TypeMsgCreateFeed       = "create_feed"
	TypeMsgCreateAggregator = "create_aggregator"
	TypeMsgSubmitRound      = "submit_round"
	TypeMsgSendLatestRound  = "send_latest_round"
)

var (
	_ sdk.Msg = &MsgCreateFeed{}
	_ sdk.Msg = &MsgCreateAggregator{}
	_ sdk.Msg = &MsgSubmitRound{}
	_ sdk.Msg = &MsgSendLatestRound{}
)

// MsgServer is the pricefeed module message handling interface
type MsgServer interface {
	CreateFeed(ctx context.Context, msg *MsgCreateFeed) (*MsgCreateFeedResponse, error)
	CreateAggregator(ctx context.Context, msg *MsgCreateAggregator) (*MsgCreateAggregatorResponse, error)
	SubmitRound(ctx context.Context, msg *MsgSubmitRound) (*MsgSubmitRoundResponse, error)
	SendLatestRound(ctx context.Context, msg *MsgSendLatestRound) (*MsgSendLatestRoundResponse, error)
}

// MsgCreateFeed registers a feed (local or relay-mirrored)
type MsgCreateFeed struct {
	Authority string `json:"authority"`
	Feed      Feed   `json:"feed"`
}

// MsgCreateFeedResponse is the feed creation response
type MsgCreateFeedResponse struct{}

func (m *MsgCreateFeed) Reset()         { *m = MsgCreateFeed{} }
func (m *MsgCreateFeed) String() string { return fmt.Sprintf("MsgCreateFeed{%s}", m.Feed.FeedId) }
func (*MsgCreateFeed) ProtoMessage()    {}

func (m *MsgCreateFeedResponse) Reset()         { *m = MsgCreateFeedResponse{} }
func (m *MsgCreateFeedResponse) String() string { return "MsgCreateFeedResponse{}" }
func (*MsgCreateFeedResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgCreateFeed) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgCreateFeed) Type() string { return TypeMsgCreateFeed }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgCreateFeed) GetSigners() []sdk.AccAddress {
	authority, _ := sdk.AccAddressFromBech32(m.Authority)
	return []sdk.AccAddress{authority}
}

// ValidateBasic implements sdk.Msg
func (m *MsgCreateFeed) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Authority); err != nil {
		return ErrInvalidFeed.Wrapf("invalid authority address: %s", err)
	}
	return m.Feed.Validate()
}

// MsgCreateAggregator registers a two-feed ratio aggregator
type MsgCreateAggregator struct {
	Authority  string     `json:"authority"`
	Aggregator Aggregator `json:"aggregator"`
}

// MsgCreateAggregatorResponse is the aggregator creation response
type MsgCreateAggregatorResponse struct{}

func (m *MsgCreateAggregator) Reset() { *m = MsgCreateAggregator{} }
func (m *MsgCreateAggregator) String() string {
	return fmt.Sprintf("MsgCreateAggregator{%s}", m.Aggregator.AggregatorId)
}
func (*MsgCreateAggregator) ProtoMessage() {}

func (m *MsgCreateAggregatorResponse) Reset()         { *m = MsgCreateAggregatorResponse{} }
func (m *MsgCreateAggregatorResponse) String() string { return "MsgCreateAggregatorResponse{}" }
func (*MsgCreateAggregatorResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgCreateAggregator) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgCreateAggregator) Type() string { return TypeMsgCreateAggregator }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgCreateAggregator) GetSigners() []sdk.AccAddress {
	authority, _ := sdk.AccAddressFromBech32(m.Authority)
	return []sdk.AccAddress{authority}
}

// ValidateBasic implements sdk.Msg
func (m *MsgCreateAggregator) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Authority); err != nil {
		return ErrInvalidAggregator.Wrapf("invalid authority address: %s", err)
	}
	return m.Aggregator.Validate()
}

// MsgSubmitRound records a new round on a locally-sourced feed
type MsgSubmitRound struct {
	Submitter string `json:"submitter"`
	FeedId    string `json:"feed_id"`
	Round     Round  `json:"round"`
}

// MsgSubmitRoundResponse is the round submission response
type MsgSubmitRoundResponse struct{}

func (m *MsgSubmitRound) Reset() { *m = MsgSubmitRound{} }
func (m *MsgSubmitRound) String() string {
	return fmt.Sprintf("MsgSubmitRound{%s/%s}", m.FeedId, m.Round.RoundId)
}
func (*MsgSubmitRound) ProtoMessage() {}

func (m *MsgSubmitRoundResponse) Reset()         { *m = MsgSubmitRoundResponse{} }
func (m *MsgSubmitRoundResponse) String() string { return "MsgSubmitRoundResponse{}" }
func (*MsgSubmitRoundResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgSubmitRound) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgSubmitRound) Type() string { return TypeMsgSubmitRound }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgSubmitRound) GetSigners() []sdk.AccAddress {
	submitter, _ := sdk.AccAddressFromBech32(m.Submitter)
	return []sdk.AccAddress{submitter}
}

// ValidateBasic implements sdk.Msg
func (m *MsgSubmitRound) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Submitter); err != nil {
		return ErrInvalidRound.Wrapf("invalid submitter address: %s", err)
	}
	if m.FeedId == "" {
		return ErrInvalidFeed.Wrap("feed id cannot be empty")
	}
	return m.Round.Validate()
}

// MsgSendLatestRound forwards a local feed's latest round across a domain
// boundary through IBC
type MsgSendLatestRound struct {
	Sender             string   `json:"sender"`
	FeedId             string   `json:"feed_id"`
	DestinationPort    string   `json:"destination_port"`
	DestinationChannel string   `json:"destination_channel"`
	FeeDenom           string   `json:"fee_denom,omitempty"`
	FeeAmount          math.Int `json:"fee_amount"`
	GasLimit           uint64   `json:"gas_limit"`
}

// MsgSendLatestRoundResponse returns the relay-assigned message id
type MsgSendLatestRoundResponse struct {
	MessageId []byte `json:"message_id"`
	Sequence  uint64 `json:"sequence"`
}

func (m *MsgSendLatestRound) Reset() { *m = MsgSendLatestRound{} }
func (m *MsgSendLatestRound) String() string {
	return fmt.Sprintf("MsgSendLatestRound{%s -> %s/%s}", m.FeedId, m.DestinationPort, m.DestinationChannel)
}
func (*MsgSendLatestRound) ProtoMessage() {}

func (m *MsgSendLatestRoundResponse) Reset() { *m = MsgSendLatestRoundResponse{} }
func (m *MsgSendLatestRoundResponse) String() string {
	return fmt.Sprintf("MsgSendLatestRoundResponse{%d}", m.Sequence)
}
func (*MsgSendLatestRoundResponse) ProtoMessage() {}

// Route implements sdk.Msg
func (m *MsgSendLatestRound) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgSendLatestRound) Type() string { return TypeMsgSendLatestRound }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgSendLatestRound) GetSigners() []sdk.AccAddress {
	sender, _ := sdk.AccAddressFromBech32(m.Sender)
	return []sdk.AccAddress{sender}
}

// ValidateBasic implements sdk.Msg
func (m *MsgSendLatestRound) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Sender); err != nil {
		return ErrInvalidFeed.Wrapf("invalid sender address: %s", err)
	}
	if m.FeedId == "" {
		return ErrInvalidFeed.Wrap("feed id cannot be empty")
	}
	if m.DestinationPort == "" || m.DestinationChannel == "" {
		return ErrInvalidPacket.Wrap("destination port and channel are required")
	}
	if !m.FeeAmount.IsNil() && m.FeeAmount.IsNegative() {
		return ErrInsufficientRelayFee.Wrap("fee amount cannot be negative")
	}
	if !m.FeeAmount.IsNil() && m.FeeAmount.IsPositive() && m.FeeDenom == "" {
		return ErrInsufficientRelayFee.Wrap("fee denom required when fee amount is set")
	}
	return nil
}
