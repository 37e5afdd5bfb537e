package types

import (
	"encoding/json"

	"cosmossdk.io/errors"
)

// IBC packet types for the pricefeed module
//
// The relay envelope carries exactly one price round from a source-domain
// feed to its mirror on this chain. Authentication happens on receipt
// against the mirrored feed's configured (source channel, source sender)
// pair, not here.

const (
	// Packet types
	PriceRoundType = "price_round"
)

// IBCPacketData is the base interface for all pricefeed IBC packets
type IBCPacketData interface {
	ValidateBasic() error
	GetType() string
}

// PriceRoundPacketData carries one relayed price round
type PriceRoundPacketData struct {
	Type      string `json:"type"`
	Nonce     uint64 `json:"nonce"`
	FeedId    string `json:"feed_id"`
	Round     Round  `json:"round"`
	Sender    string `json:"sender"`
	GasLimit  uint64 `json:"gas_limit,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

func (p PriceRoundPacketData) ValidateBasic() error {
	if p.Type != PriceRoundType {
		return errors.Wrapf(ErrInvalidPacket, "invalid packet type: %s", p.Type)
	}
	if p.Nonce == 0 {
		return errors.Wrap(ErrInvalidPacket, "nonce must be greater than zero")
	}
	if p.FeedId == "" {
		return errors.Wrap(ErrInvalidPacket, "feed id cannot be empty")
	}
	if p.Sender == "" {
		return errors.Wrap(ErrInvalidPacket, "sender cannot be empty")
	}
	if p.Timestamp <= 0 {
		return errors.Wrap(ErrInvalidPacket, "timestamp must be positive")
	}
	return p.Round.Validate()
}

func (p PriceRoundPacketData) GetType() string {
	return p.Type
}

func (p PriceRoundPacketData) GetBytes() ([]byte, error) {
	return json.Marshal(p)
}

// PriceRoundAcknowledgement is returned after handling a price round packet
type PriceRoundAcknowledgement struct {
	Nonce   uint64 `json:"nonce"`
	Success bool   `json:"success"`
	FeedId  string `json:"feed_id,omitempty"`
	RoundId string `json:"round_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (a PriceRoundAcknowledgement) GetBytes() ([]byte, error) {
	return json.Marshal(a)
}

// ParsePacketData parses pricefeed IBC packet data based on type
func ParsePacketData(data []byte) (IBCPacketData, error) {
	var basePacket struct {
		Type string `json:"type"`
	}

	if err := json.Unmarshal(data, &basePacket); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal packet data")
	}

	switch basePacket.Type {
	case PriceRoundType:
		var packet PriceRoundPacketData
		if err := json.Unmarshal(data, &packet); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal price round packet")
		}
		return packet, nil

	default:
		return nil, errors.Wrapf(ErrInvalidPacket, "unknown packet type: %s", basePacket.Type)
	}
}
