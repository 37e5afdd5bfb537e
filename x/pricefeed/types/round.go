package types

import (
	"cosmossdk.io/math"
)

// maxRoundId bounds round identifiers to 80 bits, matching the wire format
// of the relayed payload.
var maxRoundId = math.NewIntFromUint64(1).MulRaw(1 << 40).MulRaw(1 << 40)

// Round is a single timestamped price observation. Answer is a signed
// 256-bit value scaled by the owning feed's decimals.
type Round struct {
	RoundId         math.Int `json:"round_id"`
	Answer          math.Int `json:"answer"`
	StartedAt       int64    `json:"started_at"`
	UpdatedAt       int64    `json:"updated_at"`
	AnsweredInRound math.Int `json:"answered_in_round"`
}

// Validate validates the round. RoundId zero is the "absent" sentinel and is
// never a valid stored round.
func (r Round) Validate() error {
	if r.RoundId.IsNil() || !r.RoundId.IsPositive() {
		return ErrInvalidRound.Wrap("round id must be positive")
	}
	if r.RoundId.GTE(maxRoundId) {
		return ErrInvalidRound.Wrapf("round id %s exceeds 80 bits", r.RoundId)
	}
	if r.Answer.IsNil() {
		return ErrInvalidRound.Wrap("answer cannot be nil")
	}
	if r.AnsweredInRound.IsNil() || r.AnsweredInRound.IsNegative() {
		return ErrInvalidRound.Wrap("answered-in-round cannot be negative")
	}
	if r.AnsweredInRound.GTE(maxRoundId) {
		return ErrInvalidRound.Wrapf("answered-in-round %s exceeds 80 bits", r.AnsweredInRound)
	}
	if r.StartedAt < 0 || r.UpdatedAt < 0 {
		return ErrInvalidRound.Wrap("timestamps cannot be negative")
	}
	return nil
}

// IsZero reports whether the round is the absent sentinel
func (r Round) IsZero() bool {
	return r.RoundId.IsNil() || r.RoundId.IsZero()
}

// ZeroRound returns the all-zero round served before any delivery
func ZeroRound() Round {
	return Round{
		RoundId:         math.ZeroInt(),
		Answer:          math.ZeroInt(),
		StartedAt:       0,
		UpdatedAt:       0,
		AnsweredInRound: math.ZeroInt(),
	}
}

// Feed mirrors one remote price feed. Non-local feeds are populated only by
// authenticated relay delivery from the configured (channel, sender) pair;
// local feeds are populated by on-chain round submission and are what the
// relayer reads when forwarding across domains.
type Feed struct {
	FeedId        string `json:"feed_id"`
	Description   string `json:"description"`
	Decimals      uint32 `json:"decimals"`
	SourceChannel string `json:"source_channel,omitempty"`
	SourceSender  string `json:"source_sender,omitempty"`
	Local         bool   `json:"local"`
	Admin         string `json:"admin"`
}

// Validate validates the feed configuration
func (f Feed) Validate() error {
	if f.FeedId == "" {
		return ErrInvalidFeed.Wrap("feed id cannot be empty")
	}
	if f.Local {
		if f.SourceChannel != "" || f.SourceSender != "" {
			return ErrInvalidFeed.Wrap("local feeds cannot configure a relay source")
		}
		return nil
	}
	if f.SourceChannel == "" {
		return ErrInvalidFeed.Wrap("relayed feeds require a source channel")
	}
	if f.SourceSender == "" {
		return ErrInvalidFeed.Wrap("relayed feeds require a source sender")
	}
	return nil
}

// Aggregator derives a ratio price from two underlying feeds:
// answer = price1 * 10^decimals / price2, floored.
type Aggregator struct {
	AggregatorId string `json:"aggregator_id"`
	Feed1Id      string `json:"feed1_id"`
	Feed2Id      string `json:"feed2_id"`
	Decimals     uint32 `json:"decimals"`
}

// Validate validates the aggregator configuration
func (a Aggregator) Validate() error {
	if a.AggregatorId == "" {
		return ErrInvalidAggregator.Wrap("aggregator id cannot be empty")
	}
	if a.Feed1Id == "" || a.Feed2Id == "" {
		return ErrInvalidAggregator.Wrap("both underlying feed ids are required")
	}
	return nil
}
