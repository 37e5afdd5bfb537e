package types

import (
	"cosmossdk.io/errors"
)

// Pricefeed module sentinel errors
var (
	// Feed and aggregator registration errors
	ErrFeedNotFound            = errors.Register(ModuleName, 2, "feed not found")
	ErrFeedAlreadyExists       = errors.Register(ModuleName, 3, "feed already exists")
	ErrInvalidFeed             = errors.Register(ModuleName, 4, "invalid feed")
	ErrAggregatorNotFound      = errors.Register(ModuleName, 5, "aggregator not found")
	ErrInvalidAggregator       = errors.Register(ModuleName, 6, "invalid aggregator")
	ErrSourceNotFound          = errors.Register(ModuleName, 7, "price source not found")
	ErrAggregatorAlreadyExists = errors.Register(ModuleName, 8, "aggregator already exists")
	ErrInvalidAuthority        = errors.Register(ModuleName, 9, "invalid authority")

	// Round errors
	ErrRoundNotFound = errors.Register(ModuleName, 10, "round not found")
	ErrInvalidRound  = errors.Register(ModuleName, 11, "invalid round")

	// Aggregation errors
	ErrPriceFeedsTimeMismatch = errors.Register(ModuleName, 20, "price feeds time mismatch")
	ErrInvalidPriceValue      = errors.Register(ModuleName, 21, "invalid price value")

	// Relay errors
	ErrInvalidSource        = errors.Register(ModuleName, 30, "invalid relay source")
	ErrUnexpectedMessage    = errors.Register(ModuleName, 31, "unexpected inbound message")
	ErrNotLocalFeed         = errors.Register(ModuleName, 32, "feed is not locally sourced")
	ErrRelaySendFailed      = errors.Register(ModuleName, 33, "relay submission failed")
	ErrInsufficientRelayFee = errors.Register(ModuleName, 34, "insufficient relay fee")

	// IBC packet errors
	ErrInvalidPacket = errors.Register(ModuleName, 40, "invalid IBC packet")
)
