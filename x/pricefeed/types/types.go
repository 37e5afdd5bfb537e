package types

const (
	// ModuleName defines the module name
	ModuleName = "pricefeed"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// PortID is the default port ID for the pricefeed IBC module
	PortID = "pricefeed"

	// IBCVersion is the expected channel version for price relay channels
	IBCVersion = "obligo-pricefeed-1"

	// FeedVersion is reported by plain feeds
	FeedVersion = uint64(1)

	// AggregatorVersion is reported by two-feed ratio aggregators
	AggregatorVersion = uint64(1)

	// FeeCollectorName is the module account that accrues relay fees
	FeeCollectorName = "pricefeed_fee_collector"

	// AggregatorToleranceSeconds bounds the update-time skew between the two
	// feeds of a ratio aggregator. Reads fail when the feeds drift further
	// apart than this.
	AggregatorToleranceSeconds = int64(3600)
)
