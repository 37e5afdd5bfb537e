package types

// Event types for the pricefeed module
// All event types use lowercase with underscore separator (module_action format)
const (
	EventTypeFeedCreated       = "pricefeed_feed_created"
	EventTypeAggregatorCreated = "pricefeed_aggregator_created"
	EventTypeRoundSubmitted    = "pricefeed_round_submitted"
	EventTypeRoundReceived     = "pricefeed_round_received"
	EventTypeRoundRelayed      = "pricefeed_round_relayed"

	// IBC event types
	EventTypeChannelOpen        = "channel_open"
	EventTypeChannelOpenAck     = "channel_open_ack"
	EventTypeChannelOpenConfirm = "channel_open_confirm"
	EventTypeChannelClose       = "channel_close"
	EventTypePacketReceive      = "packet_receive"
	EventTypePacketAck          = "packet_ack"
	EventTypePacketTimeout      = "packet_timeout"
)

// Event attribute keys for the pricefeed module
const (
	AttributeKeyFeedId        = "feed_id"
	AttributeKeyFeed2Id       = "feed2_id"
	AttributeKeyAggregatorId  = "aggregator_id"
	AttributeKeyRoundId       = "round_id"
	AttributeKeyAnswer        = "answer"
	AttributeKeyUpdatedAt     = "updated_at"
	AttributeKeySourceChannel = "source_channel"
	AttributeKeySourceSender  = "source_sender"
	AttributeKeyDestChannel   = "dest_channel"
	AttributeKeyMessageId     = "message_id"
	AttributeKeySequence      = "sequence"
	AttributeKeyFeeAmount     = "fee_amount"
)
