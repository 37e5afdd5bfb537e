package ibc

// ChannelOperation tracks an outbound IBC packet that still has state locked
// locally and needs cleanup when the channel closes unexpectedly.
type ChannelOperation struct {
	ChannelID  string `json:"channel_id"`
	Sequence   uint64 `json:"sequence"`
	PacketType string `json:"packet_type"`
	FeedID     string `json:"feed_id,omitempty"`
}
