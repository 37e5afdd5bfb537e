package types

// PendingRelay tracks an in-flight outbound price relay awaiting its
// acknowledgement, keyed by (channel, sequence).
type PendingRelay struct {
	FeedId    string `json:"feed_id"`
	RoundId   string `json:"round_id"`
	Channel   string `json:"channel"`
	Sequence  uint64 `json:"sequence"`
	Nonce     uint64 `json:"nonce"`
	MessageId []byte `json:"message_id"`
	Sender    string `json:"sender"`
	SentAt    int64  `json:"sent_at"`
}
