package types

import (
	"encoding/binary"

	"cosmossdk.io/math"
)

var (
	// FeedKeyPrefix is the prefix for feed configuration keys
	FeedKeyPrefix = []byte{0x01}

	// AggregatorKeyPrefix is the prefix for aggregator configuration keys
	AggregatorKeyPrefix = []byte{0x02}

	// RoundKeyPrefix is the prefix for stored round keys
	RoundKeyPrefix = []byte{0x03}

	// LatestRoundKeyPrefix is the prefix for per-feed latest round pointers
	LatestRoundKeyPrefix = []byte{0x04}

	// PendingRelayKeyPrefix is the prefix for in-flight relay sends awaiting ack.
	// 0x05 is reserved; outbound nonces live under the shared nonce manager's
	// string-keyed space instead.
	PendingRelayKeyPrefix = []byte{0x06}
)

// GetFeedKey returns the store key for a feed configuration
func GetFeedKey(feedId string) []byte {
	return append(FeedKeyPrefix, []byte(feedId)...)
}

// GetAggregatorKey returns the store key for an aggregator configuration
func GetAggregatorKey(aggregatorId string) []byte {
	return append(AggregatorKeyPrefix, []byte(aggregatorId)...)
}

// GetRoundKey returns the store key for a round. Round ids are 80-bit, so
// the key carries a fixed 10-byte big-endian encoding after the feed id.
func GetRoundKey(feedId string, roundId math.Int) []byte {
	key := append(RoundKeyPrefix, []byte(feedId)...)
	key = append(key, 0x00)
	return append(key, RoundIdBytes(roundId)...)
}

// GetRoundsByFeedPrefix returns the iteration prefix for a feed's rounds
func GetRoundsByFeedPrefix(feedId string) []byte {
	key := append(RoundKeyPrefix, []byte(feedId)...)
	return append(key, 0x00)
}

// GetLatestRoundKey returns the store key for a feed's latest round pointer
func GetLatestRoundKey(feedId string) []byte {
	return append(LatestRoundKeyPrefix, []byte(feedId)...)
}

// GetPendingRelayKey returns the store key for an in-flight relay send
func GetPendingRelayKey(channelId string, sequence uint64) []byte {
	key := append(PendingRelayKeyPrefix, []byte(channelId)...)
	key = append(key, 0x00)
	return append(key, sdkUint64Bytes(sequence)...)
}

// RoundIdBytes encodes an 80-bit round id as 10 big-endian bytes. Callers
// validate the 80-bit bound through Round.Validate before keying.
func RoundIdBytes(roundId math.Int) []byte {
	bz := make([]byte, 10)
	raw := roundId.BigInt().Bytes()
	if len(raw) > 10 {
		raw = raw[len(raw)-10:]
	}
	copy(bz[10-len(raw):], raw)
	return bz
}

func sdkUint64Bytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}
