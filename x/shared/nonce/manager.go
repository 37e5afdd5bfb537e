// Package nonce provides outbound IBC packet nonce management shared across
// modules that originate relay traffic.
package nonce

import (
	"encoding/binary"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// SendNoncePrefix is the prefix for outgoing packet nonces
	SendNoncePrefix = "nonce_send"
	// NonceEpochPrefix is the prefix for nonce epoch tracking
	NonceEpochPrefix = "nonce_epoch"

	// NonceRotationThreshold is the counter value at which the epoch rotates
	// and the counter resets, keeping the counter clear of uint64 overflow.
	NonceRotationThreshold = uint64(16602069666338596454)
)

// Manager assigns monotonically increasing nonces to outgoing packets,
// scoped per channel/sender pair.
type Manager struct {
	storeKey   storetypes.StoreKey
	moduleName string
}

// NewManager creates a nonce manager persisting in the given module store.
// moduleName is used as the sender scope when the caller passes none.
func NewManager(storeKey storetypes.StoreKey, moduleName string) *Manager {
	return &Manager{
		storeKey:   storeKey,
		moduleName: moduleName,
	}
}

// scopeKey builds "<prefix>/<channel>/<sender>", substituting the module name
// for an empty sender so module-originated packets share one counter.
func (m *Manager) scopeKey(prefix, channel, sender string) []byte {
	if sender == "" {
		sender = m.moduleName
	}
	key := make([]byte, 0, len(prefix)+len(channel)+len(sender)+2)
	key = append(key, prefix...)
	key = append(key, '/')
	key = append(key, channel...)
	key = append(key, '/')
	return append(key, sender...)
}

func (m *Manager) readCounter(ctx sdk.Context, prefix, channel, sender string) uint64 {
	bz := ctx.KVStore(m.storeKey).Get(m.scopeKey(prefix, channel, sender))
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (m *Manager) writeCounter(ctx sdk.Context, prefix, channel, sender string, value uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, value)
	ctx.KVStore(m.storeKey).Set(m.scopeKey(prefix, channel, sender), bz)
}

// NextOutboundNonce atomically increments and returns the next nonce for the
// channel/sender pair. When the counter reaches the rotation threshold the
// epoch increments and the counter restarts at 1; the (epoch, nonce) pair
// stays unique across rotations.
func (m *Manager) NextOutboundNonce(ctx sdk.Context, channel, sender string) uint64 {
	if channel == "" {
		channel = "unknown"
	}

	current := m.readCounter(ctx, SendNoncePrefix, channel, sender)
	if current >= NonceRotationThreshold {
		epoch := m.readCounter(ctx, NonceEpochPrefix, channel, sender) + 1
		m.writeCounter(ctx, NonceEpochPrefix, channel, sender, epoch)
		m.writeCounter(ctx, SendNoncePrefix, channel, sender, 1)
		if logger := ctx.Logger(); logger != nil {
			logger.Info("nonce epoch rotated",
				"channel", channel,
				"sender", sender,
				"new_epoch", epoch,
			)
		}
		return 1
	}

	next := current + 1
	m.writeCounter(ctx, SendNoncePrefix, channel, sender, next)
	return next
}

// GetCurrentEpoch returns the current epoch for a channel/sender pair.
func (m *Manager) GetCurrentEpoch(ctx sdk.Context, channel, sender string) uint64 {
	return m.readCounter(ctx, NonceEpochPrefix, channel, sender)
}
