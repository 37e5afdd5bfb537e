package types

import (
	"encoding/binary"
)

var (
	// BondKeyPrefix is the prefix for bond store keys
	BondKeyPrefix = []byte{0x01}

	// NextBondIdKey is the key for the bond id counter
	NextBondIdKey = []byte{0x02}
)

// GetBondKey returns the store key for a bond id
func GetBondKey(id uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	return append(BondKeyPrefix, bz...)
}
