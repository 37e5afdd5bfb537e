package types

import (
	"encoding/binary"
)

var (
	// VaultKeyPrefix is the prefix for vault records
	VaultKeyPrefix = []byte{0x01}

	// NextVaultIdKey stores the monotonic vault id counter
	NextVaultIdKey = []byte{0x02}

	// ShareKeyPrefix is the prefix for per-holder share balances
	ShareKeyPrefix = []byte{0x03}

	// TotalSharesKeyPrefix is the prefix for per-vault share totals
	TotalSharesKeyPrefix = []byte{0x04}
)

// GetVaultKey returns the store key for a vault record
func GetVaultKey(id uint64) []byte {
	return append(VaultKeyPrefix, uint64Bytes(id)...)
}

// GetShareKey returns the store key for a holder's share balance in a vault
func GetShareKey(vaultId uint64, addr string) []byte {
	key := append(ShareKeyPrefix, uint64Bytes(vaultId)...)
	return append(key, []byte(addr)...)
}

// GetSharesByVaultPrefix returns the iteration prefix for a vault's share
// balances
func GetSharesByVaultPrefix(vaultId uint64) []byte {
	return append(ShareKeyPrefix, uint64Bytes(vaultId)...)
}

// GetTotalSharesKey returns the store key for a vault's total share supply
func GetTotalSharesKey(vaultId uint64) []byte {
	return append(TotalSharesKeyPrefix, uint64Bytes(vaultId)...)
}

func uint64Bytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}
