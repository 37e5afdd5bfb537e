package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// ShareBalance records one holder's shares in one vault for genesis
// import/export.
type ShareBalance struct {
	VaultId uint64   `json:"vault_id"`
	Address string   `json:"address"`
	Shares  math.Int `json:"shares"`
}

// GenesisState defines the vault module's genesis state
type GenesisState struct {
	Vaults        []Vault        `json:"vaults"`
	ShareBalances []ShareBalance `json:"share_balances"`
	NextVaultId   uint64         `json:"next_vault_id"`
}

// DefaultGenesis returns the default genesis state for the vault module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Vaults:        []Vault{},
		ShareBalances: []ShareBalance{},
		NextVaultId:   1,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.NextVaultId == 0 {
		return fmt.Errorf("next vault id must be positive")
	}

	vaults := make(map[uint64]bool, len(gs.Vaults))
	for _, vault := range gs.Vaults {
		if err := vault.Validate(); err != nil {
			return err
		}
		if vaults[vault.Id] {
			return fmt.Errorf("duplicate vault id %d", vault.Id)
		}
		if vault.Id >= gs.NextVaultId {
			return fmt.Errorf("vault id %d not below next vault id %d", vault.Id, gs.NextVaultId)
		}
		vaults[vault.Id] = true
	}

	seen := make(map[string]bool, len(gs.ShareBalances))
	for _, sb := range gs.ShareBalances {
		if !vaults[sb.VaultId] {
			return fmt.Errorf("share balance for unknown vault %d", sb.VaultId)
		}
		if sb.Shares.IsNil() || !sb.Shares.IsPositive() {
			return fmt.Errorf("share balance for vault %d must be positive", sb.VaultId)
		}
		key := fmt.Sprintf("%d/%s", sb.VaultId, sb.Address)
		if seen[key] {
			return fmt.Errorf("duplicate share balance for %s in vault %d", sb.Address, sb.VaultId)
		}
		seen[key] = true
	}

	return nil
}
