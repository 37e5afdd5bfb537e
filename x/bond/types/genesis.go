package types

import (
	"fmt"
)

// GenesisState defines the bond module's genesis state
type GenesisState struct {
	Bonds      []Bond `json:"bonds"`
	NextBondId uint64 `json:"next_bond_id"`
}

// DefaultGenesis returns the default genesis state for the bond module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Bonds:      []Bond{},
		NextBondId: 1,
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if gs.NextBondId == 0 {
		return fmt.Errorf("next bond id must be positive")
	}
	seen := make(map[uint64]bool, len(gs.Bonds))
	for _, bond := range gs.Bonds {
		if err := bond.Validate(); err != nil {
			return err
		}
		if seen[bond.Id] {
			return fmt.Errorf("duplicate bond id %d", bond.Id)
		}
		if bond.Id >= gs.NextBondId {
			return fmt.Errorf("bond id %d not below next bond id %d", bond.Id, gs.NextBondId)
		}
		seen[bond.Id] = true
	}
	return nil
}
