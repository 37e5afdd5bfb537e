package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Bond is a fixed-principal debt obligation whose creditor is whoever
// currently owns it. Ownership is the only mutable field; everything
// financial lives in the vault that references the bond.
type Bond struct {
	Id        uint64 `json:"id"`
	Owner     string `json:"owner"`
	Issuer    string `json:"issuer"`
	CreatedAt int64  `json:"created_at"`
}

// Validate validates the bond record
func (b Bond) Validate() error {
	if b.Id == 0 {
		return ErrInvalidBond.Wrap("bond id cannot be zero")
	}
	if _, err := sdk.AccAddressFromBech32(b.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(b.Issuer); err != nil {
		return ErrInvalidAddress.Wrapf("invalid issuer address: %s", err)
	}
	return nil
}
