package types

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type URLs
const (
	TypeMsgIssueBond    = "issue_bond"
	TypeMsgTransferBond = "transfer_bond"
)

var (
	_ sdk.Msg = &MsgIssueBond{}
	_ sdk.Msg = &MsgTransferBond{}
)

// MsgServer is the bond module message handling interface
type MsgServer interface {
	IssueBond(ctx context.Context, msg *MsgIssueBond) (*MsgIssueBondResponse, error)
	TransferBond(ctx context.Context, msg *MsgTransferBond) (*MsgTransferBondResponse, error)
}

// MsgIssueBond mints a new bond to the given owner
type MsgIssueBond struct {
	Issuer string `json:"issuer"`
	Owner  string `json:"owner"`
}

// MsgIssueBondResponse returns the id assigned to the new bond
type MsgIssueBondResponse struct {
	BondId uint64 `json:"bond_id"`
}

func (m *MsgIssueBond) Reset()         { *m = MsgIssueBond{} }
func (m *MsgIssueBond) String() string { return fmt.Sprintf("MsgIssueBond{%s -> %s}", m.Issuer, m.Owner) }
func (*MsgIssueBond) ProtoMessage()    {}

func (m *MsgIssueBondResponse) Reset()         { *m = MsgIssueBondResponse{} }
func (m *MsgIssueBondResponse) String() string { return fmt.Sprintf("MsgIssueBondResponse{%d}", m.BondId) }
func (*MsgIssueBondResponse) ProtoMessage()    {}

// NewMsgIssueBond creates a new MsgIssueBond instance
func NewMsgIssueBond(issuer, owner string) *MsgIssueBond {
	return &MsgIssueBond{Issuer: issuer, Owner: owner}
}

// Route implements sdk.Msg
func (m *MsgIssueBond) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgIssueBond) Type() string { return TypeMsgIssueBond }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgIssueBond) GetSigners() []sdk.AccAddress {
	issuer, _ := sdk.AccAddressFromBech32(m.Issuer)
	return []sdk.AccAddress{issuer}
}

// ValidateBasic implements sdk.Msg
func (m *MsgIssueBond) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Issuer); err != nil {
		return ErrInvalidAddress.Wrapf("invalid issuer address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(m.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}
	return nil
}

// MsgTransferBond reassigns bond ownership to a new owner
type MsgTransferBond struct {
	Owner    string `json:"owner"`
	NewOwner string `json:"new_owner"`
	BondId   uint64 `json:"bond_id"`
}

// MsgTransferBondResponse is the transfer response
type MsgTransferBondResponse struct{}

func (m *MsgTransferBond) Reset() { *m = MsgTransferBond{} }
func (m *MsgTransferBond) String() string {
	return fmt.Sprintf("MsgTransferBond{%d: %s -> %s}", m.BondId, m.Owner, m.NewOwner)
}
func (*MsgTransferBond) ProtoMessage() {}

func (m *MsgTransferBondResponse) Reset()         { *m = MsgTransferBondResponse{} }
func (m *MsgTransferBondResponse) String() string { return "MsgTransferBondResponse{}" }
func (*MsgTransferBondResponse) ProtoMessage()    {}

// NewMsgTransferBond creates a new MsgTransferBond instance
func NewMsgTransferBond(owner, newOwner string, bondId uint64) *MsgTransferBond {
	return &MsgTransferBond{Owner: owner, NewOwner: newOwner, BondId: bondId}
}

// Route implements sdk.Msg
func (m *MsgTransferBond) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgTransferBond) Type() string { return TypeMsgTransferBond }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgTransferBond) GetSigners() []sdk.AccAddress {
	owner, _ := sdk.AccAddressFromBech32(m.Owner)
	return []sdk.AccAddress{owner}
}

// ValidateBasic implements sdk.Msg
func (m *MsgTransferBond) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Owner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid owner address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(m.NewOwner); err != nil {
		return ErrInvalidAddress.Wrapf("invalid new owner address: %s", err)
	}
	if m.BondId == 0 {
		return ErrInvalidBond.Wrap("bond id cannot be zero")
	}
	return nil
}
