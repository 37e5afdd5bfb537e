package types

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Message type URLs
const (
	TypeMsgCreateVault      = "create_vault"
	TypeMsgDeposit          = "deposit"
	TypeMsgWithdraw         = "withdraw"
	TypeMsgSetFeesBips      = "set_fees_bips"
	TypeMsgSetFeesRecipient = "set_fees_recipient"
	TypeMsgDepositAssets    = "deposit_assets"
	TypeMsgMintShares       = "mint_shares"
)

var (
	_ sdk.Msg = &MsgCreateVault{}
	_ sdk.Msg = &MsgDeposit{}
	_ sdk.Msg = &MsgWithdraw{}
	_ sdk.Msg = &MsgSetFeesBips{}
	_ sdk.Msg = &MsgSetFeesRecipient{}
	_ sdk.Msg = &MsgDepositAssets{}
	_ sdk.Msg = &MsgMintShares{}
)

// MsgServer is the vault module message handling interface
type MsgServer interface {
	CreateVault(ctx context.Context, msg *MsgCreateVault) (*MsgCreateVaultResponse, error)
	Deposit(ctx context.Context, msg *MsgDeposit) (*MsgDepositResponse, error)
	Withdraw(ctx context.Context, msg *MsgWithdraw) (*MsgWithdrawResponse, error)
	SetFeesBips(ctx context.Context, msg *MsgSetFeesBips) (*MsgSetFeesBipsResponse, error)
	SetFeesRecipient(ctx context.Context, msg *MsgSetFeesRecipient) (*MsgSetFeesRecipientResponse, error)
	DepositAssets(ctx context.Context, msg *MsgDepositAssets) (*MsgDepositAssetsResponse, error)
	MintShares(ctx context.Context, msg *MsgMintShares) (*MsgMintSharesResponse, error)
}

// MsgCreateVault constructs a vault servicing one bond
type MsgCreateVault struct {
	Admin           string   `json:"admin"`
	BondId          uint64   `json:"bond_id"`
	Debtor          string   `json:"debtor"`
	AssetDenom      string   `json:"asset_denom"`
	AssetDecimals   uint32   `json:"asset_decimals"`
	DebtAmount      math.Int `json:"debt_amount"`
	BondMaturity    int64    `json:"bond_maturity"`
	PrincipalPaid   bool     `json:"principal_paid"`
	PrincipalRepaid math.Int `json:"principal_repaid"`
	FeesBips        uint32   `json:"fees_bips"`
	FeesRecipient   string   `json:"fees_recipient"`
	PriceSourceId   string   `json:"price_source_id"`
}

// MsgCreateVaultResponse returns the assigned vault id
type MsgCreateVaultResponse struct {
	VaultId uint64 `json:"vault_id"`
}

func (m *MsgCreateVault) Reset()         { *m = MsgCreateVault{} }
func (m *MsgCreateVault) String() string { return fmt.Sprintf("MsgCreateVault{bond %d}", m.BondId) }
func (*MsgCreateVault) ProtoMessage()    {}

func (m *MsgCreateVaultResponse) Reset()         { *m = MsgCreateVaultResponse{} }
func (m *MsgCreateVaultResponse) String() string { return fmt.Sprintf("MsgCreateVaultResponse{%d}", m.VaultId) }
func (*MsgCreateVaultResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgCreateVault) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgCreateVault) Type() string { return TypeMsgCreateVault }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgCreateVault) GetSigners() []sdk.AccAddress {
	admin, _ := sdk.AccAddressFromBech32(m.Admin)
	return []sdk.AccAddress{admin}
}

// ValidateBasic implements sdk.Msg
func (m *MsgCreateVault) ValidateBasic() error {
	vault := Vault{
		Admin:           m.Admin,
		BondId:          m.BondId,
		Debtor:          m.Debtor,
		AssetDenom:      m.AssetDenom,
		AssetDecimals:   m.AssetDecimals,
		DebtAmount:      m.DebtAmount,
		BondMaturity:    m.BondMaturity,
		PrincipalPaid:   m.PrincipalPaid,
		PrincipalRepaid: m.PrincipalRepaid,
		FeesBips:        m.FeesBips,
		FeesRecipient:   m.FeesRecipient,
		PriceSourceId:   m.PriceSourceId,
	}
	return vault.Validate()
}

// Vault builds the vault record carried by the message. The id is assigned
// by the keeper.
func (m *MsgCreateVault) Vault() Vault {
	return Vault{
		Admin:           m.Admin,
		BondId:          m.BondId,
		Debtor:          m.Debtor,
		AssetDenom:      m.AssetDenom,
		AssetDecimals:   m.AssetDecimals,
		DebtAmount:      m.DebtAmount,
		BondMaturity:    m.BondMaturity,
		PrincipalPaid:   m.PrincipalPaid,
		PrincipalRepaid: m.PrincipalRepaid,
		FeesBips:        m.FeesBips,
		FeesRecipient:   m.FeesRecipient,
		PriceSourceId:   m.PriceSourceId,
	}
}

// MsgDeposit is the single priced inflow path: principal funding, principal
// repayment or interest payment depending on caller and the principal flag.
type MsgDeposit struct {
	Caller      string   `json:"caller"`
	VaultId     uint64   `json:"vault_id"`
	MaxAssets   math.Int `json:"max_assets"`
	TargetValue math.Int `json:"target_value"`
	Principal   bool     `json:"principal"`
}

// MsgDepositResponse reports the shares minted and assets pulled
type MsgDepositResponse struct {
	SharesMinted math.Int `json:"shares_minted"`
	AssetsUsed   math.Int `json:"assets_used"`
}

func (m *MsgDeposit) Reset()         { *m = MsgDeposit{} }
func (m *MsgDeposit) String() string { return fmt.Sprintf("MsgDeposit{vault %d}", m.VaultId) }
func (*MsgDeposit) ProtoMessage()    {}

func (m *MsgDepositResponse) Reset()         { *m = MsgDepositResponse{} }
func (m *MsgDepositResponse) String() string { return "MsgDepositResponse{}" }
func (*MsgDepositResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgDeposit) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgDeposit) Type() string { return TypeMsgDeposit }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgDeposit) GetSigners() []sdk.AccAddress {
	caller, _ := sdk.AccAddressFromBech32(m.Caller)
	return []sdk.AccAddress{caller}
}

// ValidateBasic implements sdk.Msg
func (m *MsgDeposit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Caller); err != nil {
		return ErrZeroAddress.Wrapf("invalid caller address: %s", err)
	}
	if m.MaxAssets.IsNil() || m.MaxAssets.IsNegative() {
		return ErrZeroAmount.Wrap("max assets cannot be negative")
	}
	if m.TargetValue.IsNil() || !m.TargetValue.IsPositive() {
		return ErrZeroAmount.Wrap("target value must be positive")
	}
	return nil
}

// MsgWithdraw redeems shares 1:1 for custodied assets
type MsgWithdraw struct {
	Owner    string   `json:"owner"`
	VaultId  uint64   `json:"vault_id"`
	Assets   math.Int `json:"assets"`
	Receiver string   `json:"receiver"`
}

// MsgWithdrawResponse is the withdrawal response
type MsgWithdrawResponse struct {
	SharesBurned math.Int `json:"shares_burned"`
}

func (m *MsgWithdraw) Reset()         { *m = MsgWithdraw{} }
func (m *MsgWithdraw) String() string { return fmt.Sprintf("MsgWithdraw{vault %d}", m.VaultId) }
func (*MsgWithdraw) ProtoMessage()    {}

func (m *MsgWithdrawResponse) Reset()         { *m = MsgWithdrawResponse{} }
func (m *MsgWithdrawResponse) String() string { return "MsgWithdrawResponse{}" }
func (*MsgWithdrawResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgWithdraw) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgWithdraw) Type() string { return TypeMsgWithdraw }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgWithdraw) GetSigners() []sdk.AccAddress {
	owner, _ := sdk.AccAddressFromBech32(m.Owner)
	return []sdk.AccAddress{owner}
}

// ValidateBasic implements sdk.Msg
func (m *MsgWithdraw) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Owner); err != nil {
		return ErrZeroAddress.Wrapf("invalid owner address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(m.Receiver); err != nil {
		return ErrZeroAddress.Wrapf("invalid receiver address: %s", err)
	}
	if m.Assets.IsNil() || !m.Assets.IsPositive() {
		return ErrZeroAmount.Wrap("withdrawal amount must be positive")
	}
	return nil
}

// MsgSetFeesBips updates the interest fee skim
type MsgSetFeesBips struct {
	Admin    string `json:"admin"`
	VaultId  uint64 `json:"vault_id"`
	FeesBips uint32 `json:"fees_bips"`
}

// MsgSetFeesBipsResponse is the fee update response
type MsgSetFeesBipsResponse struct{}

func (m *MsgSetFeesBips) Reset()         { *m = MsgSetFeesBips{} }
func (m *MsgSetFeesBips) String() string { return fmt.Sprintf("MsgSetFeesBips{%d}", m.FeesBips) }
func (*MsgSetFeesBips) ProtoMessage()    {}

func (m *MsgSetFeesBipsResponse) Reset()         { *m = MsgSetFeesBipsResponse{} }
func (m *MsgSetFeesBipsResponse) String() string { return "MsgSetFeesBipsResponse{}" }
func (*MsgSetFeesBipsResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgSetFeesBips) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgSetFeesBips) Type() string { return TypeMsgSetFeesBips }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgSetFeesBips) GetSigners() []sdk.AccAddress {
	admin, _ := sdk.AccAddressFromBech32(m.Admin)
	return []sdk.AccAddress{admin}
}

// ValidateBasic implements sdk.Msg
func (m *MsgSetFeesBips) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Admin); err != nil {
		return ErrZeroAddress.Wrapf("invalid admin address: %s", err)
	}
	if m.FeesBips > MaxFeesBips {
		return ErrExcessiveVaultFees.Wrapf("fees %d bips exceed maximum %d", m.FeesBips, MaxFeesBips)
	}
	return nil
}

// MsgSetFeesRecipient updates the fee recipient
type MsgSetFeesRecipient struct {
	Admin         string `json:"admin"`
	VaultId       uint64 `json:"vault_id"`
	FeesRecipient string `json:"fees_recipient"`
}

// MsgSetFeesRecipientResponse is the fee recipient update response
type MsgSetFeesRecipientResponse struct{}

func (m *MsgSetFeesRecipient) Reset()         { *m = MsgSetFeesRecipient{} }
func (m *MsgSetFeesRecipient) String() string { return "MsgSetFeesRecipient{}" }
func (*MsgSetFeesRecipient) ProtoMessage()    {}

func (m *MsgSetFeesRecipientResponse) Reset()         { *m = MsgSetFeesRecipientResponse{} }
func (m *MsgSetFeesRecipientResponse) String() string { return "MsgSetFeesRecipientResponse{}" }
func (*MsgSetFeesRecipientResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgSetFeesRecipient) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgSetFeesRecipient) Type() string { return TypeMsgSetFeesRecipient }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgSetFeesRecipient) GetSigners() []sdk.AccAddress {
	admin, _ := sdk.AccAddressFromBech32(m.Admin)
	return []sdk.AccAddress{admin}
}

// ValidateBasic implements sdk.Msg
func (m *MsgSetFeesRecipient) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Admin); err != nil {
		return ErrZeroAddress.Wrapf("invalid admin address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(m.FeesRecipient); err != nil {
		return ErrZeroAddress.Wrapf("invalid fees recipient address: %s", err)
	}
	return nil
}

// MsgDepositAssets is the generic "deposit to arbitrary receiver" entry
// point. It is permanently disabled: every submission fails with
// ErrDepositsDisabled. All inflows go through MsgDeposit.
type MsgDepositAssets struct {
	Caller   string   `json:"caller"`
	VaultId  uint64   `json:"vault_id"`
	Assets   math.Int `json:"assets"`
	Receiver string   `json:"receiver"`
}

// MsgDepositAssetsResponse is never returned; the operation always fails
type MsgDepositAssetsResponse struct{}

func (m *MsgDepositAssets) Reset()         { *m = MsgDepositAssets{} }
func (m *MsgDepositAssets) String() string { return fmt.Sprintf("MsgDepositAssets{vault %d}", m.VaultId) }
func (*MsgDepositAssets) ProtoMessage()    {}

func (m *MsgDepositAssetsResponse) Reset()         { *m = MsgDepositAssetsResponse{} }
func (m *MsgDepositAssetsResponse) String() string { return "MsgDepositAssetsResponse{}" }
func (*MsgDepositAssetsResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgDepositAssets) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgDepositAssets) Type() string { return TypeMsgDepositAssets }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgDepositAssets) GetSigners() []sdk.AccAddress {
	caller, _ := sdk.AccAddressFromBech32(m.Caller)
	return []sdk.AccAddress{caller}
}

// ValidateBasic implements sdk.Msg
func (m *MsgDepositAssets) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Caller); err != nil {
		return ErrZeroAddress.Wrapf("invalid caller address: %s", err)
	}
	return nil
}

// MsgMintShares is the generic share-minting entry point. Permanently
// disabled like MsgDepositAssets.
type MsgMintShares struct {
	Caller   string   `json:"caller"`
	VaultId  uint64   `json:"vault_id"`
	Shares   math.Int `json:"shares"`
	Receiver string   `json:"receiver"`
}

// MsgMintSharesResponse is never returned; the operation always fails
type MsgMintSharesResponse struct{}

func (m *MsgMintShares) Reset()         { *m = MsgMintShares{} }
func (m *MsgMintShares) String() string { return fmt.Sprintf("MsgMintShares{vault %d}", m.VaultId) }
func (*MsgMintShares) ProtoMessage()    {}

func (m *MsgMintSharesResponse) Reset()         { *m = MsgMintSharesResponse{} }
func (m *MsgMintSharesResponse) String() string { return "MsgMintSharesResponse{}" }
func (*MsgMintSharesResponse) ProtoMessage()    {}

// Route implements sdk.Msg
func (m *MsgMintShares) Route() string { return RouterKey }

// Type implements sdk.Msg
func (m *MsgMintShares) Type() string { return TypeMsgMintShares }

// GetSigners implements sdk.Msg
// Assumes address is valid (validated in ValidateBasic)
func (m *MsgMintShares) GetSigners() []sdk.AccAddress {
	caller, _ := sdk.AccAddressFromBech32(m.Caller)
	return []sdk.AccAddress{caller}
}

// ValidateBasic implements sdk.Msg
func (m *MsgMintShares) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(m.Caller); err != nil {
		return ErrZeroAddress.Wrapf("invalid caller address: %s", err)
	}
	return nil
}
