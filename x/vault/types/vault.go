package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Vault services one bond: it custodies the bond's payment asset and
// enforces the principal/interest protocol. Immutable fields are set at
// construction; only principalPaid, principalRepaid, feesBips and
// feesRecipient change afterwards, each through its dedicated operation.
type Vault struct {
	Id              uint64   `json:"id"`
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

// Validate checks the vault's construction constraints.
func (v Vault) Validate() error {
	if _, err := sdk.AccAddressFromBech32(v.Admin); err != nil {
		return ErrZeroAddress.Wrapf("invalid admin address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(v.Debtor); err != nil {
		return ErrZeroAddress.Wrapf("invalid debtor address: %s", err)
	}
	if _, err := sdk.AccAddressFromBech32(v.FeesRecipient); err != nil {
		return ErrZeroAddress.Wrapf("invalid fees recipient address: %s", err)
	}
	if v.AssetDenom == "" {
		return ErrInvalidVault.Wrap("asset denom cannot be empty")
	}
	if err := sdk.ValidateDenom(v.AssetDenom); err != nil {
		return ErrInvalidVault.Wrapf("invalid asset denom: %s", err)
	}
	if v.DebtAmount.IsNil() || !v.DebtAmount.IsPositive() {
		return ErrZeroAmount.Wrap("debt amount must be positive")
	}
	if v.FeesBips > MaxFeesBips {
		return ErrExcessiveVaultFees.Wrapf("fees %d bips exceed maximum %d", v.FeesBips, MaxFeesBips)
	}
	if v.PriceSourceId == "" {
		return ErrInvalidVault.Wrap("price source cannot be empty")
	}
	if v.PrincipalRepaid.IsNil() || v.PrincipalRepaid.IsNegative() {
		return ErrInvalidVault.Wrap("principal repaid cannot be negative")
	}
	if v.PrincipalRepaid.GT(v.DebtAmount) {
		return ErrInvalidVault.Wrap("principal repaid cannot exceed debt amount")
	}
	if !v.PrincipalPaid && !v.PrincipalRepaid.IsZero() {
		return ErrInvalidVault.Wrap("principal repaid requires principal paid")
	}
	return nil
}
