package types

import (
	"cosmossdk.io/errors"
)

// Vault module sentinel errors
var (
	// Authorization errors
	ErrOnlyDebtor           = errors.Register(ModuleName, 2, "caller is not the debtor")
	ErrOnlyDebtorOrCreditor = errors.Register(ModuleName, 3, "caller is neither debtor nor creditor")
	ErrUnauthorized         = errors.Register(ModuleName, 4, "caller is not the vault admin")

	// State precondition errors
	ErrPrincipalAlreadyPaid = errors.Register(ModuleName, 10, "principal already paid")
	ErrPrincipalNotPaid     = errors.Register(ModuleName, 11, "principal not paid")

	// Parameter validation errors
	ErrZeroAddress            = errors.Register(ModuleName, 20, "address cannot be empty")
	ErrZeroAmount             = errors.Register(ModuleName, 21, "amount cannot be zero")
	ErrInvalidPrincipalAmount = errors.Register(ModuleName, 22, "invalid principal amount")
	ErrExcessiveVaultFees     = errors.Register(ModuleName, 23, "vault fees exceed maximum")
	ErrInvalidBondMaturity    = errors.Register(ModuleName, 24, "invalid bond maturity")
	ErrInvalidVault           = errors.Register(ModuleName, 25, "invalid vault")
	ErrVaultNotFound          = errors.Register(ModuleName, 26, "vault not found")

	// Oracle integrity errors
	ErrStalePrice        = errors.Register(ModuleName, 30, "price is stale")
	ErrInvalidPriceValue = errors.Register(ModuleName, 31, "invalid price value")

	// Slippage errors
	ErrInsufficientAssets = errors.Register(ModuleName, 40, "required assets exceed the allowed maximum")

	// Disabled entry points
	ErrDepositsDisabled = errors.Register(ModuleName, 50, "generic deposits are disabled, use the priced deposit")

	// Share accounting errors
	ErrInsufficientShares = errors.Register(ModuleName, 60, "insufficient share balance")
)
