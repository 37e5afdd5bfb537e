package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/vault/types"
)

// RegisterInvariants registers all vault invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "principal-accounting", PrincipalAccountingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "share-supply", ShareSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "custody-balance", CustodyBalanceInvariant(k))
}

// AllInvariants runs all invariants of the vault module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := PrincipalAccountingInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = ShareSupplyInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return CustodyBalanceInvariant(k)(ctx)
	}
}

// PrincipalAccountingInvariant checks the principal bookkeeping bounds:
// repaid never exceeds the debt, repayment implies funding happened, and
// fees stay within the cap.
func PrincipalAccountingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		vaults, err := k.GetAllVaults(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "principal-accounting", err.Error()), true
		}

		for _, vault := range vaults {
			if vault.PrincipalRepaid.GT(vault.DebtAmount) {
				count++
				msg += fmt.Sprintf("vault %d: repaid (%s) > debt (%s)\n",
					vault.Id, vault.PrincipalRepaid, vault.DebtAmount)
			}
			if !vault.PrincipalPaid && !vault.PrincipalRepaid.IsZero() {
				count++
				msg += fmt.Sprintf("vault %d: repaid (%s) without principal funding\n",
					vault.Id, vault.PrincipalRepaid)
			}
			if vault.FeesBips > types.MaxFeesBips {
				count++
				msg += fmt.Sprintf("vault %d: fees %d bips exceed maximum %d\n",
					vault.Id, vault.FeesBips, types.MaxFeesBips)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "principal-accounting",
			fmt.Sprintf("found %d vaults with broken principal accounting\n%s", count, msg),
		), broken
	}
}

// ShareSupplyInvariant checks that each vault's total share supply equals
// the sum of its holders' balances.
func ShareSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		vaults, err := k.GetAllVaults(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "share-supply", err.Error()), true
		}

		for _, vault := range vaults {
			sum := math.ZeroInt()
			if err := k.IterateShares(ctx, vault.Id, func(addr string, shares math.Int) bool {
				sum = sum.Add(shares)
				return false
			}); err != nil {
				return sdk.FormatInvariant(types.ModuleName, "share-supply", err.Error()), true
			}

			total := k.GetTotalShares(ctx, vault.Id)
			if !sum.Equal(total) {
				count++
				msg += fmt.Sprintf("vault %d: sum of balances (%s) != total shares (%s)\n",
					vault.Id, sum, total)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "share-supply",
			fmt.Sprintf("found %d vaults with inconsistent share supply\n%s", count, msg),
		), broken
	}
}

// CustodyBalanceInvariant checks that the module account holds at least the
// assets backing each denom's outstanding shares. Multiple vaults can share
// a denom, so balances are summed per denom.
func CustodyBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		vaults, err := k.GetAllVaults(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "custody-balance", err.Error()), true
		}

		required := make(map[string]math.Int)
		for _, vault := range vaults {
			total := k.GetTotalShares(ctx, vault.Id)
			if existing, ok := required[vault.AssetDenom]; ok {
				required[vault.AssetDenom] = existing.Add(total)
			} else {
				required[vault.AssetDenom] = total
			}
		}

		moduleAddr := k.GetModuleAddress()
		for denom, amount := range required {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, denom)
			if balance.Amount.LT(amount) {
				count++
				msg += fmt.Sprintf("denom %s: module balance (%s) < outstanding shares (%s)\n",
					denom, balance.Amount, amount)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "custody-balance",
			fmt.Sprintf("found %d denoms with insufficient custody\n%s", count, msg),
		), broken
	}
}
