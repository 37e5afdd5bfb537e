package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/vault/types"
)

// CreateVault validates and stores a new vault with the next id. The bond
// must already exist; its ownership lookup is probed live so a vault can
// never bind to an unissued bond.
func (k Keeper) CreateVault(ctx sdk.Context, vault types.Vault) (uint64, error) {
	if err := vault.Validate(); err != nil {
		return 0, err
	}
	if vault.BondMaturity <= ctx.BlockTime().Unix() {
		return 0, types.ErrInvalidBondMaturity.Wrapf(
			"maturity %d not after current time %d", vault.BondMaturity, ctx.BlockTime().Unix())
	}
	if _, err := k.bondKeeper.OwnerOf(ctx, vault.BondId); err != nil {
		return 0, types.ErrInvalidVault.Wrapf("bond %d ownership lookup failed: %s", vault.BondId, err)
	}
	if _, err := k.pricefeedKeeper.Decimals(ctx, vault.PriceSourceId); err != nil {
		return 0, types.ErrInvalidVault.Wrapf("price source %s: %s", vault.PriceSourceId, err)
	}

	id := k.nextVaultId(ctx)
	vault.Id = id
	if err := k.SetVault(ctx, vault); err != nil {
		return 0, err
	}
	k.setNextVaultId(ctx, id+1)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeVaultCreated,
			sdk.NewAttribute(types.AttributeKeyVaultId, formatUint(id)),
			sdk.NewAttribute(types.AttributeKeyBondId, formatUint(vault.BondId)),
			sdk.NewAttribute(types.AttributeKeyDebtor, vault.Debtor),
		),
	)

	k.Logger(ctx).Info("vault created",
		"vault_id", id,
		"bond_id", vault.BondId,
		"debtor", vault.Debtor,
		"debt_amount", vault.DebtAmount.String(),
	)
	return id, nil
}

// Creditor resolves the vault's current creditor: the live owner of the
// bond. The result is never cached; a bond transfer takes effect on the
// very next call.
func (k Keeper) Creditor(ctx context.Context, vaultId uint64) (sdk.AccAddress, error) {
	vault, err := k.GetVault(ctx, vaultId)
	if err != nil {
		return nil, err
	}
	return k.bondKeeper.OwnerOf(ctx, vault.BondId)
}

// SetFeesBips updates the interest fee skim. Admin only.
func (k Keeper) SetFeesBips(ctx sdk.Context, admin string, vaultId uint64, bips uint32) error {
	vault, err := k.GetVault(ctx, vaultId)
	if err != nil {
		return err
	}
	if vault.Admin != admin {
		return types.ErrUnauthorized.Wrapf("caller %s is not the vault admin", admin)
	}
	if bips > types.MaxFeesBips {
		return types.ErrExcessiveVaultFees.Wrapf("fees %d bips exceed maximum %d", bips, types.MaxFeesBips)
	}

	vault.FeesBips = bips
	if err := k.SetVault(ctx, vault); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesSet,
			sdk.NewAttribute(types.AttributeKeyVaultId, formatUint(vaultId)),
			sdk.NewAttribute(types.AttributeKeyFeesBips, formatUint(uint64(bips))),
		),
	)

	k.Logger(ctx).Info("vault fees updated", "vault_id", vaultId, "fees_bips", bips)
	return nil
}

// SetFeesRecipient updates the fee recipient. Admin only.
func (k Keeper) SetFeesRecipient(ctx sdk.Context, admin string, vaultId uint64, recipient string) error {
	vault, err := k.GetVault(ctx, vaultId)
	if err != nil {
		return err
	}
	if vault.Admin != admin {
		return types.ErrUnauthorized.Wrapf("caller %s is not the vault admin", admin)
	}
	if _, err := sdk.AccAddressFromBech32(recipient); err != nil {
		return types.ErrZeroAddress.Wrapf("invalid fees recipient: %s", err)
	}

	vault.FeesRecipient = recipient
	if err := k.SetVault(ctx, vault); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesRecipientSet,
			sdk.NewAttribute(types.AttributeKeyVaultId, formatUint(vaultId)),
			sdk.NewAttribute(types.AttributeKeyFeesRecipient, recipient),
		),
	)

	k.Logger(ctx).Info("vault fees recipient updated", "vault_id", vaultId, "recipient", recipient)
	return nil
}
