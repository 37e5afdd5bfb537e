package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/obligo-chain/obligo/x/vault/types"
)

// Deposit is the single priced inflow path. Depending on the caller and the
// principal flag it funds the principal (creditor), repays it (debtor) or
// pays interest (debtor). Shares are credited at 1:1 with the assets
// pulled; every failure aborts the whole operation with no partial state.
func (k Keeper) Deposit(
	ctx sdk.Context,
	caller string,
	vaultId uint64,
	maxAssets math.Int,
	targetValue math.Int,
	principal bool,
) (sharesMinted math.Int, assetsUsed math.Int, err error) {
	vault, err := k.GetVault(ctx, vaultId)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	callerAddr, err := sdk.AccAddressFromBech32(caller)
	if err != nil {
		return math.Int{}, math.Int{}, types.ErrZeroAddress.Wrapf("invalid caller address: %s", err)
	}
	if targetValue.IsNil() || !targetValue.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrZeroAmount.Wrap("target value must be positive")
	}

	// Live creditor lookup on every call; a bond transfer between deposits
	// redirects authorization and share credits immediately.
	creditorAddr, err := k.bondKeeper.OwnerOf(ctx, vault.BondId)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	creditor := creditorAddr.String()

	requiredAssets, err := k.requiredAssets(ctx, vault, targetValue)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if requiredAssets.GT(maxAssets) {
		return math.Int{}, math.Int{}, types.ErrInsufficientAssets.Wrapf(
			"required %s exceeds max %s", requiredAssets, maxAssets)
	}

	// Recipients and state changes resolve before any asset moves.
	type credit struct {
		addr   string
		shares math.Int
	}
	var credits []credit
	var eventType string
	var paymentKind string

	if principal {
		switch caller {
		case creditor:
			if !targetValue.Equal(vault.DebtAmount) {
				return math.Int{}, math.Int{}, types.ErrInvalidPrincipalAmount.Wrapf(
					"principal funding must target the full debt %s, got %s", vault.DebtAmount, targetValue)
			}
			if vault.PrincipalPaid {
				return math.Int{}, math.Int{}, types.ErrPrincipalAlreadyPaid
			}
			vault.PrincipalPaid = true
			credits = []credit{{vault.Debtor, requiredAssets}}
			eventType = types.EventTypePrincipalPaid
			paymentKind = "principal_paid"

		case vault.Debtor:
			if !vault.PrincipalPaid {
				return math.Int{}, math.Int{}, types.ErrPrincipalNotPaid
			}
			outstanding := vault.DebtAmount.Sub(vault.PrincipalRepaid)
			if targetValue.GT(outstanding) {
				return math.Int{}, math.Int{}, types.ErrInvalidPrincipalAmount.Wrapf(
					"repayment %s exceeds outstanding principal %s", targetValue, outstanding)
			}
			vault.PrincipalRepaid = vault.PrincipalRepaid.Add(targetValue)
			credits = []credit{{creditor, requiredAssets}}
			eventType = types.EventTypePrincipalRepaid
			paymentKind = "principal_repaid"

		default:
			return math.Int{}, math.Int{}, types.ErrOnlyDebtorOrCreditor
		}
	} else {
		if caller != vault.Debtor {
			return math.Int{}, math.Int{}, types.ErrOnlyDebtor
		}
		fees := requiredAssets.MulRaw(int64(vault.FeesBips)).QuoRaw(int64(types.FeeDivisor))
		net := requiredAssets.Sub(fees)
		credits = []credit{{vault.FeesRecipient, fees}, {creditor, net}}
		eventType = types.EventTypeInterestPaid
		paymentKind = "interest_paid"
	}

	if err := k.SetVault(ctx, vault); err != nil {
		return math.Int{}, math.Int{}, err
	}

	// Pull the assets into custody before crediting shares.
	coins := sdk.NewCoins(sdk.NewCoin(vault.AssetDenom, requiredAssets))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, callerAddr, types.ModuleName, coins); err != nil {
		return math.Int{}, math.Int{}, err
	}

	minted := math.ZeroInt()
	for _, c := range credits {
		if err := k.mintShares(ctx, vaultId, c.addr, c.shares); err != nil {
			return math.Int{}, math.Int{}, err
		}
		minted = minted.Add(c.shares)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(types.AttributeKeyVaultId, formatUint(vaultId)),
			sdk.NewAttribute(types.AttributeKeyAssets, requiredAssets.String()),
			sdk.NewAttribute(types.AttributeKeyValue, targetValue.String()),
			sdk.NewAttribute(types.AttributeKeyCreditor, creditor),
			sdk.NewAttribute(types.AttributeKeyDebtor, vault.Debtor),
		),
	)

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "deposit"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("kind", paymentKind),
			telemetry.NewLabel("denom", vault.AssetDenom),
		},
	)

	k.Logger(ctx).Info("deposit processed",
		"vault_id", vaultId,
		"kind", paymentKind,
		"assets", requiredAssets.String(),
		"value", targetValue.String(),
		"caller", caller,
	)
	return minted, requiredAssets, nil
}

// requiredAssets converts a value amount into asset units at the latest
// oracle price: targetValue * 10^assetDecimals / price, floored.
func (k Keeper) requiredAssets(ctx sdk.Context, vault types.Vault, targetValue math.Int) (math.Int, error) {
	round, _, err := k.pricefeedKeeper.LatestRoundData(ctx, vault.PriceSourceId)
	if err != nil {
		return math.Int{}, err
	}

	age := ctx.BlockTime().Unix() - round.UpdatedAt
	if age > types.PriceStalenessSeconds {
		return math.Int{}, types.ErrStalePrice.Wrapf(
			"round %s updated %d seconds ago, limit %d", round.RoundId, age, types.PriceStalenessSeconds)
	}
	if round.Answer.IsNil() || !round.Answer.IsPositive() {
		return math.Int{}, types.ErrInvalidPriceValue.Wrapf("price %s", round.Answer)
	}

	scale := math.NewIntWithDecimal(1, int(vault.AssetDecimals))
	return targetValue.Mul(scale).Quo(round.Answer), nil
}

// Withdraw redeems shares 1:1 for custodied assets. Only the share balance
// gates it; all financial access control happened at mint time.
func (k Keeper) Withdraw(ctx sdk.Context, owner string, vaultId uint64, assets math.Int, receiver string) error {
	vault, err := k.GetVault(ctx, vaultId)
	if err != nil {
		return err
	}

	receiverAddr, err := sdk.AccAddressFromBech32(receiver)
	if err != nil {
		return types.ErrZeroAddress.Wrapf("invalid receiver address: %s", err)
	}
	if assets.IsNil() || !assets.IsPositive() {
		return types.ErrZeroAmount.Wrap("withdrawal amount must be positive")
	}

	if err := k.burnShares(ctx, vaultId, owner, assets); err != nil {
		return err
	}

	coins := sdk.NewCoins(sdk.NewCoin(vault.AssetDenom, assets))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, receiverAddr, coins); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeWithdraw,
			sdk.NewAttribute(types.AttributeKeyVaultId, formatUint(vaultId)),
			sdk.NewAttribute(types.AttributeKeyAssets, assets.String()),
			sdk.NewAttribute(types.AttributeKeyOwner, owner),
			sdk.NewAttribute(types.AttributeKeyReceiver, receiver),
		),
	)

	k.Logger(ctx).Info("withdrawal processed",
		"vault_id", vaultId,
		"assets", assets.String(),
		"owner", owner,
		"receiver", receiver,
	)
	return nil
}

func formatUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
