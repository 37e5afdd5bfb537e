package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/bond/types"
)

// Keeper maintains the bond ownership registry
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper creates a new bond Keeper instance
func NewKeeper(key storetypes.StoreKey) *Keeper {
	return &Keeper{storeKey: key}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the bond module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetBond retrieves a bond by id
func (k Keeper) GetBond(ctx context.Context, id uint64) (types.Bond, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetBondKey(id))
	if bz == nil {
		return types.Bond{}, types.ErrBondNotFound.Wrapf("bond %d", id)
	}

	var bond types.Bond
	if err := json.Unmarshal(bz, &bond); err != nil {
		return types.Bond{}, err
	}
	return bond, nil
}

// SetBond stores a bond record
func (k Keeper) SetBond(ctx context.Context, bond types.Bond) error {
	if err := bond.Validate(); err != nil {
		return err
	}
	store := k.getStore(ctx)
	bz, err := json.Marshal(bond)
	if err != nil {
		return err
	}
	store.Set(types.GetBondKey(bond.Id), bz)
	return nil
}

// OwnerOf returns the current owner of a bond. The lookup is always live:
// callers that gate authorization on ownership see transfers immediately.
func (k Keeper) OwnerOf(ctx context.Context, id uint64) (sdk.AccAddress, error) {
	bond, err := k.GetBond(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := sdk.AccAddressFromBech32(bond.Owner)
	if err != nil {
		return nil, types.ErrInvalidAddress.Wrapf("stored owner of bond %d: %s", id, err)
	}
	return owner, nil
}

// IssueBond mints a new bond to owner and returns its id
func (k Keeper) IssueBond(ctx context.Context, issuer, owner sdk.AccAddress) (uint64, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)

	id := k.nextBondId(ctx)
	bond := types.Bond{
		Id:        id,
		Owner:     owner.String(),
		Issuer:    issuer.String(),
		CreatedAt: sdkCtx.BlockTime().Unix(),
	}
	if err := k.SetBond(ctx, bond); err != nil {
		return 0, err
	}
	k.setNextBondId(ctx, id+1)

	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBondIssued,
			sdk.NewAttribute(types.AttributeKeyBondId, fmt.Sprintf("%d", id)),
			sdk.NewAttribute(types.AttributeKeyIssuer, issuer.String()),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
		),
	)

	return id, nil
}

// TransferBond reassigns ownership of a bond. Only the current owner may
// transfer.
func (k Keeper) TransferBond(ctx context.Context, owner, newOwner sdk.AccAddress, id uint64) error {
	bond, err := k.GetBond(ctx, id)
	if err != nil {
		return err
	}
	if bond.Owner != owner.String() {
		return types.ErrNotBondOwner.Wrapf("bond %d is owned by %s", id, bond.Owner)
	}

	bond.Owner = newOwner.String()
	if err := k.SetBond(ctx, bond); err != nil {
		return err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeBondTransferred,
			sdk.NewAttribute(types.AttributeKeyBondId, fmt.Sprintf("%d", id)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeyNewOwner, newOwner.String()),
		),
	)

	return nil
}

// IterateBonds iterates over all bonds in the store
func (k Keeper) IterateBonds(ctx context.Context, cb func(bond types.Bond) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.BondKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var bond types.Bond
		if err := json.Unmarshal(iterator.Value(), &bond); err != nil {
			return err
		}
		if cb(bond) {
			break
		}
	}
	return nil
}

// GetAllBonds returns every issued bond
func (k Keeper) GetAllBonds(ctx context.Context) ([]types.Bond, error) {
	bonds := make([]types.Bond, 0, 16)
	err := k.IterateBonds(ctx, func(bond types.Bond) bool {
		bonds = append(bonds, bond)
		return false
	})
	return bonds, err
}

func (k Keeper) nextBondId(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(types.NextBondIdKey)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setNextBondId(ctx context.Context, id uint64) {
	store := k.getStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	store.Set(types.NextBondIdKey, bz)
}

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) {
	for _, bond := range genState.Bonds {
		if err := k.SetBond(ctx, bond); err != nil {
			panic(fmt.Sprintf("failed to set bond %d: %s", bond.Id, err))
		}
	}
	k.setNextBondId(ctx, genState.NextBondId)
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	bonds, err := k.GetAllBonds(ctx)
	if err != nil {
		panic(fmt.Sprintf("failed to export bonds: %s", err))
	}
	return &types.GenesisState{
		Bonds:      bonds,
		NextBondId: k.nextBondId(ctx),
	}
}
