package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/obligo-chain/obligo/x/vault/types"
)

// Keeper maintains the vault module's state: vault records and the share
// ledger. Custodied assets live in the module account; shares are pure
// store-side bookkeeping at a fixed 1:1 exchange rate with assets.
type Keeper struct {
	storeKey        storetypes.StoreKey
	bankKeeper      types.BankKeeper
	bondKeeper      types.BondKeeper
	pricefeedKeeper types.PricefeedKeeper
	accountKeeper   types.AccountKeeper
}

// NewKeeper creates a new vault Keeper instance
func NewKeeper(
	key storetypes.StoreKey,
	bankKeeper types.BankKeeper,
	bondKeeper types.BondKeeper,
	pricefeedKeeper types.PricefeedKeeper,
	accountKeeper types.AccountKeeper,
) *Keeper {
	return &Keeper{
		storeKey:        key,
		bankKeeper:      bankKeeper,
		bondKeeper:      bondKeeper,
		pricefeedKeeper: pricefeedKeeper,
		accountKeeper:   accountKeeper,
	}
}

// Logger returns a module-specific logger
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// GetModuleAddress returns the vault custody account address
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return k.accountKeeper.GetModuleAddress(types.ModuleName)
}

func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// GetVault retrieves a vault record by id
func (k Keeper) GetVault(ctx context.Context, id uint64) (types.Vault, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.GetVaultKey(id))
	if bz == nil {
		return types.Vault{}, types.ErrVaultNotFound.Wrapf("vault %d", id)
	}

	var vault types.Vault
	if err := json.Unmarshal(bz, &vault); err != nil {
		return types.Vault{}, types.ErrInvalidVault.Wrapf("corrupted vault record: %s", err)
	}
	return vault, nil
}

// SetVault stores a vault record
func (k Keeper) SetVault(ctx context.Context, vault types.Vault) error {
	if err := vault.Validate(); err != nil {
		return err
	}

	bz, err := json.Marshal(vault)
	if err != nil {
		return types.ErrInvalidVault.Wrapf("failed to marshal vault: %s", err)
	}

	store := k.getStore(ctx)
	store.Set(types.GetVaultKey(vault.Id), bz)
	return nil
}

// IterateVaults walks all stored vaults, stopping when cb returns true
func (k Keeper) IterateVaults(ctx context.Context, cb func(types.Vault) bool) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, types.VaultKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var vault types.Vault
		if err := json.Unmarshal(iterator.Value(), &vault); err != nil {
			return types.ErrInvalidVault.Wrapf("corrupted vault record: %s", err)
		}
		if cb(vault) {
			break
		}
	}
	return nil
}

// GetAllVaults returns every stored vault in id order
func (k Keeper) GetAllVaults(ctx context.Context) ([]types.Vault, error) {
	var vaults []types.Vault
	err := k.IterateVaults(ctx, func(vault types.Vault) bool {
		vaults = append(vaults, vault)
		return false
	})
	return vaults, err
}

// GetShares returns a holder's share balance in a vault
func (k Keeper) GetShares(ctx context.Context, vaultId uint64, addr string) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(types.GetShareKey(vaultId, addr))
	if bz == nil {
		return math.ZeroInt()
	}

	var shares math.Int
	if err := shares.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return shares
}

// setShares writes a holder's share balance; zero balances are deleted
func (k Keeper) setShares(ctx context.Context, vaultId uint64, addr string, shares math.Int) error {
	store := k.getStore(ctx)
	key := types.GetShareKey(vaultId, addr)

	if shares.IsZero() {
		store.Delete(key)
		return nil
	}

	bz, err := shares.Marshal()
	if err != nil {
		return types.ErrInvalidVault.Wrapf("failed to marshal shares: %s", err)
	}
	store.Set(key, bz)
	return nil
}

// GetTotalShares returns a vault's total share supply
func (k Keeper) GetTotalShares(ctx context.Context, vaultId uint64) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(types.GetTotalSharesKey(vaultId))
	if bz == nil {
		return math.ZeroInt()
	}

	var total math.Int
	if err := total.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return total
}

func (k Keeper) setTotalShares(ctx context.Context, vaultId uint64, total math.Int) error {
	store := k.getStore(ctx)
	key := types.GetTotalSharesKey(vaultId)

	if total.IsZero() {
		store.Delete(key)
		return nil
	}

	bz, err := total.Marshal()
	if err != nil {
		return types.ErrInvalidVault.Wrapf("failed to marshal total shares: %s", err)
	}
	store.Set(key, bz)
	return nil
}

// mintShares credits shares to a holder and grows the vault total
func (k Keeper) mintShares(ctx context.Context, vaultId uint64, addr string, shares math.Int) error {
	if shares.IsZero() {
		return nil
	}
	if err := k.setShares(ctx, vaultId, addr, k.GetShares(ctx, vaultId, addr).Add(shares)); err != nil {
		return err
	}
	return k.setTotalShares(ctx, vaultId, k.GetTotalShares(ctx, vaultId).Add(shares))
}

// burnShares debits shares from a holder and shrinks the vault total
func (k Keeper) burnShares(ctx context.Context, vaultId uint64, addr string, shares math.Int) error {
	balance := k.GetShares(ctx, vaultId, addr)
	if balance.LT(shares) {
		return types.ErrInsufficientShares.Wrapf("balance %s, requested %s", balance, shares)
	}
	if err := k.setShares(ctx, vaultId, addr, balance.Sub(shares)); err != nil {
		return err
	}
	return k.setTotalShares(ctx, vaultId, k.GetTotalShares(ctx, vaultId).Sub(shares))
}

// IterateShares walks a vault's share balances, stopping when cb returns
// true
func (k Keeper) IterateShares(ctx context.Context, vaultId uint64, cb func(addr string, shares math.Int) bool) error {
	store := k.getStore(ctx)
	prefix := types.GetSharesByVaultPrefix(vaultId)
	iterator := storetypes.KVStorePrefixIterator(store, prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		addr := string(iterator.Key()[len(prefix):])
		var shares math.Int
		if err := shares.Unmarshal(iterator.Value()); err != nil {
			return types.ErrInvalidVault.Wrapf("corrupted share record: %s", err)
		}
		if cb(addr, shares) {
			break
		}
	}
	return nil
}

func (k Keeper) nextVaultId(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(types.NextVaultIdKey)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setNextVaultId(ctx context.Context, id uint64) {
	store := k.getStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	store.Set(types.NextVaultIdKey, bz)
}

// InitGenesis initializes the module's state from a provided genesis state.
func (k Keeper) InitGenesis(ctx sdk.Context, genState types.GenesisState) {
	for _, vault := range genState.Vaults {
		if err := k.SetVault(ctx, vault); err != nil {
			panic(fmt.Sprintf("failed to set vault %d: %s", vault.Id, err))
		}
	}
	for _, sb := range genState.ShareBalances {
		if err := k.mintShares(ctx, sb.VaultId, sb.Address, sb.Shares); err != nil {
			panic(fmt.Sprintf("failed to set shares for %s in vault %d: %s", sb.Address, sb.VaultId, err))
		}
	}
	k.setNextVaultId(ctx, genState.NextVaultId)
}

// ExportGenesis returns the module's exported genesis state.
func (k Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	genState := types.GenesisState{
		Vaults:        []types.Vault{},
		ShareBalances: []types.ShareBalance{},
		NextVaultId:   k.nextVaultId(ctx),
	}

	if err := k.IterateVaults(ctx, func(vault types.Vault) bool {
		genState.Vaults = append(genState.Vaults, vault)
		return false
	}); err != nil {
		panic(fmt.Sprintf("failed to export vaults: %s", err))
	}

	for _, vault := range genState.Vaults {
		if err := k.IterateShares(ctx, vault.Id, func(addr string, shares math.Int) bool {
			genState.ShareBalances = append(genState.ShareBalances, types.ShareBalance{
				VaultId: vault.Id,
				Address: addr,
				Shares:  shares,
			})
			return false
		}); err != nil {
			panic(fmt.Sprintf("failed to export shares for vault %d: %s", vault.Id, err))
		}
	}

	return &genState
}
