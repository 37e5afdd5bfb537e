package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterLegacyAminoCodec registers the vault module's concrete types on
// the provided LegacyAmino codec.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateVault{}, "obligo/vault/MsgCreateVault", nil)
	cdc.RegisterConcrete(&MsgDeposit{}, "obligo/vault/MsgDeposit", nil)
	cdc.RegisterConcrete(&MsgWithdraw{}, "obligo/vault/MsgWithdraw", nil)
	cdc.RegisterConcrete(&MsgSetFeesBips{}, "obligo/vault/MsgSetFeesBips", nil)
	cdc.RegisterConcrete(&MsgSetFeesRecipient{}, "obligo/vault/MsgSetFeesRecipient", nil)
	cdc.RegisterConcrete(&MsgDepositAssets{}, "obligo/vault/MsgDepositAssets", nil)
	cdc.RegisterConcrete(&MsgMintShares{}, "obligo/vault/MsgMintShares", nil)
}

// RegisterInterfaces registers the vault module's interface types with the
// interface registry
func RegisterInterfaces(registry codectypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreateVault{},
		&MsgDeposit{},
		&MsgWithdraw{},
		&MsgSetFeesBips{},
		&MsgSetFeesRecipient{},
		&MsgDepositAssets{},
		&MsgMintShares{},
	)
}

var amino = codec.NewLegacyAmino()

func init() {
	RegisterLegacyAminoCodec(amino)
	amino.Seal()
}
