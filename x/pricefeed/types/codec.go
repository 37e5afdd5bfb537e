package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterLegacyAminoCodec registers the pricefeed module's concrete types
// on the provided LegacyAmino codec.
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreateFeed{}, "obligo/pricefeed/MsgCreateFeed", nil)
	cdc.RegisterConcrete(&MsgCreateAggregator{}, "obligo/pricefeed/MsgCreateAggregator", nil)
	cdc.RegisterConcrete(&MsgSubmitRound{}, "obligo/pricefeed/MsgSubmitRound", nil)
	cdc.RegisterConcrete(&MsgSendLatestRound{}, "obligo/pricefeed/MsgSendLatestRound", nil)
}

// RegisterInterfaces registers the pricefeed module's interface types with
// the interface registry
func RegisterInterfaces(registry codectypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreateFeed{},
		&MsgCreateAggregator{},
		&MsgSubmitRound{},
		&MsgSendLatestRound{},
	)
}

var amino = codec.NewLegacyAmino()

func init() {
	RegisterLegacyAminoCodec(amino)
	amino.Seal()
}
