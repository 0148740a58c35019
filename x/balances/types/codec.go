package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the necessary x/balances interfaces and concrete types
// on the provided LegacyAmino codec. These types are used for Amino JSON serialization.
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgSetBalance{}, "balances/MsgSetBalance", nil)
	cdc.RegisterConcrete(&MsgAddSupportedTokens{}, "balances/MsgAddSupportedTokens", nil)
	cdc.RegisterConcrete(&MsgRemoveSupportedTokens{}, "balances/MsgRemoveSupportedTokens", nil)
}

// RegisterInterfaces registers the x/balances interfaces types with the interface registry
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgSetBalance{},
		&MsgAddSupportedTokens{},
		&MsgRemoveSupportedTokens{},
	)
}

var (
	Amino     = codec.NewLegacyAmino()
	ModuleCdc = codec.NewLegacyAmino()
)

func init() {
	RegisterCodec(Amino)
	Amino.Seal()
}
