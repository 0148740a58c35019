package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the necessary x/relay interfaces and concrete types
// on the provided LegacyAmino codec. These types are used for Amino JSON serialization.
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgRegisterSender{}, "relay/MsgRegisterSender", nil)
	cdc.RegisterConcrete(&MsgRegisterDestinations{}, "relay/MsgRegisterDestinations", nil)
	cdc.RegisterConcrete(&MsgUnregisterDestination{}, "relay/MsgUnregisterDestination", nil)
	cdc.RegisterConcrete(&MsgSetTrustedSource{}, "relay/MsgSetTrustedSource", nil)
	cdc.RegisterConcrete(&MsgDeliver{}, "relay/MsgDeliver", nil)
}

// RegisterInterfaces registers the x/relay interfaces types with the interface registry
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgRegisterSender{},
		&MsgRegisterDestinations{},
		&MsgUnregisterDestination{},
		&MsgSetTrustedSource{},
		&MsgDeliver{},
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
