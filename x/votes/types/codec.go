package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the necessary x/votes interfaces and concrete types
// on the provided LegacyAmino codec. These types are used for Amino JSON serialization.
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgVote{}, "votes/MsgVote", nil)
	cdc.RegisterConcrete(&MsgVoteDirect{}, "votes/MsgVoteDirect", nil)
	cdc.RegisterConcrete(&MsgSetReactorKeys{}, "votes/MsgSetReactorKeys", nil)
	cdc.RegisterConcrete(&MsgSetVoteMultipliers{}, "votes/MsgSetVoteMultipliers", nil)
	cdc.RegisterConcrete(&MsgSetSigningChainID{}, "votes/MsgSetSigningChainID", nil)
	cdc.RegisterConcrete(&MsgSetProxySubmitters{}, "votes/MsgSetProxySubmitters", nil)
	cdc.RegisterConcrete(&MsgSetProxyRateLimit{}, "votes/MsgSetProxyRateLimit", nil)
	cdc.RegisterConcrete(&MsgSetBalanceTracker{}, "votes/MsgSetBalanceTracker", nil)
	cdc.RegisterConcrete(&MsgSetPaused{}, "votes/MsgSetPaused", nil)
}

// RegisterInterfaces registers the x/votes interfaces types with the interface registry
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgVote{},
		&MsgVoteDirect{},
		&MsgSetReactorKeys{},
		&MsgSetVoteMultipliers{},
		&MsgSetSigningChainID{},
		&MsgSetProxySubmitters{},
		&MsgSetProxyRateLimit{},
		&MsgSetBalanceTracker{},
		&MsgSetPaused{},
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
