package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	relaytypes "github.com/govbridge/cosmos/x/relay/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
// for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) relaytypes.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ relaytypes.MsgServer = msgServer{}

// RegisterSender handles MsgRegisterSender messages
func (k msgServer) RegisterSender(goCtx context.Context, msg *relaytypes.MsgRegisterSender) (*relaytypes.MsgRegisterSenderResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.RegisterSender(ctx, msg.Authority, common.HexToAddress(msg.Sender), msg.Enabled); err != nil {
		return nil, err
	}

	return &relaytypes.MsgRegisterSenderResponse{Success: true}, nil
}

// RegisterDestinations handles MsgRegisterDestinations messages
func (k msgServer) RegisterDestinations(goCtx context.Context, msg *relaytypes.MsgRegisterDestinations) (*relaytypes.MsgRegisterDestinationsResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	regs := make([]relaytypes.Registration, 0, len(msg.Registrations))
	for _, reg := range msg.Registrations {
		dests := make([]common.Address, 0, len(reg.Destinations))
		for _, dest := range reg.Destinations {
			dests = append(dests, common.HexToAddress(dest))
		}
		regs = append(regs, relaytypes.Registration{
			Sender:       common.HexToAddress(reg.Sender),
			EventType:    reg.EventType,
			Destinations: dests,
		})
	}

	if err := k.Keeper.RegisterDestinations(ctx, msg.Authority, regs); err != nil {
		return nil, err
	}

	return &relaytypes.MsgRegisterDestinationsResponse{Success: true, Count: len(regs)}, nil
}

// UnregisterDestination handles MsgUnregisterDestination messages
func (k msgServer) UnregisterDestination(goCtx context.Context, msg *relaytypes.MsgUnregisterDestination) (*relaytypes.MsgUnregisterDestinationResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	err := k.Keeper.UnregisterDestination(ctx, msg.Authority, common.HexToAddress(msg.Sender), common.HexToAddress(msg.Destination), msg.EventType)
	if err != nil {
		return nil, err
	}

	return &relaytypes.MsgUnregisterDestinationResponse{Success: true}, nil
}

// SetTrustedSource handles MsgSetTrustedSource messages
func (k msgServer) SetTrustedSource(goCtx context.Context, msg *relaytypes.MsgSetTrustedSource) (*relaytypes.MsgSetTrustedSourceResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.SetTrustedSource(ctx, msg.Authority, common.HexToAddress(msg.Source)); err != nil {
		return nil, err
	}

	return &relaytypes.MsgSetTrustedSourceResponse{Success: true}, nil
}

// Deliver handles MsgDeliver messages
func (k msgServer) Deliver(goCtx context.Context, msg *relaytypes.MsgDeliver) (*relaytypes.MsgDeliverResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	err := k.Keeper.Deliver(ctx, common.HexToAddress(msg.Submitter), msg.Sequence, common.HexToAddress(msg.OriginSender), msg.Payload)
	if err != nil {
		return nil, err
	}

	return &relaytypes.MsgDeliverResponse{Success: true, Sequence: msg.Sequence}, nil
}
