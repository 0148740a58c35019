package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	balancestypes "github.com/govbridge/cosmos/x/balances/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
// for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) balancestypes.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ balancestypes.MsgServer = msgServer{}

// SetBalance handles MsgSetBalance messages
func (k msgServer) SetBalance(goCtx context.Context, msg *balancestypes.MsgSetBalance) (*balancestypes.MsgSetBalanceResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	updates := make([]balancestypes.BalanceUpdate, 0, len(msg.Updates))
	for _, entry := range msg.Updates {
		updates = append(updates, balancestypes.BalanceUpdate{
			Account: common.HexToAddress(entry.Account),
			Token:   common.HexToAddress(entry.Token),
			Amount:  entry.Amount,
		})
	}

	applied, err := k.Keeper.SetBalances(ctx, msg.Authority, updates)
	if err != nil {
		return nil, err
	}

	return &balancestypes.MsgSetBalanceResponse{Success: true, Applied: applied}, nil
}

// AddSupportedTokens handles MsgAddSupportedTokens messages
func (k msgServer) AddSupportedTokens(goCtx context.Context, msg *balancestypes.MsgAddSupportedTokens) (*balancestypes.MsgAddSupportedTokensResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.AddSupportedTokens(ctx, msg.Authority, hexAddresses(msg.Tokens)); err != nil {
		return nil, err
	}

	return &balancestypes.MsgAddSupportedTokensResponse{Success: true}, nil
}

// RemoveSupportedTokens handles MsgRemoveSupportedTokens messages
func (k msgServer) RemoveSupportedTokens(goCtx context.Context, msg *balancestypes.MsgRemoveSupportedTokens) (*balancestypes.MsgRemoveSupportedTokensResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.RemoveSupportedTokens(ctx, msg.Authority, hexAddresses(msg.Tokens)); err != nil {
		return nil, err
	}

	return &balancestypes.MsgRemoveSupportedTokensResponse{Success: true}, nil
}

func hexAddresses(hexes []string) []common.Address {
	addrs := make([]common.Address, 0, len(hexes))
	for _, h := range hexes {
		addrs = append(addrs, common.HexToAddress(h))
	}
	return addrs
}
