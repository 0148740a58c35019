package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	votestypes "github.com/govbridge/cosmos/x/votes/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
// for the provided Keeper.
func NewMsgServerImpl(keeper Keeper) votestypes.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ votestypes.MsgServer = msgServer{}

// Vote handles MsgVote messages
func (k msgServer) Vote(goCtx context.Context, msg *votestypes.MsgVote) (*votestypes.MsgVoteResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	payload := wirePayload(msg.Account, msg.SessionKey, msg.Nonce, msg.TotalVotes, msg.Allocations)
	signature, err := hexutil.Decode(msg.Signature)
	if err != nil {
		return nil, votestypes.ErrInvalidSignature.Wrap(err.Error())
	}

	if err := k.Keeper.Vote(ctx, common.HexToAddress(msg.Submitter), payload, signature); err != nil {
		return nil, err
	}

	return &votestypes.MsgVoteResponse{Success: true, NextNonce: msg.Nonce + 1}, nil
}

// VoteDirect handles MsgVoteDirect messages
func (k msgServer) VoteDirect(goCtx context.Context, msg *votestypes.MsgVoteDirect) (*votestypes.MsgVoteDirectResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	payload := wirePayload(msg.Account, msg.SessionKey, msg.Nonce, msg.TotalVotes, msg.Allocations)
	if err := k.Keeper.VoteDirect(ctx, common.HexToAddress(msg.Submitter), payload); err != nil {
		return nil, err
	}

	return &votestypes.MsgVoteDirectResponse{Success: true, NextNonce: msg.Nonce + 1}, nil
}

// SetReactorKeys handles MsgSetReactorKeys messages
func (k msgServer) SetReactorKeys(goCtx context.Context, msg *votestypes.MsgSetReactorKeys) (*votestypes.MsgSetReactorKeysResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	add := make([]votestypes.ReactorKeyInfo, 0, len(msg.Add))
	for _, entry := range msg.Add {
		add = append(add, votestypes.ReactorKeyInfo{
			Key:   common.HexToHash(entry.Key),
			Token: common.HexToAddress(entry.Token),
		})
	}
	remove := make([]common.Hash, 0, len(msg.Remove))
	for _, key := range msg.Remove {
		remove = append(remove, common.HexToHash(key))
	}

	if err := k.Keeper.SetReactorKeys(ctx, msg.Authority, add, remove); err != nil {
		return nil, err
	}

	return &votestypes.MsgSetReactorKeysResponse{Success: true}, nil
}

// SetVoteMultipliers handles MsgSetVoteMultipliers messages
func (k msgServer) SetVoteMultipliers(goCtx context.Context, msg *votestypes.MsgSetVoteMultipliers) (*votestypes.MsgSetVoteMultipliersResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	entries := make([]votestypes.MultiplierEntry, 0, len(msg.Entries))
	for _, entry := range msg.Entries {
		entries = append(entries, votestypes.MultiplierEntry{
			Token:      common.HexToAddress(entry.Token),
			Multiplier: entry.Multiplier,
		})
	}

	if err := k.Keeper.SetVoteMultipliers(ctx, msg.Authority, entries); err != nil {
		return nil, err
	}

	return &votestypes.MsgSetVoteMultipliersResponse{Success: true}, nil
}

// SetSigningChainID handles MsgSetSigningChainID messages
func (k msgServer) SetSigningChainID(goCtx context.Context, msg *votestypes.MsgSetSigningChainID) (*votestypes.MsgSetSigningChainIDResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.SetSigningChainID(ctx, msg.Authority, msg.ChainID); err != nil {
		return nil, err
	}

	return &votestypes.MsgSetSigningChainIDResponse{Success: true}, nil
}

// SetProxySubmitters handles MsgSetProxySubmitters messages
func (k msgServer) SetProxySubmitters(goCtx context.Context, msg *votestypes.MsgSetProxySubmitters) (*votestypes.MsgSetProxySubmittersResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	submitters := make(map[common.Address]votestypes.ProxySubmitter, len(msg.Submitters))
	for _, sub := range msg.Submitters {
		submitters[common.HexToAddress(sub.Address)] = votestypes.ProxySubmitter{
			Enabled:        sub.Enabled,
			SigningChainID: sub.SigningChainID,
		}
	}

	if err := k.Keeper.SetProxySubmitters(ctx, msg.Authority, submitters); err != nil {
		return nil, err
	}

	return &votestypes.MsgSetProxySubmittersResponse{Success: true}, nil
}

// SetProxyRateLimit handles MsgSetProxyRateLimit messages
func (k msgServer) SetProxyRateLimit(goCtx context.Context, msg *votestypes.MsgSetProxyRateLimit) (*votestypes.MsgSetProxyRateLimitResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.SetProxyRateLimit(ctx, msg.Authority, msg.MinHeightGap); err != nil {
		return nil, err
	}

	return &votestypes.MsgSetProxyRateLimitResponse{Success: true}, nil
}

// SetBalanceTracker handles MsgSetBalanceTracker messages
func (k msgServer) SetBalanceTracker(goCtx context.Context, msg *votestypes.MsgSetBalanceTracker) (*votestypes.MsgSetBalanceTrackerResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.SetBalanceTracker(ctx, msg.Authority, common.HexToAddress(msg.Address)); err != nil {
		return nil, err
	}

	return &votestypes.MsgSetBalanceTrackerResponse{Success: true}, nil
}

// SetPaused handles MsgSetPaused messages
func (k msgServer) SetPaused(goCtx context.Context, msg *votestypes.MsgSetPaused) (*votestypes.MsgSetPausedResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := k.Keeper.SetPaused(ctx, msg.Authority, msg.Paused); err != nil {
		return nil, err
	}

	return &votestypes.MsgSetPausedResponse{Success: true}, nil
}

func wirePayload(account, sessionKey string, nonce uint64, total math.Int, allocations []votestypes.AllocationEntry) votestypes.VotePayload {
	payload := votestypes.VotePayload{
		Account:    common.HexToAddress(account),
		SessionKey: common.HexToHash(sessionKey),
		Nonce:      nonce,
		TotalVotes: total,
	}
	for _, alloc := range allocations {
		payload.Allocations = append(payload.Allocations, votestypes.VoteAllocation{
			ReactorKey: common.HexToHash(alloc.ReactorKey),
			Amount:     alloc.Amount,
		})
	}
	return payload
}
