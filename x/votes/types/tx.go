package types

import "context"

// MsgVoteResponse defines the response for MsgVote
type MsgVoteResponse struct {
	Success   bool   `json:"success"`
	NextNonce uint64 `json:"next_nonce"`
}

// MsgVoteDirectResponse defines the response for MsgVoteDirect
type MsgVoteDirectResponse struct {
	Success   bool   `json:"success"`
	NextNonce uint64 `json:"next_nonce"`
}

// MsgSetReactorKeysResponse defines the response for MsgSetReactorKeys
type MsgSetReactorKeysResponse struct {
	Success bool `json:"success"`
}

// MsgSetVoteMultipliersResponse defines the response for MsgSetVoteMultipliers
type MsgSetVoteMultipliersResponse struct {
	Success bool `json:"success"`
}

// MsgSetSigningChainIDResponse defines the response for MsgSetSigningChainID
type MsgSetSigningChainIDResponse struct {
	Success bool `json:"success"`
}

// MsgSetProxySubmittersResponse defines the response for MsgSetProxySubmitters
type MsgSetProxySubmittersResponse struct {
	Success bool `json:"success"`
}

// MsgSetProxyRateLimitResponse defines the response for MsgSetProxyRateLimit
type MsgSetProxyRateLimitResponse struct {
	Success bool `json:"success"`
}

// MsgSetBalanceTrackerResponse defines the response for MsgSetBalanceTracker
type MsgSetBalanceTrackerResponse struct {
	Success bool `json:"success"`
}

// MsgSetPausedResponse defines the response for MsgSetPaused
type MsgSetPausedResponse struct {
	Success bool `json:"success"`
}

// MsgServer defines the msg service for the votes module
type MsgServer interface {
	Vote(ctx context.Context, msg *MsgVote) (*MsgVoteResponse, error)
	VoteDirect(ctx context.Context, msg *MsgVoteDirect) (*MsgVoteDirectResponse, error)
	SetReactorKeys(ctx context.Context, msg *MsgSetReactorKeys) (*MsgSetReactorKeysResponse, error)
	SetVoteMultipliers(ctx context.Context, msg *MsgSetVoteMultipliers) (*MsgSetVoteMultipliersResponse, error)
	SetSigningChainID(ctx context.Context, msg *MsgSetSigningChainID) (*MsgSetSigningChainIDResponse, error)
	SetProxySubmitters(ctx context.Context, msg *MsgSetProxySubmitters) (*MsgSetProxySubmittersResponse, error)
	SetProxyRateLimit(ctx context.Context, msg *MsgSetProxyRateLimit) (*MsgSetProxyRateLimitResponse, error)
	SetBalanceTracker(ctx context.Context, msg *MsgSetBalanceTracker) (*MsgSetBalanceTrackerResponse, error)
	SetPaused(ctx context.Context, msg *MsgSetPaused) (*MsgSetPausedResponse, error)
}

// Placeholder for protobuf service descriptor
// In a real implementation, this would be generated from .proto files
var _Msg_serviceDesc = struct{}{}
