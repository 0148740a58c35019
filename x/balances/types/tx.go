package types

import "context"

// MsgSetBalanceResponse defines the response for MsgSetBalance
type MsgSetBalanceResponse struct {
	Success bool `json:"success"`
	Applied int  `json:"applied"`
}

// MsgAddSupportedTokensResponse defines the response for MsgAddSupportedTokens
type MsgAddSupportedTokensResponse struct {
	Success bool `json:"success"`
}

// MsgRemoveSupportedTokensResponse defines the response for MsgRemoveSupportedTokens
type MsgRemoveSupportedTokensResponse struct {
	Success bool `json:"success"`
}

// MsgServer defines the msg service for the balances module
type MsgServer interface {
	SetBalance(ctx context.Context, msg *MsgSetBalance) (*MsgSetBalanceResponse, error)
	AddSupportedTokens(ctx context.Context, msg *MsgAddSupportedTokens) (*MsgAddSupportedTokensResponse, error)
	RemoveSupportedTokens(ctx context.Context, msg *MsgRemoveSupportedTokens) (*MsgRemoveSupportedTokensResponse, error)
}

// Placeholder for protobuf service descriptor
// In a real implementation, this would be generated from .proto files
var _Msg_serviceDesc = struct{}{}
