package types

import "context"

// MsgRegisterSenderResponse defines the response for MsgRegisterSender
type MsgRegisterSenderResponse struct {
	Success bool `json:"success"`
}

// MsgRegisterDestinationsResponse defines the response for MsgRegisterDestinations
type MsgRegisterDestinationsResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// MsgUnregisterDestinationResponse defines the response for MsgUnregisterDestination
type MsgUnregisterDestinationResponse struct {
	Success bool `json:"success"`
}

// MsgSetTrustedSourceResponse defines the response for MsgSetTrustedSource
type MsgSetTrustedSourceResponse struct {
	Success bool `json:"success"`
}

// MsgDeliverResponse defines the response for MsgDeliver
type MsgDeliverResponse struct {
	Success  bool   `json:"success"`
	Sequence uint64 `json:"sequence"`
}

// MsgServer defines the msg service for the relay module
type MsgServer interface {
	RegisterSender(ctx context.Context, msg *MsgRegisterSender) (*MsgRegisterSenderResponse, error)
	RegisterDestinations(ctx context.Context, msg *MsgRegisterDestinations) (*MsgRegisterDestinationsResponse, error)
	UnregisterDestination(ctx context.Context, msg *MsgUnregisterDestination) (*MsgUnregisterDestinationResponse, error)
	SetTrustedSource(ctx context.Context, msg *MsgSetTrustedSource) (*MsgSetTrustedSourceResponse, error)
	Deliver(ctx context.Context, msg *MsgDeliver) (*MsgDeliverResponse, error)
}

// Placeholder for protobuf service descriptor
// In a real implementation, this would be generated from .proto files
var _Msg_serviceDesc = struct{}{}
