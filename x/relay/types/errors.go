package types

import (
	"cosmossdk.io/errors"
)

// x/relay module sentinel errors
var (
	ErrZeroSender           = errors.Register(ModuleName, 1, "sender identifier cannot be zero")
	ErrEmptyEventType       = errors.Register(ModuleName, 2, "event type cannot be empty")
	ErrEmptyDestinations    = errors.Register(ModuleName, 3, "destination list cannot be empty")
	ErrZeroDestination      = errors.Register(ModuleName, 4, "destination identifier cannot be zero")
	ErrDestinationNotFound  = errors.Register(ModuleName, 5, "destination not registered")
	ErrStaleSequence        = errors.Register(ModuleName, 6, "sequence not greater than last processed")
	ErrUnknownSender        = errors.Register(ModuleName, 7, "origin sender not registered")
	ErrUntrustedSource      = errors.Register(ModuleName, 8, "caller is not the trusted message source")
	ErrUnroutedDestination  = errors.Register(ModuleName, 9, "destination has no registered receiver")
	ErrInvalidPayload       = errors.Register(ModuleName, 10, "invalid event payload")
	ErrUnauthorized         = errors.Register(ModuleName, 11, "unauthorized operation")
	ErrTrustedSourceNotSet  = errors.Register(ModuleName, 12, "trusted message source not configured")
)
