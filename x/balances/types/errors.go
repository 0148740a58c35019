package types

import (
	"cosmossdk.io/errors"
)

// x/balances module sentinel errors
var (
	ErrZeroAccount          = errors.Register(ModuleName, 1, "account identifier cannot be zero")
	ErrUnsupportedToken     = errors.Register(ModuleName, 2, "token is not supported")
	ErrTokenRemoved         = errors.Register(ModuleName, 3, "token was permanently removed")
	ErrTokenAlreadyTracked  = errors.Register(ModuleName, 4, "token is already supported")
	ErrSelfDelegation       = errors.Register(ModuleName, 5, "cannot delegate to self")
	ErrDelegateeDelegates   = errors.Register(ModuleName, 6, "delegatee already delegates elsewhere")
	ErrDelegateeOccupied    = errors.Register(ModuleName, 7, "delegatee already receives a delegation")
	ErrDelegatorReceives    = errors.Register(ModuleName, 8, "delegator currently receives a delegation")
	ErrNegativeAmount       = errors.Register(ModuleName, 9, "amount cannot be negative")
	ErrUnauthorized         = errors.Register(ModuleName, 10, "unauthorized operation")
	ErrUnauthorizedRelay    = errors.Register(ModuleName, 11, "caller is not the authorized relay")
	ErrUnsupportedEvent     = errors.Register(ModuleName, 12, "unsupported event type")
	ErrInvalidPayload       = errors.Register(ModuleName, 13, "invalid event payload")
)
