package types

import (
	"cosmossdk.io/errors"
)

// x/votes module sentinel errors
var (
	ErrPaused             = errors.Register(ModuleName, 1, "vote submission is paused")
	ErrZeroAccount        = errors.Register(ModuleName, 2, "account identifier cannot be zero")
	ErrUnknownReactorKey  = errors.Register(ModuleName, 3, "reactor key is not allowed")
	ErrReactorKeyExists   = errors.Register(ModuleName, 4, "reactor key already allowed")
	ErrSessionKeyMismatch = errors.Register(ModuleName, 5, "vote session key is not active")
	ErrNonceMismatch      = errors.Register(ModuleName, 6, "nonce does not match expected value")
	ErrTotalMismatch      = errors.Register(ModuleName, 7, "declared total does not match allocation sum")
	ErrInsufficientPower  = errors.Register(ModuleName, 8, "allocation exceeds available voting power")
	ErrInvalidSignature   = errors.Register(ModuleName, 9, "signature recovery failed")
	ErrSignerMismatch     = errors.Register(ModuleName, 10, "recovered signer does not match account")
	ErrUnauthorized       = errors.Register(ModuleName, 11, "unauthorized operation")
	ErrUnauthorizedRelay  = errors.Register(ModuleName, 12, "caller is not the authorized relay")
	ErrProxyRateLimited   = errors.Register(ModuleName, 13, "proxy submission below minimum height gap")
	ErrChainIDMismatch    = errors.Register(ModuleName, 14, "payload chain id does not match signing chain id")
	ErrNegativeAmount     = errors.Register(ModuleName, 15, "amount cannot be negative")
	ErrUnsupportedEvent   = errors.Register(ModuleName, 16, "unsupported event type")
	ErrInvalidPayload     = errors.Register(ModuleName, 17, "invalid event payload")
)
