package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName defines the module name
	ModuleName = "balances"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Store key prefixes
var (
	// BalanceKeyPrefix is the prefix for per-(account, token) balance records
	BalanceKeyPrefix = []byte{0x01}

	// DelegationKeyPrefix maps a delegator to its delegatee
	DelegationKeyPrefix = []byte{0x02}

	// InboundDelegationKeyPrefix maps a delegatee to its single delegator
	InboundDelegationKeyPrefix = []byte{0x03}

	// TokenStatusKeyPrefix is the prefix for per-token status flags
	TokenStatusKeyPrefix = []byte{0x04}

	// TokenListKey holds the dense array of supported tokens for iteration
	TokenListKey = []byte{0x05}

	// TokenIndexKeyPrefix maps a token to its position in the dense array
	TokenIndexKeyPrefix = []byte{0x06}

	// TotalBalanceKeyPrefix is the prefix for per-token running totals
	TotalBalanceKeyPrefix = []byte{0x07}
)

// Token status values. A removed token can never become active again.
const (
	TokenStatusActive  = byte(0x01)
	TokenStatusRemoved = byte(0x02)
)

// GetBalanceKey returns the store key for an account's balance of one token
func GetBalanceKey(account, token common.Address) []byte {
	key := append(BalanceKeyPrefix, account.Bytes()...)
	return append(key, token.Bytes()...)
}

// GetDelegationKey returns the store key holding an account's delegatee
func GetDelegationKey(delegator common.Address) []byte {
	return append(DelegationKeyPrefix, delegator.Bytes()...)
}

// GetInboundDelegationKey returns the store key holding a delegatee's delegator
func GetInboundDelegationKey(delegatee common.Address) []byte {
	return append(InboundDelegationKeyPrefix, delegatee.Bytes()...)
}

// GetTokenStatusKey returns the store key for a token's status flag
func GetTokenStatusKey(token common.Address) []byte {
	return append(TokenStatusKeyPrefix, token.Bytes()...)
}

// GetTokenIndexKey returns the store key for a token's dense-array index
func GetTokenIndexKey(token common.Address) []byte {
	return append(TokenIndexKeyPrefix, token.Bytes()...)
}

// GetTotalBalanceKey returns the store key for a token's running total
func GetTotalBalanceKey(token common.Address) []byte {
	return append(TotalBalanceKeyPrefix, token.Bytes()...)
}
