package types

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName defines the module name
	ModuleName = "votes"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Store key prefixes
var (
	// ReactorKeyPrefix maps a reactor key to its backing token
	ReactorKeyPrefix = []byte{0x01}

	// ReactorKeyListKey holds the dense array of allowed reactor keys
	ReactorKeyListKey = []byte{0x02}

	// ReactorKeyIndexPrefix maps a reactor key to its dense-array position
	ReactorKeyIndexPrefix = []byte{0x03}

	// VotingTokenListKey holds the ordered voting-token list
	VotingTokenListKey = []byte{0x04}

	// MultiplierKeyPrefix maps a voting token to its power multiplier
	MultiplierKeyPrefix = []byte{0x05}

	// UserVoteInfoKeyPrefix is the prefix for per-account vote detail
	UserVoteInfoKeyPrefix = []byte{0x06}

	// SystemAggregationKeyPrefix maps a reactor key to its system-wide total
	SystemAggregationKeyPrefix = []byte{0x07}

	// NonceKeyPrefix is the prefix for per-account submission nonces
	NonceKeyPrefix = []byte{0x08}

	// SessionKeyKey holds the active vote session key
	SessionKeyKey = []byte{0x09}

	// PausedKey holds the vote-submission pause flag
	PausedKey = []byte{0x0A}

	// SigningChainIDKey holds the chain id used for signature domains
	SigningChainIDKey = []byte{0x0B}

	// ProxySubmitterKeyPrefix is the prefix for proxy submitter records
	ProxySubmitterKeyPrefix = []byte{0x0C}

	// ProxyRateLimitKey holds the minimum height gap between proxy votes
	ProxyRateLimitKey = []byte{0x0D}

	// LastProxyVoteKeyPrefix is the prefix for per-account last proxy-vote heights
	LastProxyVoteKeyPrefix = []byte{0x0E}

	// SnapshotKeyPrefix is the prefix for per-session aggregation snapshots
	SnapshotKeyPrefix = []byte{0x0F}

	// BalanceTrackerKey holds the configured balance tracker identifier
	BalanceTrackerKey = []byte{0x10}
)

// GetReactorKeyKey returns the store key for a reactor key's backing token
func GetReactorKeyKey(key common.Hash) []byte {
	return append(ReactorKeyPrefix, key.Bytes()...)
}

// GetReactorKeyIndexKey returns the store key for a reactor key's dense-array index
func GetReactorKeyIndexKey(key common.Hash) []byte {
	return append(ReactorKeyIndexPrefix, key.Bytes()...)
}

// GetMultiplierKey returns the store key for a voting token's multiplier
func GetMultiplierKey(token common.Address) []byte {
	return append(MultiplierKeyPrefix, token.Bytes()...)
}

// GetUserVoteInfoKey returns the store key for an account's vote detail
func GetUserVoteInfoKey(account common.Address) []byte {
	return append(UserVoteInfoKeyPrefix, account.Bytes()...)
}

// GetSystemAggregationKey returns the store key for a reactor key's total
func GetSystemAggregationKey(key common.Hash) []byte {
	return append(SystemAggregationKeyPrefix, key.Bytes()...)
}

// GetNonceKey returns the store key for an account's nonce
func GetNonceKey(account common.Address) []byte {
	return append(NonceKeyPrefix, account.Bytes()...)
}

// GetProxySubmitterKey returns the store key for a proxy submitter record
func GetProxySubmitterKey(submitter common.Address) []byte {
	return append(ProxySubmitterKeyPrefix, submitter.Bytes()...)
}

// GetLastProxyVoteKey returns the store key for an account's last proxy-vote height
func GetLastProxyVoteKey(account common.Address) []byte {
	return append(LastProxyVoteKeyPrefix, account.Bytes()...)
}

// GetSnapshotKey returns the store key for a session's aggregation snapshot
func GetSnapshotKey(sessionKey common.Hash) []byte {
	return append(SnapshotKeyPrefix, sessionKey.Bytes()...)
}
