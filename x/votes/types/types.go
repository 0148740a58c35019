package types

import (
	"fmt"
	"math/big"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	roottypes "github.com/govbridge/cosmos/types"
)

// ScalingBase is the fixed-point base for vote multipliers: a multiplier of
// 1e18 weighs a token's balance at face value.
var ScalingBase = math.NewIntWithDecimal(1, 18)

// VoteAllocation assigns an amount of voting power to one reactor key.
type VoteAllocation struct {
	ReactorKey common.Hash `json:"reactor_key"`
	Amount     math.Int    `json:"amount"`
}

// VotePayload is one account's full allocation submission. ChainID is part of
// the payload so relay-forwarded votes carry their origin domain with them.
type VotePayload struct {
	Account     common.Address   `json:"account"`
	ChainID     uint64           `json:"chain_id"`
	SessionKey  common.Hash      `json:"session_key"`
	Nonce       uint64           `json:"nonce"`
	TotalVotes  math.Int         `json:"total_votes"`
	Allocations []VoteAllocation `json:"allocations"`
}

// Validate checks payload shape; session, nonce and power checks happen later.
func (p VotePayload) Validate() error {
	if p.Account == (common.Address{}) {
		return ErrZeroAccount
	}
	if p.TotalVotes.IsNil() || p.TotalVotes.IsNegative() {
		return ErrNegativeAmount.Wrap("total votes")
	}
	for i, alloc := range p.Allocations {
		if alloc.Amount.IsNil() || alloc.Amount.IsNegative() {
			return ErrNegativeAmount.Wrapf("allocation %d", i)
		}
	}
	return nil
}

// UserVoteInfo is the stored per-account vote detail. Allocations keep their
// submission order; rescales walk them in that order.
type UserVoteInfo struct {
	TotalUsed      math.Int         `json:"total_used"`
	TotalAvailable math.Int         `json:"total_available"`
	Allocations    []VoteAllocation `json:"allocations"`
}

// NewUserVoteInfo returns an empty vote detail record.
func NewUserVoteInfo() UserVoteInfo {
	return UserVoteInfo{
		TotalUsed:      math.ZeroInt(),
		TotalAvailable: math.ZeroInt(),
	}
}

// AllocationFor returns the account's current amount for one reactor key.
func (info UserVoteInfo) AllocationFor(key common.Hash) math.Int {
	for _, alloc := range info.Allocations {
		if alloc.ReactorKey == key {
			return alloc.Amount
		}
	}
	return math.ZeroInt()
}

// ProxySubmitter is the stored record for one rate-limited relay submitter.
type ProxySubmitter struct {
	Enabled        bool   `json:"enabled"`
	SigningChainID uint64 `json:"signing_chain_id"`
}

// ReactorKeyInfo pairs an allowed reactor key with its backing token.
type ReactorKeyInfo struct {
	Key   common.Hash    `json:"key"`
	Token common.Address `json:"token"`
}

// MultiplierEntry pairs a voting token with its power multiplier.
type MultiplierEntry struct {
	Token      common.Address `json:"token"`
	Multiplier math.Int       `json:"multiplier"`
}

// KeyAmount is one entry of an aggregation snapshot.
type KeyAmount struct {
	Key    common.Hash `json:"key"`
	Amount math.Int    `json:"amount"`
}

// Settings is the read-only settings snapshot returned by the query surface.
type Settings struct {
	SigningChainID uint64         `json:"signing_chain_id"`
	ProxyRateLimit int64          `json:"proxy_rate_limit"`
	Paused         bool           `json:"paused"`
	SessionKey     common.Hash    `json:"session_key"`
	BalanceTracker common.Address `json:"balance_tracker"`
	VotingTokens   []common.Address `json:"voting_tokens"`
}

// EncodeVotePayload encodes a payload into relay event words: account,
// chain id, session key, nonce, total, allocation count, then a (key, amount)
// word pair per allocation.
func EncodeVotePayload(p VotePayload) []byte {
	word := roottypes.WordLength
	out := make([]byte, 0, (6+2*len(p.Allocations))*word)
	out = append(out, common.LeftPadBytes(p.Account.Bytes(), word)...)
	out = append(out, uintWord(p.ChainID)...)
	out = append(out, p.SessionKey.Bytes()...)
	out = append(out, uintWord(p.Nonce)...)
	out = append(out, common.LeftPadBytes(p.TotalVotes.BigInt().Bytes(), word)...)
	out = append(out, uintWord(uint64(len(p.Allocations)))...)
	for _, alloc := range p.Allocations {
		out = append(out, alloc.ReactorKey.Bytes()...)
		out = append(out, common.LeftPadBytes(alloc.Amount.BigInt().Bytes(), word)...)
	}
	return out
}

// DecodeVotePayload decodes relay event words back into a payload.
func DecodeVotePayload(data []byte) (VotePayload, error) {
	word := roottypes.WordLength
	if len(data) < 6*word || len(data)%word != 0 {
		return VotePayload{}, fmt.Errorf("vote payload has invalid length %d", len(data))
	}

	chainID, err := wordUint(data[word : 2*word])
	if err != nil {
		return VotePayload{}, fmt.Errorf("chain id: %w", err)
	}
	nonce, err := wordUint(data[3*word : 4*word])
	if err != nil {
		return VotePayload{}, fmt.Errorf("nonce: %w", err)
	}
	count, err := wordUint(data[5*word : 6*word])
	if err != nil {
		return VotePayload{}, fmt.Errorf("allocation count: %w", err)
	}
	// Bound the count before multiplying so an oversized count word cannot
	// wrap the length check.
	rest := len(data) - 6*word
	if count > uint64(rest/(2*word)) || int(count)*2*word != rest {
		return VotePayload{}, fmt.Errorf("vote payload declares %d allocations but has %d bytes", count, len(data))
	}

	p := VotePayload{
		Account:    common.BytesToAddress(data[word-common.AddressLength : word]),
		ChainID:    chainID,
		SessionKey: common.BytesToHash(data[2*word : 3*word]),
		Nonce:      nonce,
		TotalVotes: math.NewIntFromBigInt(new(big.Int).SetBytes(data[4*word : 5*word])),
	}
	for i := 0; i < int(count); i++ {
		offset := (6 + 2*i) * word
		p.Allocations = append(p.Allocations, VoteAllocation{
			ReactorKey: common.BytesToHash(data[offset : offset+word]),
			Amount:     math.NewIntFromBigInt(new(big.Int).SetBytes(data[offset+word : offset+2*word])),
		})
	}
	return p, nil
}

// EncodeUserVoteInfo encodes a stored vote record as fixed words: total used,
// total available, allocation count, then a (key, amount) pair per allocation.
func EncodeUserVoteInfo(info UserVoteInfo) []byte {
	word := roottypes.WordLength
	out := make([]byte, 0, (3+2*len(info.Allocations))*word)
	out = append(out, common.LeftPadBytes(info.TotalUsed.BigInt().Bytes(), word)...)
	out = append(out, common.LeftPadBytes(info.TotalAvailable.BigInt().Bytes(), word)...)
	out = append(out, uintWord(uint64(len(info.Allocations)))...)
	for _, alloc := range info.Allocations {
		out = append(out, alloc.ReactorKey.Bytes()...)
		out = append(out, common.LeftPadBytes(alloc.Amount.BigInt().Bytes(), word)...)
	}
	return out
}

// DecodeUserVoteInfo decodes a stored vote record.
func DecodeUserVoteInfo(data []byte) (UserVoteInfo, error) {
	word := roottypes.WordLength
	if len(data) < 3*word || len(data)%word != 0 {
		return UserVoteInfo{}, fmt.Errorf("vote record has invalid length %d", len(data))
	}
	count, err := wordUint(data[2*word : 3*word])
	if err != nil {
		return UserVoteInfo{}, fmt.Errorf("allocation count: %w", err)
	}
	rest := len(data) - 3*word
	if count > uint64(rest/(2*word)) || int(count)*2*word != rest {
		return UserVoteInfo{}, fmt.Errorf("vote record declares %d allocations but has %d bytes", count, len(data))
	}

	info := UserVoteInfo{
		TotalUsed:      math.NewIntFromBigInt(new(big.Int).SetBytes(data[0:word])),
		TotalAvailable: math.NewIntFromBigInt(new(big.Int).SetBytes(data[word : 2*word])),
	}
	for i := 0; i < int(count); i++ {
		offset := (3 + 2*i) * word
		info.Allocations = append(info.Allocations, VoteAllocation{
			ReactorKey: common.BytesToHash(data[offset : offset+word]),
			Amount:     math.NewIntFromBigInt(new(big.Int).SetBytes(data[offset+word : offset+2*word])),
		})
	}
	return info, nil
}

// EncodeKeyAmounts encodes an aggregation snapshot as (key, amount) word pairs.
func EncodeKeyAmounts(entries []KeyAmount) []byte {
	word := roottypes.WordLength
	out := make([]byte, 0, 2*len(entries)*word)
	for _, entry := range entries {
		out = append(out, entry.Key.Bytes()...)
		out = append(out, common.LeftPadBytes(entry.Amount.BigInt().Bytes(), word)...)
	}
	return out
}

// DecodeKeyAmounts decodes a stored aggregation snapshot.
func DecodeKeyAmounts(data []byte) ([]KeyAmount, error) {
	word := roottypes.WordLength
	if len(data)%(2*word) != 0 {
		return nil, fmt.Errorf("snapshot has invalid length %d", len(data))
	}

	entries := make([]KeyAmount, 0, len(data)/(2*word))
	for offset := 0; offset < len(data); offset += 2 * word {
		entries = append(entries, KeyAmount{
			Key:    common.BytesToHash(data[offset : offset+word]),
			Amount: math.NewIntFromBigInt(new(big.Int).SetBytes(data[offset+word : offset+2*word])),
		})
	}
	return entries, nil
}

func uintWord(v uint64) []byte {
	return common.LeftPadBytes(new(big.Int).SetUint64(v).Bytes(), roottypes.WordLength)
}

func wordUint(word []byte) (uint64, error) {
	v := new(big.Int).SetBytes(word)
	if !v.IsUint64() {
		return 0, fmt.Errorf("value out of uint64 range")
	}
	return v.Uint64(), nil
}
