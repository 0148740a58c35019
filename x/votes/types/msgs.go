package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	TypeMsgVote                = "vote"
	TypeMsgVoteDirect          = "vote_direct"
	TypeMsgSetReactorKeys      = "set_reactor_keys"
	TypeMsgSetVoteMultipliers  = "set_vote_multipliers"
	TypeMsgSetSigningChainID   = "set_signing_chain_id"
	TypeMsgSetProxySubmitters  = "set_proxy_submitters"
	TypeMsgSetProxyRateLimit   = "set_proxy_rate_limit"
	TypeMsgSetBalanceTracker   = "set_balance_tracker"
	TypeMsgSetPaused           = "set_paused"
)

var (
	_ sdk.Msg = &MsgVote{}
	_ sdk.Msg = &MsgVoteDirect{}
	_ sdk.Msg = &MsgSetReactorKeys{}
	_ sdk.Msg = &MsgSetVoteMultipliers{}
	_ sdk.Msg = &MsgSetSigningChainID{}
	_ sdk.Msg = &MsgSetProxySubmitters{}
	_ sdk.Msg = &MsgSetProxyRateLimit{}
	_ sdk.Msg = &MsgSetBalanceTracker{}
	_ sdk.Msg = &MsgSetPaused{}
)

// AllocationEntry is the wire form of one vote allocation.
type AllocationEntry struct {
	ReactorKey string   `json:"reactor_key"`
	Amount     math.Int `json:"amount"`
}

// MsgVote submits a signed vote payload on behalf of an account.
type MsgVote struct {
	Submitter   string            `json:"submitter"`
	Account     string            `json:"account"`
	SessionKey  string            `json:"session_key"`
	Nonce       uint64            `json:"nonce"`
	TotalVotes  math.Int          `json:"total_votes"`
	Allocations []AllocationEntry `json:"allocations"`
	Signature   string            `json:"signature"`
}

func NewMsgVote(submitter, account, sessionKey string, nonce uint64, total math.Int, allocations []AllocationEntry, signature string) *MsgVote {
	return &MsgVote{
		Submitter:   submitter,
		Account:     account,
		SessionKey:  sessionKey,
		Nonce:       nonce,
		TotalVotes:  total,
		Allocations: allocations,
		Signature:   signature,
	}
}

func (msg *MsgVote) ProtoMessage()  {}
func (msg *MsgVote) Reset()         { *msg = MsgVote{} }
func (msg *MsgVote) String() string { return fmt.Sprintf("MsgVote{%s nonce %d}", msg.Account, msg.Nonce) }

// Route implements the sdk.Msg interface
func (msg MsgVote) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgVote) Type() string { return TypeMsgVote }

// GetSigners implements the sdk.Msg interface
func (msg MsgVote) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{common.HexToAddress(msg.Submitter).Bytes()}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgVote) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgVote) ValidateBasic() error {
	if !common.IsHexAddress(msg.Submitter) {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid submitter %s", msg.Submitter)
	}
	if err := validateVoteBody(msg.Account, msg.SessionKey, msg.TotalVotes, msg.Allocations); err != nil {
		return err
	}
	sig, err := hexutil.Decode(msg.Signature)
	if err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "signature: %s", err)
	}
	if len(sig) != 65 {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "signature must be 65 bytes, got %d", len(sig))
	}
	return nil
}

// MsgVoteDirect submits a vote with the submitter acting as the account itself.
type MsgVoteDirect struct {
	Submitter   string            `json:"submitter"`
	Account     string            `json:"account"`
	SessionKey  string            `json:"session_key"`
	Nonce       uint64            `json:"nonce"`
	TotalVotes  math.Int          `json:"total_votes"`
	Allocations []AllocationEntry `json:"allocations"`
}

func NewMsgVoteDirect(submitter, account, sessionKey string, nonce uint64, total math.Int, allocations []AllocationEntry) *MsgVoteDirect {
	return &MsgVoteDirect{
		Submitter:   submitter,
		Account:     account,
		SessionKey:  sessionKey,
		Nonce:       nonce,
		TotalVotes:  total,
		Allocations: allocations,
	}
}

func (msg *MsgVoteDirect) ProtoMessage()  {}
func (msg *MsgVoteDirect) Reset()         { *msg = MsgVoteDirect{} }
func (msg *MsgVoteDirect) String() string { return fmt.Sprintf("MsgVoteDirect{%s nonce %d}", msg.Account, msg.Nonce) }

// Route implements the sdk.Msg interface
func (msg MsgVoteDirect) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgVoteDirect) Type() string { return TypeMsgVoteDirect }

// GetSigners implements the sdk.Msg interface
func (msg MsgVoteDirect) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{common.HexToAddress(msg.Submitter).Bytes()}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgVoteDirect) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgVoteDirect) ValidateBasic() error {
	if !common.IsHexAddress(msg.Submitter) {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid submitter %s", msg.Submitter)
	}
	return validateVoteBody(msg.Account, msg.SessionKey, msg.TotalVotes, msg.Allocations)
}

// ReactorKeyEntry is the wire form of one reactor key addition.
type ReactorKeyEntry struct {
	Key   string `json:"key"`
	Token string `json:"token"`
}

// MsgSetReactorKeys adds and removes allowed allocation targets.
type MsgSetReactorKeys struct {
	Authority string            `json:"authority"`
	Add       []ReactorKeyEntry `json:"add"`
	Remove    []string          `json:"remove"`
}

func NewMsgSetReactorKeys(authority string, add []ReactorKeyEntry, remove []string) *MsgSetReactorKeys {
	return &MsgSetReactorKeys{Authority: authority, Add: add, Remove: remove}
}

func (msg *MsgSetReactorKeys) ProtoMessage() {}
func (msg *MsgSetReactorKeys) Reset()        { *msg = MsgSetReactorKeys{} }
func (msg *MsgSetReactorKeys) String() string {
	return fmt.Sprintf("MsgSetReactorKeys{+%d -%d}", len(msg.Add), len(msg.Remove))
}

// Route implements the sdk.Msg interface
func (msg MsgSetReactorKeys) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetReactorKeys) Type() string { return TypeMsgSetReactorKeys }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetReactorKeys) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetReactorKeys) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetReactorKeys) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if len(msg.Add) == 0 && len(msg.Remove) == 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "nothing to add or remove")
	}
	for i, entry := range msg.Add {
		if err := validateHexHash(entry.Key); err != nil {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "add %d: key: %s", i, err)
		}
		if !common.IsHexAddress(entry.Token) {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "add %d: invalid token %s", i, entry.Token)
		}
	}
	for i, key := range msg.Remove {
		if err := validateHexHash(key); err != nil {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "remove %d: key: %s", i, err)
		}
	}
	return nil
}

// MultiplierWire is the wire form of one voting-token multiplier.
type MultiplierWire struct {
	Token      string   `json:"token"`
	Multiplier math.Int `json:"multiplier"`
}

// MsgSetVoteMultipliers replaces the whole voting-token list and multiplier table.
type MsgSetVoteMultipliers struct {
	Authority string           `json:"authority"`
	Entries   []MultiplierWire `json:"entries"`
}

func NewMsgSetVoteMultipliers(authority string, entries []MultiplierWire) *MsgSetVoteMultipliers {
	return &MsgSetVoteMultipliers{Authority: authority, Entries: entries}
}

func (msg *MsgSetVoteMultipliers) ProtoMessage() {}
func (msg *MsgSetVoteMultipliers) Reset()        { *msg = MsgSetVoteMultipliers{} }
func (msg *MsgSetVoteMultipliers) String() string {
	return fmt.Sprintf("MsgSetVoteMultipliers{%d entries}", len(msg.Entries))
}

// Route implements the sdk.Msg interface
func (msg MsgSetVoteMultipliers) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetVoteMultipliers) Type() string { return TypeMsgSetVoteMultipliers }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetVoteMultipliers) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetVoteMultipliers) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetVoteMultipliers) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	for i, entry := range msg.Entries {
		if !common.IsHexAddress(entry.Token) {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "entry %d: invalid token %s", i, entry.Token)
		}
		if entry.Multiplier.IsNil() || entry.Multiplier.IsNegative() {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "entry %d: multiplier must be non-negative", i)
		}
	}
	return nil
}

// MsgSetSigningChainID configures the chain id used for signature domains.
type MsgSetSigningChainID struct {
	Authority string `json:"authority"`
	ChainID   uint64 `json:"chain_id"`
}

func NewMsgSetSigningChainID(authority string, chainID uint64) *MsgSetSigningChainID {
	return &MsgSetSigningChainID{Authority: authority, ChainID: chainID}
}

func (msg *MsgSetSigningChainID) ProtoMessage() {}
func (msg *MsgSetSigningChainID) Reset()        { *msg = MsgSetSigningChainID{} }
func (msg *MsgSetSigningChainID) String() string {
	return fmt.Sprintf("MsgSetSigningChainID{%d}", msg.ChainID)
}

// Route implements the sdk.Msg interface
func (msg MsgSetSigningChainID) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetSigningChainID) Type() string { return TypeMsgSetSigningChainID }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetSigningChainID) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetSigningChainID) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetSigningChainID) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if msg.ChainID == 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "chain id cannot be zero")
	}
	return nil
}

// ProxyWire is the wire form of one proxy submitter toggle.
type ProxyWire struct {
	Address        string `json:"address"`
	Enabled        bool   `json:"enabled"`
	SigningChainID uint64 `json:"signing_chain_id"`
}

// MsgSetProxySubmitters toggles rate-limited relay submitters.
type MsgSetProxySubmitters struct {
	Authority  string      `json:"authority"`
	Submitters []ProxyWire `json:"submitters"`
}

func NewMsgSetProxySubmitters(authority string, submitters []ProxyWire) *MsgSetProxySubmitters {
	return &MsgSetProxySubmitters{Authority: authority, Submitters: submitters}
}

func (msg *MsgSetProxySubmitters) ProtoMessage() {}
func (msg *MsgSetProxySubmitters) Reset()        { *msg = MsgSetProxySubmitters{} }
func (msg *MsgSetProxySubmitters) String() string {
	return fmt.Sprintf("MsgSetProxySubmitters{%d submitters}", len(msg.Submitters))
}

// Route implements the sdk.Msg interface
func (msg MsgSetProxySubmitters) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetProxySubmitters) Type() string { return TypeMsgSetProxySubmitters }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetProxySubmitters) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetProxySubmitters) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetProxySubmitters) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if len(msg.Submitters) == 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "submitters cannot be empty")
	}
	for i, sub := range msg.Submitters {
		if !common.IsHexAddress(sub.Address) {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "submitter %d: invalid address %s", i, sub.Address)
		}
		if sub.Enabled && sub.SigningChainID == 0 {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "submitter %d: signing chain id cannot be zero", i)
		}
	}
	return nil
}

// MsgSetProxyRateLimit configures the minimum height gap between proxy votes
// for the same account.
type MsgSetProxyRateLimit struct {
	Authority    string `json:"authority"`
	MinHeightGap int64  `json:"min_height_gap"`
}

func NewMsgSetProxyRateLimit(authority string, gap int64) *MsgSetProxyRateLimit {
	return &MsgSetProxyRateLimit{Authority: authority, MinHeightGap: gap}
}

func (msg *MsgSetProxyRateLimit) ProtoMessage() {}
func (msg *MsgSetProxyRateLimit) Reset()        { *msg = MsgSetProxyRateLimit{} }
func (msg *MsgSetProxyRateLimit) String() string {
	return fmt.Sprintf("MsgSetProxyRateLimit{%d}", msg.MinHeightGap)
}

// Route implements the sdk.Msg interface
func (msg MsgSetProxyRateLimit) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetProxyRateLimit) Type() string { return TypeMsgSetProxyRateLimit }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetProxyRateLimit) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetProxyRateLimit) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetProxyRateLimit) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if msg.MinHeightGap < 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "height gap cannot be negative")
	}
	return nil
}

// MsgSetBalanceTracker configures the balance tracker identifier reported in
// settings.
type MsgSetBalanceTracker struct {
	Authority string `json:"authority"`
	Address   string `json:"address"`
}

func NewMsgSetBalanceTracker(authority, address string) *MsgSetBalanceTracker {
	return &MsgSetBalanceTracker{Authority: authority, Address: address}
}

func (msg *MsgSetBalanceTracker) ProtoMessage() {}
func (msg *MsgSetBalanceTracker) Reset()        { *msg = MsgSetBalanceTracker{} }
func (msg *MsgSetBalanceTracker) String() string {
	return fmt.Sprintf("MsgSetBalanceTracker{%s}", msg.Address)
}

// Route implements the sdk.Msg interface
func (msg MsgSetBalanceTracker) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetBalanceTracker) Type() string { return TypeMsgSetBalanceTracker }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetBalanceTracker) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetBalanceTracker) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetBalanceTracker) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if !common.IsHexAddress(msg.Address) {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid tracker address %s", msg.Address)
	}
	return nil
}

// MsgSetPaused toggles vote submission.
type MsgSetPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

func NewMsgSetPaused(authority string, paused bool) *MsgSetPaused {
	return &MsgSetPaused{Authority: authority, Paused: paused}
}

func (msg *MsgSetPaused) ProtoMessage()  {}
func (msg *MsgSetPaused) Reset()         { *msg = MsgSetPaused{} }
func (msg *MsgSetPaused) String() string { return fmt.Sprintf("MsgSetPaused{%t}", msg.Paused) }

// Route implements the sdk.Msg interface
func (msg MsgSetPaused) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetPaused) Type() string { return TypeMsgSetPaused }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetPaused) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetPaused) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetPaused) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	return nil
}

func validateVoteBody(account, sessionKey string, total math.Int, allocations []AllocationEntry) error {
	if !common.IsHexAddress(account) {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid account %s", account)
	}
	if err := validateHexHash(sessionKey); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "session key: %s", err)
	}
	if total.IsNil() || total.IsNegative() {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "total votes must be non-negative")
	}
	for i, alloc := range allocations {
		if err := validateHexHash(alloc.ReactorKey); err != nil {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "allocation %d: key: %s", i, err)
		}
		if alloc.Amount.IsNil() || alloc.Amount.IsNegative() {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "allocation %d: amount must be non-negative", i)
		}
	}
	return nil
}

func validateHexHash(s string) error {
	bz, err := hexutil.Decode(s)
	if err != nil {
		return err
	}
	if len(bz) != common.HashLength {
		return fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(bz))
	}
	return nil
}
