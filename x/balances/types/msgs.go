package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
)

const (
	TypeMsgSetBalance            = "set_balance"
	TypeMsgAddSupportedTokens    = "add_supported_tokens"
	TypeMsgRemoveSupportedTokens = "remove_supported_tokens"
)

var (
	_ sdk.Msg = &MsgSetBalance{}
	_ sdk.Msg = &MsgAddSupportedTokens{}
	_ sdk.Msg = &MsgRemoveSupportedTokens{}
)

// BalanceEntry is the wire form of one backfill entry.
type BalanceEntry struct {
	Account string   `json:"account"`
	Token   string   `json:"token"`
	Amount  math.Int `json:"amount"`
}

// MsgSetBalance performs a one-time administrative backfill of balances that
// have never been set by an authoritative event.
type MsgSetBalance struct {
	Authority string         `json:"authority"`
	Updates   []BalanceEntry `json:"updates"`
}

func NewMsgSetBalance(authority string, updates []BalanceEntry) *MsgSetBalance {
	return &MsgSetBalance{Authority: authority, Updates: updates}
}

func (msg *MsgSetBalance) ProtoMessage()  {}
func (msg *MsgSetBalance) Reset()         { *msg = MsgSetBalance{} }
func (msg *MsgSetBalance) String() string { return fmt.Sprintf("MsgSetBalance{%d updates}", len(msg.Updates)) }

// Route implements the sdk.Msg interface
func (msg MsgSetBalance) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetBalance) Type() string { return TypeMsgSetBalance }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetBalance) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetBalance) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetBalance) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if len(msg.Updates) == 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "updates cannot be empty")
	}
	for i, update := range msg.Updates {
		if !common.IsHexAddress(update.Account) {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "update %d: invalid account %s", i, update.Account)
		}
		if !common.IsHexAddress(update.Token) {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "update %d: invalid token %s", i, update.Token)
		}
		if update.Amount.IsNil() || update.Amount.IsNegative() {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "update %d: amount must be non-negative", i)
		}
	}
	return nil
}

// MsgAddSupportedTokens adds tokens to the tracked set.
type MsgAddSupportedTokens struct {
	Authority string   `json:"authority"`
	Tokens    []string `json:"tokens"`
}

func NewMsgAddSupportedTokens(authority string, tokens []string) *MsgAddSupportedTokens {
	return &MsgAddSupportedTokens{Authority: authority, Tokens: tokens}
}

func (msg *MsgAddSupportedTokens) ProtoMessage() {}
func (msg *MsgAddSupportedTokens) Reset()        { *msg = MsgAddSupportedTokens{} }
func (msg *MsgAddSupportedTokens) String() string {
	return fmt.Sprintf("MsgAddSupportedTokens{%d tokens}", len(msg.Tokens))
}

// Route implements the sdk.Msg interface
func (msg MsgAddSupportedTokens) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgAddSupportedTokens) Type() string { return TypeMsgAddSupportedTokens }

// GetSigners implements the sdk.Msg interface
func (msg MsgAddSupportedTokens) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgAddSupportedTokens) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgAddSupportedTokens) ValidateBasic() error {
	return validateTokenListMsg(msg.Authority, msg.Tokens)
}

// MsgRemoveSupportedTokens permanently removes tokens from the tracked set.
type MsgRemoveSupportedTokens struct {
	Authority string   `json:"authority"`
	Tokens    []string `json:"tokens"`
}

func NewMsgRemoveSupportedTokens(authority string, tokens []string) *MsgRemoveSupportedTokens {
	return &MsgRemoveSupportedTokens{Authority: authority, Tokens: tokens}
}

func (msg *MsgRemoveSupportedTokens) ProtoMessage() {}
func (msg *MsgRemoveSupportedTokens) Reset()        { *msg = MsgRemoveSupportedTokens{} }
func (msg *MsgRemoveSupportedTokens) String() string {
	return fmt.Sprintf("MsgRemoveSupportedTokens{%d tokens}", len(msg.Tokens))
}

// Route implements the sdk.Msg interface
func (msg MsgRemoveSupportedTokens) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgRemoveSupportedTokens) Type() string { return TypeMsgRemoveSupportedTokens }

// GetSigners implements the sdk.Msg interface
func (msg MsgRemoveSupportedTokens) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgRemoveSupportedTokens) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgRemoveSupportedTokens) ValidateBasic() error {
	return validateTokenListMsg(msg.Authority, msg.Tokens)
}

func validateTokenListMsg(authority string, tokens []string) error {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if len(tokens) == 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "tokens cannot be empty")
	}
	for i, token := range tokens {
		if !common.IsHexAddress(token) {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "token %d: invalid address %s", i, token)
		}
	}
	return nil
}
