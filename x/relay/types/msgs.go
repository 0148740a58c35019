package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/ethereum/go-ethereum/common"
)

const (
	TypeMsgRegisterSender        = "register_sender"
	TypeMsgRegisterDestinations  = "register_destinations"
	TypeMsgUnregisterDestination = "unregister_destination"
	TypeMsgSetTrustedSource      = "set_trusted_source"
	TypeMsgDeliver               = "deliver"
)

var (
	_ sdk.Msg = &MsgRegisterSender{}
	_ sdk.Msg = &MsgRegisterDestinations{}
	_ sdk.Msg = &MsgUnregisterDestination{}
	_ sdk.Msg = &MsgSetTrustedSource{}
	_ sdk.Msg = &MsgDeliver{}
)

// DestinationRegistration binds one (sender, eventType) pair to an ordered
// destination list. Registration replaces any prior list for the pair.
type DestinationRegistration struct {
	Sender       string   `json:"sender"`
	EventType    string   `json:"event_type"`
	Destinations []string `json:"destinations"`
}

// MsgRegisterSender enables or disables an origin sender.
type MsgRegisterSender struct {
	Authority string `json:"authority"`
	Sender    string `json:"sender"`
	Enabled   bool   `json:"enabled"`
}

func NewMsgRegisterSender(authority, sender string, enabled bool) *MsgRegisterSender {
	return &MsgRegisterSender{Authority: authority, Sender: sender, Enabled: enabled}
}

func (msg *MsgRegisterSender) ProtoMessage()  {}
func (msg *MsgRegisterSender) Reset()         { *msg = MsgRegisterSender{} }
func (msg *MsgRegisterSender) String() string { return fmt.Sprintf("MsgRegisterSender{%s}", msg.Sender) }

// Route implements the sdk.Msg interface
func (msg MsgRegisterSender) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgRegisterSender) Type() string { return TypeMsgRegisterSender }

// GetSigners implements the sdk.Msg interface
func (msg MsgRegisterSender) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgRegisterSender) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgRegisterSender) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	return validateHexAddress(msg.Sender, "sender")
}

// MsgRegisterDestinations replaces the destination lists for the given
// (sender, eventType) pairs.
type MsgRegisterDestinations struct {
	Authority     string                    `json:"authority"`
	Registrations []DestinationRegistration `json:"registrations"`
}

func NewMsgRegisterDestinations(authority string, regs []DestinationRegistration) *MsgRegisterDestinations {
	return &MsgRegisterDestinations{Authority: authority, Registrations: regs}
}

func (msg *MsgRegisterDestinations) ProtoMessage() {}
func (msg *MsgRegisterDestinations) Reset()        { *msg = MsgRegisterDestinations{} }
func (msg *MsgRegisterDestinations) String() string {
	return fmt.Sprintf("MsgRegisterDestinations{%d registrations}", len(msg.Registrations))
}

// Route implements the sdk.Msg interface
func (msg MsgRegisterDestinations) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgRegisterDestinations) Type() string { return TypeMsgRegisterDestinations }

// GetSigners implements the sdk.Msg interface
func (msg MsgRegisterDestinations) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgRegisterDestinations) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgRegisterDestinations) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if len(msg.Registrations) == 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "registrations cannot be empty")
	}
	for i, reg := range msg.Registrations {
		if err := validateHexAddress(reg.Sender, "sender"); err != nil {
			return sdkerrors.Wrapf(err, "registration %d", i)
		}
		if reg.EventType == "" {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "registration %d: event type cannot be empty", i)
		}
		if len(reg.Destinations) == 0 {
			return sdkerrors.Wrapf(sdkerrors.ErrInvalidRequest, "registration %d: destinations cannot be empty", i)
		}
		for _, dest := range reg.Destinations {
			if err := validateHexAddress(dest, "destination"); err != nil {
				return sdkerrors.Wrapf(err, "registration %d", i)
			}
		}
	}
	return nil
}

// MsgUnregisterDestination removes one destination from a fan-out list.
type MsgUnregisterDestination struct {
	Authority   string `json:"authority"`
	Sender      string `json:"sender"`
	Destination string `json:"destination"`
	EventType   string `json:"event_type"`
}

func NewMsgUnregisterDestination(authority, sender, destination, eventType string) *MsgUnregisterDestination {
	return &MsgUnregisterDestination{Authority: authority, Sender: sender, Destination: destination, EventType: eventType}
}

func (msg *MsgUnregisterDestination) ProtoMessage() {}
func (msg *MsgUnregisterDestination) Reset()        { *msg = MsgUnregisterDestination{} }
func (msg *MsgUnregisterDestination) String() string {
	return fmt.Sprintf("MsgUnregisterDestination{%s/%s}", msg.Sender, msg.EventType)
}

// Route implements the sdk.Msg interface
func (msg MsgUnregisterDestination) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgUnregisterDestination) Type() string { return TypeMsgUnregisterDestination }

// GetSigners implements the sdk.Msg interface
func (msg MsgUnregisterDestination) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgUnregisterDestination) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgUnregisterDestination) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if err := validateHexAddress(msg.Sender, "sender"); err != nil {
		return err
	}
	if err := validateHexAddress(msg.Destination, "destination"); err != nil {
		return err
	}
	if msg.EventType == "" {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "event type cannot be empty")
	}
	return nil
}

// MsgSetTrustedSource configures the only submitter allowed to deliver.
type MsgSetTrustedSource struct {
	Authority string `json:"authority"`
	Source    string `json:"source"`
}

func NewMsgSetTrustedSource(authority, source string) *MsgSetTrustedSource {
	return &MsgSetTrustedSource{Authority: authority, Source: source}
}

func (msg *MsgSetTrustedSource) ProtoMessage() {}
func (msg *MsgSetTrustedSource) Reset()        { *msg = MsgSetTrustedSource{} }
func (msg *MsgSetTrustedSource) String() string {
	return fmt.Sprintf("MsgSetTrustedSource{%s}", msg.Source)
}

// Route implements the sdk.Msg interface
func (msg MsgSetTrustedSource) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgSetTrustedSource) Type() string { return TypeMsgSetTrustedSource }

// GetSigners implements the sdk.Msg interface
func (msg MsgSetTrustedSource) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgSetTrustedSource) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgSetTrustedSource) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid authority address: %s", err)
	}
	return validateHexAddress(msg.Source, "source")
}

// MsgDeliver is the single inbound entry point for cross-ledger messages.
type MsgDeliver struct {
	Submitter    string `json:"submitter"`
	Sequence     uint64 `json:"sequence"`
	OriginSender string `json:"origin_sender"`
	Payload      []byte `json:"payload"`
}

func NewMsgDeliver(submitter string, sequence uint64, originSender string, payload []byte) *MsgDeliver {
	return &MsgDeliver{Submitter: submitter, Sequence: sequence, OriginSender: originSender, Payload: payload}
}

func (msg *MsgDeliver) ProtoMessage() {}
func (msg *MsgDeliver) Reset()        { *msg = MsgDeliver{} }
func (msg *MsgDeliver) String() string {
	return fmt.Sprintf("MsgDeliver{seq: %d, sender: %s}", msg.Sequence, msg.OriginSender)
}

// Route implements the sdk.Msg interface
func (msg MsgDeliver) Route() string { return RouterKey }

// Type implements the sdk.Msg interface
func (msg MsgDeliver) Type() string { return TypeMsgDeliver }

// GetSigners implements the sdk.Msg interface
func (msg MsgDeliver) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{common.HexToAddress(msg.Submitter).Bytes()}
}

// GetSignBytes implements the sdk.Msg interface
func (msg MsgDeliver) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(&msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic implements the sdk.Msg interface
func (msg MsgDeliver) ValidateBasic() error {
	if err := validateHexAddress(msg.Submitter, "submitter"); err != nil {
		return err
	}
	if err := validateHexAddress(msg.OriginSender, "origin sender"); err != nil {
		return err
	}
	if len(msg.Payload) == 0 {
		return sdkerrors.Wrap(sdkerrors.ErrInvalidRequest, "payload cannot be empty")
	}
	return nil
}

func validateHexAddress(addr, field string) error {
	if !common.IsHexAddress(addr) {
		return sdkerrors.Wrapf(sdkerrors.ErrInvalidAddress, "invalid %s address: %s", field, addr)
	}
	return nil
}
