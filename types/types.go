package types

import (
	"fmt"
	"math/big"
	"strings"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Event type tags carried in the first word of a relayed payload. The tag is
// an ASCII string right-padded with zero bytes to WordLength.
const (
	EventDeposit            = "Deposit"
	EventTransfer           = "Transfer"
	EventSlash              = "Slash"
	EventWithdraw           = "Withdraw"
	EventWithdrawalRequest  = "Withdrawal Request"
	EventDelegationEnabled  = "DelegationEnabled"
	EventDelegationDisabled = "DelegationDisabled"
	EventCycleComplete      = "Cycle Complete"
	EventVote               = "Vote"
)

// PurposeVoting is the only delegation purpose the balance ledger acts on.
// Events carrying any other purpose are accepted and ignored.
const PurposeVoting = "voting"

// WordLength is the size of one payload word.
const WordLength = 32

// EncodeEventTag encodes an event type string into a fixed-width tag word.
func EncodeEventTag(eventType string) ([WordLength]byte, error) {
	var tag [WordLength]byte
	if eventType == "" {
		return tag, fmt.Errorf("event type cannot be empty")
	}
	if len(eventType) > WordLength {
		return tag, fmt.Errorf("event type %q exceeds %d bytes", eventType, WordLength)
	}
	copy(tag[:], eventType)
	return tag, nil
}

// DecodeEventTag extracts the event type string from the leading tag word of
// a relayed payload.
func DecodeEventTag(payload []byte) (string, error) {
	if len(payload) < WordLength {
		return "", fmt.Errorf("payload too short for event tag: %d bytes", len(payload))
	}
	tag := strings.TrimRight(string(payload[:WordLength]), "\x00")
	if tag == "" {
		return "", fmt.Errorf("empty event type tag")
	}
	return tag, nil
}

// EventData returns the event-specific remainder of a relayed payload.
func EventData(payload []byte) []byte {
	if len(payload) <= WordLength {
		return nil
	}
	return payload[WordLength:]
}

// BalanceEvent is the decoded form of Deposit, Transfer, Slash, Withdraw and
// Withdrawal Request payloads.
type BalanceEvent struct {
	Account common.Address `json:"account"`
	Token   common.Address `json:"token"`
	Amount  math.Int       `json:"amount"`
}

// DelegationEvent is the decoded form of DelegationEnabled and
// DelegationDisabled payloads. To is unset for DelegationDisabled.
type DelegationEvent struct {
	From    common.Address `json:"from"`
	To      common.Address `json:"to"`
	Purpose string         `json:"purpose"`
}

// CycleEvent is the decoded form of a Cycle Complete payload.
type CycleEvent struct {
	CycleIndex uint64 `json:"cycle_index"`
	Timestamp  int64  `json:"timestamp"`
}

// EncodeBalanceEvent builds a full relay payload (tag word plus three data
// words) for a balance-changing event.
func EncodeBalanceEvent(eventType string, ev BalanceEvent) ([]byte, error) {
	tag, err := EncodeEventTag(eventType)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 4*WordLength)
	out = append(out, tag[:]...)
	out = append(out, addressWord(ev.Account)...)
	out = append(out, addressWord(ev.Token)...)
	out = append(out, amountWord(ev.Amount)...)
	return out, nil
}

// DecodeBalanceEvent decodes the data words of a balance-changing event.
func DecodeBalanceEvent(data []byte) (BalanceEvent, error) {
	if len(data) != 3*WordLength {
		return BalanceEvent{}, fmt.Errorf("balance event requires %d bytes, got %d", 3*WordLength, len(data))
	}
	return BalanceEvent{
		Account: wordAddress(data[0:WordLength]),
		Token:   wordAddress(data[WordLength : 2*WordLength]),
		Amount:  wordAmount(data[2*WordLength : 3*WordLength]),
	}, nil
}

// EncodeDelegationEvent builds a full relay payload for a delegation event.
func EncodeDelegationEvent(eventType string, ev DelegationEvent) ([]byte, error) {
	tag, err := EncodeEventTag(eventType)
	if err != nil {
		return nil, err
	}
	purpose, err := EncodeEventTag(ev.Purpose)
	if err != nil {
		return nil, fmt.Errorf("invalid purpose: %w", err)
	}
	out := make([]byte, 0, 4*WordLength)
	out = append(out, tag[:]...)
	out = append(out, addressWord(ev.From)...)
	out = append(out, addressWord(ev.To)...)
	out = append(out, purpose[:]...)
	return out, nil
}

// DecodeDelegationEvent decodes the data words of a delegation event.
func DecodeDelegationEvent(data []byte) (DelegationEvent, error) {
	if len(data) != 3*WordLength {
		return DelegationEvent{}, fmt.Errorf("delegation event requires %d bytes, got %d", 3*WordLength, len(data))
	}
	purpose := strings.TrimRight(string(data[2*WordLength:3*WordLength]), "\x00")
	return DelegationEvent{
		From:    wordAddress(data[0:WordLength]),
		To:      wordAddress(data[WordLength : 2*WordLength]),
		Purpose: purpose,
	}, nil
}

// EncodeCycleEvent builds a full relay payload for a cycle rollover event.
func EncodeCycleEvent(ev CycleEvent) ([]byte, error) {
	tag, err := EncodeEventTag(EventCycleComplete)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, 3*WordLength)
	out = append(out, tag[:]...)
	out = append(out, amountWord(math.NewIntFromUint64(ev.CycleIndex))...)
	out = append(out, amountWord(math.NewInt(ev.Timestamp))...)
	return out, nil
}

// DecodeCycleEvent decodes the data words of a cycle rollover event.
func DecodeCycleEvent(data []byte) (CycleEvent, error) {
	if len(data) != 2*WordLength {
		return CycleEvent{}, fmt.Errorf("cycle event requires %d bytes, got %d", 2*WordLength, len(data))
	}
	idx := wordAmount(data[0:WordLength])
	ts := wordAmount(data[WordLength : 2*WordLength])
	if !idx.IsUint64() {
		return CycleEvent{}, fmt.Errorf("cycle index out of range")
	}
	if !ts.IsInt64() {
		return CycleEvent{}, fmt.Errorf("cycle timestamp out of range")
	}
	return CycleEvent{CycleIndex: idx.Uint64(), Timestamp: ts.Int64()}, nil
}

// EncodeVoteEvent wraps an already-encoded vote payload behind the Vote tag.
func EncodeVoteEvent(encodedVote []byte) ([]byte, error) {
	tag, err := EncodeEventTag(EventVote)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, WordLength+len(encodedVote))
	out = append(out, tag[:]...)
	out = append(out, encodedVote...)
	return out, nil
}

func addressWord(addr common.Address) []byte {
	return common.LeftPadBytes(addr.Bytes(), WordLength)
}

func wordAddress(word []byte) common.Address {
	return common.BytesToAddress(word[WordLength-common.AddressLength:])
}

func amountWord(amount math.Int) []byte {
	return common.LeftPadBytes(amount.BigInt().Bytes(), WordLength)
}

func wordAmount(word []byte) math.Int {
	return math.NewIntFromBigInt(new(big.Int).SetBytes(word))
}
