package types

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

const (
	// ModuleName defines the module name
	ModuleName = "relay"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// Store key prefixes
var (
	// SenderRegistrationKeyPrefix is the prefix for sender registrations
	SenderRegistrationKeyPrefix = []byte{0x01}

	// DestinationKeyPrefix is the prefix for destination fan-out lists
	DestinationKeyPrefix = []byte{0x02}

	// ProcessedSequenceKey stores the highest accepted sequence number
	ProcessedSequenceKey = []byte{0x03}

	// TrustedSourceKey stores the submitter allowed to call Deliver
	TrustedSourceKey = []byte{0x04}
)

// Registration is the keeper-level form of one destination-list replacement.
type Registration struct {
	Sender       common.Address
	EventType    string
	Destinations []common.Address
}

// SenderStatus is the keeper-level form of one sender registration.
type SenderStatus struct {
	Sender  common.Address
	Enabled bool
}

// GetSenderRegistrationKey returns the store key holding a sender's enabled flag
func GetSenderRegistrationKey(sender common.Address) []byte {
	return append(SenderRegistrationKeyPrefix, sender.Bytes()...)
}

// GetDestinationKey returns the store key for the (sender, eventType) fan-out list
func GetDestinationKey(sender common.Address, eventType string) []byte {
	key := append(DestinationKeyPrefix, sender.Bytes()...)
	return append(key, []byte(eventType)...)
}

// SequenceToBytes encodes a sequence number for storage
func SequenceToBytes(seq uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, seq)
	return bz
}

// SequenceFromBytes decodes a stored sequence number
func SequenceFromBytes(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
