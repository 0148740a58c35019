package keeper

import (
	"fmt"
	"strconv"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/types"
	relaytypes "github.com/govbridge/cosmos/x/relay/types"
)

// Keeper of the relay store
type Keeper struct {
	storeKey  storetypes.StoreKey
	authority string

	// relayID identifies this relay to its destinations. Receivers compare it
	// against the single relay identifier they were initialized with.
	relayID common.Address

	// routes resolves destination identifiers to receivers. Populated once at
	// app wiring; never mutated afterwards.
	routes map[common.Address]types.EventReceiver
}

// NewKeeper creates a new relay Keeper instance
func NewKeeper(key storetypes.StoreKey, authority string, relayID common.Address) *Keeper {
	return &Keeper{
		storeKey:  key,
		authority: authority,
		relayID:   relayID,
		routes:    make(map[common.Address]types.EventReceiver),
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", relaytypes.ModuleName))
}

// GetAuthority returns the address allowed to perform administrative calls.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// RelayID returns the identifier this relay presents to destinations.
func (k Keeper) RelayID() common.Address {
	return k.relayID
}

// SetRoute binds a destination identifier to its receiver. Called once per
// destination at app wiring (mirrors cross-keeper setter wiring).
func (k *Keeper) SetRoute(destination common.Address, receiver types.EventReceiver) {
	k.routes[destination] = receiver
}

// RegisterSender records whether an origin sender may route events.
func (k Keeper) RegisterSender(ctx sdk.Context, authority string, sender common.Address, enabled bool) error {
	if authority != k.authority {
		return relaytypes.ErrUnauthorized
	}
	if sender == (common.Address{}) {
		return relaytypes.ErrZeroSender
	}

	store := ctx.KVStore(k.storeKey)
	flag := []byte{0x00}
	if enabled {
		flag = []byte{0x01}
	}
	store.Set(relaytypes.GetSenderRegistrationKey(sender), flag)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			relaytypes.EventTypeSenderRegistered,
			sdk.NewAttribute(relaytypes.AttributeKeySender, sender.Hex()),
			sdk.NewAttribute(relaytypes.AttributeKeyEnabled, strconv.FormatBool(enabled)),
		),
	)

	return nil
}

// RegisterDestinations replaces the destination list for each given
// (sender, eventType) pair atomically.
func (k Keeper) RegisterDestinations(ctx sdk.Context, authority string, regs []relaytypes.Registration) error {
	if authority != k.authority {
		return relaytypes.ErrUnauthorized
	}
	for _, reg := range regs {
		if reg.Sender == (common.Address{}) {
			return relaytypes.ErrZeroSender
		}
		if reg.EventType == "" {
			return relaytypes.ErrEmptyEventType
		}
		if len(reg.Destinations) == 0 {
			return relaytypes.ErrEmptyDestinations
		}
		for _, dest := range reg.Destinations {
			if dest == (common.Address{}) {
				return relaytypes.ErrZeroDestination
			}
		}
	}

	for _, reg := range regs {
		k.setDestinations(ctx, reg.Sender, reg.EventType, reg.Destinations)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				relaytypes.EventTypeDestinationsRegistered,
				sdk.NewAttribute(relaytypes.AttributeKeySender, reg.Sender.Hex()),
				sdk.NewAttribute(relaytypes.AttributeKeyEventType, reg.EventType),
				sdk.NewAttribute(relaytypes.AttributeKeyCount, strconv.Itoa(len(reg.Destinations))),
			),
		)
	}

	return nil
}

// UnregisterDestination removes one destination from a fan-out list while
// preserving the relative order of the remaining entries.
func (k Keeper) UnregisterDestination(ctx sdk.Context, authority string, sender, destination common.Address, eventType string) error {
	if authority != k.authority {
		return relaytypes.ErrUnauthorized
	}
	if eventType == "" {
		return relaytypes.ErrEmptyEventType
	}

	current := k.GetDestinations(ctx, sender, eventType)
	remaining := make([]common.Address, 0, len(current))
	found := false
	for _, dest := range current {
		if dest == destination && !found {
			found = true
			continue
		}
		remaining = append(remaining, dest)
	}
	if !found {
		return relaytypes.ErrDestinationNotFound
	}

	k.setDestinations(ctx, sender, eventType, remaining)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			relaytypes.EventTypeDestinationUnregistered,
			sdk.NewAttribute(relaytypes.AttributeKeySender, sender.Hex()),
			sdk.NewAttribute(relaytypes.AttributeKeyEventType, eventType),
			sdk.NewAttribute(relaytypes.AttributeKeyDestination, destination.Hex()),
		),
	)

	return nil
}

// SetTrustedSource configures the only submitter allowed to call Deliver.
func (k Keeper) SetTrustedSource(ctx sdk.Context, authority string, source common.Address) error {
	if authority != k.authority {
		return relaytypes.ErrUnauthorized
	}
	if source == (common.Address{}) {
		return relaytypes.ErrZeroSender
	}

	store := ctx.KVStore(k.storeKey)
	store.Set(relaytypes.TrustedSourceKey, source.Bytes())

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			relaytypes.EventTypeTrustedSourceSet,
			sdk.NewAttribute(relaytypes.AttributeKeySource, source.Hex()),
		),
	)

	return nil
}

// Deliver accepts one inbound cross-ledger message and fans it out to every
// registered destination for the (sender, eventType) pair. Any rejection or
// destination failure aborts the whole call.
func (k Keeper) Deliver(ctx sdk.Context, submitter common.Address, sequence uint64, originSender common.Address, payload []byte) error {
	trusted, ok := k.GetTrustedSource(ctx)
	if !ok {
		return relaytypes.ErrTrustedSourceNotSet
	}
	if submitter != trusted {
		return relaytypes.ErrUntrustedSource
	}

	last := k.GetProcessedSequence(ctx)
	if sequence <= last {
		return relaytypes.ErrStaleSequence.Wrapf("sequence %d, last processed %d", sequence, last)
	}

	enabled, registered := k.getSenderRegistration(ctx, originSender)
	if !registered {
		return relaytypes.ErrUnknownSender.Wrapf("sender %s", originSender.Hex())
	}

	// The counter advances before dispatch so a nested re-delivery of the
	// same sequence is rejected even mid-fan-out.
	store := ctx.KVStore(k.storeKey)
	store.Set(relaytypes.ProcessedSequenceKey, relaytypes.SequenceToBytes(sequence))

	if !enabled {
		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				relaytypes.EventTypeMessageIgnored,
				sdk.NewAttribute(relaytypes.AttributeKeySender, originSender.Hex()),
				sdk.NewAttribute(relaytypes.AttributeKeySequence, strconv.FormatUint(sequence, 10)),
			),
		)
		return nil
	}

	eventType, err := types.DecodeEventTag(payload)
	if err != nil {
		return relaytypes.ErrInvalidPayload.Wrap(err.Error())
	}

	data := types.EventData(payload)
	for _, dest := range k.GetDestinations(ctx, originSender, eventType) {
		receiver, ok := k.routes[dest]
		if !ok {
			return relaytypes.ErrUnroutedDestination.Wrapf("destination %s", dest.Hex())
		}
		if err := receiver.ReceiveRelayedEvent(ctx, k.relayID, originSender, eventType, data); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				relaytypes.EventTypeMessageDelivered,
				sdk.NewAttribute(relaytypes.AttributeKeySender, originSender.Hex()),
				sdk.NewAttribute(relaytypes.AttributeKeyEventType, eventType),
				sdk.NewAttribute(relaytypes.AttributeKeyDestination, dest.Hex()),
				sdk.NewAttribute(relaytypes.AttributeKeySequence, strconv.FormatUint(sequence, 10)),
			),
		)
	}

	return nil
}

// GetProcessedSequence returns the highest accepted sequence number.
func (k Keeper) GetProcessedSequence(ctx sdk.Context) uint64 {
	store := ctx.KVStore(k.storeKey)
	return relaytypes.SequenceFromBytes(store.Get(relaytypes.ProcessedSequenceKey))
}

// GetTrustedSource returns the configured trusted submitter, if any.
func (k Keeper) GetTrustedSource(ctx sdk.Context) (common.Address, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(relaytypes.TrustedSourceKey)
	if bz == nil {
		return common.Address{}, false
	}
	return common.BytesToAddress(bz), true
}

// GetDestinations returns the ordered destination list for a (sender, eventType) pair.
func (k Keeper) GetDestinations(ctx sdk.Context, sender common.Address, eventType string) []common.Address {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(relaytypes.GetDestinationKey(sender, eventType))
	if len(bz) == 0 || len(bz)%common.AddressLength != 0 {
		return nil
	}

	dests := make([]common.Address, 0, len(bz)/common.AddressLength)
	for i := 0; i < len(bz); i += common.AddressLength {
		dests = append(dests, common.BytesToAddress(bz[i:i+common.AddressLength]))
	}
	return dests
}

// IsSenderEnabled reports whether a sender is registered and enabled.
func (k Keeper) IsSenderEnabled(ctx sdk.Context, sender common.Address) bool {
	enabled, registered := k.getSenderRegistration(ctx, sender)
	return registered && enabled
}

func (k Keeper) getSenderRegistration(ctx sdk.Context, sender common.Address) (enabled, registered bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(relaytypes.GetSenderRegistrationKey(sender))
	if bz == nil {
		return false, false
	}
	return len(bz) == 1 && bz[0] == 0x01, true
}

// SetProcessedSequence writes the sequence counter directly. Used by genesis
// initialization only; Deliver is the sole runtime writer.
func (k Keeper) SetProcessedSequence(ctx sdk.Context, sequence uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Set(relaytypes.ProcessedSequenceKey, relaytypes.SequenceToBytes(sequence))
}

// ExportSenders returns all sender registrations.
func (k Keeper) ExportSenders(ctx sdk.Context) []relaytypes.SenderStatus {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, relaytypes.SenderRegistrationKeyPrefix)
	defer iterator.Close()

	statuses := make([]relaytypes.SenderStatus, 0)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		bz := iterator.Value()
		statuses = append(statuses, relaytypes.SenderStatus{
			Sender:  common.BytesToAddress(key[len(relaytypes.SenderRegistrationKeyPrefix):]),
			Enabled: len(bz) == 1 && bz[0] == 0x01,
		})
	}
	return statuses
}

// ExportDestinations returns all destination fan-out lists.
func (k Keeper) ExportDestinations(ctx sdk.Context) []relaytypes.Registration {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, relaytypes.DestinationKeyPrefix)
	defer iterator.Close()

	regs := make([]relaytypes.Registration, 0)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		suffix := key[len(relaytypes.DestinationKeyPrefix):]
		if len(suffix) <= common.AddressLength {
			continue
		}
		sender := common.BytesToAddress(suffix[:common.AddressLength])
		eventType := string(suffix[common.AddressLength:])

		bz := iterator.Value()
		dests := make([]common.Address, 0, len(bz)/common.AddressLength)
		for i := 0; i+common.AddressLength <= len(bz); i += common.AddressLength {
			dests = append(dests, common.BytesToAddress(bz[i:i+common.AddressLength]))
		}
		regs = append(regs, relaytypes.Registration{Sender: sender, EventType: eventType, Destinations: dests})
	}
	return regs
}

func (k Keeper) setDestinations(ctx sdk.Context, sender common.Address, eventType string, dests []common.Address) {
	store := ctx.KVStore(k.storeKey)
	key := relaytypes.GetDestinationKey(sender, eventType)
	if len(dests) == 0 {
		store.Delete(key)
		return
	}
	bz := make([]byte, 0, len(dests)*common.AddressLength)
	for _, dest := range dests {
		bz = append(bz, dest.Bytes()...)
	}
	store.Set(key, bz)
}
