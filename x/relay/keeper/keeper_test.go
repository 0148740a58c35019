package keeper_test

import (
	"testing"

	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/testutil"
	commontypes "github.com/govbridge/cosmos/types"
	"github.com/govbridge/cosmos/x/relay/keeper"
	"github.com/govbridge/cosmos/x/relay/types"
)

var (
	relayID       = common.BytesToAddress([]byte("relay-component"))
	trustedSource = common.BytesToAddress([]byte{0xAA})
	originSender  = common.BytesToAddress([]byte{0xBB})
	destinationA  = common.BytesToAddress([]byte("dest-a"))
	destinationB  = common.BytesToAddress([]byte("dest-b"))
)

// recordingReceiver captures every relayed event it is handed.
type recordingReceiver struct {
	calls []receivedEvent
}

type receivedEvent struct {
	RelayID   common.Address
	Sender    common.Address
	EventType string
	Data      []byte
}

func (r *recordingReceiver) ReceiveRelayedEvent(ctx sdk.Context, relayID, originSender common.Address, eventType string, data []byte) error {
	r.calls = append(r.calls, receivedEvent{RelayID: relayID, Sender: originSender, EventType: eventType, Data: data})
	return nil
}

func setupRelayTestEnvironment(t *testing.T) (sdk.Context, *keeper.Keeper, *recordingReceiver) {
	t.Helper()

	key := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.NewTestContext(t, key)

	k := keeper.NewKeeper(key, testutil.Authority, relayID)
	receiver := &recordingReceiver{}
	k.SetRoute(destinationA, receiver)

	require.NoError(t, k.SetTrustedSource(ctx, testutil.Authority, trustedSource))
	require.NoError(t, k.RegisterSender(ctx, testutil.Authority, originSender, true))
	require.NoError(t, k.RegisterDestinations(ctx, testutil.Authority, []types.Registration{{
		Sender:       originSender,
		EventType:    commontypes.EventDeposit,
		Destinations: []common.Address{destinationA},
	}}))

	return ctx, k, receiver
}

func depositPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := commontypes.EncodeBalanceEvent(commontypes.EventDeposit, commontypes.BalanceEvent{
		Account: common.BytesToAddress([]byte{0x01}),
		Token:   common.BytesToAddress([]byte{0x02}),
		Amount:  math.NewInt(500),
	})
	require.NoError(t, err)
	return payload
}

func TestDeliverFansOutToRegisteredDestinations(t *testing.T) {
	ctx, k, receiver := setupRelayTestEnvironment(t)

	err := k.Deliver(ctx, trustedSource, 1, originSender, depositPayload(t))
	require.NoError(t, err)

	require.Len(t, receiver.calls, 1)
	require.Equal(t, relayID, receiver.calls[0].RelayID)
	require.Equal(t, originSender, receiver.calls[0].Sender)
	require.Equal(t, commontypes.EventDeposit, receiver.calls[0].EventType)
	require.Equal(t, uint64(1), k.GetProcessedSequence(ctx))
}

func TestDeliverRejectsUntrustedSubmitter(t *testing.T) {
	ctx, k, receiver := setupRelayTestEnvironment(t)

	err := k.Deliver(ctx, common.BytesToAddress([]byte{0xCC}), 1, originSender, depositPayload(t))
	require.ErrorIs(t, err, types.ErrUntrustedSource)
	require.Empty(t, receiver.calls)
	require.Equal(t, uint64(0), k.GetProcessedSequence(ctx))
}

func TestDeliverRejectsUnknownSender(t *testing.T) {
	ctx, k, receiver := setupRelayTestEnvironment(t)

	unknown := common.BytesToAddress([]byte{0xDD})
	err := k.Deliver(ctx, trustedSource, 1, unknown, depositPayload(t))
	require.ErrorIs(t, err, types.ErrUnknownSender)
	require.Empty(t, receiver.calls)
}

func TestDeliverIgnoresDisabledSender(t *testing.T) {
	ctx, k, receiver := setupRelayTestEnvironment(t)

	require.NoError(t, k.RegisterSender(ctx, testutil.Authority, originSender, false))

	// A registered but disabled sender is accepted without any fan-out, and
	// the sequence counter still advances.
	err := k.Deliver(ctx, trustedSource, 1, originSender, depositPayload(t))
	require.NoError(t, err)
	require.Empty(t, receiver.calls)
	require.Equal(t, uint64(1), k.GetProcessedSequence(ctx))
}

func TestDeliverRejectsReplayedSequence(t *testing.T) {
	ctx, k, receiver := setupRelayTestEnvironment(t)

	payload := depositPayload(t)
	require.NoError(t, k.Deliver(ctx, trustedSource, 5, originSender, payload))

	// Neither the same sequence nor an earlier one is accepted again.
	err := k.Deliver(ctx, trustedSource, 5, originSender, payload)
	require.ErrorIs(t, err, types.ErrStaleSequence)
	err = k.Deliver(ctx, trustedSource, 3, originSender, payload)
	require.ErrorIs(t, err, types.ErrStaleSequence)

	require.Len(t, receiver.calls, 1)
}

func TestDeliverRejectsUnroutedDestination(t *testing.T) {
	ctx, k, receiver := setupRelayTestEnvironment(t)

	require.NoError(t, k.RegisterDestinations(ctx, testutil.Authority, []types.Registration{{
		Sender:       originSender,
		EventType:    commontypes.EventDeposit,
		Destinations: []common.Address{destinationB},
	}}))

	err := k.Deliver(ctx, trustedSource, 1, originSender, depositPayload(t))
	require.ErrorIs(t, err, types.ErrUnroutedDestination)
	require.Empty(t, receiver.calls)
}

func TestRegisterDestinationsReplacesList(t *testing.T) {
	ctx, k, _ := setupRelayTestEnvironment(t)

	require.NoError(t, k.RegisterDestinations(ctx, testutil.Authority, []types.Registration{{
		Sender:       originSender,
		EventType:    commontypes.EventDeposit,
		Destinations: []common.Address{destinationB},
	}}))

	// Registration replaces the whole list, it does not append.
	dests := k.GetDestinations(ctx, originSender, commontypes.EventDeposit)
	require.Equal(t, []common.Address{destinationB}, dests)
}

func TestUnregisterDestinationPreservesOrder(t *testing.T) {
	ctx, k, _ := setupRelayTestEnvironment(t)

	destC := common.BytesToAddress([]byte("dest-c"))
	require.NoError(t, k.RegisterDestinations(ctx, testutil.Authority, []types.Registration{{
		Sender:       originSender,
		EventType:    commontypes.EventDeposit,
		Destinations: []common.Address{destinationA, destinationB, destC},
	}}))

	require.NoError(t, k.UnregisterDestination(ctx, testutil.Authority, originSender, destinationB, commontypes.EventDeposit))

	dests := k.GetDestinations(ctx, originSender, commontypes.EventDeposit)
	require.Equal(t, []common.Address{destinationA, destC}, dests)

	err := k.UnregisterDestination(ctx, testutil.Authority, originSender, destinationB, commontypes.EventDeposit)
	require.ErrorIs(t, err, types.ErrDestinationNotFound)
}

func TestAdminCallsRequireAuthority(t *testing.T) {
	ctx, k, _ := setupRelayTestEnvironment(t)

	require.ErrorIs(t, k.RegisterSender(ctx, "cosmos1intruder", originSender, true), types.ErrUnauthorized)
	require.ErrorIs(t, k.SetTrustedSource(ctx, "cosmos1intruder", trustedSource), types.ErrUnauthorized)
	require.ErrorIs(t, k.UnregisterDestination(ctx, "cosmos1intruder", originSender, destinationA, commontypes.EventDeposit), types.ErrUnauthorized)
}

func TestSequenceMonotonicityProperty(t *testing.T) {
	properties := testutil.NewPropertyTester(t)

	properties.Property("processed sequence only ever increases", prop.ForAll(
		func(sequences []uint64) bool {
			ctx, k, receiver := setupRelayTestEnvironment(t)
			payload := depositPayload(t)

			accepted := 0
			highest := uint64(0)
			for _, seq := range sequences {
				err := k.Deliver(ctx, trustedSource, seq, originSender, payload)
				if seq > highest {
					// Verify strictly increasing sequences are accepted
					if err != nil {
						return false
					}
					highest = seq
					accepted++
				} else if err == nil {
					// Verify stale sequences are never accepted
					return false
				}
			}

			// Verify exactly one fan-out per accepted message
			return len(receiver.calls) == accepted && k.GetProcessedSequence(ctx) == highest
		},
		gen.SliceOf(gen.UInt64Range(1, 50)),
	))

	properties.TestingRun(t)
}
