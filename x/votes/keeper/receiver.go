package keeper

import (
	"strconv"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/govbridge/cosmos/types"
	votestypes "github.com/govbridge/cosmos/x/votes/types"
)

var _ types.EventReceiver = (*Keeper)(nil)

// ReceiveRelayedEvent is the aggregator's relay destination entry point. Only
// the relay configured at wiring may call it.
func (k *Keeper) ReceiveRelayedEvent(ctx sdk.Context, relayID, originSender common.Address, eventType string, data []byte) error {
	if k.trustedRelay == (common.Address{}) || relayID != k.trustedRelay {
		return votestypes.ErrUnauthorizedRelay.Wrapf("relay %s", relayID.Hex())
	}

	switch eventType {
	case types.EventDeposit, types.EventTransfer, types.EventSlash,
		types.EventWithdraw, types.EventWithdrawalRequest:
		return k.onBalanceChange(ctx, eventType, data)

	case types.EventDelegationEnabled, types.EventDelegationDisabled:
		ev, err := types.DecodeDelegationEvent(data)
		if err != nil {
			return votestypes.ErrInvalidPayload.Wrap(err.Error())
		}
		if ev.Purpose != types.PurposeVoting {
			return nil
		}
		accounts := []common.Address{ev.From}
		if ev.To != (common.Address{}) {
			accounts = append(accounts, ev.To)
		}
		k.UpdateUserVoteTotals(ctx, accounts)
		return nil

	case types.EventCycleComplete:
		ev, err := types.DecodeCycleEvent(data)
		if err != nil {
			return votestypes.ErrInvalidPayload.Wrap(err.Error())
		}
		return k.onCycleRollover(ctx, ev)

	case types.EventVote:
		payload, err := votestypes.DecodeVotePayload(data)
		if err != nil {
			return votestypes.ErrInvalidPayload.Wrap(err.Error())
		}
		return k.onEventVote(ctx, payload)

	default:
		return votestypes.ErrUnsupportedEvent.Wrapf("event type %q", eventType)
	}
}

// onBalanceChange rebalances the affected account. Withdrawal requests also
// emit a post-rebalance snapshot of the account's allocations.
func (k Keeper) onBalanceChange(ctx sdk.Context, eventType string, data []byte) error {
	ev, err := types.DecodeBalanceEvent(data)
	if err != nil {
		return votestypes.ErrInvalidPayload.Wrap(err.Error())
	}

	k.UpdateUserVoteTotals(ctx, []common.Address{ev.Account})

	if eventType == types.EventWithdrawalRequest {
		k.emitVoteSnapshot(ctx, votestypes.EventTypeSnapshot, ev.Account, k.getUserVoteInfo(ctx, ev.Account))
	}
	return nil
}

// onCycleRollover snapshots the system-wide aggregation under the outgoing
// session key and derives the new session key from the cycle material.
// Per-account allocations persist into the new session.
func (k Keeper) onCycleRollover(ctx sdk.Context, ev types.CycleEvent) error {
	outgoing := k.GetSessionKey(ctx)
	snapshot := k.GetSystemVotes(ctx)

	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.GetSnapshotKey(outgoing), votestypes.EncodeKeyAmounts(snapshot))

	next := crypto.Keccak256Hash(indexToBytes(ev.CycleIndex), indexToBytes(uint64(ev.Timestamp)))
	k.SetSessionKey(ctx, next)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			votestypes.EventTypeCycleRolledOver,
			sdk.NewAttribute(votestypes.AttributeKeyCycleIndex, strconv.FormatUint(ev.CycleIndex, 10)),
			sdk.NewAttribute(votestypes.AttributeKeyTimestamp, strconv.FormatInt(ev.Timestamp, 10)),
			sdk.NewAttribute(votestypes.AttributeKeySessionKey, next.Hex()),
		),
	)

	return nil
}

// onEventVote applies a vote forwarded from the other ledger. No local
// signature check; the payload's chain id must still match the configured
// signing chain id. Relay sequencing provides the replay guard on this path.
func (k Keeper) onEventVote(ctx sdk.Context, payload votestypes.VotePayload) error {
	if err := payload.Validate(); err != nil {
		return err
	}
	if payload.ChainID != k.GetSigningChainID(ctx) {
		return votestypes.ErrChainIDMismatch.Wrapf("payload chain id %d", payload.ChainID)
	}
	return k.vote(ctx, payload)
}
