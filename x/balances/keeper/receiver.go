package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/types"
	balancestypes "github.com/govbridge/cosmos/x/balances/types"
)

var _ types.EventReceiver = (*Keeper)(nil)

// ReceiveRelayedEvent is the ledger's relay destination entry point. Only the
// relay configured at wiring may call it; every other caller is rejected.
func (k *Keeper) ReceiveRelayedEvent(ctx sdk.Context, relayID, originSender common.Address, eventType string, data []byte) error {
	if k.trustedRelay == (common.Address{}) || relayID != k.trustedRelay {
		return balancestypes.ErrUnauthorizedRelay.Wrapf("relay %s", relayID.Hex())
	}

	switch eventType {
	case types.EventDeposit, types.EventTransfer, types.EventSlash,
		types.EventWithdraw, types.EventWithdrawalRequest:
		ev, err := types.DecodeBalanceEvent(data)
		if err != nil {
			return balancestypes.ErrInvalidPayload.Wrap(err.Error())
		}
		_, err = k.UpdateBalance(ctx, ev.Account, ev.Token, ev.Amount, true)
		return err

	case types.EventDelegationEnabled:
		ev, err := types.DecodeDelegationEvent(data)
		if err != nil {
			return balancestypes.ErrInvalidPayload.Wrap(err.Error())
		}
		if ev.Purpose != types.PurposeVoting {
			k.Logger(ctx).Debug("ignoring delegation event", "purpose", ev.Purpose, "sender", originSender.Hex())
			return nil
		}
		return k.EnableDelegation(ctx, ev.From, ev.To)

	case types.EventDelegationDisabled:
		ev, err := types.DecodeDelegationEvent(data)
		if err != nil {
			return balancestypes.ErrInvalidPayload.Wrap(err.Error())
		}
		if ev.Purpose != types.PurposeVoting {
			k.Logger(ctx).Debug("ignoring delegation event", "purpose", ev.Purpose, "sender", originSender.Hex())
			return nil
		}
		return k.DisableDelegation(ctx, ev.From)

	default:
		return balancestypes.ErrUnsupportedEvent.Wrapf("event type %q", eventType)
	}
}
