package keeper

import (
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	votestypes "github.com/govbridge/cosmos/x/votes/types"
)

// Vote validates a detached signature over a payload and applies the
// allocation. Registered proxy submitters are rate-limited by block height
// and sign against their configured chain id instead of the live one.
func (k Keeper) Vote(ctx sdk.Context, submitter common.Address, payload votestypes.VotePayload, signature []byte) error {
	if k.IsPaused(ctx) {
		return votestypes.ErrPaused
	}
	if err := payload.Validate(); err != nil {
		return err
	}

	chainID := k.GetSigningChainID(ctx)
	if proxy, ok := k.GetProxySubmitter(ctx, submitter); ok && proxy.Enabled {
		gap := k.GetProxyRateLimit(ctx)
		last := k.getLastProxyVote(ctx, payload.Account)
		if last > 0 && ctx.BlockHeight()-last < gap {
			return votestypes.ErrProxyRateLimited.Wrapf("last proxy vote at height %d, gap %d", last, gap)
		}
		k.setLastProxyVote(ctx, payload.Account, ctx.BlockHeight())
		chainID = proxy.SigningChainID
	}

	digest := votestypes.VoteDigest(chainID, k.aggregatorID, payload)
	signer, err := votestypes.RecoverSigner(digest, signature)
	if err != nil {
		return err
	}
	if signer != payload.Account {
		return votestypes.ErrSignerMismatch.Wrapf("recovered %s, payload account %s", signer.Hex(), payload.Account.Hex())
	}

	if err := k.consumeNonce(ctx, payload.Account, payload.Nonce); err != nil {
		return err
	}
	return k.vote(ctx, payload)
}

// VoteDirect applies an allocation for a submitter acting as the account
// itself. No signature; nonce and session key are still enforced.
func (k Keeper) VoteDirect(ctx sdk.Context, submitter common.Address, payload votestypes.VotePayload) error {
	if k.IsPaused(ctx) {
		return votestypes.ErrPaused
	}
	if err := payload.Validate(); err != nil {
		return err
	}
	if submitter != payload.Account {
		return votestypes.ErrUnauthorized.Wrapf("submitter %s is not account %s", submitter.Hex(), payload.Account.Hex())
	}

	if err := k.consumeNonce(ctx, payload.Account, payload.Nonce); err != nil {
		return err
	}
	return k.vote(ctx, payload)
}

// vote is the core allocation algorithm shared by every submission path.
func (k Keeper) vote(ctx sdk.Context, payload votestypes.VotePayload) error {
	if payload.SessionKey != k.GetSessionKey(ctx) {
		return votestypes.ErrSessionKeyMismatch.Wrapf("session %s", payload.SessionKey.Hex())
	}

	info := k.getUserVoteInfo(ctx, payload.Account)
	totalUsed := info.TotalUsed

	for _, item := range payload.Allocations {
		if !k.hasReactorKey(ctx, item.ReactorKey) {
			return votestypes.ErrUnknownReactorKey.Wrapf("key %s", item.ReactorKey.Hex())
		}

		old := info.AllocationFor(item.ReactorKey)
		delta := item.Amount.Sub(old)
		if delta.IsZero() {
			continue
		}

		k.addSystemAggregation(ctx, item.ReactorKey, delta)
		totalUsed = totalUsed.Add(delta)
		info = applyAllocation(info, item.ReactorKey, item.Amount)
	}

	if !totalUsed.Equal(payload.TotalVotes) {
		return votestypes.ErrTotalMismatch.Wrapf("declared %s, computed %s", payload.TotalVotes, totalUsed)
	}

	available := k.GetMaxVoteBalance(ctx, payload.Account)
	if totalUsed.GT(available) {
		return votestypes.ErrInsufficientPower.Wrapf("requested %s, available %s", totalUsed, available)
	}

	info.TotalUsed = totalUsed
	info.TotalAvailable = available
	k.setUserVoteInfo(ctx, payload.Account, info)

	k.emitVoteSnapshot(ctx, votestypes.EventTypeVoteCast, payload.Account, info)
	return nil
}

// UpdateUserVoteTotals recomputes each account's available power and, when it
// has dropped below the committed used-votes, proportionally rescales every
// active allocation with truncating division in stored order.
func (k Keeper) UpdateUserVoteTotals(ctx sdk.Context, accounts []common.Address) {
	for _, account := range accounts {
		info := k.getUserVoteInfo(ctx, account)
		available := k.GetMaxVoteBalance(ctx, account)

		if info.TotalUsed.IsZero() || available.GTE(info.TotalUsed) {
			info.TotalAvailable = available
			k.setUserVoteInfo(ctx, account, info)
			continue
		}

		oldTotal := info.TotalUsed
		newTotal := math.ZeroInt()
		kept := make([]votestypes.VoteAllocation, 0, len(info.Allocations))
		for _, alloc := range info.Allocations {
			newAmount := math.ZeroInt()
			if !available.IsZero() {
				newAmount = available.Mul(alloc.Amount).Quo(oldTotal)
			}

			k.addSystemAggregation(ctx, alloc.ReactorKey, newAmount.Sub(alloc.Amount))
			if !newAmount.IsZero() {
				kept = append(kept, votestypes.VoteAllocation{ReactorKey: alloc.ReactorKey, Amount: newAmount})
				newTotal = newTotal.Add(newAmount)
			}
		}

		info.Allocations = kept
		info.TotalUsed = newTotal
		info.TotalAvailable = available
		k.setUserVoteInfo(ctx, account, info)

		k.emitVoteSnapshot(ctx, votestypes.EventTypeVotesRebalanced, account, info)
	}
}

func (k Keeper) consumeNonce(ctx sdk.Context, account common.Address, nonce uint64) error {
	expected := k.GetNonce(ctx, account)
	if nonce != expected {
		return votestypes.ErrNonceMismatch.Wrapf("got %d, expected %d", nonce, expected)
	}
	k.setNonce(ctx, account, expected+1)
	return nil
}

// applyAllocation sets one key's amount in the active list, removing the key
// when the amount reaches zero and preserving order otherwise.
func applyAllocation(info votestypes.UserVoteInfo, key common.Hash, amount math.Int) votestypes.UserVoteInfo {
	for i, alloc := range info.Allocations {
		if alloc.ReactorKey != key {
			continue
		}
		if amount.IsZero() {
			info.Allocations = append(info.Allocations[:i], info.Allocations[i+1:]...)
		} else {
			info.Allocations[i].Amount = amount
		}
		return info
	}

	if !amount.IsZero() {
		info.Allocations = append(info.Allocations, votestypes.VoteAllocation{ReactorKey: key, Amount: amount})
	}
	return info
}

func (k Keeper) emitVoteSnapshot(ctx sdk.Context, eventType string, account common.Address, info votestypes.UserVoteInfo) {
	entries := make([]votestypes.AllocationEntry, 0, len(info.Allocations))
	for _, alloc := range info.Allocations {
		entries = append(entries, votestypes.AllocationEntry{ReactorKey: alloc.ReactorKey.Hex(), Amount: alloc.Amount})
	}
	allocations := votestypes.ModuleCdc.MustMarshalJSON(entries)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			eventType,
			sdk.NewAttribute(votestypes.AttributeKeyAccount, account.Hex()),
			sdk.NewAttribute(votestypes.AttributeKeyTotalUsed, info.TotalUsed.String()),
			sdk.NewAttribute(votestypes.AttributeKeyTotalAvailable, info.TotalAvailable.String()),
			sdk.NewAttribute(votestypes.AttributeKeyAllocations, string(allocations)),
			sdk.NewAttribute(votestypes.AttributeKeyCount, strconv.Itoa(len(info.Allocations))),
		),
	)
}
