package keeper_test

import (
	"crypto/ecdsa"
	"testing"

	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/govbridge/cosmos/testutil"
	commontypes "github.com/govbridge/cosmos/types"
	balanceskeeper "github.com/govbridge/cosmos/x/balances/keeper"
	balancestypes "github.com/govbridge/cosmos/x/balances/types"
	"github.com/govbridge/cosmos/x/votes/keeper"
	"github.com/govbridge/cosmos/x/votes/types"
)

var (
	aggregatorRelayID = common.BytesToAddress([]byte("relay-component"))
	aggregatorID      = common.BytesToAddress([]byte("votes-component"))
	votingToken       = common.BytesToAddress([]byte("token-x"))
	reactorKeyA       = common.BytesToHash([]byte("reactor-a"))
	reactorKeyB       = common.BytesToHash([]byte("reactor-b"))
	voter             = common.BytesToAddress([]byte{0x11})
	signingChainID    = uint64(7)
)

type votesTestEnv struct {
	ctx      sdk.Context
	keeper   *keeper.Keeper
	balances *balanceskeeper.Keeper
}

func setupVotesTestEnvironment(t *testing.T) votesTestEnv {
	t.Helper()

	votesKey := storetypes.NewKVStoreKey(types.StoreKey)
	balancesKey := storetypes.NewKVStoreKey(balancestypes.StoreKey)
	ctx := testutil.NewTestContext(t, votesKey, balancesKey)

	bk := balanceskeeper.NewKeeper(balancesKey, testutil.Authority)
	bk.SetTrustedRelay(aggregatorRelayID)
	require.NoError(t, bk.AddSupportedTokens(ctx, testutil.Authority, []common.Address{votingToken}))

	k := keeper.NewKeeper(votesKey, testutil.Authority, aggregatorID)
	k.SetBalancesKeeper(bk)
	k.SetTrustedRelay(aggregatorRelayID)

	require.NoError(t, k.SetReactorKeys(ctx, testutil.Authority, []types.ReactorKeyInfo{
		{Key: reactorKeyA, Token: votingToken},
		{Key: reactorKeyB, Token: votingToken},
	}, nil))
	require.NoError(t, k.SetVoteMultipliers(ctx, testutil.Authority, []types.MultiplierEntry{
		{Token: votingToken, Multiplier: types.ScalingBase},
	}))
	require.NoError(t, k.SetSigningChainID(ctx, testutil.Authority, signingChainID))

	return votesTestEnv{ctx: ctx, keeper: k, balances: bk}
}

func (env votesTestEnv) fund(t *testing.T, account common.Address, amount int64) {
	t.Helper()
	_, err := env.balances.UpdateBalance(env.ctx, account, votingToken, math.NewInt(amount), true)
	require.NoError(t, err)
}

func (env votesTestEnv) payload(account common.Address, nonce uint64, total int64, amounts map[common.Hash]int64) types.VotePayload {
	allocations := make([]types.VoteAllocation, 0, len(amounts))
	for _, key := range []common.Hash{reactorKeyA, reactorKeyB} {
		if amount, ok := amounts[key]; ok {
			allocations = append(allocations, types.VoteAllocation{ReactorKey: key, Amount: math.NewInt(amount)})
		}
	}
	return types.VotePayload{
		Account:     account,
		ChainID:     signingChainID,
		SessionKey:  env.keeper.GetSessionKey(env.ctx),
		Nonce:       nonce,
		TotalVotes:  math.NewInt(total),
		Allocations: allocations,
	}
}

func signPayload(t *testing.T, env votesTestEnv, key *ecdsa.PrivateKey, payload types.VotePayload) []byte {
	t.Helper()
	digest := types.VoteDigest(signingChainID, aggregatorID, payload)
	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)
	return sig
}

func TestVoteDirectAllocatesPower(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	err := env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 1000, map[common.Hash]int64{
		reactorKeyA: 600,
		reactorKeyB: 400,
	}))
	require.NoError(t, err)

	info := env.keeper.GetUserVotes(env.ctx, voter)
	require.Equal(t, math.NewInt(1000), info.TotalUsed)
	require.Equal(t, math.NewInt(1000), info.TotalAvailable)
	require.Len(t, info.Allocations, 2)

	require.Equal(t, math.NewInt(600), env.keeper.GetSystemVote(env.ctx, reactorKeyA))
	require.Equal(t, math.NewInt(400), env.keeper.GetSystemVote(env.ctx, reactorKeyB))
	require.Equal(t, uint64(1), env.keeper.GetNonce(env.ctx, voter))
}

func TestVoteAdjustsExistingAllocations(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 1000, map[common.Hash]int64{
		reactorKeyA: 600,
		reactorKeyB: 400,
	})))

	// A later submission restates per-key amounts; deltas flow into the
	// system aggregation and zero amounts drop out of the active list.
	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 1, 250, map[common.Hash]int64{
		reactorKeyA: 250,
		reactorKeyB: 0,
	})))

	info := env.keeper.GetUserVotes(env.ctx, voter)
	require.Equal(t, math.NewInt(250), info.TotalUsed)
	require.Len(t, info.Allocations, 1)
	require.Equal(t, reactorKeyA, info.Allocations[0].ReactorKey)

	require.Equal(t, math.NewInt(250), env.keeper.GetSystemVote(env.ctx, reactorKeyA))
	require.True(t, env.keeper.GetSystemVote(env.ctx, reactorKeyB).IsZero())
}

func TestVoteRejections(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	// Declared total must match the computed running total.
	err := env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 999, map[common.Hash]int64{reactorKeyA: 600, reactorKeyB: 400}))
	require.ErrorIs(t, err, types.ErrTotalMismatch)

	// Requested power above the delegation-adjusted balance is rejected.
	err = env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 1, 1001, map[common.Hash]int64{reactorKeyA: 1001}))
	require.ErrorIs(t, err, types.ErrInsufficientPower)

	// Unknown reactor keys abort the whole submission.
	unknown := common.BytesToHash([]byte("reactor-z"))
	payload := env.payload(voter, 2, 10, nil)
	payload.Allocations = []types.VoteAllocation{{ReactorKey: unknown, Amount: math.NewInt(10)}}
	err = env.keeper.VoteDirect(env.ctx, voter, payload)
	require.ErrorIs(t, err, types.ErrUnknownReactorKey)

	// Stale session keys are rejected.
	payload = env.payload(voter, 3, 10, map[common.Hash]int64{reactorKeyA: 10})
	payload.SessionKey = common.BytesToHash([]byte("old-session"))
	err = env.keeper.VoteDirect(env.ctx, voter, payload)
	require.ErrorIs(t, err, types.ErrSessionKeyMismatch)

	// Submitting on behalf of another account needs the signature path.
	err = env.keeper.VoteDirect(env.ctx, common.BytesToAddress([]byte{0x22}), env.payload(voter, 4, 10, map[common.Hash]int64{reactorKeyA: 10}))
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestVoteNonceReplayRejected(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	payload := env.payload(voter, 0, 100, map[common.Hash]int64{reactorKeyA: 100})
	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, payload))

	err := env.keeper.VoteDirect(env.ctx, voter, payload)
	require.ErrorIs(t, err, types.ErrNonceMismatch)

	// Verify the replayed submission left the aggregation untouched.
	require.Equal(t, math.NewInt(100), env.keeper.GetSystemVote(env.ctx, reactorKeyA))
}

func TestSignedVoteRecoversAccount(t *testing.T) {
	env := setupVotesTestEnvironment(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	account := crypto.PubkeyToAddress(key.PublicKey)
	env.fund(t, account, 500)

	submitter := common.BytesToAddress([]byte{0x33})
	payload := env.payload(account, 0, 500, map[common.Hash]int64{reactorKeyA: 500})

	err = env.keeper.Vote(env.ctx, submitter, payload, signPayload(t, env, key, payload))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(500), env.keeper.GetUserVotes(env.ctx, account).TotalUsed)
}

func TestSignedVoteRejectsForeignSigner(t *testing.T) {
	env := setupVotesTestEnvironment(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	env.fund(t, voter, 500)

	// The signature recovers the key holder, not the payload account.
	payload := env.payload(voter, 0, 500, map[common.Hash]int64{reactorKeyA: 500})
	err = env.keeper.Vote(env.ctx, common.BytesToAddress([]byte{0x33}), payload, signPayload(t, env, key, payload))
	require.ErrorIs(t, err, types.ErrSignerMismatch)
}

func TestProxySubmitterRateLimit(t *testing.T) {
	env := setupVotesTestEnvironment(t)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	account := crypto.PubkeyToAddress(key.PublicKey)
	env.fund(t, account, 1000)

	proxy := common.BytesToAddress([]byte{0x44})
	require.NoError(t, env.keeper.SetProxySubmitters(env.ctx, testutil.Authority, map[common.Address]types.ProxySubmitter{
		proxy: {Enabled: true, SigningChainID: signingChainID},
	}))
	require.NoError(t, env.keeper.SetProxyRateLimit(env.ctx, testutil.Authority, 5))

	ctx := env.ctx.WithBlockHeight(10)
	payload := env.payload(account, 0, 100, map[common.Hash]int64{reactorKeyA: 100})
	require.NoError(t, env.keeper.Vote(ctx, proxy, payload, signPayload(t, env, key, payload)))

	// Another proxy submission for the same account inside the window fails.
	ctx = env.ctx.WithBlockHeight(12)
	payload = env.payload(account, 1, 200, map[common.Hash]int64{reactorKeyA: 200})
	err = env.keeper.Vote(ctx, proxy, payload, signPayload(t, env, key, payload))
	require.ErrorIs(t, err, types.ErrProxyRateLimited)

	// After the window passes the proxy may submit again.
	ctx = env.ctx.WithBlockHeight(20)
	require.NoError(t, env.keeper.Vote(ctx, proxy, payload, signPayload(t, env, key, payload)))
}

func TestPauseBlocksSubmissionsOnly(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 100, map[common.Hash]int64{reactorKeyA: 100})))
	require.NoError(t, env.keeper.SetPaused(env.ctx, testutil.Authority, true))

	err := env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 1, 200, map[common.Hash]int64{reactorKeyA: 200}))
	require.ErrorIs(t, err, types.ErrPaused)
	err = env.keeper.Vote(env.ctx, voter, env.payload(voter, 1, 200, nil), make([]byte, 65))
	require.ErrorIs(t, err, types.ErrPaused)

	// Reads and relayed balance events keep flowing while paused.
	require.Equal(t, math.NewInt(100), env.keeper.GetUserVotes(env.ctx, voter).TotalUsed)
	require.Equal(t, math.NewInt(1000), env.keeper.GetMaxVoteBalance(env.ctx, voter))

	require.NoError(t, env.keeper.SetPaused(env.ctx, testutil.Authority, false))
	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 1, 200, map[common.Hash]int64{reactorKeyA: 200})))
}

func TestRebalanceScalesDownProportionally(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 1000, map[common.Hash]int64{
		reactorKeyA: 600,
		reactorKeyB: 400,
	})))

	// Halving the balance halves each allocation with truncating division.
	env.fund(t, voter, 500)
	env.keeper.UpdateUserVoteTotals(env.ctx, []common.Address{voter})

	info := env.keeper.GetUserVotes(env.ctx, voter)
	require.Equal(t, math.NewInt(500), info.TotalUsed)
	require.Equal(t, math.NewInt(500), info.TotalAvailable)
	require.Equal(t, math.NewInt(300), info.AllocationFor(reactorKeyA))
	require.Equal(t, math.NewInt(200), info.AllocationFor(reactorKeyB))

	require.Equal(t, math.NewInt(300), env.keeper.GetSystemVote(env.ctx, reactorKeyA))
	require.Equal(t, math.NewInt(200), env.keeper.GetSystemVote(env.ctx, reactorKeyB))
}

func TestRebalanceNeverScalesUp(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 400, map[common.Hash]int64{reactorKeyA: 400})))

	// A balance increase only lifts the available figure.
	env.fund(t, voter, 5000)
	env.keeper.UpdateUserVoteTotals(env.ctx, []common.Address{voter})

	info := env.keeper.GetUserVotes(env.ctx, voter)
	require.Equal(t, math.NewInt(400), info.TotalUsed)
	require.Equal(t, math.NewInt(5000), info.TotalAvailable)
}

func TestRebalanceClearsAllOnZeroBalance(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 1000, map[common.Hash]int64{
		reactorKeyA: 600,
		reactorKeyB: 400,
	})))

	env.fund(t, voter, 0)
	env.keeper.UpdateUserVoteTotals(env.ctx, []common.Address{voter})

	info := env.keeper.GetUserVotes(env.ctx, voter)
	require.True(t, info.TotalUsed.IsZero())
	require.Empty(t, info.Allocations)
	require.True(t, env.keeper.GetSystemVote(env.ctx, reactorKeyA).IsZero())
	require.True(t, env.keeper.GetSystemVote(env.ctx, reactorKeyB).IsZero())
}

func TestRelayedBalanceEventTriggersRebalance(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 1000, map[common.Hash]int64{
		reactorKeyA: 600,
		reactorKeyB: 400,
	})))

	// The ledger processes the slash first, then the aggregator reacts to
	// the same relayed event.
	env.fund(t, voter, 500)
	payload, err := commontypes.EncodeBalanceEvent(commontypes.EventSlash, commontypes.BalanceEvent{
		Account: voter,
		Token:   votingToken,
		Amount:  math.NewInt(500),
	})
	require.NoError(t, err)
	err = env.keeper.ReceiveRelayedEvent(env.ctx, aggregatorRelayID, common.BytesToAddress([]byte{0xBB}), commontypes.EventSlash, commontypes.EventData(payload))
	require.NoError(t, err)

	info := env.keeper.GetUserVotes(env.ctx, voter)
	require.Equal(t, math.NewInt(500), info.TotalUsed)
	require.Equal(t, math.NewInt(300), info.AllocationFor(reactorKeyA))
	require.Equal(t, math.NewInt(200), info.AllocationFor(reactorKeyB))
}

func TestReceiveRelayedEventRejectsUnknownRelay(t *testing.T) {
	env := setupVotesTestEnvironment(t)

	payload, err := commontypes.EncodeCycleEvent(commontypes.CycleEvent{CycleIndex: 1, Timestamp: 1700000000})
	require.NoError(t, err)
	err = env.keeper.ReceiveRelayedEvent(env.ctx, common.BytesToAddress([]byte("imposter")), common.BytesToAddress([]byte{0xBB}), commontypes.EventCycleComplete, commontypes.EventData(payload))
	require.ErrorIs(t, err, types.ErrUnauthorizedRelay)
}

func TestCycleRolloverRotatesSessionKey(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 1000, map[common.Hash]int64{
		reactorKeyA: 600,
		reactorKeyB: 400,
	})))

	outgoing := env.keeper.GetSessionKey(env.ctx)
	payload, err := commontypes.EncodeCycleEvent(commontypes.CycleEvent{CycleIndex: 3, Timestamp: 1700000000})
	require.NoError(t, err)
	err = env.keeper.ReceiveRelayedEvent(env.ctx, aggregatorRelayID, common.BytesToAddress([]byte{0xBB}), commontypes.EventCycleComplete, commontypes.EventData(payload))
	require.NoError(t, err)

	next := env.keeper.GetSessionKey(env.ctx)
	require.NotEqual(t, outgoing, next)

	// Verify the outgoing aggregation was snapshotted.
	snapshot := env.keeper.GetSnapshot(env.ctx, outgoing)
	require.Len(t, snapshot, 2)

	// Verify allocations persist across the rollover and submissions under
	// the old session key are rejected.
	require.Equal(t, math.NewInt(1000), env.keeper.GetUserVotes(env.ctx, voter).TotalUsed)
	stale := env.payload(voter, 1, 1000, map[common.Hash]int64{reactorKeyA: 600, reactorKeyB: 400})
	stale.SessionKey = outgoing
	err = env.keeper.VoteDirect(env.ctx, voter, stale)
	require.ErrorIs(t, err, types.ErrSessionKeyMismatch)
}

func TestRelayForwardedVoteChecksChainID(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	votePayload := env.payload(voter, 0, 700, map[common.Hash]int64{reactorKeyA: 700})
	encoded, err := commontypes.EncodeVoteEvent(types.EncodeVotePayload(votePayload))
	require.NoError(t, err)

	// Forwarded votes carry no signature; only the origin chain id gates
	// them here.
	err = env.keeper.ReceiveRelayedEvent(env.ctx, aggregatorRelayID, common.BytesToAddress([]byte{0xBB}), commontypes.EventVote, commontypes.EventData(encoded))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(700), env.keeper.GetUserVotes(env.ctx, voter).TotalUsed)

	votePayload = env.payload(voter, 1, 700, map[common.Hash]int64{reactorKeyA: 700})
	votePayload.ChainID = signingChainID + 1
	encoded, err = commontypes.EncodeVoteEvent(types.EncodeVotePayload(votePayload))
	require.NoError(t, err)
	err = env.keeper.ReceiveRelayedEvent(env.ctx, aggregatorRelayID, common.BytesToAddress([]byte{0xBB}), commontypes.EventVote, commontypes.EventData(encoded))
	require.ErrorIs(t, err, types.ErrChainIDMismatch)
}

func TestSetReactorKeysRemoveDropsKey(t *testing.T) {
	env := setupVotesTestEnvironment(t)
	env.fund(t, voter, 1000)

	require.NoError(t, env.keeper.SetReactorKeys(env.ctx, testutil.Authority, nil, []common.Hash{reactorKeyB}))

	keys := env.keeper.GetReactorKeys(env.ctx)
	require.Len(t, keys, 1)
	require.Equal(t, reactorKeyA, keys[0].Key)

	err := env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, 10, map[common.Hash]int64{reactorKeyB: 10}))
	require.ErrorIs(t, err, types.ErrUnknownReactorKey)
}

func TestVoteConservationProperty(t *testing.T) {
	properties := testutil.NewPropertyTester(t)

	properties.Property("system aggregation equals the sum of user allocations", prop.ForAll(
		func(amountA, amountB int64) bool {
			env := setupVotesTestEnvironment(t)
			env.fund(t, voter, 1_000_000)

			err := env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, amountA+amountB, map[common.Hash]int64{
				reactorKeyA: amountA,
				reactorKeyB: amountB,
			}))
			if err != nil {
				return false
			}

			// Verify per-key totals and the user record agree.
			info := env.keeper.GetUserVotes(env.ctx, voter)
			return env.keeper.GetSystemVote(env.ctx, reactorKeyA).Equal(math.NewInt(amountA)) &&
				env.keeper.GetSystemVote(env.ctx, reactorKeyB).Equal(math.NewInt(amountB)) &&
				info.TotalUsed.Equal(math.NewInt(amountA+amountB))
		},
		gen.Int64Range(1, 500_000),
		gen.Int64Range(1, 500_000),
	))

	properties.Property("rebalance never exceeds the new available power", prop.ForAll(
		func(initial, reduced int64) bool {
			if reduced > initial {
				initial, reduced = reduced, initial
			}
			env := setupVotesTestEnvironment(t)
			env.fund(t, voter, initial)

			err := env.keeper.VoteDirect(env.ctx, voter, env.payload(voter, 0, initial, map[common.Hash]int64{
				reactorKeyA: initial,
			}))
			if err != nil {
				return false
			}

			env.fund(t, voter, reduced)
			env.keeper.UpdateUserVoteTotals(env.ctx, []common.Address{voter})

			info := env.keeper.GetUserVotes(env.ctx, voter)
			return info.TotalUsed.LTE(math.NewInt(reduced))
		},
		gen.Int64Range(1, 1_000_000),
		gen.Int64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}
