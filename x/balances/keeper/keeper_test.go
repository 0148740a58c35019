package keeper_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/testutil"
	commontypes "github.com/govbridge/cosmos/types"
	"github.com/govbridge/cosmos/x/balances/keeper"
	"github.com/govbridge/cosmos/x/balances/types"
)

var (
	ledgerRelayID = common.BytesToAddress([]byte("relay-component"))
	tokenX        = common.BytesToAddress([]byte("token-x"))
	tokenY        = common.BytesToAddress([]byte("token-y"))
	alice         = common.BytesToAddress([]byte{0x01})
	bob           = common.BytesToAddress([]byte{0x02})
	carol         = common.BytesToAddress([]byte{0x03})
)

func setupBalancesTestEnvironment(t *testing.T) (sdk.Context, *keeper.Keeper) {
	t.Helper()

	key := storetypes.NewKVStoreKey(types.StoreKey)
	ctx := testutil.NewTestContext(t, key)

	k := keeper.NewKeeper(key, testutil.Authority)
	k.SetTrustedRelay(ledgerRelayID)

	require.NoError(t, k.AddSupportedTokens(ctx, testutil.Authority, []common.Address{tokenX, tokenY}))
	return ctx, k
}

func balanceOf(ctx sdk.Context, k *keeper.Keeper, account, token common.Address) math.Int {
	return k.GetBalance(ctx, account, []common.Address{token})[0]
}

func actualBalanceOf(ctx sdk.Context, k *keeper.Keeper, account, token common.Address) math.Int {
	return k.GetActualBalance(ctx, account, []common.Address{token})[0]
}

func TestUpdateBalanceSetsAbsoluteAmount(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	applied, err := k.UpdateBalance(ctx, alice, tokenX, math.NewInt(1000), true)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, math.NewInt(1000), balanceOf(ctx, k, alice, tokenX))

	// The new amount replaces the old one, it is not added to it.
	applied, err = k.UpdateBalance(ctx, alice, tokenX, math.NewInt(400), true)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, math.NewInt(400), balanceOf(ctx, k, alice, tokenX))
	require.Equal(t, math.NewInt(400), k.GetTotalBalance(ctx, tokenX))
}

func TestUpdateBalanceRejections(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	_, err := k.UpdateBalance(ctx, common.Address{}, tokenX, math.NewInt(1), true)
	require.ErrorIs(t, err, types.ErrZeroAccount)

	_, err = k.UpdateBalance(ctx, alice, tokenX, math.NewInt(-1), true)
	require.ErrorIs(t, err, types.ErrNegativeAmount)

	unknown := common.BytesToAddress([]byte("token-z"))
	_, err = k.UpdateBalance(ctx, alice, unknown, math.NewInt(1), true)
	require.ErrorIs(t, err, types.ErrUnsupportedToken)
}

func TestNonAuthoritativeUpdateSkipsInitializedSlot(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	// A backfill may seed a slot that has never been written.
	applied, err := k.UpdateBalance(ctx, alice, tokenX, math.NewInt(700), false)
	require.NoError(t, err)
	require.True(t, applied)

	// Once initialized, only authoritative updates land.
	applied, err = k.UpdateBalance(ctx, alice, tokenX, math.NewInt(999), false)
	require.NoError(t, err)
	require.False(t, applied)
	require.Equal(t, math.NewInt(700), balanceOf(ctx, k, alice, tokenX))

	applied, err = k.UpdateBalance(ctx, alice, tokenX, math.NewInt(999), true)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, math.NewInt(999), balanceOf(ctx, k, alice, tokenX))
}

func TestDelegationRedirectsVisibleBalance(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	_, err := k.UpdateBalance(ctx, alice, tokenX, math.NewInt(1000), true)
	require.NoError(t, err)
	_, err = k.UpdateBalance(ctx, bob, tokenX, math.NewInt(50), true)
	require.NoError(t, err)

	require.NoError(t, k.EnableDelegation(ctx, alice, bob))

	// Verify the delegator reads zero while the delegatee sees both stakes.
	require.Equal(t, math.NewInt(0), balanceOf(ctx, k, alice, tokenX))
	require.Equal(t, math.NewInt(1050), balanceOf(ctx, k, bob, tokenX))

	// Raw balances are untouched by delegation.
	require.Equal(t, math.NewInt(1000), actualBalanceOf(ctx, k, alice, tokenX))
	require.Equal(t, math.NewInt(50), actualBalanceOf(ctx, k, bob, tokenX))

	// Updates landing on the delegator keep flowing to the delegatee.
	_, err = k.UpdateBalance(ctx, alice, tokenX, math.NewInt(1400), true)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1450), balanceOf(ctx, k, bob, tokenX))

	require.NoError(t, k.DisableDelegation(ctx, alice))
	require.Equal(t, math.NewInt(1400), balanceOf(ctx, k, alice, tokenX))
	require.Equal(t, math.NewInt(50), balanceOf(ctx, k, bob, tokenX))
}

func TestDelegationRuleRejections(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	require.ErrorIs(t, k.EnableDelegation(ctx, alice, alice), types.ErrSelfDelegation)

	require.NoError(t, k.EnableDelegation(ctx, alice, bob))

	// Verify a delegatee cannot start delegating elsewhere.
	require.ErrorIs(t, k.EnableDelegation(ctx, bob, carol), types.ErrDelegatorReceives)

	// Verify a second delegator cannot target an occupied delegatee.
	require.ErrorIs(t, k.EnableDelegation(ctx, carol, bob), types.ErrDelegateeOccupied)

	// Verify nobody can delegate to an account that already delegates.
	require.ErrorIs(t, k.EnableDelegation(ctx, carol, alice), types.ErrDelegateeDelegates)

	// Disabling an absent delegation is a no-op.
	require.NoError(t, k.DisableDelegation(ctx, carol))
}

func TestRedelegationMovesMirrors(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	_, err := k.UpdateBalance(ctx, alice, tokenX, math.NewInt(300), true)
	require.NoError(t, err)

	require.NoError(t, k.EnableDelegation(ctx, alice, bob))
	require.Equal(t, math.NewInt(300), balanceOf(ctx, k, bob, tokenX))

	// Re-delegating backs the mirror out of the previous delegatee.
	require.NoError(t, k.EnableDelegation(ctx, alice, carol))
	require.Equal(t, math.NewInt(0), balanceOf(ctx, k, bob, tokenX))
	require.Equal(t, math.NewInt(300), balanceOf(ctx, k, carol, tokenX))

	delegatee, ok := k.GetDelegatee(ctx, alice)
	require.True(t, ok)
	require.Equal(t, carol, delegatee)
}

func TestRemovedTokenIsPermanentlyRetired(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	require.NoError(t, k.RemoveSupportedTokens(ctx, testutil.Authority, []common.Address{tokenY}))
	require.False(t, k.IsTokenSupported(ctx, tokenY))

	_, err := k.UpdateBalance(ctx, alice, tokenY, math.NewInt(10), true)
	require.ErrorIs(t, err, types.ErrTokenRemoved)

	// Verify a removed token can never come back.
	err = k.AddSupportedTokens(ctx, testutil.Authority, []common.Address{tokenY})
	require.ErrorIs(t, err, types.ErrTokenRemoved)

	require.Equal(t, []common.Address{tokenX}, k.GetSupportedTokens(ctx))
}

func TestAddSupportedTokensRejectsDuplicates(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	err := k.AddSupportedTokens(ctx, testutil.Authority, []common.Address{tokenX})
	require.ErrorIs(t, err, types.ErrTokenAlreadyTracked)

	err = k.AddSupportedTokens(ctx, "cosmos1intruder", []common.Address{common.BytesToAddress([]byte("token-z"))})
	require.ErrorIs(t, err, types.ErrUnauthorized)
}

func TestSetBalancesCountsAppliedEntries(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	_, err := k.UpdateBalance(ctx, alice, tokenX, math.NewInt(100), true)
	require.NoError(t, err)

	// The batch path is non-authoritative: alice's slot is already live, so
	// only the fresh slots are written.
	applied, err := k.SetBalances(ctx, testutil.Authority, []types.BalanceUpdate{
		{Account: alice, Token: tokenX, Amount: math.NewInt(5)},
		{Account: bob, Token: tokenX, Amount: math.NewInt(6)},
		{Account: carol, Token: tokenY, Amount: math.NewInt(7)},
	})
	require.NoError(t, err)
	require.Equal(t, 2, applied)
	require.Equal(t, math.NewInt(100), balanceOf(ctx, k, alice, tokenX))
	require.Equal(t, math.NewInt(6), balanceOf(ctx, k, bob, tokenX))
}

func TestReceiveRelayedEventUpdatesLedger(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	payload, err := commontypes.EncodeBalanceEvent(commontypes.EventDeposit, commontypes.BalanceEvent{
		Account: alice,
		Token:   tokenX,
		Amount:  math.NewInt(250),
	})
	require.NoError(t, err)

	err = k.ReceiveRelayedEvent(ctx, ledgerRelayID, common.BytesToAddress([]byte{0xBB}), commontypes.EventDeposit, commontypes.EventData(payload))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(250), balanceOf(ctx, k, alice, tokenX))

	// Verify events from any other relay identifier are rejected.
	err = k.ReceiveRelayedEvent(ctx, common.BytesToAddress([]byte("imposter")), common.BytesToAddress([]byte{0xBB}), commontypes.EventDeposit, commontypes.EventData(payload))
	require.ErrorIs(t, err, types.ErrUnauthorizedRelay)
}

func TestReceiveRelayedEventIgnoresNonVotingDelegation(t *testing.T) {
	ctx, k := setupBalancesTestEnvironment(t)

	_, err := k.UpdateBalance(ctx, alice, tokenX, math.NewInt(100), true)
	require.NoError(t, err)

	payload, err := commontypes.EncodeDelegationEvent(commontypes.EventDelegationEnabled, commontypes.DelegationEvent{
		From:    alice,
		To:      bob,
		Purpose: "rewards",
	})
	require.NoError(t, err)

	err = k.ReceiveRelayedEvent(ctx, ledgerRelayID, common.BytesToAddress([]byte{0xBB}), commontypes.EventDelegationEnabled, commontypes.EventData(payload))
	require.NoError(t, err)

	// Verify no delegation was recorded for a non-voting purpose.
	_, ok := k.GetDelegatee(ctx, alice)
	require.False(t, ok)
}

func TestTotalBalanceConservationProperty(t *testing.T) {
	properties := testutil.NewPropertyTester(t)

	properties.Property("per-token total equals the sum of account balances", prop.ForAll(
		func(updates []accountAmount) bool {
			ctx, k := setupBalancesTestEnvironment(t)

			for _, u := range updates {
				if _, err := k.UpdateBalance(ctx, u.Account, tokenX, u.Amount, true); err != nil {
					return false
				}
			}

			// Verify the running total matches a fresh sum over all slots.
			sum := math.ZeroInt()
			for _, record := range k.ExportBalances(ctx) {
				sum = sum.Add(record.Amount)
			}
			return k.GetTotalBalance(ctx, tokenX).Equal(sum)
		},
		gen.SliceOf(genAccountAmount()),
	))

	properties.Property("delegation never changes the raw balance", prop.ForAll(
		func(amount math.Int) bool {
			ctx, k := setupBalancesTestEnvironment(t)

			if _, err := k.UpdateBalance(ctx, alice, tokenX, amount, true); err != nil {
				return false
			}
			if err := k.EnableDelegation(ctx, alice, bob); err != nil {
				return false
			}

			// Verify visible balance moved while the raw one stayed put.
			return balanceOf(ctx, k, alice, tokenX).IsZero() &&
				balanceOf(ctx, k, bob, tokenX).Equal(amount) &&
				actualBalanceOf(ctx, k, alice, tokenX).Equal(amount)
		},
		testutil.GenAmount(),
	))

	properties.TestingRun(t)
}

type accountAmount struct {
	Account common.Address
	Amount  math.Int
}

func genAccountAmount() gopter.Gen {
	return gopter.CombineGens(testutil.GenAccount(), testutil.GenAmount()).
		Map(func(values []interface{}) accountAmount {
			return accountAmount{
				Account: values[0].(common.Address),
				Amount:  values[1].(math.Int),
			}
		})
}
