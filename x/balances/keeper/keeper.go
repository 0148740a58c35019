package keeper

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	balancestypes "github.com/govbridge/cosmos/x/balances/types"
)

// Keeper of the balances store
type Keeper struct {
	storeKey  storetypes.StoreKey
	authority string

	// trustedRelay is the only relay identifier whose deliveries are accepted.
	// Set once at app wiring.
	trustedRelay common.Address
}

// NewKeeper creates a new balances Keeper instance
func NewKeeper(key storetypes.StoreKey, authority string) *Keeper {
	return &Keeper{
		storeKey:  key,
		authority: authority,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", balancestypes.ModuleName))
}

// GetAuthority returns the address allowed to perform administrative calls.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// SetTrustedRelay records the single relay allowed to push events into the
// ledger (to avoid circular dependency at construction)
func (k *Keeper) SetTrustedRelay(relayID common.Address) {
	k.trustedRelay = relayID
}

// UpdateBalance sets an account's raw balance for one token and propagates
// the delta into the account's delegatee mirror and the token's running
// total. Authoritative updates always apply; non-authoritative ones only
// apply to slots no authoritative update has touched yet. The returned flag
// reports whether the write was applied.
func (k Keeper) UpdateBalance(ctx sdk.Context, account, token common.Address, amount math.Int, authoritative bool) (bool, error) {
	if account == (common.Address{}) {
		return false, balancestypes.ErrZeroAccount
	}
	if amount.IsNil() || amount.IsNegative() {
		return false, balancestypes.ErrNegativeAmount
	}
	if err := k.requireActiveToken(ctx, token); err != nil {
		return false, err
	}

	bal := k.getAccountBalance(ctx, account, token)
	if !authoritative && bal.Initialized {
		// A backfill against an already-initialized slot is observable but
		// harmless.
		k.emitBalanceUpdated(ctx, account, token, bal.Amount, false, authoritative)
		return false, nil
	}

	delta := amount.Sub(bal.Amount)
	bal.Amount = amount
	bal.Initialized = true
	k.setAccountBalance(ctx, account, token, bal)

	if delegatee, ok := k.GetDelegatee(ctx, account); ok {
		mirror := k.getAccountBalance(ctx, delegatee, token)
		mirror.DelegatedIn = mirror.DelegatedIn.Add(delta)
		k.setAccountBalance(ctx, delegatee, token, mirror)
	}

	k.setTotalBalance(ctx, token, k.GetTotalBalance(ctx, token).Add(delta))

	k.emitBalanceUpdated(ctx, account, token, amount, true, authoritative)
	return true, nil
}

// SetBalances performs an administrative backfill. Each entry routes through
// the same update path as event-driven changes, flagged non-authoritative.
// The returned count is the number of entries actually applied.
func (k Keeper) SetBalances(ctx sdk.Context, authority string, updates []balancestypes.BalanceUpdate) (int, error) {
	if authority != k.authority {
		return 0, balancestypes.ErrUnauthorized
	}

	applied := 0
	for _, update := range updates {
		if err := update.Validate(); err != nil {
			return 0, err
		}
		ok, err := k.UpdateBalance(ctx, update.Account, update.Token, update.Amount, false)
		if err != nil {
			return 0, err
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

// EnableDelegation points from's balance contribution at to. Re-delegation
// moves the mirrored amounts out of the previous delegatee first.
func (k Keeper) EnableDelegation(ctx sdk.Context, from, to common.Address) error {
	if from == (common.Address{}) || to == (common.Address{}) {
		return balancestypes.ErrZeroAccount
	}
	if from == to {
		return balancestypes.ErrSelfDelegation
	}
	if _, ok := k.GetDelegatee(ctx, to); ok {
		return balancestypes.ErrDelegateeDelegates
	}
	if delegator, ok := k.GetDelegator(ctx, to); ok && delegator != from {
		return balancestypes.ErrDelegateeOccupied
	}
	if _, ok := k.GetDelegator(ctx, from); ok {
		return balancestypes.ErrDelegatorReceives
	}

	store := ctx.KVStore(k.storeKey)
	if previous, ok := k.GetDelegatee(ctx, from); ok {
		if previous == to {
			return nil
		}
		k.moveMirrors(ctx, from, previous, false)
		store.Delete(balancestypes.GetInboundDelegationKey(previous))
	}

	k.moveMirrors(ctx, from, to, true)
	store.Set(balancestypes.GetDelegationKey(from), to.Bytes())
	store.Set(balancestypes.GetInboundDelegationKey(to), from.Bytes())

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			balancestypes.EventTypeDelegationEnabled,
			sdk.NewAttribute(balancestypes.AttributeKeyDelegator, from.Hex()),
			sdk.NewAttribute(balancestypes.AttributeKeyDelegatee, to.Hex()),
		),
	)

	return nil
}

// DisableDelegation clears from's delegation and backs its mirrored amounts
// out of the delegatee. Clearing an account that does not delegate is a no-op.
func (k Keeper) DisableDelegation(ctx sdk.Context, from common.Address) error {
	if from == (common.Address{}) {
		return balancestypes.ErrZeroAccount
	}

	delegatee, ok := k.GetDelegatee(ctx, from)
	if !ok {
		return nil
	}

	k.moveMirrors(ctx, from, delegatee, false)

	store := ctx.KVStore(k.storeKey)
	store.Delete(balancestypes.GetDelegationKey(from))
	store.Delete(balancestypes.GetInboundDelegationKey(delegatee))

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			balancestypes.EventTypeDelegationDisabled,
			sdk.NewAttribute(balancestypes.AttributeKeyDelegator, from.Hex()),
			sdk.NewAttribute(balancestypes.AttributeKeyDelegatee, delegatee.Hex()),
		),
	)

	return nil
}

// AddSupportedTokens adds tokens to the tracked set. Re-adding a removed
// token is rejected permanently.
func (k Keeper) AddSupportedTokens(ctx sdk.Context, authority string, tokens []common.Address) error {
	if authority != k.authority {
		return balancestypes.ErrUnauthorized
	}

	for _, token := range tokens {
		if token == (common.Address{}) {
			return balancestypes.ErrZeroAccount
		}
		switch k.tokenStatus(ctx, token) {
		case balancestypes.TokenStatusActive:
			return balancestypes.ErrTokenAlreadyTracked.Wrapf("token %s", token.Hex())
		case balancestypes.TokenStatusRemoved:
			return balancestypes.ErrTokenRemoved.Wrapf("token %s", token.Hex())
		}
	}

	store := ctx.KVStore(k.storeKey)
	list := k.GetSupportedTokens(ctx)
	for _, token := range tokens {
		store.Set(balancestypes.GetTokenStatusKey(token), []byte{balancestypes.TokenStatusActive})
		store.Set(balancestypes.GetTokenIndexKey(token), tokenIndexToBytes(uint64(len(list))))
		list = append(list, token)
	}
	k.setTokenList(ctx, list)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			balancestypes.EventTypeTokensAdded,
			sdk.NewAttribute(balancestypes.AttributeKeyCount, strconv.Itoa(len(tokens))),
		),
	)

	return nil
}

// RemoveSupportedTokens permanently retires tokens from the tracked set using
// swap-and-pop on the dense token list.
func (k Keeper) RemoveSupportedTokens(ctx sdk.Context, authority string, tokens []common.Address) error {
	if authority != k.authority {
		return balancestypes.ErrUnauthorized
	}

	for _, token := range tokens {
		if err := k.requireActiveToken(ctx, token); err != nil {
			return err
		}
	}

	store := ctx.KVStore(k.storeKey)
	list := k.GetSupportedTokens(ctx)
	for _, token := range tokens {
		idx := tokenIndexFromBytes(store.Get(balancestypes.GetTokenIndexKey(token)))
		last := len(list) - 1
		if int(idx) != last {
			moved := list[last]
			list[idx] = moved
			store.Set(balancestypes.GetTokenIndexKey(moved), tokenIndexToBytes(idx))
		}
		list = list[:last]

		store.Delete(balancestypes.GetTokenIndexKey(token))
		store.Set(balancestypes.GetTokenStatusKey(token), []byte{balancestypes.TokenStatusRemoved})
	}
	k.setTokenList(ctx, list)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			balancestypes.EventTypeTokensRemoved,
			sdk.NewAttribute(balancestypes.AttributeKeyCount, strconv.Itoa(len(tokens))),
		),
	)

	return nil
}

// GetBalance returns delegation-adjusted balances: zero for every token while
// the account delegates elsewhere, own amount plus delegated-in otherwise.
func (k Keeper) GetBalance(ctx sdk.Context, account common.Address, tokens []common.Address) []math.Int {
	_, delegating := k.GetDelegatee(ctx, account)

	out := make([]math.Int, len(tokens))
	for i, token := range tokens {
		out[i] = k.getAccountBalance(ctx, account, token).Visible(delegating)
	}
	return out
}

// GetActualBalance returns raw balances, ignoring delegation.
func (k Keeper) GetActualBalance(ctx sdk.Context, account common.Address, tokens []common.Address) []math.Int {
	out := make([]math.Int, len(tokens))
	for i, token := range tokens {
		out[i] = k.getAccountBalance(ctx, account, token).Amount
	}
	return out
}

// GetSupportedTokens returns the dense list of currently tracked tokens.
func (k Keeper) GetSupportedTokens(ctx sdk.Context) []common.Address {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(balancestypes.TokenListKey)
	if len(bz) == 0 || len(bz)%common.AddressLength != 0 {
		return nil
	}

	tokens := make([]common.Address, 0, len(bz)/common.AddressLength)
	for i := 0; i < len(bz); i += common.AddressLength {
		tokens = append(tokens, common.BytesToAddress(bz[i:i+common.AddressLength]))
	}
	return tokens
}

// GetTotalBalance returns the running total of all account balances for one token.
func (k Keeper) GetTotalBalance(ctx sdk.Context, token common.Address) math.Int {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(balancestypes.GetTotalBalanceKey(token))
	if bz == nil {
		return math.ZeroInt()
	}
	var total math.Int
	if err := total.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return total
}

// GetDelegatee returns the account from delegates to, if any.
func (k Keeper) GetDelegatee(ctx sdk.Context, from common.Address) (common.Address, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(balancestypes.GetDelegationKey(from))
	if bz == nil {
		return common.Address{}, false
	}
	return common.BytesToAddress(bz), true
}

// GetDelegator returns the account delegating to delegatee, if any.
func (k Keeper) GetDelegator(ctx sdk.Context, delegatee common.Address) (common.Address, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(balancestypes.GetInboundDelegationKey(delegatee))
	if bz == nil {
		return common.Address{}, false
	}
	return common.BytesToAddress(bz), true
}

// IsTokenSupported reports whether a token is currently tracked.
func (k Keeper) IsTokenSupported(ctx sdk.Context, token common.Address) bool {
	return k.tokenStatus(ctx, token) == balancestypes.TokenStatusActive
}

// ExportBalances returns every initialized balance record.
func (k Keeper) ExportBalances(ctx sdk.Context) []balancestypes.BalanceRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, balancestypes.BalanceKeyPrefix)
	defer iterator.Close()

	records := make([]balancestypes.BalanceRecord, 0)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		suffix := key[len(balancestypes.BalanceKeyPrefix):]
		if len(suffix) != 2*common.AddressLength {
			continue
		}

		var bal balancestypes.AccountBalance
		balancestypes.ModuleCdc.MustUnmarshalJSON(iterator.Value(), &bal)
		if !bal.Initialized {
			continue
		}

		records = append(records, balancestypes.BalanceRecord{
			Account: common.BytesToAddress(suffix[:common.AddressLength]),
			Token:   common.BytesToAddress(suffix[common.AddressLength:]),
			Amount:  bal.Amount,
		})
	}
	return records
}

// ExportDelegations returns every active delegation pair.
func (k Keeper) ExportDelegations(ctx sdk.Context) []balancestypes.DelegationRecord {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, balancestypes.DelegationKeyPrefix)
	defer iterator.Close()

	records := make([]balancestypes.DelegationRecord, 0)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		records = append(records, balancestypes.DelegationRecord{
			Delegator: common.BytesToAddress(key[len(balancestypes.DelegationKeyPrefix):]),
			Delegatee: common.BytesToAddress(iterator.Value()),
		})
	}
	return records
}

// ExportRemovedTokens returns every permanently retired token.
func (k Keeper) ExportRemovedTokens(ctx sdk.Context) []common.Address {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, balancestypes.TokenStatusKeyPrefix)
	defer iterator.Close()

	tokens := make([]common.Address, 0)
	for ; iterator.Valid(); iterator.Next() {
		bz := iterator.Value()
		if len(bz) != 1 || bz[0] != balancestypes.TokenStatusRemoved {
			continue
		}
		key := iterator.Key()
		tokens = append(tokens, common.BytesToAddress(key[len(balancestypes.TokenStatusKeyPrefix):]))
	}
	return tokens
}

// Private helper methods

func (k Keeper) requireActiveToken(ctx sdk.Context, token common.Address) error {
	switch k.tokenStatus(ctx, token) {
	case balancestypes.TokenStatusActive:
		return nil
	case balancestypes.TokenStatusRemoved:
		return balancestypes.ErrTokenRemoved.Wrapf("token %s", token.Hex())
	default:
		return balancestypes.ErrUnsupportedToken.Wrapf("token %s", token.Hex())
	}
}

func (k Keeper) tokenStatus(ctx sdk.Context, token common.Address) byte {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(balancestypes.GetTokenStatusKey(token))
	if len(bz) != 1 {
		return 0
	}
	return bz[0]
}

// moveMirrors shifts from's raw balance for every supported token into (or
// out of) delegatee's delegated-in total.
func (k Keeper) moveMirrors(ctx sdk.Context, from, delegatee common.Address, add bool) {
	for _, token := range k.GetSupportedTokens(ctx) {
		amount := k.getAccountBalance(ctx, from, token).Amount
		if amount.IsZero() {
			continue
		}

		mirror := k.getAccountBalance(ctx, delegatee, token)
		if add {
			mirror.DelegatedIn = mirror.DelegatedIn.Add(amount)
		} else {
			mirror.DelegatedIn = mirror.DelegatedIn.Sub(amount)
		}
		k.setAccountBalance(ctx, delegatee, token, mirror)
	}
}

func (k Keeper) getAccountBalance(ctx sdk.Context, account, token common.Address) balancestypes.AccountBalance {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(balancestypes.GetBalanceKey(account, token))
	if bz == nil {
		return balancestypes.NewAccountBalance()
	}

	var bal balancestypes.AccountBalance
	balancestypes.ModuleCdc.MustUnmarshalJSON(bz, &bal)
	return bal
}

func (k Keeper) setAccountBalance(ctx sdk.Context, account, token common.Address, bal balancestypes.AccountBalance) {
	store := ctx.KVStore(k.storeKey)
	bz := balancestypes.ModuleCdc.MustMarshalJSON(&bal)
	store.Set(balancestypes.GetBalanceKey(account, token), bz)
}

func (k Keeper) setTotalBalance(ctx sdk.Context, token common.Address, total math.Int) {
	store := ctx.KVStore(k.storeKey)
	bz, _ := total.Marshal()
	store.Set(balancestypes.GetTotalBalanceKey(token), bz)
}

func (k Keeper) setTokenList(ctx sdk.Context, tokens []common.Address) {
	store := ctx.KVStore(k.storeKey)
	if len(tokens) == 0 {
		store.Delete(balancestypes.TokenListKey)
		return
	}
	bz := make([]byte, 0, len(tokens)*common.AddressLength)
	for _, token := range tokens {
		bz = append(bz, token.Bytes()...)
	}
	store.Set(balancestypes.TokenListKey, bz)
}

func (k Keeper) emitBalanceUpdated(ctx sdk.Context, account, token common.Address, amount math.Int, applied, authoritative bool) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			balancestypes.EventTypeBalanceUpdated,
			sdk.NewAttribute(balancestypes.AttributeKeyAccount, account.Hex()),
			sdk.NewAttribute(balancestypes.AttributeKeyToken, token.Hex()),
			sdk.NewAttribute(balancestypes.AttributeKeyAmount, amount.String()),
			sdk.NewAttribute(balancestypes.AttributeKeyApplied, strconv.FormatBool(applied)),
			sdk.NewAttribute(balancestypes.AttributeKeyAuthoritative, strconv.FormatBool(authoritative)),
		),
	)
}

func tokenIndexToBytes(idx uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, idx)
	return bz
}

func tokenIndexFromBytes(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
