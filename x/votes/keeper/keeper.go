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

	"github.com/govbridge/cosmos/types"
	votestypes "github.com/govbridge/cosmos/x/votes/types"
)

// Keeper of the votes store
type Keeper struct {
	storeKey  storetypes.StoreKey
	authority string

	// aggregatorID is the verifying-contract identity used in signature domains.
	aggregatorID common.Address

	// trustedRelay is the only relay identifier whose deliveries are accepted.
	// Set once at app wiring.
	trustedRelay common.Address

	balances types.BalancesKeeper
}

// NewKeeper creates a new votes Keeper instance
func NewKeeper(key storetypes.StoreKey, authority string, aggregatorID common.Address) *Keeper {
	return &Keeper{
		storeKey:     key,
		authority:    authority,
		aggregatorID: aggregatorID,
	}
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", votestypes.ModuleName))
}

// GetAuthority returns the address allowed to perform administrative calls.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// AggregatorID returns the identity used as the signing domain's verifying contract.
func (k Keeper) AggregatorID() common.Address {
	return k.aggregatorID
}

// SetBalancesKeeper sets the balance ledger read surface (to avoid circular
// dependency)
func (k *Keeper) SetBalancesKeeper(balances types.BalancesKeeper) {
	k.balances = balances
}

// SetTrustedRelay records the single relay allowed to push events into the
// aggregator (to avoid circular dependency at construction)
func (k *Keeper) SetTrustedRelay(relayID common.Address) {
	k.trustedRelay = relayID
}

// SetReactorKeys adds and removes allowed allocation targets. Removing a key
// deletes its token mapping but leaves existing per-account allocations in
// place until the next rebalance pass touches them.
func (k Keeper) SetReactorKeys(ctx sdk.Context, authority string, add []votestypes.ReactorKeyInfo, remove []common.Hash) error {
	if authority != k.authority {
		return votestypes.ErrUnauthorized
	}
	for _, entry := range add {
		if k.hasReactorKey(ctx, entry.Key) {
			return votestypes.ErrReactorKeyExists.Wrapf("key %s", entry.Key.Hex())
		}
	}
	for _, key := range remove {
		if !k.hasReactorKey(ctx, key) {
			return votestypes.ErrUnknownReactorKey.Wrapf("key %s", key.Hex())
		}
	}

	store := ctx.KVStore(k.storeKey)
	list := k.getReactorKeyList(ctx)
	for _, entry := range add {
		store.Set(votestypes.GetReactorKeyKey(entry.Key), entry.Token.Bytes())
		store.Set(votestypes.GetReactorKeyIndexKey(entry.Key), indexToBytes(uint64(len(list))))
		list = append(list, entry.Key)
	}
	for _, key := range remove {
		idx := indexFromBytes(store.Get(votestypes.GetReactorKeyIndexKey(key)))
		last := len(list) - 1
		if int(idx) != last {
			moved := list[last]
			list[idx] = moved
			store.Set(votestypes.GetReactorKeyIndexKey(moved), indexToBytes(idx))
		}
		list = list[:last]

		store.Delete(votestypes.GetReactorKeyIndexKey(key))
		store.Delete(votestypes.GetReactorKeyKey(key))
	}
	k.setReactorKeyList(ctx, list)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			votestypes.EventTypeReactorKeysUpdated,
			sdk.NewAttribute(votestypes.AttributeKeyAdded, strconv.Itoa(len(add))),
			sdk.NewAttribute(votestypes.AttributeKeyRemoved, strconv.Itoa(len(remove))),
		),
	)

	return nil
}

// SetVoteMultipliers replaces the entire voting-token list and multiplier table.
func (k Keeper) SetVoteMultipliers(ctx sdk.Context, authority string, entries []votestypes.MultiplierEntry) error {
	if authority != k.authority {
		return votestypes.ErrUnauthorized
	}
	for _, entry := range entries {
		if entry.Token == (common.Address{}) {
			return votestypes.ErrZeroAccount
		}
		if entry.Multiplier.IsNil() || entry.Multiplier.IsNegative() {
			return votestypes.ErrNegativeAmount.Wrapf("multiplier for %s", entry.Token.Hex())
		}
	}

	store := ctx.KVStore(k.storeKey)

	iterator := storetypes.KVStorePrefixIterator(store, votestypes.MultiplierKeyPrefix)
	stale := make([][]byte, 0)
	for ; iterator.Valid(); iterator.Next() {
		stale = append(stale, iterator.Key())
	}
	iterator.Close()
	for _, key := range stale {
		store.Delete(key)
	}

	tokens := make([]byte, 0, len(entries)*common.AddressLength)
	for _, entry := range entries {
		bz, _ := entry.Multiplier.Marshal()
		store.Set(votestypes.GetMultiplierKey(entry.Token), bz)
		tokens = append(tokens, entry.Token.Bytes()...)
	}
	if len(tokens) == 0 {
		store.Delete(votestypes.VotingTokenListKey)
	} else {
		store.Set(votestypes.VotingTokenListKey, tokens)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			votestypes.EventTypeMultipliersUpdated,
			sdk.NewAttribute(votestypes.AttributeKeyCount, strconv.Itoa(len(entries))),
		),
	)

	return nil
}

// SetSigningChainID configures the chain id used for signature domains.
func (k Keeper) SetSigningChainID(ctx sdk.Context, authority string, chainID uint64) error {
	if authority != k.authority {
		return votestypes.ErrUnauthorized
	}

	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.SigningChainIDKey, indexToBytes(chainID))

	k.emitSettingUpdated(ctx, "signing_chain_id", strconv.FormatUint(chainID, 10))
	return nil
}

// SetProxySubmitters toggles rate-limited relay submitters.
func (k Keeper) SetProxySubmitters(ctx sdk.Context, authority string, submitters map[common.Address]votestypes.ProxySubmitter) error {
	if authority != k.authority {
		return votestypes.ErrUnauthorized
	}

	store := ctx.KVStore(k.storeKey)
	for addr, proxy := range submitters {
		if addr == (common.Address{}) {
			return votestypes.ErrZeroAccount
		}
		if !proxy.Enabled {
			store.Delete(votestypes.GetProxySubmitterKey(addr))
			continue
		}
		proxy := proxy
		bz := votestypes.ModuleCdc.MustMarshalJSON(&proxy)
		store.Set(votestypes.GetProxySubmitterKey(addr), bz)
	}

	k.emitSettingUpdated(ctx, "proxy_submitters", strconv.Itoa(len(submitters)))
	return nil
}

// SetProxyRateLimit configures the minimum height gap between proxy-submitted
// votes for the same account.
func (k Keeper) SetProxyRateLimit(ctx sdk.Context, authority string, minHeightGap int64) error {
	if authority != k.authority {
		return votestypes.ErrUnauthorized
	}
	if minHeightGap < 0 {
		return votestypes.ErrNegativeAmount.Wrap("height gap")
	}

	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.ProxyRateLimitKey, indexToBytes(uint64(minHeightGap)))

	k.emitSettingUpdated(ctx, "proxy_rate_limit", strconv.FormatInt(minHeightGap, 10))
	return nil
}

// SetBalanceTracker records the balance tracker identifier reported in settings.
func (k Keeper) SetBalanceTracker(ctx sdk.Context, authority string, tracker common.Address) error {
	if authority != k.authority {
		return votestypes.ErrUnauthorized
	}
	if tracker == (common.Address{}) {
		return votestypes.ErrZeroAccount
	}

	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.BalanceTrackerKey, tracker.Bytes())

	k.emitSettingUpdated(ctx, "balance_tracker", tracker.Hex())
	return nil
}

// SetPaused toggles vote submission. Reads and administrative calls are never
// blocked.
func (k Keeper) SetPaused(ctx sdk.Context, authority string, paused bool) error {
	if authority != k.authority {
		return votestypes.ErrUnauthorized
	}

	store := ctx.KVStore(k.storeKey)
	if paused {
		store.Set(votestypes.PausedKey, []byte{0x01})
	} else {
		store.Delete(votestypes.PausedKey)
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			votestypes.EventTypePausedSet,
			sdk.NewAttribute(votestypes.AttributeKeyPaused, strconv.FormatBool(paused)),
		),
	)

	return nil
}

// GetUserVotes returns an account's current vote detail.
func (k Keeper) GetUserVotes(ctx sdk.Context, account common.Address) votestypes.UserVoteInfo {
	return k.getUserVoteInfo(ctx, account)
}

// GetSystemVotes returns the system-wide total per reactor key, including
// totals still held against removed keys.
func (k Keeper) GetSystemVotes(ctx sdk.Context) []votestypes.KeyAmount {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, votestypes.SystemAggregationKeyPrefix)
	defer iterator.Close()

	out := make([]votestypes.KeyAmount, 0)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			continue
		}
		out = append(out, votestypes.KeyAmount{
			Key:    common.BytesToHash(key[len(votestypes.SystemAggregationKeyPrefix):]),
			Amount: amount,
		})
	}
	return out
}

// GetSystemVote returns the system-wide total for one reactor key.
func (k Keeper) GetSystemVote(ctx sdk.Context, key common.Hash) math.Int {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(votestypes.GetSystemAggregationKey(key))
	if bz == nil {
		return math.ZeroInt()
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return amount
}

// GetReactorKeys returns every allowed reactor key with its backing token.
func (k Keeper) GetReactorKeys(ctx sdk.Context) []votestypes.ReactorKeyInfo {
	store := ctx.KVStore(k.storeKey)

	list := k.getReactorKeyList(ctx)
	out := make([]votestypes.ReactorKeyInfo, 0, len(list))
	for _, key := range list {
		out = append(out, votestypes.ReactorKeyInfo{
			Key:   key,
			Token: common.BytesToAddress(store.Get(votestypes.GetReactorKeyKey(key))),
		})
	}
	return out
}

// GetMaxVoteBalance returns an account's available voting power: the sum over
// voting tokens of delegation-adjusted balance times multiplier over the
// scaling base. Computed fresh on every call.
func (k Keeper) GetMaxVoteBalance(ctx sdk.Context, account common.Address) math.Int {
	tokens := k.GetVotingTokens(ctx)
	if len(tokens) == 0 {
		return math.ZeroInt()
	}
	return k.GetVotingPower(ctx, k.balances.GetBalance(ctx, account, tokens))
}

// GetVotingPower converts a balance set, aligned to the voting-token list,
// into voting power.
func (k Keeper) GetVotingPower(ctx sdk.Context, balances []math.Int) math.Int {
	tokens := k.GetVotingTokens(ctx)

	power := math.ZeroInt()
	for i, token := range tokens {
		if i >= len(balances) {
			break
		}
		power = power.Add(balances[i].Mul(k.GetMultiplier(ctx, token)).Quo(votestypes.ScalingBase))
	}
	return power
}

// GetVotingTokens returns the ordered voting-token list.
func (k Keeper) GetVotingTokens(ctx sdk.Context) []common.Address {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(votestypes.VotingTokenListKey)
	if len(bz) == 0 || len(bz)%common.AddressLength != 0 {
		return nil
	}

	tokens := make([]common.Address, 0, len(bz)/common.AddressLength)
	for i := 0; i < len(bz); i += common.AddressLength {
		tokens = append(tokens, common.BytesToAddress(bz[i:i+common.AddressLength]))
	}
	return tokens
}

// GetMultiplier returns a voting token's power multiplier.
func (k Keeper) GetMultiplier(ctx sdk.Context, token common.Address) math.Int {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(votestypes.GetMultiplierKey(token))
	if bz == nil {
		return math.ZeroInt()
	}
	var mult math.Int
	if err := mult.Unmarshal(bz); err != nil {
		return math.ZeroInt()
	}
	return mult
}

// GetSettings returns the read-only settings snapshot.
func (k Keeper) GetSettings(ctx sdk.Context) votestypes.Settings {
	return votestypes.Settings{
		SigningChainID: k.GetSigningChainID(ctx),
		ProxyRateLimit: k.GetProxyRateLimit(ctx),
		Paused:         k.IsPaused(ctx),
		SessionKey:     k.GetSessionKey(ctx),
		BalanceTracker: k.GetBalanceTracker(ctx),
		VotingTokens:   k.GetVotingTokens(ctx),
	}
}

// GetSigningChainID returns the chain id used for signature domains.
func (k Keeper) GetSigningChainID(ctx sdk.Context) uint64 {
	store := ctx.KVStore(k.storeKey)
	return indexFromBytes(store.Get(votestypes.SigningChainIDKey))
}

// GetProxyRateLimit returns the minimum height gap between proxy votes.
func (k Keeper) GetProxyRateLimit(ctx sdk.Context) int64 {
	store := ctx.KVStore(k.storeKey)
	return int64(indexFromBytes(store.Get(votestypes.ProxyRateLimitKey)))
}

// GetProxySubmitter returns the proxy record for an address, if enabled.
func (k Keeper) GetProxySubmitter(ctx sdk.Context, addr common.Address) (votestypes.ProxySubmitter, bool) {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(votestypes.GetProxySubmitterKey(addr))
	if bz == nil {
		return votestypes.ProxySubmitter{}, false
	}

	var proxy votestypes.ProxySubmitter
	votestypes.ModuleCdc.MustUnmarshalJSON(bz, &proxy)
	return proxy, true
}

// GetBalanceTracker returns the configured balance tracker identifier.
func (k Keeper) GetBalanceTracker(ctx sdk.Context) common.Address {
	store := ctx.KVStore(k.storeKey)
	return common.BytesToAddress(store.Get(votestypes.BalanceTrackerKey))
}

// IsPaused reports whether vote submission is paused.
func (k Keeper) IsPaused(ctx sdk.Context) bool {
	store := ctx.KVStore(k.storeKey)
	return store.Has(votestypes.PausedKey)
}

// GetSessionKey returns the active vote session key.
func (k Keeper) GetSessionKey(ctx sdk.Context) common.Hash {
	store := ctx.KVStore(k.storeKey)
	return common.BytesToHash(store.Get(votestypes.SessionKeyKey))
}

// SetSessionKey writes the active session key directly. Used by genesis
// initialization; runtime replacement happens on cycle rollover.
func (k Keeper) SetSessionKey(ctx sdk.Context, sessionKey common.Hash) {
	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.SessionKeyKey, sessionKey.Bytes())
}

// GetNonce returns the next expected nonce for an account.
func (k Keeper) GetNonce(ctx sdk.Context, account common.Address) uint64 {
	store := ctx.KVStore(k.storeKey)
	return indexFromBytes(store.Get(votestypes.GetNonceKey(account)))
}

// GetSnapshot returns the aggregation snapshot stored for a past session key.
func (k Keeper) GetSnapshot(ctx sdk.Context, sessionKey common.Hash) []votestypes.KeyAmount {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(votestypes.GetSnapshotKey(sessionKey))
	if bz == nil {
		return nil
	}

	snapshot, err := votestypes.DecodeKeyAmounts(bz)
	if err != nil {
		panic(err)
	}
	return snapshot
}

// ExportProxySubmitters returns every enabled proxy submitter.
func (k Keeper) ExportProxySubmitters(ctx sdk.Context) map[common.Address]votestypes.ProxySubmitter {
	store := ctx.KVStore(k.storeKey)
	iterator := storetypes.KVStorePrefixIterator(store, votestypes.ProxySubmitterKeyPrefix)
	defer iterator.Close()

	out := make(map[common.Address]votestypes.ProxySubmitter)
	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()
		var proxy votestypes.ProxySubmitter
		votestypes.ModuleCdc.MustUnmarshalJSON(iterator.Value(), &proxy)
		out[common.BytesToAddress(key[len(votestypes.ProxySubmitterKeyPrefix):])] = proxy
	}
	return out
}

// Private helper methods

func (k Keeper) hasReactorKey(ctx sdk.Context, key common.Hash) bool {
	store := ctx.KVStore(k.storeKey)
	return store.Has(votestypes.GetReactorKeyKey(key))
}

func (k Keeper) getReactorKeyList(ctx sdk.Context) []common.Hash {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(votestypes.ReactorKeyListKey)
	if len(bz) == 0 || len(bz)%common.HashLength != 0 {
		return nil
	}

	keys := make([]common.Hash, 0, len(bz)/common.HashLength)
	for i := 0; i < len(bz); i += common.HashLength {
		keys = append(keys, common.BytesToHash(bz[i:i+common.HashLength]))
	}
	return keys
}

func (k Keeper) setReactorKeyList(ctx sdk.Context, keys []common.Hash) {
	store := ctx.KVStore(k.storeKey)
	if len(keys) == 0 {
		store.Delete(votestypes.ReactorKeyListKey)
		return
	}
	bz := make([]byte, 0, len(keys)*common.HashLength)
	for _, key := range keys {
		bz = append(bz, key.Bytes()...)
	}
	store.Set(votestypes.ReactorKeyListKey, bz)
}

func (k Keeper) getUserVoteInfo(ctx sdk.Context, account common.Address) votestypes.UserVoteInfo {
	store := ctx.KVStore(k.storeKey)
	bz := store.Get(votestypes.GetUserVoteInfoKey(account))
	if bz == nil {
		return votestypes.NewUserVoteInfo()
	}

	info, err := votestypes.DecodeUserVoteInfo(bz)
	if err != nil {
		panic(err)
	}
	return info
}

func (k Keeper) setUserVoteInfo(ctx sdk.Context, account common.Address, info votestypes.UserVoteInfo) {
	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.GetUserVoteInfoKey(account), votestypes.EncodeUserVoteInfo(info))
}

func (k Keeper) addSystemAggregation(ctx sdk.Context, key common.Hash, delta math.Int) {
	if delta.IsZero() {
		return
	}
	total := k.GetSystemVote(ctx, key).Add(delta)

	store := ctx.KVStore(k.storeKey)
	if total.IsZero() {
		store.Delete(votestypes.GetSystemAggregationKey(key))
		return
	}
	bz, _ := total.Marshal()
	store.Set(votestypes.GetSystemAggregationKey(key), bz)
}

func (k Keeper) setNonce(ctx sdk.Context, account common.Address, nonce uint64) {
	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.GetNonceKey(account), indexToBytes(nonce))
}

func (k Keeper) getLastProxyVote(ctx sdk.Context, account common.Address) int64 {
	store := ctx.KVStore(k.storeKey)
	return int64(indexFromBytes(store.Get(votestypes.GetLastProxyVoteKey(account))))
}

func (k Keeper) setLastProxyVote(ctx sdk.Context, account common.Address, height int64) {
	store := ctx.KVStore(k.storeKey)
	store.Set(votestypes.GetLastProxyVoteKey(account), indexToBytes(uint64(height)))
}

func (k Keeper) emitSettingUpdated(ctx sdk.Context, setting, value string) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			votestypes.EventTypeSettingsUpdated,
			sdk.NewAttribute(votestypes.AttributeKeySetting, setting),
			sdk.NewAttribute(votestypes.AttributeKeyValue, value),
		),
	)
}

func indexToBytes(v uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, v)
	return bz
}

func indexFromBytes(bz []byte) uint64 {
	if len(bz) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}
