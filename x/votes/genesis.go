package votes

import (
	"bytes"
	"fmt"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/govbridge/cosmos/x/votes/keeper"
	votestypes "github.com/govbridge/cosmos/x/votes/types"
)

// GenesisReactorKey is the genesis form of one allowed allocation target.
type GenesisReactorKey struct {
	Key   string `json:"key"`
	Token string `json:"token"`
}

// GenesisMultiplier is the genesis form of one voting-token multiplier.
type GenesisMultiplier struct {
	Token      string   `json:"token"`
	Multiplier math.Int `json:"multiplier"`
}

// GenesisProxy is the genesis form of one enabled proxy submitter.
type GenesisProxy struct {
	Address        string `json:"address"`
	SigningChainID uint64 `json:"signing_chain_id"`
}

// GenesisState defines the votes module's genesis state. Allocations and
// aggregations are runtime state and start empty.
type GenesisState struct {
	ReactorKeys     []GenesisReactorKey `json:"reactor_keys"`
	Multipliers     []GenesisMultiplier `json:"multipliers"`
	SessionKey      string              `json:"session_key"`
	SigningChainID  uint64              `json:"signing_chain_id"`
	ProxyRateLimit  int64               `json:"proxy_rate_limit"`
	ProxySubmitters []GenesisProxy      `json:"proxy_submitters"`
	BalanceTracker  string              `json:"balance_tracker"`
	Paused          bool                `json:"paused"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		ReactorKeys:     []GenesisReactorKey{},
		Multipliers:     []GenesisMultiplier{},
		ProxySubmitters: []GenesisProxy{},
	}
}

// ValidateGenesis validates the votes genesis parameters
func ValidateGenesis(data *GenesisState) error {
	for i, entry := range data.ReactorKeys {
		if err := validateHash(entry.Key); err != nil {
			return fmt.Errorf("reactor key %d: %w", i, err)
		}
		if !common.IsHexAddress(entry.Token) {
			return fmt.Errorf("reactor key %d: invalid token %s", i, entry.Token)
		}
	}
	for i, entry := range data.Multipliers {
		if !common.IsHexAddress(entry.Token) {
			return fmt.Errorf("multiplier %d: invalid token %s", i, entry.Token)
		}
		if entry.Multiplier.IsNil() || entry.Multiplier.IsNegative() {
			return fmt.Errorf("multiplier %d: must be non-negative", i)
		}
	}
	if data.SessionKey != "" {
		if err := validateHash(data.SessionKey); err != nil {
			return fmt.Errorf("session key: %w", err)
		}
	}
	if data.ProxyRateLimit < 0 {
		return fmt.Errorf("proxy rate limit cannot be negative")
	}
	for i, proxy := range data.ProxySubmitters {
		if !common.IsHexAddress(proxy.Address) {
			return fmt.Errorf("proxy submitter %d: invalid address %s", i, proxy.Address)
		}
		if proxy.SigningChainID == 0 {
			return fmt.Errorf("proxy submitter %d: signing chain id cannot be zero", i)
		}
	}
	if data.BalanceTracker != "" && !common.IsHexAddress(data.BalanceTracker) {
		return fmt.Errorf("invalid balance tracker address: %s", data.BalanceTracker)
	}
	return nil
}

// InitGenesis initializes the votes module's state from a provided genesis state.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, genState *GenesisState) {
	authority := k.GetAuthority()

	if len(genState.ReactorKeys) > 0 {
		add := make([]votestypes.ReactorKeyInfo, 0, len(genState.ReactorKeys))
		for _, entry := range genState.ReactorKeys {
			add = append(add, votestypes.ReactorKeyInfo{
				Key:   common.HexToHash(entry.Key),
				Token: common.HexToAddress(entry.Token),
			})
		}
		if err := k.SetReactorKeys(ctx, authority, add, nil); err != nil {
			panic(err)
		}
	}

	if len(genState.Multipliers) > 0 {
		entries := make([]votestypes.MultiplierEntry, 0, len(genState.Multipliers))
		for _, entry := range genState.Multipliers {
			entries = append(entries, votestypes.MultiplierEntry{
				Token:      common.HexToAddress(entry.Token),
				Multiplier: entry.Multiplier,
			})
		}
		if err := k.SetVoteMultipliers(ctx, authority, entries); err != nil {
			panic(err)
		}
	}

	if genState.SessionKey != "" {
		k.SetSessionKey(ctx, common.HexToHash(genState.SessionKey))
	}
	if genState.SigningChainID != 0 {
		if err := k.SetSigningChainID(ctx, authority, genState.SigningChainID); err != nil {
			panic(err)
		}
	}
	if genState.ProxyRateLimit != 0 {
		if err := k.SetProxyRateLimit(ctx, authority, genState.ProxyRateLimit); err != nil {
			panic(err)
		}
	}
	if len(genState.ProxySubmitters) > 0 {
		submitters := make(map[common.Address]votestypes.ProxySubmitter, len(genState.ProxySubmitters))
		for _, proxy := range genState.ProxySubmitters {
			submitters[common.HexToAddress(proxy.Address)] = votestypes.ProxySubmitter{
				Enabled:        true,
				SigningChainID: proxy.SigningChainID,
			}
		}
		if err := k.SetProxySubmitters(ctx, authority, submitters); err != nil {
			panic(err)
		}
	}
	if genState.BalanceTracker != "" {
		if err := k.SetBalanceTracker(ctx, authority, common.HexToAddress(genState.BalanceTracker)); err != nil {
			panic(err)
		}
	}
	if genState.Paused {
		if err := k.SetPaused(ctx, authority, true); err != nil {
			panic(err)
		}
	}
}

// ExportGenesis returns the votes module's exported genesis.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) *GenesisState {
	genesis := DefaultGenesisState()

	for _, info := range k.GetReactorKeys(ctx) {
		genesis.ReactorKeys = append(genesis.ReactorKeys, GenesisReactorKey{
			Key:   info.Key.Hex(),
			Token: info.Token.Hex(),
		})
	}
	for _, token := range k.GetVotingTokens(ctx) {
		genesis.Multipliers = append(genesis.Multipliers, GenesisMultiplier{
			Token:      token.Hex(),
			Multiplier: k.GetMultiplier(ctx, token),
		})
	}

	settings := k.GetSettings(ctx)
	if settings.SessionKey != (common.Hash{}) {
		genesis.SessionKey = settings.SessionKey.Hex()
	}
	genesis.SigningChainID = settings.SigningChainID
	genesis.ProxyRateLimit = settings.ProxyRateLimit
	genesis.Paused = settings.Paused
	if settings.BalanceTracker != (common.Address{}) {
		genesis.BalanceTracker = settings.BalanceTracker.Hex()
	}

	submitters := k.ExportProxySubmitters(ctx)
	addrs := make([]common.Address, 0, len(submitters))
	for addr := range submitters {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i].Bytes(), addrs[j].Bytes()) < 0
	})
	for _, addr := range addrs {
		genesis.ProxySubmitters = append(genesis.ProxySubmitters, GenesisProxy{
			Address:        addr.Hex(),
			SigningChainID: submitters[addr].SigningChainID,
		})
	}

	return genesis
}

func validateHash(s string) error {
	bz, err := hexutil.Decode(s)
	if err != nil {
		return err
	}
	if len(bz) != common.HashLength {
		return fmt.Errorf("expected %d bytes, got %d", common.HashLength, len(bz))
	}
	return nil
}
