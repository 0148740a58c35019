package balances

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/x/balances/keeper"
)

// GenesisBalance is the genesis form of one (account, token, amount) triple.
type GenesisBalance struct {
	Account string   `json:"account"`
	Token   string   `json:"token"`
	Amount  math.Int `json:"amount"`
}

// GenesisDelegation is the genesis form of one delegation pair.
type GenesisDelegation struct {
	Delegator string `json:"delegator"`
	Delegatee string `json:"delegatee"`
}

// GenesisState defines the balances module's genesis state. Delegated-in
// mirrors and per-token totals are not persisted; they are rebuilt by
// replaying balances and delegations through the keeper.
type GenesisState struct {
	SupportedTokens []string            `json:"supported_tokens"`
	RemovedTokens   []string            `json:"removed_tokens"`
	Balances        []GenesisBalance    `json:"balances"`
	Delegations     []GenesisDelegation `json:"delegations"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		SupportedTokens: []string{},
		RemovedTokens:   []string{},
		Balances:        []GenesisBalance{},
		Delegations:     []GenesisDelegation{},
	}
}

// ValidateGenesis validates the balances genesis parameters
func ValidateGenesis(data *GenesisState) error {
	seen := make(map[string]bool)
	for _, token := range append(append([]string{}, data.SupportedTokens...), data.RemovedTokens...) {
		if !common.IsHexAddress(token) {
			return fmt.Errorf("invalid token address: %s", token)
		}
		normalized := common.HexToAddress(token).Hex()
		if seen[normalized] {
			return fmt.Errorf("duplicate token: %s", token)
		}
		seen[normalized] = true
	}

	for i, bal := range data.Balances {
		if !common.IsHexAddress(bal.Account) {
			return fmt.Errorf("balance %d: invalid account %s", i, bal.Account)
		}
		if !common.IsHexAddress(bal.Token) {
			return fmt.Errorf("balance %d: invalid token %s", i, bal.Token)
		}
		if bal.Amount.IsNil() || bal.Amount.IsNegative() {
			return fmt.Errorf("balance %d: amount must be non-negative", i)
		}
	}

	for i, del := range data.Delegations {
		if !common.IsHexAddress(del.Delegator) {
			return fmt.Errorf("delegation %d: invalid delegator %s", i, del.Delegator)
		}
		if !common.IsHexAddress(del.Delegatee) {
			return fmt.Errorf("delegation %d: invalid delegatee %s", i, del.Delegatee)
		}
	}

	return nil
}

// InitGenesis initializes the balances module's state from a provided genesis
// state. Removed tokens are registered first and retired last so that their
// balances re-enter the running totals before the tokens stop being tracked.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, genState *GenesisState) {
	authority := k.GetAuthority()

	all := make([]common.Address, 0, len(genState.SupportedTokens)+len(genState.RemovedTokens))
	for _, token := range genState.SupportedTokens {
		all = append(all, common.HexToAddress(token))
	}
	removed := make([]common.Address, 0, len(genState.RemovedTokens))
	for _, token := range genState.RemovedTokens {
		removed = append(removed, common.HexToAddress(token))
	}
	all = append(all, removed...)

	if len(all) > 0 {
		if err := k.AddSupportedTokens(ctx, authority, all); err != nil {
			panic(err)
		}
	}

	for _, bal := range genState.Balances {
		_, err := k.UpdateBalance(ctx, common.HexToAddress(bal.Account), common.HexToAddress(bal.Token), bal.Amount, true)
		if err != nil {
			panic(err)
		}
	}

	for _, del := range genState.Delegations {
		if err := k.EnableDelegation(ctx, common.HexToAddress(del.Delegator), common.HexToAddress(del.Delegatee)); err != nil {
			panic(err)
		}
	}

	if len(removed) > 0 {
		if err := k.RemoveSupportedTokens(ctx, authority, removed); err != nil {
			panic(err)
		}
	}
}

// ExportGenesis returns the balances module's exported genesis.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) *GenesisState {
	genesis := DefaultGenesisState()

	for _, token := range k.GetSupportedTokens(ctx) {
		genesis.SupportedTokens = append(genesis.SupportedTokens, token.Hex())
	}
	for _, token := range k.ExportRemovedTokens(ctx) {
		genesis.RemovedTokens = append(genesis.RemovedTokens, token.Hex())
	}

	for _, record := range k.ExportBalances(ctx) {
		genesis.Balances = append(genesis.Balances, GenesisBalance{
			Account: record.Account.Hex(),
			Token:   record.Token.Hex(),
			Amount:  record.Amount,
		})
	}

	for _, record := range k.ExportDelegations(ctx) {
		genesis.Delegations = append(genesis.Delegations, GenesisDelegation{
			Delegator: record.Delegator.Hex(),
			Delegatee: record.Delegatee.Hex(),
		})
	}

	return genesis
}
