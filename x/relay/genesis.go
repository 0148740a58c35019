package relay

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/x/relay/keeper"
	relaytypes "github.com/govbridge/cosmos/x/relay/types"
)

// SenderRegistration is the genesis form of one origin sender entry.
type SenderRegistration struct {
	Sender  string `json:"sender"`
	Enabled bool   `json:"enabled"`
}

// GenesisState defines the relay module's genesis state.
type GenesisState struct {
	TrustedSource         string                               `json:"trusted_source"`
	Senders               []SenderRegistration                 `json:"senders"`
	Destinations          []relaytypes.DestinationRegistration `json:"destinations"`
	LastProcessedSequence uint64                               `json:"last_processed_sequence"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Senders:      []SenderRegistration{},
		Destinations: []relaytypes.DestinationRegistration{},
	}
}

// ValidateGenesis validates the relay genesis parameters
func ValidateGenesis(data *GenesisState) error {
	if data.TrustedSource != "" && !common.IsHexAddress(data.TrustedSource) {
		return fmt.Errorf("invalid trusted source address: %s", data.TrustedSource)
	}

	for i, reg := range data.Senders {
		if !common.IsHexAddress(reg.Sender) {
			return fmt.Errorf("sender %d: invalid address %s", i, reg.Sender)
		}
	}

	for i, reg := range data.Destinations {
		if !common.IsHexAddress(reg.Sender) {
			return fmt.Errorf("destination registration %d: invalid sender %s", i, reg.Sender)
		}
		if reg.EventType == "" {
			return fmt.Errorf("destination registration %d: event type cannot be empty", i)
		}
		if len(reg.Destinations) == 0 {
			return fmt.Errorf("destination registration %d: destinations cannot be empty", i)
		}
		for _, dest := range reg.Destinations {
			if !common.IsHexAddress(dest) {
				return fmt.Errorf("destination registration %d: invalid destination %s", i, dest)
			}
		}
	}

	return nil
}

// InitGenesis initializes the relay module's state from a provided genesis state.
func InitGenesis(ctx sdk.Context, k keeper.Keeper, genState *GenesisState) {
	authority := k.GetAuthority()

	if genState.TrustedSource != "" {
		if err := k.SetTrustedSource(ctx, authority, common.HexToAddress(genState.TrustedSource)); err != nil {
			panic(err)
		}
	}

	for _, reg := range genState.Senders {
		if err := k.RegisterSender(ctx, authority, common.HexToAddress(reg.Sender), reg.Enabled); err != nil {
			panic(err)
		}
	}

	for _, reg := range genState.Destinations {
		dests := make([]common.Address, 0, len(reg.Destinations))
		for _, dest := range reg.Destinations {
			dests = append(dests, common.HexToAddress(dest))
		}
		err := k.RegisterDestinations(ctx, authority, []relaytypes.Registration{{
			Sender:       common.HexToAddress(reg.Sender),
			EventType:    reg.EventType,
			Destinations: dests,
		}})
		if err != nil {
			panic(err)
		}
	}

	k.SetProcessedSequence(ctx, genState.LastProcessedSequence)
}

// ExportGenesis returns the relay module's exported genesis.
func ExportGenesis(ctx sdk.Context, k keeper.Keeper) *GenesisState {
	genesis := DefaultGenesisState()

	if source, ok := k.GetTrustedSource(ctx); ok {
		genesis.TrustedSource = source.Hex()
	}
	genesis.LastProcessedSequence = k.GetProcessedSequence(ctx)

	for _, status := range k.ExportSenders(ctx) {
		genesis.Senders = append(genesis.Senders, SenderRegistration{
			Sender:  status.Sender.Hex(),
			Enabled: status.Enabled,
		})
	}

	for _, reg := range k.ExportDestinations(ctx) {
		dests := make([]string, 0, len(reg.Destinations))
		for _, dest := range reg.Destinations {
			dests = append(dests, dest.Hex())
		}
		genesis.Destinations = append(genesis.Destinations, relaytypes.DestinationRegistration{
			Sender:       reg.Sender.Hex(),
			EventType:    reg.EventType,
			Destinations: dests,
		})
	}

	return genesis
}
