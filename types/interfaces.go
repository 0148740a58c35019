package types

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// EventReceiver is implemented by any component that can be registered as a
// relay destination. The receiver stores the identifier of its single
// authorized relay at initialization and must reject calls from any other
// relay identifier.
type EventReceiver interface {
	ReceiveRelayedEvent(ctx sdk.Context, relayID, originSender common.Address, eventType string, data []byte) error
}

// BalancesKeeper defines the expected interface for the balance ledger as
// consumed by the vote aggregator. All reads are delegation-adjusted unless
// stated otherwise.
type BalancesKeeper interface {
	// GetBalance returns delegation-adjusted balances: zero for a delegating
	// account, raw balance plus delegated-in total otherwise.
	GetBalance(ctx sdk.Context, account common.Address, tokens []common.Address) []math.Int

	// GetActualBalance returns raw balances, ignoring delegation.
	GetActualBalance(ctx sdk.Context, account common.Address, tokens []common.Address) []math.Int

	// GetSupportedTokens returns the tokens currently tracked by the ledger.
	GetSupportedTokens(ctx sdk.Context) []common.Address
}

// RelayKeeper defines the expected interface for the event relay as consumed
// by app wiring and external submitters.
type RelayKeeper interface {
	Deliver(ctx sdk.Context, submitter common.Address, sequence uint64, originSender common.Address, payload []byte) error
}
