package types

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// AccountBalance is the stored record for one (account, token) pair. Amount is
// the account's own balance; DelegatedIn mirrors balances delegated to the
// account. Initialized distinguishes an explicit zero from an untouched slot,
// which is what the one-time backfill path keys off.
type AccountBalance struct {
	Amount      math.Int `json:"amount"`
	DelegatedIn math.Int `json:"delegated_in"`
	Initialized bool     `json:"initialized"`
}

// NewAccountBalance returns an empty, uninitialized record.
func NewAccountBalance() AccountBalance {
	return AccountBalance{
		Amount:      math.ZeroInt(),
		DelegatedIn: math.ZeroInt(),
	}
}

// Visible returns the externally visible balance: zero while the account
// delegates elsewhere, own amount plus delegated-in total otherwise.
func (b AccountBalance) Visible(delegating bool) math.Int {
	if delegating {
		return math.ZeroInt()
	}
	return b.Amount.Add(b.DelegatedIn)
}

// BalanceUpdate is one entry of an administrative backfill.
type BalanceUpdate struct {
	Account common.Address `json:"account"`
	Token   common.Address `json:"token"`
	Amount  math.Int       `json:"amount"`
}

// Validate checks a single backfill entry.
func (u BalanceUpdate) Validate() error {
	if u.Account == (common.Address{}) {
		return ErrZeroAccount
	}
	if u.Amount.IsNil() || u.Amount.IsNegative() {
		return ErrNegativeAmount.Wrapf("account %s", u.Account.Hex())
	}
	return nil
}

func (u BalanceUpdate) String() string {
	return fmt.Sprintf("BalanceUpdate{%s/%s: %s}", u.Account.Hex(), u.Token.Hex(), u.Amount)
}

// BalanceRecord is an exported (account, token, amount) triple.
type BalanceRecord struct {
	Account common.Address
	Token   common.Address
	Amount  math.Int
}

// DelegationRecord is an exported delegation pair.
type DelegationRecord struct {
	Delegator common.Address
	Delegatee common.Address
}
