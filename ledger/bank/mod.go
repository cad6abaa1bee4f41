// Package bank implements the asset accounting of the runtime. It tracks
// the balance of each account inside its own namespace of the store so
// that the funds attached to a transaction can be withdrawn, and the
// transfers emitted by a contract can be deposited.
package bank

import (
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/core/store"
	"github.com/calldera/callop/core/store/prefixed"
	"github.com/calldera/callop/ledger/coin"
	"github.com/calldera/callop/serde"
	sjson "github.com/calldera/callop/serde/json"
	"golang.org/x/xerrors"
)

// LedgerUID is the unique (4-bytes) identifier of the bank. It prefixes
// the keys of the bank namespace in the store.
const LedgerUID = "BANK"

// coinJSON is the stored shape of a single coin of a balance.
type coinJSON struct {
	Denom  string
	Amount uint64
}

// Ledger tracks the balances of the accounts.
type Ledger struct {
	snap store.Snapshot
	ctx  serde.Context
}

// NewLedger creates a ledger scoped to the bank namespace of the given
// snapshot.
func NewLedger(snap store.Snapshot) Ledger {
	return Ledger{
		snap: prefixed.NewSnapshot(LedgerUID, snap),
		ctx:  sjson.NewContext(),
	}
}

// Balance returns the coins held by the account. An unknown account has
// an empty balance.
func (l Ledger) Balance(account access.Address) (coin.Coins, error) {
	data, err := l.snap.Get([]byte(account))
	if err != nil {
		return nil, xerrors.Errorf("failed to read balance: %v", err)
	}

	if data == nil {
		return nil, nil
	}

	var m []coinJSON

	err = l.ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode balance: %v", err)
	}

	balance := make(coin.Coins, len(m))
	for i, c := range m {
		balance[i] = coin.New(c.Amount, c.Denom)
	}

	return balance, nil
}

// Deposit adds the coins to the balance of the account.
func (l Ledger) Deposit(account access.Address, amount coin.Coins) error {
	balance, err := l.Balance(account)
	if err != nil {
		return err
	}

	next, err := balance.Add(amount)
	if err != nil {
		return xerrors.Errorf("invalid deposit for '%s': %v", account, err)
	}

	return l.save(account, next)
}

// Withdraw removes the coins from the balance of the account. It fails
// when the balance does not cover the amount.
func (l Ledger) Withdraw(account access.Address, amount coin.Coins) error {
	balance, err := l.Balance(account)
	if err != nil {
		return err
	}

	next, err := balance.Sub(amount)
	if err != nil {
		return xerrors.Errorf("insufficient balance for '%s': %v", account, err)
	}

	return l.save(account, next)
}

func (l Ledger) save(account access.Address, balance coin.Coins) error {
	if len(balance) == 0 {
		err := l.snap.Delete([]byte(account))
		if err != nil {
			return xerrors.Errorf("failed to delete balance: %v", err)
		}

		return nil
	}

	m := make([]coinJSON, len(balance))
	for i, c := range balance {
		m[i] = coinJSON{Denom: c.Denom, Amount: c.Amount}
	}

	data, err := l.ctx.Marshal(m)
	if err != nil {
		return xerrors.Errorf("failed to encode balance: %v", err)
	}

	err = l.snap.Set([]byte(account), data)
	if err != nil {
		return xerrors.Errorf("failed to write balance: %v", err)
	}

	return nil
}
