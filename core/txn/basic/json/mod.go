// Package json implements the JSON format of the basic transactions.
package json

import (
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/core/txn/basic"
	"github.com/calldera/callop/ledger/coin"
	"github.com/calldera/callop/serde"
	"golang.org/x/xerrors"
)

func init() {
	basic.RegisterTransactionFormat(serde.FormatJSON, txFormat{})
}

// CoinJSON is the JSON message of a single coin.
type CoinJSON struct {
	Denom  string
	Amount uint64
}

// TransactionJSON is the JSON message of a transaction.
type TransactionJSON struct {
	Nonce    uint64
	Identity string
	Funds    []CoinJSON
	Args     map[string][]byte
}

// txFormat is the engine to encode and decode transactions in JSON
// format.
//
// - implements serde.FormatEngine
type txFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// provided transaction.
func (f txFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	tx, ok := msg.(*basic.Transaction)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	funds := tx.GetFunds()

	m := TransactionJSON{
		Nonce:    tx.GetNonce(),
		Identity: tx.GetIdentity().String(),
		Funds:    make([]CoinJSON, len(funds)),
		Args:     make(map[string][]byte),
	}

	for i, c := range funds {
		m.Funds[i] = CoinJSON{Denom: c.Denom, Amount: c.Amount}
	}

	for _, key := range tx.GetArgs() {
		m.Args[key] = tx.GetArg(key)
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It populates the transaction from
// the JSON data if appropriate, otherwise it returns an error.
func (f txFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := TransactionJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	ident, err := access.NewAddress(m.Identity)
	if err != nil {
		return nil, xerrors.Errorf("invalid identity: %v", err)
	}

	funds := make(coin.Coins, len(m.Funds))
	for i, c := range m.Funds {
		funds[i] = coin.New(c.Amount, c.Denom)
	}

	opts := []basic.TransactionOption{basic.WithFunds(funds)}
	for key, value := range m.Args {
		opts = append(opts, basic.WithArg(key, value))
	}

	tx, err := basic.NewTransaction(m.Nonce, ident, opts...)
	if err != nil {
		return nil, xerrors.Errorf("failed to create tx: %v", err)
	}

	return tx, nil
}
