// Package basic is an implementation of the transaction abstraction for
// requests whose author has already been authenticated by the runtime.
//
// The transaction carries the account of the author, the funds attached
// to the request and the arguments consumed by the contracts.
package basic

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/core/txn"
	"github.com/calldera/callop/crypto"
	"github.com/calldera/callop/ledger/coin"
	"github.com/calldera/callop/serde"
	"github.com/calldera/callop/serde/registry"
	"golang.org/x/xerrors"
)

var txFormats = registry.NewSimpleRegistry()

// RegisterTransactionFormat registers the engine for the provided format.
func RegisterTransactionFormat(f serde.Format, e serde.FormatEngine) {
	txFormats.Register(f, e)
}

// Transaction is a request from an authenticated account, optionally
// carrying funds.
//
// - implements txn.Transaction
type Transaction struct {
	nonce uint64
	ident access.Address
	funds coin.Coins
	args  map[string][]byte
	hash  []byte
}

type template struct {
	Transaction

	hashFactory crypto.HashFactory
}

// TransactionOption is the type of options to create a transaction.
type TransactionOption func(*template)

// WithArg is an option to set an argument with the key and the value.
func WithArg(key string, value []byte) TransactionOption {
	return func(tmpl *template) {
		tmpl.args[key] = value
	}
}

// WithFunds is an option to attach coins to the transaction.
func WithFunds(funds coin.Coins) TransactionOption {
	return func(tmpl *template) {
		tmpl.funds = funds
	}
}

// WithHashFactory is an option to set a different hash factory when
// creating a transaction.
func WithHashFactory(f crypto.HashFactory) TransactionOption {
	return func(tmpl *template) {
		tmpl.hashFactory = f
	}
}

// NewTransaction creates a new transaction with the provided nonce and
// author.
func NewTransaction(nonce uint64, ident access.Address, opts ...TransactionOption) (*Transaction, error) {
	tmpl := template{
		Transaction: Transaction{
			nonce: nonce,
			ident: ident,
			args:  make(map[string][]byte),
		},
		hashFactory: crypto.NewHashFactory(crypto.Sha256),
	}

	for _, opt := range opts {
		opt(&tmpl)
	}

	err := tmpl.funds.Validate()
	if err != nil {
		return nil, xerrors.Errorf("invalid funds: %v", err)
	}

	h := tmpl.hashFactory.New()

	err = tmpl.Fingerprint(h)
	if err != nil {
		return nil, xerrors.Errorf("couldn't fingerprint tx: %v", err)
	}

	tmpl.hash = h.Sum(nil)

	return &tmpl.Transaction, nil
}

// GetID implements txn.Transaction. It returns the ID of the transaction.
func (t *Transaction) GetID() []byte {
	return t.hash
}

// GetNonce implements txn.Transaction. It returns the nonce of the
// transaction.
func (t *Transaction) GetNonce() uint64 {
	return t.nonce
}

// GetIdentity implements txn.Transaction. It returns the account that
// submitted the transaction.
func (t *Transaction) GetIdentity() access.Address {
	return t.ident
}

// GetFunds implements txn.Transaction. It returns the coins attached to
// the transaction.
func (t *Transaction) GetFunds() coin.Coins {
	return append(coin.Coins{}, t.funds...)
}

// GetArgs returns the list of argument keys available.
func (t *Transaction) GetArgs() []string {
	args := make([]string, 0, len(t.args))
	for key := range t.args {
		args = append(args, key)
	}

	return args
}

// GetArg implements txn.Transaction. It returns the value of the argument
// if it is set, otherwise nil.
func (t *Transaction) GetArg(key string) []byte {
	return t.args[key]
}

// Fingerprint implements serde.Fingerprinter. It writes a deterministic
// binary representation of the transaction.
func (t *Transaction) Fingerprint(w io.Writer) error {
	buffer := make([]byte, 8)
	binary.LittleEndian.PutUint64(buffer, t.nonce)

	_, err := w.Write(buffer)
	if err != nil {
		return xerrors.Errorf("couldn't write nonce: %v", err)
	}

	_, err = w.Write([]byte(t.ident))
	if err != nil {
		return xerrors.Errorf("couldn't write identity: %v", err)
	}

	_, err = w.Write([]byte(t.funds.String()))
	if err != nil {
		return xerrors.Errorf("couldn't write funds: %v", err)
	}

	keys := make([]string, 0, len(t.args))
	for key := range t.args {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_, err = w.Write(append([]byte(key), t.args[key]...))
		if err != nil {
			return xerrors.Errorf("couldn't write arg '%s': %v", key, err)
		}
	}

	return nil
}

// Serialize implements serde.Message. It returns the serialized data of
// the transaction.
func (t *Transaction) Serialize(ctx serde.Context) ([]byte, error) {
	format := txFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, t)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// TransactionFactory is a factory to deserialize transactions.
//
// - implements txn.Factory
type TransactionFactory struct{}

// NewTransactionFactory returns a new factory.
func NewTransactionFactory() TransactionFactory {
	return TransactionFactory{}
}

// Deserialize implements serde.Factory. It returns the transaction of the
// data if appropriate, otherwise it returns an error.
func (f TransactionFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.TransactionOf(ctx, data)
}

// TransactionOf implements txn.Factory. It returns the transaction of the
// data if appropriate, otherwise it returns an error.
func (f TransactionFactory) TransactionOf(ctx serde.Context, data []byte) (txn.Transaction, error) {
	format := txFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return nil, xerrors.Errorf("failed to decode: %v", err)
	}

	tx, ok := msg.(*Transaction)
	if !ok {
		return nil, xerrors.Errorf("invalid transaction of type '%T'", msg)
	}

	return tx, nil
}
