// Package txn defines the abstraction of the requests executed by the
// contracts.
//
// A transaction is uniquely identifiable via a digest and carries the
// identity of its author, the funds attached to the request and a set of
// free-form arguments. The nonce acts as a sequence number so that the
// runtime can order the transactions of one author.
package txn

import (
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/ledger/coin"
	"github.com/calldera/callop/serde"
)

// Transaction is what triggers a contract execution by being passed as
// part of the input.
type Transaction interface {
	serde.Message
	serde.Fingerprinter

	// GetID returns the unique identifier of the transaction.
	GetID() []byte

	// GetNonce returns the nonce of the transaction, which corresponds to
	// the sequence number of a unique identity.
	GetNonce() uint64

	// GetIdentity returns the account that submitted the transaction. The
	// runtime authenticates the author before the transaction reaches the
	// execution service.
	GetIdentity() access.Address

	// GetFunds returns the coins attached to the transaction.
	GetFunds() coin.Coins

	// GetArg is a getter for the arguments of the transaction.
	GetArg(key string) []byte
}

// Factory is the definition of a factory to deserialize transaction
// messages.
type Factory interface {
	serde.Factory

	TransactionOf(serde.Context, []byte) (Transaction, error)
}

// Arg is a generic argument that can be stored in a transaction.
type Arg struct {
	Key   string
	Value []byte
}
