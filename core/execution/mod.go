// Package execution defines the service to execute a step in a validation
// batch.
//
// Documentation Last Review: 08.10.2020
package execution

import (
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/core/store"
	"github.com/calldera/callop/core/txn"
	"github.com/calldera/callop/ledger/coin"
)

// Step is a context of execution. It allows to retrieve the current
// transaction, the height of the block being processed, and the previous
// transactions already accepted in the same batch.
type Step struct {
	Previous []txn.Transaction
	Current  txn.Transaction
	Height   uint64
}

// Transfer is an instruction to move coins from the escrow of a contract
// to an account. The runtime is responsible for applying it.
type Transfer struct {
	To     access.Address
	Amount coin.Coins
}

// Attribute is a key/value pair describing what an execution did.
type Attribute struct {
	Key   string
	Value string
}

// Output is the ordered set of effects produced by an accepted execution.
// Transfers must be applied in the order they appear.
type Output struct {
	Transfers  []Transfer
	Attributes []Attribute
}

// Result is the result of a transaction execution.
type Result struct {
	// Accepted is the success state of the transaction.
	Accepted bool

	// Message gives a change to the execution to explain why a transaction
	// has failed.
	Message string

	// Output contains the effects of the execution when it is accepted.
	Output Output
}

// Service is the execution service that defines the rules to update the
// store through a transaction.
type Service interface {
	// Execute must apply the transaction to the trie and return the result
	// of it.
	Execute(snap store.Snapshot, step Step) (Result, error)
}
