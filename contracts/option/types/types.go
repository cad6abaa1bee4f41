// Package types holds the state of a call option and the serialization
// formats registry.
package types

import (
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/ledger/coin"
	"github.com/calldera/callop/serde"
	"github.com/calldera/callop/serde/registry"
	"golang.org/x/xerrors"
)

var stateFormats = registry.NewSimpleRegistry()

// RegisterStateFormat registers the engine for the provided format.
func RegisterStateFormat(f serde.Format, e serde.FormatEngine) {
	stateFormats.Register(f, e)
}

// State is the record of a call option. The creator escrowed the
// collateral and the current owner holds the right to exercise it by
// paying the counter offer before it expires.
//
// - implements serde.Message
type State struct {
	creator      access.Address
	owner        access.Address
	collateral   coin.Coins
	counterOffer coin.Coins
	expires      uint64
}

// NewState creates the state of a freshly created option. The creator is
// the initial owner.
func NewState(creator access.Address, collateral, counterOffer coin.Coins, expires uint64) State {
	return State{
		creator:      creator,
		owner:        creator,
		collateral:   collateral,
		counterOffer: counterOffer,
		expires:      expires,
	}
}

// WithOwner returns a copy of the state with the owner replaced.
func (s State) WithOwner(owner access.Address) State {
	s.owner = owner
	return s
}

// GetCreator returns the account that created the option and escrowed the
// collateral.
func (s State) GetCreator() access.Address {
	return s.creator
}

// GetOwner returns the account currently holding the option.
func (s State) GetOwner() access.Address {
	return s.owner
}

// GetCollateral returns the coins locked by the creator.
func (s State) GetCollateral() coin.Coins {
	return append(coin.Coins{}, s.collateral...)
}

// GetCounterOffer returns the coins the owner must pay to exercise.
func (s State) GetCounterOffer() coin.Coins {
	return append(coin.Coins{}, s.counterOffer...)
}

// GetExpires returns the block height at which the option expires.
func (s State) GetExpires() uint64 {
	return s.expires
}

// Serialize implements serde.Message. It returns the serialized data of
// the state.
func (s State) Serialize(ctx serde.Context) ([]byte, error) {
	format := stateFormats.Get(ctx.GetFormat())

	data, err := format.Encode(ctx, s)
	if err != nil {
		return nil, xerrors.Errorf("failed to encode: %v", err)
	}

	return data, nil
}

// StateFactory is a factory to deserialize option states.
//
// - implements serde.Factory
type StateFactory struct{}

// Deserialize implements serde.Factory. It returns the state of the data
// if appropriate, otherwise it returns an error.
func (f StateFactory) Deserialize(ctx serde.Context, data []byte) (serde.Message, error) {
	return f.StateOf(ctx, data)
}

// StateOf returns the state of the data if appropriate, otherwise it
// returns an error.
func (f StateFactory) StateOf(ctx serde.Context, data []byte) (State, error) {
	format := stateFormats.Get(ctx.GetFormat())

	msg, err := format.Decode(ctx, data)
	if err != nil {
		return State{}, xerrors.Errorf("failed to decode: %v", err)
	}

	state, ok := msg.(State)
	if !ok {
		return State{}, xerrors.Errorf("invalid state of type '%T'", msg)
	}

	return state, nil
}
