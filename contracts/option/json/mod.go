// Package json implements the JSON format of the option state.
package json

import (
	"github.com/calldera/callop/contracts/option/types"
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/ledger/coin"
	"github.com/calldera/callop/serde"
	"golang.org/x/xerrors"
)

func init() {
	types.RegisterStateFormat(serde.FormatJSON, stateFormat{})
}

// CoinJSON is the JSON message of a single coin.
type CoinJSON struct {
	Denom  string
	Amount uint64
}

// StateJSON is the JSON message of an option state.
type StateJSON struct {
	Creator      string
	Owner        string
	Collateral   []CoinJSON
	CounterOffer []CoinJSON
	Expires      uint64
}

// stateFormat is the engine to encode and decode option states in JSON
// format.
//
// - implements serde.FormatEngine
type stateFormat struct{}

// Encode implements serde.FormatEngine. It returns the JSON data of the
// provided state.
func (f stateFormat) Encode(ctx serde.Context, msg serde.Message) ([]byte, error) {
	state, ok := msg.(types.State)
	if !ok {
		return nil, xerrors.Errorf("unsupported message of type '%T'", msg)
	}

	m := StateJSON{
		Creator:      state.GetCreator().String(),
		Owner:        state.GetOwner().String(),
		Collateral:   toJSON(state.GetCollateral()),
		CounterOffer: toJSON(state.GetCounterOffer()),
		Expires:      state.GetExpires(),
	}

	data, err := ctx.Marshal(m)
	if err != nil {
		return nil, xerrors.Errorf("failed to marshal: %v", err)
	}

	return data, nil
}

// Decode implements serde.FormatEngine. It populates the state from the
// JSON data if appropriate, otherwise it returns an error.
func (f stateFormat) Decode(ctx serde.Context, data []byte) (serde.Message, error) {
	m := StateJSON{}

	err := ctx.Unmarshal(data, &m)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal: %v", err)
	}

	creator, err := access.NewAddress(m.Creator)
	if err != nil {
		return nil, xerrors.Errorf("invalid creator: %v", err)
	}

	owner, err := access.NewAddress(m.Owner)
	if err != nil {
		return nil, xerrors.Errorf("invalid owner: %v", err)
	}

	state := types.NewState(creator, fromJSON(m.Collateral), fromJSON(m.CounterOffer), m.Expires)

	return state.WithOwner(owner), nil
}

func toJSON(coins coin.Coins) []CoinJSON {
	res := make([]CoinJSON, len(coins))
	for i, c := range coins {
		res[i] = CoinJSON{Denom: c.Denom, Amount: c.Amount}
	}

	return res
}

func fromJSON(coins []CoinJSON) coin.Coins {
	res := make(coin.Coins, len(coins))
	for i, c := range coins {
		res[i] = coin.New(c.Amount, c.Denom)
	}

	return res
}
