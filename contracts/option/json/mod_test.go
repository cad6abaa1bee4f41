package json

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/calldera/callop/contracts/option/types"
	"github.com/calldera/callop/internal/testing/fake"
	"github.com/calldera/callop/ledger/coin"
	"github.com/calldera/callop/serde"
)

func TestStateFormat_Roundtrip(t *testing.T) {
	state := types.NewState("creator",
		coin.Coins{coin.New(1, "btc")},
		coin.Coins{coin.New(40, "eth")},
		100000).WithOwner("alice")

	ctx := fake.NewContext()

	data, err := state.Serialize(ctx)
	require.NoError(t, err)

	msg, err := types.StateFactory{}.StateOf(ctx, data)
	require.NoError(t, err)
	require.Equal(t, state, msg)
}

func TestStateFormat_Encode(t *testing.T) {
	format := stateFormat{}

	_, err := format.Encode(fake.NewContext(), fakeMessage{})
	require.EqualError(t, err, "unsupported message of type 'json.fakeMessage'")

	_, err = format.Encode(fake.NewBadContextWithDelay(0), types.NewState("creator", nil, nil, 0))
	require.EqualError(t, err, "failed to marshal: fake error")
}

func TestStateFormat_Decode(t *testing.T) {
	format := stateFormat{}

	_, err := format.Decode(fake.NewBadContextWithDelay(0), []byte("{}"))
	require.EqualError(t, err, "failed to unmarshal: fake error")

	_, err = format.Decode(fake.NewContext(), []byte(`{}`))
	require.EqualError(t, err,
		"invalid creator: invalid address length 0: expect 3 to 64 characters")

	_, err = format.Decode(fake.NewContext(), []byte(`{"Creator":"creator"}`))
	require.EqualError(t, err,
		"invalid owner: invalid address length 0: expect 3 to 64 characters")
}

// -----------------------------------------------------------------------------
// Utility functions

type fakeMessage struct {
	serde.Message
}
