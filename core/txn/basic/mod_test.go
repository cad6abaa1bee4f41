package basic

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/calldera/callop/internal/testing/fake"
	"github.com/calldera/callop/ledger/coin"
)

func TestNewTransaction(t *testing.T) {
	tx, err := NewTransaction(5, "creator",
		WithArg("key", []byte("value")),
		WithFunds(coin.Coins{coin.New(1, "btc")}))
	require.NoError(t, err)

	require.Equal(t, uint64(5), tx.GetNonce())
	require.Equal(t, "creator", tx.GetIdentity().String())
	require.Equal(t, coin.Coins{coin.New(1, "btc")}, tx.GetFunds())
	require.Equal(t, []byte("value"), tx.GetArg("key"))
	require.Nil(t, tx.GetArg("unknown"))
	require.Len(t, tx.GetID(), 32)

	_, err = NewTransaction(0, "creator",
		WithFunds(coin.Coins{coin.New(1, "btc"), coin.New(2, "btc")}))
	require.EqualError(t, err, "invalid funds: duplicated denomination 'btc'")
}

func TestTransaction_Deterministic(t *testing.T) {
	a, err := NewTransaction(1, "creator", WithArg("key", []byte("value")))
	require.NoError(t, err)

	b, err := NewTransaction(1, "creator", WithArg("key", []byte("value")))
	require.NoError(t, err)

	require.Equal(t, a.GetID(), b.GetID())

	c, err := NewTransaction(2, "creator", WithArg("key", []byte("value")))
	require.NoError(t, err)

	require.NotEqual(t, a.GetID(), c.GetID())
}

func TestTransaction_GetFunds_Copy(t *testing.T) {
	tx, err := NewTransaction(0, "creator", WithFunds(coin.Coins{coin.New(1, "btc")}))
	require.NoError(t, err)

	funds := tx.GetFunds()
	funds[0].Amount = 99

	require.Equal(t, coin.Coins{coin.New(1, "btc")}, tx.GetFunds())
}

func TestTransaction_Serialize(t *testing.T) {
	tx, err := NewTransaction(0, "creator")
	require.NoError(t, err)

	_, err = tx.Serialize(fake.NewBadContext())
	require.EqualError(t, err, "failed to encode: format 'BAD' is not implemented")
}

func TestTransactionFactory_Deserialize(t *testing.T) {
	factory := NewTransactionFactory()

	_, err := factory.Deserialize(fake.NewBadContext(), nil)
	require.EqualError(t, err, "failed to decode: format 'BAD' is not implemented")
}
