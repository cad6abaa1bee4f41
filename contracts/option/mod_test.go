package option

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/core/execution"
	"github.com/calldera/callop/core/execution/native"
	"github.com/calldera/callop/core/store"
	"github.com/calldera/callop/core/txn"
	"github.com/calldera/callop/core/txn/basic"
	"github.com/calldera/callop/internal/testing/fake"
	"github.com/calldera/callop/ledger/coin"
)

func TestRegisterContract(t *testing.T) {
	RegisterContract(native.NewExecution(), NewContract())
}

func TestExecute(t *testing.T) {
	contract := NewContract()
	contract.cmd = fakeCmd{err: fake.GetError()}

	_, err := contract.Execute(fake.NewSnapshot(), makeStep(t, "creator", nil, 0))
	require.EqualError(t, err, "'option:command' not found in tx arg")

	_, err = contract.Execute(fake.NewSnapshot(),
		makeStep(t, "creator", nil, 0, txn.Arg{Key: CmdArg, Value: []byte("CREATE")}))
	require.EqualError(t, err, fake.Err("failed to CREATE"))

	_, err = contract.Execute(fake.NewSnapshot(),
		makeStep(t, "creator", nil, 0, txn.Arg{Key: CmdArg, Value: []byte("TRANSFER")}))
	require.EqualError(t, err, fake.Err("failed to TRANSFER"))

	_, err = contract.Execute(fake.NewSnapshot(),
		makeStep(t, "creator", nil, 0, txn.Arg{Key: CmdArg, Value: []byte("EXERCISE")}))
	require.EqualError(t, err, fake.Err("failed to EXERCISE"))

	_, err = contract.Execute(fake.NewSnapshot(),
		makeStep(t, "creator", nil, 0, txn.Arg{Key: CmdArg, Value: []byte("RECLAIM")}))
	require.EqualError(t, err, fake.Err("failed to RECLAIM"))

	_, err = contract.Execute(fake.NewSnapshot(),
		makeStep(t, "creator", nil, 0, txn.Arg{Key: CmdArg, Value: []byte("QUERY")}))
	require.EqualError(t, err, fake.Err("failed to QUERY"))

	_, err = contract.Execute(fake.NewSnapshot(),
		makeStep(t, "creator", nil, 0, txn.Arg{Key: CmdArg, Value: []byte("UNKNOWN")}))
	require.EqualError(t, err, "unknown command: UNKNOWN")

	contract.cmd = fakeCmd{}

	_, err = contract.Execute(fake.NewSnapshot(),
		makeStep(t, "creator", nil, 0, txn.Arg{Key: CmdArg, Value: []byte("CREATE")}))
	require.NoError(t, err)
}

func TestCommand_Create(t *testing.T) {
	contract := NewContract()

	cmd := optionCommand{Contract: &contract}

	err := cmd.create(fake.NewSnapshot(), makeStep(t, "creator", nil, 0))
	require.EqualError(t, err, "'option:counter_offer' not found in tx arg")

	err = cmd.create(fake.NewSnapshot(), makeStep(t, "creator", nil, 0,
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth")}))
	require.EqualError(t, err, "'option:expires' not found in tx arg")

	err = cmd.create(fake.NewSnapshot(), makeStep(t, "creator", nil, 0,
		txn.Arg{Key: CounterOfferArg, Value: []byte("oops")},
		txn.Arg{Key: ExpiresArg, Value: []byte("100000")}))
	require.EqualError(t, err,
		"invalid counter offer 'oops': invalid coin 'oops': expect <amount><denomination>")

	err = cmd.create(fake.NewSnapshot(), makeStep(t, "creator", nil, 0,
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth")},
		txn.Arg{Key: ExpiresArg, Value: []byte("oops")}))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid expiry height 'oops'")

	err = cmd.create(fake.NewSnapshot(), makeStep(t, "creator", nil, 100000,
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth")},
		txn.Arg{Key: ExpiresArg, Value: []byte("100000")}))
	require.EqualError(t, err, "option expired (expired at height 100000)")

	err = cmd.create(fake.NewBadSnapshot(), makeStep(t, "creator", nil, 0,
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth")},
		txn.Arg{Key: ExpiresArg, Value: []byte("100000")}))
	require.EqualError(t, err, fake.Err("failed to write record"))

	snap := fake.NewSnapshot()

	err = cmd.create(snap, makeStep(t, "creator", coin.Coins{coin.New(1, "btc")}, 50000,
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth")},
		txn.Arg{Key: ExpiresArg, Value: []byte("100000")}))
	require.NoError(t, err)

	state, err := NewRepository(snap).Load()
	require.NoError(t, err)
	require.Equal(t, "creator", state.GetCreator().String())
	require.Equal(t, "creator", state.GetOwner().String())
	require.Equal(t, coin.Coins{coin.New(1, "btc")}, state.GetCollateral())
	require.Equal(t, coin.Coins{coin.New(40, "eth")}, state.GetCounterOffer())
	require.Equal(t, uint64(100000), state.GetExpires())
}

func TestCommand_Transfer(t *testing.T) {
	contract := NewContract()

	cmd := optionCommand{Contract: &contract}

	// A missing record is reported before anything else.
	_, err := cmd.transfer(fake.NewSnapshot(), makeStep(t, "creator", nil, 0,
		txn.Arg{Key: RecipientArg, Value: []byte("b@d")}))
	require.EqualError(t, err, "no option found")

	snap := makeOption(t, "creator", 100000)

	// The ownership check comes before the recipient validation.
	_, err = cmd.transfer(snap, makeStep(t, "someone", nil, 0,
		txn.Arg{Key: RecipientArg, Value: []byte("b@d")}))
	require.EqualError(t, err, "unauthorized")

	_, err = cmd.transfer(snap, makeStep(t, "creator", nil, 0))
	require.EqualError(t, err, "'option:recipient' not found in tx arg")

	_, err = cmd.transfer(snap, makeStep(t, "creator", nil, 0,
		txn.Arg{Key: RecipientArg, Value: []byte("b@d")}))
	require.EqualError(t, err, "invalid recipient: invalid address 'b@d': unexpected character '@'")

	out, err := cmd.transfer(snap, makeStep(t, "creator", nil, 0,
		txn.Arg{Key: RecipientArg, Value: []byte("someone")}))
	require.NoError(t, err)
	require.Empty(t, out.Transfers)
	require.Equal(t, []execution.Attribute{
		{Key: "action", Value: "transfer"},
		{Key: "owner", Value: "someone"},
	}, out.Attributes)

	state, err := NewRepository(snap).Load()
	require.NoError(t, err)
	require.Equal(t, "someone", state.GetOwner().String())
	require.Equal(t, "creator", state.GetCreator().String())

	// The previous owner lost its rights.
	_, err = cmd.transfer(snap, makeStep(t, "creator", nil, 0,
		txn.Arg{Key: RecipientArg, Value: []byte("creator")}))
	require.EqualError(t, err, "unauthorized")
}

func TestCommand_Exercise(t *testing.T) {
	contract := NewContract()

	cmd := optionCommand{Contract: &contract}

	_, err := cmd.exercise(fake.NewSnapshot(), makeStep(t, "creator", nil, 0))
	require.EqualError(t, err, "no option found")

	snap := makeOption(t, "creator", 100000)

	// The owner check comes first, even when the option has expired.
	_, err = cmd.exercise(snap, makeStep(t, "someone", nil, 200000))
	require.EqualError(t, err, "unauthorized")

	_, err = cmd.exercise(snap, makeStep(t, "creator",
		coin.Coins{coin.New(40, "eth")}, 200000))
	require.EqualError(t, err, "option expired (expired at height 100000)")

	// The expiry height itself is outside the exercise window.
	_, err = cmd.exercise(snap, makeStep(t, "creator",
		coin.Coins{coin.New(40, "eth")}, 100000))
	require.EqualError(t, err, "option expired (expired at height 100000)")

	_, err = cmd.exercise(snap, makeStep(t, "creator",
		coin.Coins{coin.New(39, "eth")}, 50000))
	require.EqualError(t, err, "counter offer mismatch: offered [39eth], expected [40eth]")

	out, err := cmd.exercise(snap, makeStep(t, "creator",
		coin.Coins{coin.New(40, "eth")}, 50000))
	require.NoError(t, err)
	require.Equal(t, []execution.Transfer{
		{To: "creator", Amount: coin.Coins{coin.New(40, "eth")}},
		{To: "creator", Amount: coin.Coins{coin.New(1, "btc")}},
	}, out.Transfers)
	require.Equal(t, []execution.Attribute{{Key: "action", Value: "execute"}}, out.Attributes)

	// The option is settled.
	_, err = NewRepository(snap).Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommand_Exercise_OrderInsensitive(t *testing.T) {
	contract := NewContract()

	cmd := optionCommand{Contract: &contract}

	snap := fake.NewSnapshot()

	err := cmd.create(snap, makeStep(t, "creator", coin.Coins{coin.New(1, "btc")}, 0,
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth,5atom")},
		txn.Arg{Key: ExpiresArg, Value: []byte("100000")}))
	require.NoError(t, err)

	// The same assets in a different order still match the counter offer.
	_, err = cmd.exercise(snap, makeStep(t, "creator",
		coin.Coins{coin.New(40, "eth"), coin.New(5, "atom")}, 50000))
	require.NoError(t, err)
}

func TestCommand_Reclaim(t *testing.T) {
	contract := NewContract()

	cmd := optionCommand{Contract: &contract}

	_, err := cmd.reclaim(fake.NewSnapshot(), makeStep(t, "creator", nil, 200000))
	require.EqualError(t, err, "no option found")

	snap := makeOption(t, "creator", 100000)

	_, err = cmd.reclaim(snap, makeStep(t, "someone", nil, 99999))
	require.EqualError(t, err, "option not expired (expires at height 100000)")

	// Anyone can reclaim, and the expiry height itself is reclaimable.
	out, err := cmd.reclaim(snap, makeStep(t, "someone", nil, 100000))
	require.NoError(t, err)
	require.Equal(t, []execution.Transfer{
		{To: "creator", Amount: coin.Coins{coin.New(1, "btc")}},
	}, out.Transfers)
	require.Equal(t, []execution.Attribute{{Key: "action", Value: "burn"}}, out.Attributes)

	// The option is settled.
	_, err = NewRepository(snap).Load()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCommand_Query(t *testing.T) {
	contract := NewContract()

	buffer := new(bytes.Buffer)
	contract.printer = buffer

	cmd := optionCommand{Contract: &contract}

	err := cmd.query(fake.NewSnapshot())
	require.ErrorIs(t, err, ErrNotFound)

	snap := makeOption(t, "creator", 100000)

	err = cmd.query(snap)
	require.NoError(t, err)
	require.Contains(t, buffer.String(), `"Creator":"creator"`)
	require.Contains(t, buffer.String(), `"Expires":100000`)

	err = cmd.query(fake.NewBadSnapshot())
	require.EqualError(t, err, fake.Err("failed to read record"))
}

func TestContract_Lifecycle(t *testing.T) {
	contract := NewContract()

	snap := fake.NewSnapshot()

	// The creator escrows 1btc against a counter offer of 40eth.
	_, err := contract.Execute(snap, makeStep(t, "creator",
		coin.Coins{coin.New(1, "btc")}, 0,
		txn.Arg{Key: CmdArg, Value: []byte("CREATE")},
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth")},
		txn.Arg{Key: ExpiresArg, Value: []byte("100000")}))
	require.NoError(t, err)

	// The creator hands the option to the owner.
	out, err := contract.Execute(snap, makeStep(t, "creator", nil, 0,
		txn.Arg{Key: CmdArg, Value: []byte("TRANSFER")},
		txn.Arg{Key: RecipientArg, Value: []byte("someone")}))
	require.NoError(t, err)
	require.Equal(t, "someone", out.Attributes[1].Value)

	// A random account cannot exercise.
	_, err = contract.Execute(snap, makeStep(t, "random", nil, 50000,
		txn.Arg{Key: CmdArg, Value: []byte("EXERCISE")}))
	require.EqualError(t, err, "failed to EXERCISE: unauthorized")
	require.True(t, errors.Is(err, ErrUnauthorized))

	// Expired options cannot be exercised.
	_, err = contract.Execute(snap, makeStep(t, "someone",
		coin.Coins{coin.New(40, "eth")}, 200000,
		txn.Arg{Key: CmdArg, Value: []byte("EXERCISE")}))
	require.EqualError(t, err,
		"failed to EXERCISE: option expired (expired at height 100000)")

	expired := ExpiredError{}
	require.True(t, errors.As(err, &expired))
	require.Equal(t, uint64(100000), expired.Expired)

	// The funds must match the counter offer exactly.
	_, err = contract.Execute(snap, makeStep(t, "someone",
		coin.Coins{coin.New(39, "eth")}, 50000,
		txn.Arg{Key: CmdArg, Value: []byte("EXERCISE")}))
	require.EqualError(t, err,
		"failed to EXERCISE: counter offer mismatch: offered [39eth], expected [40eth]")

	// The owner exercises before the expiry.
	out, err = contract.Execute(snap, makeStep(t, "someone",
		coin.Coins{coin.New(40, "eth")}, 50000,
		txn.Arg{Key: CmdArg, Value: []byte("EXERCISE")}))
	require.NoError(t, err)
	require.Equal(t, []execution.Transfer{
		{To: "creator", Amount: coin.Coins{coin.New(40, "eth")}},
		{To: "someone", Amount: coin.Coins{coin.New(1, "btc")}},
	}, out.Transfers)

	// The settlement is terminal.
	_, err = contract.Execute(snap, makeStep(t, "someone", nil, 50000,
		txn.Arg{Key: CmdArg, Value: []byte("QUERY")}))
	require.EqualError(t, err, "failed to QUERY: no option found")
	require.True(t, errors.Is(err, ErrNotFound))
}

// -----------------------------------------------------------------------------
// Utility functions

func makeStep(t *testing.T, ident access.Address, funds coin.Coins, height uint64, args ...txn.Arg) execution.Step {
	opts := []basic.TransactionOption{basic.WithFunds(funds)}
	for _, arg := range args {
		opts = append(opts, basic.WithArg(arg.Key, arg.Value))
	}

	tx, err := basic.NewTransaction(0, ident, opts...)
	require.NoError(t, err)

	return execution.Step{Current: tx, Height: height}
}

func makeOption(t *testing.T, creator access.Address, expires uint64) store.Snapshot {
	snap := fake.NewSnapshot()

	contract := NewContract()

	cmd := optionCommand{Contract: &contract}

	err := cmd.create(snap, makeStep(t, creator, coin.Coins{coin.New(1, "btc")}, 0,
		txn.Arg{Key: CounterOfferArg, Value: []byte("40eth")},
		txn.Arg{Key: ExpiresArg, Value: []byte(strconv.FormatUint(expires, 10))}))
	require.NoError(t, err)

	return snap
}

type fakeCmd struct {
	err error
}

func (c fakeCmd) create(snap store.Snapshot, step execution.Step) error {
	return c.err
}

func (c fakeCmd) transfer(snap store.Snapshot, step execution.Step) (execution.Output, error) {
	return execution.Output{}, c.err
}

func (c fakeCmd) exercise(snap store.Snapshot, step execution.Step) (execution.Output, error) {
	return execution.Output{}, c.err
}

func (c fakeCmd) reclaim(snap store.Snapshot, step execution.Step) (execution.Output, error) {
	return execution.Output{}, c.err
}

func (c fakeCmd) query(snap store.Snapshot) error {
	return c.err
}
