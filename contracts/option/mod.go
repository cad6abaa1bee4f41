// Package option implements the call option contract.
//
// The contract holds a single option record. The creator escrows a
// collateral and names a counter offer. The owner can transfer the option
// or exercise it before the expiry height by paying the counter offer.
// Once expired, anyone can reclaim the collateral for the creator.
// Exercising or reclaiming settles the option by deleting the record.
package option

import (
	"fmt"
	"io"
	"strconv"

	"github.com/calldera/callop"
	"github.com/calldera/callop/contracts/option/types"
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/core/execution"
	"github.com/calldera/callop/core/execution/native"
	"github.com/calldera/callop/core/store"
	"github.com/calldera/callop/ledger/coin"
	sjson "github.com/calldera/callop/serde/json"
	"golang.org/x/xerrors"

	// Register the JSON format of the option state.
	_ "github.com/calldera/callop/contracts/option/json"
)

// commands defines the commands of the option contract. This interface
// helps in testing the contract.
type commands interface {
	create(snap store.Snapshot, step execution.Step) error
	transfer(snap store.Snapshot, step execution.Step) (execution.Output, error)
	exercise(snap store.Snapshot, step execution.Step) (execution.Output, error)
	reclaim(snap store.Snapshot, step execution.Step) (execution.Output, error)
	query(snap store.Snapshot) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "github.com/calldera/callop.Option"

	// ContractUID is the unique (4-bytes) identifier of the contract. It
	// prefixes the keys of the contract namespace in the store.
	ContractUID = "OPTN"

	// CmdArg is the argument's name in the transaction that describes the
	// command to run.
	CmdArg = "option:command"

	// CounterOfferArg is the argument's name in the transaction with the
	// assets the owner must pay to exercise the option.
	CounterOfferArg = "option:counter_offer"

	// ExpiresArg is the argument's name in the transaction with the height
	// at which the option expires.
	ExpiresArg = "option:expires"

	// RecipientArg is the argument's name in the transaction with the
	// account receiving the option on a transfer.
	RecipientArg = "option:recipient"
)

// Command defines a type of command for the option contract.
type Command string

const (
	// CmdCreate defines the command to create the option.
	CmdCreate Command = "CREATE"

	// CmdTransfer defines the command to transfer the option to a new
	// owner.
	CmdTransfer Command = "TRANSFER"

	// CmdExercise defines the command to exercise the option.
	CmdExercise Command = "EXERCISE"

	// CmdReclaim defines the command to return the collateral to the
	// creator once the option has expired.
	CmdReclaim Command = "RECLAIM"

	// CmdQuery defines the command to read the option record.
	CmdQuery Command = "QUERY"
)

// Contract is a smart contract implementing the lifecycle of an escrowed
// call option.
//
// - implements native.Contract
type Contract struct {
	cmd     commands
	printer io.Writer
}

// NewContract creates a new option contract.
func NewContract() Contract {
	contract := Contract{
		printer: infoLog{},
	}

	contract.cmd = optionCommand{Contract: &contract}

	return contract
}

// Execute implements native.Contract. It runs the command of the
// transaction and returns the effects to be applied by the runtime.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) (execution.Output, error) {
	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return execution.Output{}, xerrors.Errorf("'%s' not found in tx arg", CmdArg)
	}

	switch Command(cmd) {
	case CmdCreate:
		err := c.cmd.create(snap, step)
		if err != nil {
			return execution.Output{}, xerrors.Errorf("failed to CREATE: %w", err)
		}

		return execution.Output{}, nil
	case CmdTransfer:
		out, err := c.cmd.transfer(snap, step)
		if err != nil {
			return execution.Output{}, xerrors.Errorf("failed to TRANSFER: %w", err)
		}

		return out, nil
	case CmdExercise:
		out, err := c.cmd.exercise(snap, step)
		if err != nil {
			return execution.Output{}, xerrors.Errorf("failed to EXERCISE: %w", err)
		}

		return out, nil
	case CmdReclaim:
		out, err := c.cmd.reclaim(snap, step)
		if err != nil {
			return execution.Output{}, xerrors.Errorf("failed to RECLAIM: %w", err)
		}

		return out, nil
	case CmdQuery:
		err := c.cmd.query(snap)
		if err != nil {
			return execution.Output{}, xerrors.Errorf("failed to QUERY: %w", err)
		}

		return execution.Output{}, nil
	default:
		return execution.Output{}, xerrors.Errorf("unknown command: %s", cmd)
	}
}

// RegisterContract registers the option contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// optionCommand implements the commands of the option contract.
//
// - implements commands
type optionCommand struct {
	*Contract
}

// create implements commands. It writes the initial option record with
// the transaction author as creator and owner, and the attached funds as
// collateral.
func (c optionCommand) create(snap store.Snapshot, step execution.Step) error {
	rawOffer := step.Current.GetArg(CounterOfferArg)
	if len(rawOffer) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", CounterOfferArg)
	}

	rawExpires := step.Current.GetArg(ExpiresArg)
	if len(rawExpires) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", ExpiresArg)
	}

	counterOffer, err := coin.ParseMany(string(rawOffer))
	if err != nil {
		return xerrors.Errorf("invalid counter offer '%s': %v", rawOffer, err)
	}

	expires, err := strconv.ParseUint(string(rawExpires), 10, 64)
	if err != nil {
		return xerrors.Errorf("invalid expiry height '%s': %v", rawExpires, err)
	}

	if expires <= step.Height {
		return ExpiredError{Expired: expires}
	}

	state := types.NewState(step.Current.GetIdentity(),
		step.Current.GetFunds(), counterOffer, expires)

	err = NewRepository(snap).Save(state)
	if err != nil {
		return err
	}

	callop.Logger.Info().
		Str("contract", ContractName).
		Str("creator", state.GetCreator().String()).
		Uint64("expires", expires).
		Msg("option created")

	return nil
}

// transfer implements commands. It reassigns the option to the recipient.
// Only the current owner may transfer. The ownership check runs before the
// recipient validation.
func (c optionCommand) transfer(snap store.Snapshot, step execution.Step) (execution.Output, error) {
	repo := NewRepository(snap)

	state, err := repo.Load()
	if err != nil {
		return execution.Output{}, err
	}

	if step.Current.GetIdentity() != state.GetOwner() {
		return execution.Output{}, ErrUnauthorized
	}

	rawRecipient := step.Current.GetArg(RecipientArg)
	if len(rawRecipient) == 0 {
		return execution.Output{}, xerrors.Errorf("'%s' not found in tx arg", RecipientArg)
	}

	recipient, err := access.NewAddress(string(rawRecipient))
	if err != nil {
		return execution.Output{}, xerrors.Errorf("invalid recipient: %v", err)
	}

	err = repo.Save(state.WithOwner(recipient))
	if err != nil {
		return execution.Output{}, err
	}

	out := execution.Output{
		Attributes: []execution.Attribute{
			{Key: "action", Value: "transfer"},
			{Key: "owner", Value: recipient.String()},
		},
	}

	return out, nil
}

// exercise implements commands. The owner pays the counter offer and
// receives the collateral, which settles the option. The checks run in
// the order: owner, expiry, funds.
func (c optionCommand) exercise(snap store.Snapshot, step execution.Step) (execution.Output, error) {
	repo := NewRepository(snap)

	state, err := repo.Load()
	if err != nil {
		return execution.Output{}, err
	}

	if step.Current.GetIdentity() != state.GetOwner() {
		return execution.Output{}, ErrUnauthorized
	}

	if step.Height >= state.GetExpires() {
		return execution.Output{}, ExpiredError{Expired: state.GetExpires()}
	}

	funds := step.Current.GetFunds()
	if !funds.Equal(state.GetCounterOffer()) {
		return execution.Output{}, MismatchError{
			Offer:        funds,
			CounterOffer: state.GetCounterOffer(),
		}
	}

	err = repo.Remove()
	if err != nil {
		return execution.Output{}, err
	}

	out := execution.Output{
		Transfers: []execution.Transfer{
			{To: state.GetCreator(), Amount: state.GetCounterOffer()},
			{To: state.GetOwner(), Amount: state.GetCollateral()},
		},
		Attributes: []execution.Attribute{
			{Key: "action", Value: "execute"},
		},
	}

	return out, nil
}

// reclaim implements commands. Once the option has expired, anyone can
// return the collateral to the creator, which settles the option.
func (c optionCommand) reclaim(snap store.Snapshot, step execution.Step) (execution.Output, error) {
	repo := NewRepository(snap)

	state, err := repo.Load()
	if err != nil {
		return execution.Output{}, err
	}

	if step.Height < state.GetExpires() {
		return execution.Output{}, NotExpiredError{Expires: state.GetExpires()}
	}

	err = repo.Remove()
	if err != nil {
		return execution.Output{}, err
	}

	out := execution.Output{
		Transfers: []execution.Transfer{
			{To: state.GetCreator(), Amount: state.GetCollateral()},
		},
		Attributes: []execution.Attribute{
			{Key: "action", Value: "burn"},
		},
	}

	return out, nil
}

// query implements commands. It prints the option record.
func (c optionCommand) query(snap store.Snapshot) error {
	state, err := NewRepository(snap).Load()
	if err != nil {
		return err
	}

	data, err := state.Serialize(sjson.NewContext())
	if err != nil {
		return xerrors.Errorf("failed to encode record: %v", err)
	}

	fmt.Fprintln(c.printer, string(data))

	return nil
}

// infoLog defines an output using zerolog
//
// - implements io.Writer
type infoLog struct{}

func (h infoLog) Write(p []byte) (int, error) {
	callop.Logger.Info().Msg(string(p))

	return len(p), nil
}
