// Package main implements a command line tool to run the call option
// contract against a local key-value database. A small bank keeps track
// of the account balances so that the funds attached to a transaction are
// actually withdrawn, and the transfers emitted by the contract are
// deposited.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/calldera/callop/cli"
	"github.com/calldera/callop/cli/node"
	"github.com/calldera/callop/cli/ucli"
	"github.com/calldera/callop/contracts/option"
	"github.com/calldera/callop/contracts/option/controller"
	"github.com/calldera/callop/core/access"
	"github.com/calldera/callop/core/execution"
	"github.com/calldera/callop/core/execution/native"
	"github.com/calldera/callop/core/store"
	"github.com/calldera/callop/core/store/kv"
	"github.com/calldera/callop/core/txn"
	"github.com/calldera/callop/core/txn/basic"
	"github.com/calldera/callop/ledger/bank"
	"github.com/calldera/callop/ledger/coin"
	"golang.org/x/xerrors"

	// Register the JSON format of the transactions.
	_ "github.com/calldera/callop/core/txn/basic/json"
)

// bucketName is the name of the database bucket holding the whole state.
const bucketName = "callop"

func main() {
	err := run(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return makeApp(os.Stdout).Run(args)
}

func makeApp(out io.Writer) cli.Application {
	builder := ucli.NewBuilder("callop", "escrowed call option over a local database",
		cli.StringFlag{
			Name:  "db",
			Usage: "path to the database file",
			Value: "callop.db",
		})

	cmd := builder.SetCommand("deposit")
	cmd.SetDescription("credit an account with new coins")
	cmd.SetFlags(
		cli.StringFlag{Name: "account", Usage: "account to credit", Required: true},
		cli.StringFlag{Name: "amount", Usage: "coins to credit, i.e. 1btc,40eth", Required: true},
	)
	cmd.SetAction(depositAction(out))

	cmd = builder.SetCommand("balance")
	cmd.SetDescription("print the balance of an account")
	cmd.SetFlags(
		cli.StringFlag{Name: "account", Usage: "account to read", Required: true},
	)
	cmd.SetAction(balanceAction(out))

	cmd = builder.SetCommand("create")
	cmd.SetDescription("create the option by escrowing the attached funds")
	cmd.SetFlags(
		accountFlag, fundsFlag, heightFlag,
		cli.StringFlag{Name: "counter-offer", Usage: "coins to pay to exercise", Required: true},
		cli.StringFlag{Name: "expires", Usage: "height at which the option expires", Required: true},
	)
	cmd.SetAction(contractAction(out, option.CmdCreate, func(flags cli.Flags) []txn.Arg {
		return []txn.Arg{
			{Key: option.CounterOfferArg, Value: []byte(flags.String("counter-offer"))},
			{Key: option.ExpiresArg, Value: []byte(flags.String("expires"))},
		}
	}))

	cmd = builder.SetCommand("transfer")
	cmd.SetDescription("hand the option over to a new owner")
	cmd.SetFlags(
		accountFlag, heightFlag,
		cli.StringFlag{Name: "recipient", Usage: "account receiving the option", Required: true},
	)
	cmd.SetAction(contractAction(out, option.CmdTransfer, func(flags cli.Flags) []txn.Arg {
		return []txn.Arg{
			{Key: option.RecipientArg, Value: []byte(flags.String("recipient"))},
		}
	}))

	cmd = builder.SetCommand("exercise")
	cmd.SetDescription("pay the counter offer and receive the collateral")
	cmd.SetFlags(accountFlag, fundsFlag, heightFlag)
	cmd.SetAction(contractAction(out, option.CmdExercise, nil))

	cmd = builder.SetCommand("reclaim")
	cmd.SetDescription("return the collateral of an expired option to its creator")
	cmd.SetFlags(accountFlag, heightFlag)
	cmd.SetAction(contractAction(out, option.CmdReclaim, nil))

	cmd = builder.SetCommand("query")
	cmd.SetDescription("print the option record")
	cmd.SetFlags(accountFlag)
	cmd.SetAction(contractAction(out, option.CmdQuery, nil))

	return builder.Build()
}

var (
	accountFlag = cli.StringFlag{
		Name:     "account",
		Usage:    "account submitting the transaction",
		Required: true,
	}

	fundsFlag = cli.StringFlag{
		Name:  "funds",
		Usage: "coins attached to the transaction, i.e. 1btc,40eth",
	}

	heightFlag = cli.IntFlag{
		Name:  "height",
		Usage: "current height of the ledger",
	}
)

func depositAction(out io.Writer) cli.Action {
	return func(flags cli.Flags) error {
		account, err := access.NewAddress(flags.String("account"))
		if err != nil {
			return xerrors.Errorf("invalid account: %v", err)
		}

		amount, err := coin.ParseMany(flags.String("amount"))
		if err != nil {
			return xerrors.Errorf("invalid amount: %v", err)
		}

		return withSnapshot(flags, func(snap store.Snapshot) error {
			err := bank.NewLedger(snap).Deposit(account, amount)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "deposited %v to %s\n", amount, account)

			return nil
		})
	}
}

func balanceAction(out io.Writer) cli.Action {
	return func(flags cli.Flags) error {
		account, err := access.NewAddress(flags.String("account"))
		if err != nil {
			return xerrors.Errorf("invalid account: %v", err)
		}

		return withSnapshot(flags, func(snap store.Snapshot) error {
			balance, err := bank.NewLedger(snap).Balance(account)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%v\n", balance)

			return nil
		})
	}
}

// contractAction runs a command of the option contract inside one
// database transaction: the attached funds are withdrawn from the author,
// the contract decides, and its transfers are deposited. A refused
// transaction rolls everything back.
func contractAction(out io.Writer, command option.Command, makeArgs func(cli.Flags) []txn.Arg) cli.Action {
	return func(flags cli.Flags) error {
		account, err := access.NewAddress(flags.String("account"))
		if err != nil {
			return xerrors.Errorf("invalid account: %v", err)
		}

		funds, err := coin.ParseMany(flags.String("funds"))
		if err != nil {
			return xerrors.Errorf("invalid funds: %v", err)
		}

		height := flags.Int("height")
		if height < 0 {
			return xerrors.Errorf("invalid height %d", height)
		}

		opts := []basic.TransactionOption{
			basic.WithFunds(funds),
			basic.WithArg(native.ContractArg, []byte(option.ContractName)),
			basic.WithArg(option.CmdArg, []byte(command)),
		}

		if makeArgs != nil {
			for _, arg := range makeArgs(flags) {
				opts = append(opts, basic.WithArg(arg.Key, arg.Value))
			}
		}

		tx, err := basic.NewTransaction(0, account, opts...)
		if err != nil {
			return xerrors.Errorf("failed to create tx: %v", err)
		}

		exec, err := makeExecution()
		if err != nil {
			return err
		}

		step := execution.Step{
			Current: tx,
			Height:  uint64(height),
		}

		return withSnapshot(flags, func(snap store.Snapshot) error {
			ledger := bank.NewLedger(snap)

			err := ledger.Withdraw(account, funds)
			if err != nil {
				return err
			}

			res, err := exec.Execute(snap, step)
			if err != nil {
				return xerrors.Errorf("failed to execute tx: %v", err)
			}

			if !res.Accepted {
				return xerrors.Errorf("transaction refused: %s", res.Message)
			}

			for _, transfer := range res.Output.Transfers {
				err = ledger.Deposit(transfer.To, transfer.Amount)
				if err != nil {
					return err
				}
			}

			for _, attr := range res.Output.Attributes {
				fmt.Fprintf(out, "%s=%s\n", attr.Key, attr.Value)
			}

			return nil
		})
	}
}

// makeExecution wires the native execution service with the option
// contract registered.
func makeExecution() (*native.Service, error) {
	inj := node.NewInjector()

	exec := native.NewExecution()
	inj.Inject(exec)

	err := controller.NewController().OnStart(node.FlagSet{}, inj)
	if err != nil {
		return nil, xerrors.Errorf("failed to start controller: %v", err)
	}

	return exec, nil
}

// withSnapshot opens the database and runs the callback with a snapshot
// of the single bucket. The writes are committed only when the callback
// succeeds.
func withSnapshot(flags cli.Flags, fn func(store.Snapshot) error) error {
	db, err := kv.New(flags.Path("db"))
	if err != nil {
		return xerrors.Errorf("failed to open database: %v", err)
	}

	defer db.Close()

	return db.Update(func(tx kv.WritableTx) error {
		bucket, err := tx.GetBucketOrCreate([]byte(bucketName))
		if err != nil {
			return xerrors.Errorf("failed to create bucket: %v", err)
		}

		return fn(kv.NewSnapshot(bucket))
	})
}
