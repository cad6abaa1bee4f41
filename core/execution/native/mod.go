// Package native implements an execution service to run native smart
// contracts.
//
// A native smart contract is written in Go and registered using a unique
// identifier that a transaction must use in its arguments to address the
// contract.
//
// Documentation Last Review: 08.10.2020
package native

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/calldera/callop"
	"github.com/calldera/callop/core/execution"
	"github.com/calldera/callop/core/store"
	"golang.org/x/xerrors"
)

// ContractArg is the argument key in the transaction to look up a
// contract.
const ContractArg = "github.com/calldera/callop.ContractArg"

var promExecutions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "callop_native_executions",
	Help: "total number of executions per contract and result",
}, []string{"contract", "accepted"})

func init() {
	callop.PromCollectors = append(callop.PromCollectors, promExecutions)
}

// Contract is the interface to implement to register a smart contract that
// will be executed natively.
type Contract interface {
	Execute(snap store.Snapshot, step execution.Step) (execution.Output, error)
}

// Service is an execution service for packaged applications. Those
// applications have complete access to the trie and can directly update
// it.
//
// - implements execution.Service
type Service struct {
	sync.Mutex
	contracts map[string]Contract
}

// NewExecution returns a new native execution. The given service will be
// executed for every incoming transaction.
func NewExecution() *Service {
	return &Service{
		contracts: map[string]Contract{},
	}
}

// Set stores the contract using the name as the key. A transaction can
// trigger this contract by using the same name as the contract argument.
func (ns *Service) Set(name string, contract Contract) {
	ns.Lock()
	ns.contracts[name] = contract
	ns.Unlock()
}

// Execute implements execution.Service. It uses the executor to process
// the incoming transaction and return the result.
func (ns *Service) Execute(snap store.Snapshot, step execution.Step) (execution.Result, error) {
	name := string(step.Current.GetArg(ContractArg))

	ns.Lock()
	contract := ns.contracts[name]
	ns.Unlock()

	if contract == nil {
		return execution.Result{}, xerrors.Errorf("unknown contract '%s'", name)
	}

	out, err := contract.Execute(snap, step)
	if err != nil {
		promExecutions.WithLabelValues(name, "false").Inc()

		callop.Logger.Warn().Err(err).Msg("transaction refused")

		return execution.Result{
			Accepted: false,
			Message:  err.Error(),
		}, nil
	}

	promExecutions.WithLabelValues(name, "true").Inc()

	return execution.Result{
		Accepted: true,
		Output:   out,
	}, nil
}
