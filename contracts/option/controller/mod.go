// Package controller implements a minimal controller for the option
// contract.
package controller

import (
	"github.com/calldera/callop/cli"
	"github.com/calldera/callop/cli/node"
	"github.com/calldera/callop/contracts/option"
	"github.com/calldera/callop/core/execution/native"
	"golang.org/x/xerrors"
)

// miniController is an initializer with the minimum set of commands to
// run the option contract.
//
// - implements node.Initializer
type miniController struct{}

// NewController returns a new controller initializer.
func NewController() node.Initializer {
	return miniController{}
}

// SetCommands implements node.Initializer. It does not register any
// command.
func (miniController) SetCommands(builder cli.Builder) {}

// OnStart implements node.Initializer. It registers the option contract
// to the native execution service.
func (miniController) OnStart(flags cli.Flags, inj node.Injector) error {
	var exec *native.Service
	err := inj.Resolve(&exec)
	if err != nil {
		return xerrors.Errorf("failed to resolve native service: %v", err)
	}

	option.RegisterContract(exec, option.NewContract())

	return nil
}

// OnStop implements node.Initializer.
func (miniController) OnStop(node.Injector) error {
	return nil
}
