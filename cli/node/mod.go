// Package node defines the components to wire a set of controllers into a
// running application. A controller registers its commands to the builder
// and stores its dependencies in the injector so that the other
// controllers can resolve them.
package node

import (
	"io"

	"github.com/calldera/callop/cli"
)

// Context is the context available to the command action when being
// invoked. It provides the dependency injector and the flags of the
// command.
type Context struct {
	Injector Injector
	Flags    cli.Flags
	Out      io.Writer
}

// Injector is a dependency injection service. The dependencies are stored
// and resolved by their type.
type Injector interface {
	// Resolve populates the input with the dependency if it exists.
	Resolve(interface{}) error

	// Inject stores the dependency to be resolved later.
	Inject(interface{})
}

// Initializer is the interface that a module can implement to set its
// own commands and inject the dependencies that will be resolved in the
// actions.
type Initializer interface {
	// SetCommands is the function to set the commands of the initializer.
	SetCommands(cli.Builder)

	// OnStart is the function called when the application starts. It
	// injects the dependencies of the module.
	OnStart(cli.Flags, Injector) error

	// OnStop is the function called when the application stops. It lets
	// the module clean up its resources.
	OnStop(Injector) error
}
