// Package cli defines the command line interface abstractions so that
// the builders can be implemented by different frameworks.
//
// Documentation Last Review: 13.10.2020
package cli

import "time"

// Builder is an application builder interface. One can set properties of
// an application then build it.
type Builder interface {
	// SetCommand creates a new command and returns its builder.
	SetCommand(name string) CommandBuilder

	// Build returns the application.
	Build() Application
}

// Application is the main interface to run the CLI.
type Application interface {
	Run(arguments []string) error
}

// CommandBuilder is a command builder interface. One can set properties
// of a specific command like its name and description and what it should
// do when invoked.
type CommandBuilder interface {
	// SetDescription sets the value of the description for this command.
	SetDescription(value string)

	// SetFlags sets the flags specific to this command.
	SetFlags(...Flag)

	// SetAction sets the action to execute for this command.
	SetAction(Action)

	// SetSubCommand creates a subcommand and returns its builder.
	SetSubCommand(name string) CommandBuilder
}

// Action is a function to be executed when the command is invoked.
type Action func(Flags) error

// Flag is an identifier for the definition of the flags.
type Flag interface {
	Flag()
}

// Flags provides the values of the flags when a command is executed.
type Flags interface {
	String(name string) string

	StringSlice(name string) []string

	Duration(name string) time.Duration

	Path(name string) string

	Int(name string) int

	Bool(name string) bool
}

// StringFlag is a definition of a command flag expected to be parsed as a
// string.
//
// - implements cli.Flag
type StringFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    string
}

// Flag implements cli.Flag.
func (flag StringFlag) Flag() {}

// StringSliceFlag is a definition of a command flag expected to tbe
// parsed as a slice of strings.
//
// - implements cli.Flag
type StringSliceFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    []string
}

// Flag implements cli.Flag.
func (flag StringSliceFlag) Flag() {}

// DurationFlag is a definition of a command flag expected to be parsed as
// a duration.
//
// - implements cli.Flag
type DurationFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    time.Duration
}

// Flag implements cli.Flag.
func (flag DurationFlag) Flag() {}

// IntFlag is a definition of a command flag expected to be parsed as an
// integer.
//
// - implements cli.Flag
type IntFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    int
}

// Flag implements cli.Flag.
func (flag IntFlag) Flag() {}

// BoolFlag is a definition of a command flag expected to be parsed as a
// boolean.
//
// - implements cli.Flag
type BoolFlag struct {
	Name     string
	Usage    string
	Required bool
	Value    bool
}

// Flag implements cli.Flag.
func (flag BoolFlag) Flag() {}
