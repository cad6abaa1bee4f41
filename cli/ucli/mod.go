// Package ucli provides a cli builder implementation based on the
// urfave/cli library.
package ucli

import (
	"fmt"

	urfave "github.com/urfave/cli/v2"
	"github.com/calldera/callop/cli"
)

// Builder is a command line interface builder based on the urfave/cli
// library.
//
// - implements cli.Builder
type Builder struct {
	name     string
	usage    string
	flags    []cli.Flag
	commands []*commandBuilder
}

// NewBuilder returns a new builder for an application with the given name
// and global flags.
func NewBuilder(name, usage string, flags ...cli.Flag) *Builder {
	return &Builder{
		name:  name,
		usage: usage,
		flags: flags,
	}
}

// SetCommand implements cli.Builder. It creates a new command and returns
// its builder.
func (b *Builder) SetCommand(name string) cli.CommandBuilder {
	cmd := &commandBuilder{name: name}
	b.commands = append(b.commands, cmd)

	return cmd
}

// Build implements cli.Builder. It returns the application.
func (b *Builder) Build() cli.Application {
	return &urfave.App{
		Name:     b.name,
		Usage:    b.usage,
		Flags:    buildFlags(b.flags),
		Commands: buildCommands(b.commands),
	}
}

// commandBuilder collects the properties of a command before the
// application is built.
//
// - implements cli.CommandBuilder
type commandBuilder struct {
	name        string
	description string
	flags       []cli.Flag
	action      cli.Action
	subcommands []*commandBuilder
}

// SetDescription implements cli.CommandBuilder.
func (cb *commandBuilder) SetDescription(value string) {
	cb.description = value
}

// SetFlags implements cli.CommandBuilder.
func (cb *commandBuilder) SetFlags(flags ...cli.Flag) {
	cb.flags = flags
}

// SetAction implements cli.CommandBuilder.
func (cb *commandBuilder) SetAction(action cli.Action) {
	cb.action = action
}

// SetSubCommand implements cli.CommandBuilder.
func (cb *commandBuilder) SetSubCommand(name string) cli.CommandBuilder {
	sub := &commandBuilder{name: name}
	cb.subcommands = append(cb.subcommands, sub)

	return sub
}

func buildCommands(cbs []*commandBuilder) []*urfave.Command {
	commands := make([]*urfave.Command, len(cbs))
	for i, cb := range cbs {
		commands[i] = &urfave.Command{
			Name:        cb.name,
			Usage:       cb.description,
			Flags:       buildFlags(cb.flags),
			Action:      makeAction(cb.action),
			Subcommands: buildCommands(cb.subcommands),
		}
	}

	return commands
}

func makeAction(action cli.Action) urfave.ActionFunc {
	if action == nil {
		return nil
	}

	return func(c *urfave.Context) error {
		return action(flags{Context: c})
	}
}

func buildFlags(defs []cli.Flag) []urfave.Flag {
	flags := make([]urfave.Flag, len(defs))
	for i, def := range defs {
		switch flag := def.(type) {
		case cli.StringFlag:
			flags[i] = &urfave.StringFlag{
				Name:     flag.Name,
				Usage:    flag.Usage,
				Required: flag.Required,
				Value:    flag.Value,
			}
		case cli.StringSliceFlag:
			flags[i] = &urfave.StringSliceFlag{
				Name:     flag.Name,
				Usage:    flag.Usage,
				Required: flag.Required,
				Value:    urfave.NewStringSlice(flag.Value...),
			}
		case cli.DurationFlag:
			flags[i] = &urfave.DurationFlag{
				Name:     flag.Name,
				Usage:    flag.Usage,
				Required: flag.Required,
				Value:    flag.Value,
			}
		case cli.IntFlag:
			flags[i] = &urfave.IntFlag{
				Name:     flag.Name,
				Usage:    flag.Usage,
				Required: flag.Required,
				Value:    flag.Value,
			}
		case cli.BoolFlag:
			flags[i] = &urfave.BoolFlag{
				Name:     flag.Name,
				Usage:    flag.Usage,
				Required: flag.Required,
				Value:    flag.Value,
			}
		default:
			panic(fmt.Sprintf("flag type '%T' not supported", def))
		}
	}

	return flags
}

// flags exposes the values parsed by the urfave/cli library.
//
// - implements cli.Flags
type flags struct {
	*urfave.Context
}

// Path implements cli.Flags.
func (f flags) Path(name string) string {
	return f.Context.String(name)
}
