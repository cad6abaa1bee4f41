package node

import (
	"time"
)

// FlagSet is a set of flags to pass a synthetic context to a command
// action.
//
// - implements cli.Flags
type FlagSet map[string]interface{}

// String implements cli.Flags.
func (fset FlagSet) String(name string) string {
	value, ok := fset[name].(string)
	if !ok {
		return ""
	}

	return value
}

// StringSlice implements cli.Flags.
func (fset FlagSet) StringSlice(name string) []string {
	value, ok := fset[name].([]string)
	if !ok {
		return nil
	}

	return value
}

// Duration implements cli.Flags.
func (fset FlagSet) Duration(name string) time.Duration {
	value, ok := fset[name].(time.Duration)
	if !ok {
		return time.Duration(0)
	}

	return value
}

// Path implements cli.Flags.
func (fset FlagSet) Path(name string) string {
	return fset.String(name)
}

// Int implements cli.Flags.
func (fset FlagSet) Int(name string) int {
	value, ok := fset[name].(int)
	if !ok {
		return 0
	}

	return value
}

// Bool implements cli.Flags.
func (fset FlagSet) Bool(name string) bool {
	value, ok := fset[name].(bool)
	if !ok {
		return false
	}

	return value
}
