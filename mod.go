// Package callop defines the globals of the repository.
//
// The option ledger is built as a set of small modules wired together by
// the runner: a storage abstraction, a transaction abstraction, an
// execution service and the option contract itself. Each module logs
// through the global logger defined here and exposes its prometheus
// collectors through PromCollectors.
package callop

import (
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// EnvLogLevel is the name of the environment variable to change the
// logging level.
const EnvLogLevel = "LLVL"

const defaultLevel = zerolog.InfoLevel

func init() {
	switch os.Getenv(EnvLogLevel) {
	case "error":
		Logger = Logger.Level(zerolog.ErrorLevel)
	case "warn":
		Logger = Logger.Level(zerolog.WarnLevel)
	case "info":
		Logger = Logger.Level(zerolog.InfoLevel)
	case "debug":
		Logger = Logger.Level(zerolog.DebugLevel)
	case "trace":
		Logger = Logger.Level(zerolog.TraceLevel)
	case "":
		Logger = Logger.Level(defaultLevel)
	default:
		Logger = Logger.Level(zerolog.TraceLevel)
		Logger.Warn().Msgf("unknown log level '%s'", os.Getenv(EnvLogLevel))
	}
}

var logout = zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}

// Logger is a globally available logger instance. The level defaults to
// info and can be changed through the LLVL environment variable.
var Logger = zerolog.New(logout).
	With().Timestamp().Logger().
	With().Caller().Logger()

// PromCollectors exposes the prometheus collectors created in the
// repository. The runner, or any other process embedding the modules, is
// expected to register them.
var PromCollectors []prometheus.Collector
