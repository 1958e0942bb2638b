package sip

import (
	"os"

	"github.com/rs/zerolog"
)

// packageLogger is the fallback logger used by package-level helpers that
// have no injected *Parser/*ParserStream to carry one (e.g. the optional
// wire tracer in sip.go). Components constructed via New* functions accept
// their own WithXLogger option instead of relying on this.
var packageLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.Disabled)

// SetDefaultLogger sets the package-wide fallback logger. Must be called
// before any usage of the library that relies on the fallback.
func SetDefaultLogger(l zerolog.Logger) {
	packageLogger = l
}

func DefaultLogger() zerolog.Logger {
	return packageLogger
}
