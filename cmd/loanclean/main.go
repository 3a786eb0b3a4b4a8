// Package main provides the loanclean command.
package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/leapstack-labs/loanclean/internal/cli"
	"github.com/leapstack-labs/loanclean/pkg/core"
)

// Exit codes.
const (
	exitOK          = 0
	exitUnexpected  = 1
	exitUsage       = 2
	exitIO          = 3
	exitParse       = 4
	exitPersistence = 5
)

func main() {
	// A missing .env file is fine; values in it overwrite the environment.
	_ = godotenv.Overload()

	os.Exit(exitCode(cli.Execute()))
}

// exitCode maps an error returned by the CLI onto the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var (
		usage   *cli.UsageError
		ioErr   *core.IOError
		parse   *core.ParseError
		persist *core.PersistenceError
	)
	switch {
	case errors.As(err, &usage):
		return exitUsage
	case errors.As(err, &persist):
		return exitPersistence
	case errors.As(err, &parse):
		return exitParse
	case errors.As(err, &ioErr):
		return exitIO
	default:
		return exitUnexpected
	}
}
