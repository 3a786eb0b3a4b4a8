package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/leapstack-labs/loanclean/internal/cli"
	"github.com/leapstack-labs/loanclean/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitOK},
		{"usage", &cli.UsageError{Err: assert.AnError}, exitUsage},
		{"io", &core.IOError{Op: "read", Path: "books.csv", Err: assert.AnError}, exitIO},
		{"parse", &core.ParseError{Path: "books.csv", Line: 3, Err: assert.AnError}, exitParse},
		{"persistence", &core.PersistenceError{Op: "commit", Err: assert.AnError}, exitPersistence},
		{
			"wrapped persistence",
			fmt.Errorf("failed to write database: %w", &core.PersistenceError{Op: "commit", Err: assert.AnError}),
			exitPersistence,
		},
		{
			"persistence wrapping io",
			&core.PersistenceError{Op: "open sqlite", Err: &core.IOError{Op: "open", Path: "x.db", Err: assert.AnError}},
			exitPersistence,
		},
		{"canceled", context.Canceled, exitUnexpected},
		{"other", assert.AnError, exitUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestRootCommandUsageErrors(t *testing.T) {
	tests := [][]string{
		{"unknown-command"},
		{"--no-such-flag"},
		{"completion", "tcsh"},
	}

	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(args)

			err := cmd.Execute()
			require.Error(t, err)
			if args[0] != "completion" {
				assert.Equal(t, exitUsage, exitCode(err))
			}
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			cmd := cli.NewRootCmd()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs([]string{"completion", shell})

			require.NoError(t, cmd.Execute())
			assert.NotEmpty(t, buf.String())
		})
	}
}
