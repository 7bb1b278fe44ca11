// Package main provides the ink CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sciforge/ink/internal/ledger"
	"github.com/sciforge/ink/pkg/types"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode classifies an error for the shell: bad user input exits 1,
// everything else (I/O, subprocess, storage) exits 2.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrTaskNotFound),
		errors.Is(err, types.ErrMissingValue),
		errors.Is(err, types.ErrBadTaskSpec),
		errors.Is(err, ledger.ErrNoSubmission):
		return exitUserError
	}
	return exitSysError
}
