// Copyright (c) 2025 Bizdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"

	"github.com/pterm/pterm"
)

// VerboseEnv enables debug logging for every module when set to "1".
const VerboseEnv = "BIZDESK_VERBOSE"

// IsVerbose checks if verbose mode is enabled dynamically.
func IsVerbose() bool {
	return os.Getenv(VerboseEnv) == "1"
}

// New returns the process logger. Debug lines are emitted only in verbose mode;
// everything goes to stderr so command output on stdout stays machine-readable.
func New(verbose bool) *pterm.Logger {
	level := pterm.LogLevelWarn
	if verbose || IsVerbose() {
		level = pterm.LogLevelDebug
	}
	return pterm.DefaultLogger.
		WithLevel(level).
		WithWriter(os.Stderr)
}

// Discard returns a logger that drops everything. Used by tests and as the
// default when a component is built without a logger.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.
		WithLevel(pterm.LogLevelDisabled).
		WithWriter(io.Discard)
}
