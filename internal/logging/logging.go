// Package logging builds the logger shared by all shelfsync commands.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger writing human-readable output to stderr so that
// stdout stays reserved for command results.
func New(verbose bool) *log.Logger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter is New with an explicit sink, for tests.
func NewWithWriter(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
