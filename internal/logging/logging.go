// Package logging builds the leveled console logger shared by the server and
// the CLI.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to stderr at the given level. Unknown levels
// fall back to info.
func New(level, prefix string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}
