// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a new prefixed charm log that respects the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// SetVerbosity maps the command line flags onto the global level. Debug
// wins over quiet when both are set.
func SetVerbosity(debug, quiet bool) {
	switch {
	case debug:
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	case quiet:
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}
