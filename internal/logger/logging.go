// Package logger provides charmbracelet/log loggers shared by the wordchain packages.
//
// Loggers write to stderr: stdout is reserved for IPC responses in server mode
// and for command output in the CLI.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed charm log that follows the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Setup configures the global logger for the given debug mode.
// Debug mode lowers the level to debug and turns on timestamps.
func Setup(debug bool) {
	log.SetOutput(os.Stderr)
	if debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
		return
	}
	log.SetLevel(log.WarnLevel)
	log.SetReportTimestamp(false)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return NewWithConfig(io.Discard, "", log.FatalLevel, false, false, log.TextFormatter)
}
