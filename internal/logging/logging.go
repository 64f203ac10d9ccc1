// Package logging wraps logrus with the bare, one-line stderr format the
// command driver needs (spec §7): no timestamps and no colors, just
// logrus text lines of the form `level=warning msg="..."` on stderr, never
// mixed into stdout data. Nothing here coordinates with the progress bar,
// which also writes to stderr.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the shared diagnostic logger used throughout the driver and
// CLI layers.
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		DisableColors:          true,
	}
	return l
}

// Warn logs a recoverable condition, e.g. an invalid record swallowed
// under --skip-invalid.
func Warn(format string, args ...any) {
	Logger.Warnf(format, args...)
}

// Error logs a one-line error message, e.g. a config file that failed to
// load (the CLI then falls back to built-in defaults).
func Error(format string, args ...any) {
	Logger.Errorf(format, args...)
}
