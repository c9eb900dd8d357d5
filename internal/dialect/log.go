package dialect

import (
	std "log"
)

// Logger receives the dialect's non-fatal diagnostics.
type Logger interface {
	Printf(format string, v ...any)
}

// StdLogger returns a logger writing to the standard library's default logger.
func StdLogger() Logger {
	return stdLogger{}
}

type stdLogger struct{}

func (stdLogger) Printf(format string, v ...any) { std.Printf(format, v...) }

// NopLogger returns a logger that discards all output.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

var _ Logger = nopLogger{}

func (nopLogger) Printf(string, ...any) {}
