// Package diag provides the injectable diagnostic log sink used by the
// parser arbitration layer (§4.14): a small interface rather than a
// package-level logger, so the decoder carries no global state.
package diag

import "log"

// Logger is anything that can accept a printf-style diagnostic line. A nil
// Logger is valid and silently discards all calls.
type Logger interface {
	Printf(format string, args ...any)
}

// StdLogger adapts a *log.Logger to Logger.
type StdLogger struct {
	*log.Logger
}

// NewStd wraps the standard library's default logger.
func NewStd() StdLogger {
	return StdLogger{Logger: log.Default()}
}
