// Package logging holds the package-level diagnostic loggers used by the
// selection pipeline. They default to the standard logger and can be
// replaced or muted by tests and front-ends.
package logging

import "log"

// Logf is the diagnostic logger for state transitions
var Logf func(format string, v ...interface{}) = log.Printf

// Warnf is the logger for rejected or suspicious input
var Warnf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	log.Printf("[WARN] "+format, v...)
}

// SetLogger replaces Logf. Passing nil installs a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	Logf = orNop(f)
}

// SetWarnLogger replaces Warnf. Passing nil installs a no-op logger.
func SetWarnLogger(f func(format string, v ...interface{})) {
	Warnf = orNop(f)
}

// Mute silences both loggers
func Mute() {
	SetLogger(nil)
	SetWarnLogger(nil)
}

func orNop(f func(format string, v ...interface{})) func(format string, v ...interface{}) {
	if f == nil {
		return func(string, ...interface{}) {}
	}
	return f
}
