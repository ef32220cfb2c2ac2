// Package logger provides leveled logging on top of the standard library log
// package. Debug output is suppressed unless verbose mode is enabled.
package logger

import (
	"log"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// Debugf logs a debug message. No-op unless verbose mode is enabled.
func Debugf(format string, args ...any) {
	if verbose.Load() {
		log.Printf("DEBUG "+format, args...)
	}
}

// Infof logs an informational message.
func Infof(format string, args ...any) {
	log.Printf("INFO "+format, args...)
}

// Warnf logs a warning message.
func Warnf(format string, args ...any) {
	log.Printf("WARN "+format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...any) {
	log.Printf("ERROR "+format, args...)
}
