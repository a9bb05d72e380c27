// Package debug provides conditional debug logging for larch.
//
// Debug logging is enabled by setting the LARCH_DEBUG environment variable:
//
//	LARCH_DEBUG=1 larch ~/src
//
// When enabled, messages are written to stderr with timestamps. When
// disabled (default), all debug functions are no-ops with zero overhead —
// the TUI redraw path must never pay for logging it doesn't use.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	// enabled is true when LARCH_DEBUG is set
	enabled bool
	// logger writes to stderr with [LARCH] prefix
	logger *log.Logger
)

func init() {
	if os.Getenv("LARCH_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[LARCH] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging, initializing
// the logger if needed.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[LARCH] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}
