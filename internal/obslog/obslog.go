// Package obslog provides the small prefixed stderr logger used by the
// cuckoostat CLI, matching the stdlib-log idiom used for CLI diagnostics
// elsewhere in this codebase's lineage rather than pulling in a
// structured logging framework for a single-binary tool.
package obslog

import (
	"log"
	"os"
)

// Logger wraps a standard library logger with a verbose gate so that
// Debugf calls are cheap no-ops unless explicitly enabled.
type Logger struct {
	*log.Logger
	verbose bool
}

// New returns a Logger that writes to stderr with the given prefix.
func New(prefix string, verbose bool) *Logger {
	return &Logger{
		Logger:  log.New(os.Stderr, prefix+": ", log.LstdFlags),
		verbose: verbose,
	}
}

// Debugf logs only when the logger was constructed with verbose=true.
func (l *Logger) Debugf(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.Printf(format, args...)
}
