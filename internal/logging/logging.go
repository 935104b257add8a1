// Package logging wires gos's structured logging, grounded on the
// commonlog usage in the reference pack's LSP server (a fire-and-forget
// commonlog.NewInfoMessage call) rather than package-level log statements
// scattered through the pipeline.
package logging

import (
	"fmt"

	"github.com/tliron/commonlog"

	// Registers the "simple" backend (colored, level-tagged console output)
	// as commonlog's default implementation.
	_ "github.com/tliron/commonlog/simple"
)

// Debugf logs a formatted debug-level message.
func Debugf(format string, args ...interface{}) {
	commonlog.NewDebugMessage(1, fmt.Sprintf(format, args...))
}

// Infof logs a formatted info-level message.
func Infof(format string, args ...interface{}) {
	commonlog.NewInfoMessage(1, fmt.Sprintf(format, args...))
}

// Warningf logs a formatted warning-level message.
func Warningf(format string, args ...interface{}) {
	commonlog.NewWarningMessage(1, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error-level message.
func Errorf(format string, args ...interface{}) {
	commonlog.NewErrorMessage(1, fmt.Sprintf(format, args...))
}
