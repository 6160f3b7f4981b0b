// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback control
	OpToggle        Op = "toggle playback"
	OpRate          Op = "submit rating"
	OpRequestRating Op = "request rating"
	OpTick          Op = "check playback position"
	OpLoadMedia     Op = "load media"

	// Session record
	OpRecordCreate Op = "create session record"
	OpStoreOpen    Op = "open session history"
	OpStoreFinish  Op = "close session"

	// Eye tracking
	OpGazeStart Op = "start eye tracker"
	OpGazeSave  Op = "save gaze data"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
