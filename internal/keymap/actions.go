// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit   Action = "quit"
	ActionHelp   Action = "help"
	ActionStatus Action = "status"

	// Playback actions
	ActionPlayPause     Action = "play_pause"
	ActionRequestRating Action = "request_rating"

	// Prompt actions
	ActionRate Action = "rate" // 1-5, level comes from the key
)
