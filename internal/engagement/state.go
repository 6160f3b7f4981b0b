// internal/engagement/state.go
package engagement

// PlaybackState is the controller's view of playback intent.
//
// The controller owns two states that move together:
//
//	            toggle                      tick % interval == 0
//	 ┌────────┐ ──────▶ ┌─────────┐  ───────────────────────────▶ ┌──────────────────┐
//	 │ Paused │         │ Playing │                                │ Paused +         │
//	 │ Idle   │ ◀────── │ Idle    │  ◀─────────────────────────── │ AwaitingRating   │
//	 └────────┘ toggle  └─────────┘        rating 1..5             └──────────────────┘
//
// While AwaitingRating, toggles are ignored and only a valid rating moves
// the machine back to Playing.
type PlaybackState int

const (
	Paused PlaybackState = iota
	Playing
)

// String returns the state name.
func (s PlaybackState) String() string {
	switch s {
	case Paused:
		return "Paused"
	case Playing:
		return "Playing"
	default:
		return "Unknown"
	}
}

// PromptState tracks whether playback is locked behind a rating.
type PromptState int

const (
	Idle PromptState = iota
	AwaitingRating
)

// String returns the prompt state name.
func (s PromptState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AwaitingRating:
		return "AwaitingRating"
	default:
		return "Unknown"
	}
}

// Snapshot is a consistent copy of the controller state.
type Snapshot struct {
	Playback         PlaybackState
	Prompt           PromptState
	Position         float64 // seconds, last reported by the engine
	Duration         float64 // seconds, last reported by the engine
	LastPromptSecond int
}

// Locked reports whether playback is waiting for a rating.
func (s Snapshot) Locked() bool {
	return s.Prompt == AwaitingRating
}
