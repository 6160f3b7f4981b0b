package player

// State represents the engine state machine.
//
//	┌──────────┐      load       ┌──────────┐
//	│  Stopped │ ───────────────▶│  Paused  │
//	└──────────┘                 └──────────┘
//	     ▲                          │    ▲
//	     │ stop                play │    │ pause
//	     │                          ▼    │
//	     │                       ┌──────────┐
//	     └───────────────────────│  Playing │
//	                  stop       └──────────┘
//
// Media is always loaded paused; the engagement controller decides when
// playback starts. Play on a Stopped engine fails with ErrNoMedia.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive reports whether media is loaded.
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause reports whether Pause would change anything.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume reports whether Play would change anything.
func (s State) CanResume() bool {
	return s == Paused
}
