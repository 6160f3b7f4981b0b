package engagement

import (
	"fmt"
	"time"
)

// Kind identifies what an Event records.
type Kind string

const (
	KindPlay       Kind = "play"
	KindPause      Kind = "pause"
	KindEngagement Kind = "engagement"
)

// Event details written by the controller.
const (
	DetailAutoPause    = "automatic pause for engagement input"
	DetailManualPlay   = "manual play"
	DetailManualPause  = "manual pause"
	DetailRequestPause = "manual pause for engagement input"
	DetailResume       = "after engagement input"
)

// Event is one entry of the append-only session trail.
// Events are created by the controller and never modified afterwards.
type Event struct {
	Timestamp time.Time
	Elapsed   time.Duration
	VideoTime string // MM:SS
	Kind      Kind
	Detail    string
}

// Epoch returns the event time as fractional unix seconds.
func (e Event) Epoch() float64 {
	return float64(e.Timestamp.Unix()) + float64(e.Timestamp.Nanosecond())/float64(time.Second)
}

// ElapsedSeconds returns the time since session start in seconds.
func (e Event) ElapsedSeconds() float64 {
	return e.Elapsed.Seconds()
}

// LevelDetail formats the detail of an engagement event.
func LevelDetail(level int) string {
	return fmt.Sprintf("Level: %d", level)
}

// StateChange is emitted after every accepted transition.
type StateChange struct {
	Playback PlaybackState
	Prompt   PromptState
}
