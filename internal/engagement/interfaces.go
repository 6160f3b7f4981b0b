package engagement

import "time"

// Engine is the playback engine the controller drives.
type Engine interface {
	Play() error
	Pause() error
	Position() time.Duration
	Duration() time.Duration
}

// Cue alerts the viewer that a rating is wanted.
// Implementations must not block and must swallow their own failures.
type Cue interface {
	PlayCue()
}

// Sink receives every event the controller emits, in order.
type Sink interface {
	Append(e Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

// Append calls f(e).
func (f SinkFunc) Append(e Event) error { return f(e) }

// CueFunc adapts a function to Cue.
type CueFunc func()

// PlayCue calls f().
func (f CueFunc) PlayCue() { f() }

type nopCue struct{}

func (nopCue) PlayCue() {}

type nopSink struct{}

func (nopSink) Append(Event) error { return nil }
