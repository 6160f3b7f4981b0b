// Package gaze samples an eye tracker at a fixed rate and saves the run as
// CSV plus a YAML manifest.
package gaze

import (
	"errors"
	"time"
)

// ErrNotConnected is returned by ScreenGaze while the tracker is offline.
var ErrNotConnected = errors.New("no connection with tracker server")

// Gaze is one screen-gaze reading in pixels.
type Gaze struct {
	X    float64
	Y    float64
	Lost bool
}

// Tracker is the eye-tracker client the sampler polls.
type Tracker interface {
	Connected() bool
	ScreenGaze() (Gaze, error)
}

// Sample is one recorded reading. Lost samples carry (0, 0).
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Lost      bool      `json:"lost"`
}

// Summary describes a finished or running session.
type Summary struct {
	Samples int
	Lost    int
	RateHz  float64
	Started time.Time
	Stopped time.Time // zero while running
}

// Duration returns the recording length, or zero if the run never stopped.
func (s Summary) Duration() time.Duration {
	if s.Started.IsZero() || s.Stopped.IsZero() {
		return 0
	}
	return s.Stopped.Sub(s.Started)
}

// LostRatio returns the share of samples with lost tracking.
func (s Summary) LostRatio() float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Lost) / float64(s.Samples)
}
