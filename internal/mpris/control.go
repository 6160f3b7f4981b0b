// Package mpris exposes the engagement session over the MPRIS D-Bus
// interface so media keys and desktop widgets can drive it.
package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/player"
)

// Controller is the part of engagement.Controller the adapter drives.
type Controller interface {
	Toggle() (bool, error)
	SetPlaying(want bool) (bool, error)
	Snapshot() engagement.Snapshot
}

// Mixer is implemented by engines with an adjustable output level.
type Mixer interface {
	Volume() float64
	SetVolume(level float64)
}

var errUnsupported = errors.New("not supported")

// Status mirrors the MPRIS playback status.
type Status int

const (
	StatusStopped Status = iota
	StatusPlaying
	StatusPaused
)

// control routes media-key commands through the controller so the rating
// gate applies to them too.
type control struct {
	ctl   Controller
	info  *player.MediaInfo
	mixer Mixer
}

func newControl(ctl Controller, engine player.Interface) *control {
	c := &control{ctl: ctl, info: engine.Info()}
	if m, ok := engine.(Mixer); ok {
		c.mixer = m
	}
	return c
}

func (c *control) hasMedia() bool {
	return c.info != nil && c.info.Path != ""
}

func (c *control) playPause() error {
	_, err := c.ctl.Toggle()
	return err
}

func (c *control) play() error {
	_, err := c.ctl.SetPlaying(true)
	return err
}

func (c *control) pause() error {
	_, err := c.ctl.SetPlaying(false)
	return err
}

func (c *control) status() Status {
	if !c.hasMedia() {
		return StatusStopped
	}
	if c.ctl.Snapshot().Playback == engagement.Playing {
		return StatusPlaying
	}
	return StatusPaused
}

func (c *control) canPlay() bool {
	return c.hasMedia() && !c.ctl.Snapshot().Locked()
}

func (c *control) canPause() bool {
	return c.hasMedia() && !c.ctl.Snapshot().Locked()
}

func (c *control) positionMicros() int64 {
	return int64(c.ctl.Snapshot().Position * 1e6)
}

func (c *control) volume() float64 {
	if c.mixer == nil {
		return 1
	}
	return c.mixer.Volume()
}

func (c *control) setVolume(level float64) error {
	if c.mixer == nil {
		return errUnsupported
	}
	c.mixer.SetVolume(min(max(level, 0), 1))
	return nil
}

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
