package player

import (
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var videoExts = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mkv":  true,
	".webm": true,
	".avi":  true,
	".mov":  true,
}

// IsVideoFile reports whether path is a video container handled by Clock.
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// Clock is a silent engine: it keeps a media timeline that advances with
// wall time while playing. Rendering is left to whatever shows the video.
type Clock struct {
	mu sync.Mutex

	now      func() time.Time
	state    State
	offset   time.Duration // position accumulated before the current run
	since    time.Time     // start of the current run
	duration time.Duration
	info     *MediaInfo
}

// NewClock creates an idle clock engine. duration may be zero when the
// media length is unknown; now defaults to time.Now.
func NewClock(duration time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, state: Stopped, duration: max(duration, 0)}
}

// Load attaches media to the timeline, paused at zero.
func (c *Clock) Load(path string) error {
	info, err := ReadMediaInfo(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	info.Duration = c.duration
	c.info = info
	c.offset = 0
	c.state = Paused
	return nil
}

// Play starts advancing the timeline.
func (c *Clock) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.IsActive() {
		return ErrNoMedia
	}
	if !c.state.CanResume() {
		return nil
	}
	if c.duration > 0 && c.offset >= c.duration {
		return ErrFinished
	}
	c.since = c.now()
	c.state = Playing
	return nil
}

// Pause freezes the timeline.
func (c *Clock) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.state.CanPause() {
		return nil
	}
	c.offset = c.positionLocked()
	c.state = Paused
	return nil
}

// Stop unloads the media.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Stopped
	c.offset = 0
	c.info = nil
}

// State returns the engine state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Position returns the current timeline position.
func (c *Clock) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked()
}

func (c *Clock) positionLocked() time.Duration {
	pos := c.offset
	if c.state == Playing {
		pos += c.now().Sub(c.since)
	}
	if c.duration > 0 {
		pos = min(pos, c.duration)
	}
	return pos
}

// Duration returns the configured media length, or zero if unknown.
func (c *Clock) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// Info returns metadata of the loaded media, or nil.
func (c *Clock) Info() *MediaInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.info
}

// Close stops the timeline.
func (c *Clock) Close() error {
	c.Stop()
	return nil
}
