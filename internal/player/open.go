package player

import (
	"fmt"
	"path/filepath"
	"time"
)

// Options configures Open.
type Options struct {
	// Volume applies to audio media (0..1]; zero keeps full volume.
	Volume float64
	// Duration is the media length for Clock engines; zero if unknown.
	Duration time.Duration
	Now      func() time.Time
}

// Open picks an engine for path and loads it. An empty path yields a Clock
// with nothing loaded, so the player can start without media.
func Open(path string, opts Options) (Interface, error) {
	switch {
	case path == "":
		return NewClock(opts.Duration, opts.Now), nil
	case IsAudioFile(path):
		a := NewAudio()
		if opts.Volume > 0 {
			a.SetVolume(opts.Volume)
		}
		if err := a.Load(path); err != nil {
			return nil, err
		}
		return a, nil
	case IsVideoFile(path):
		c := NewClock(opts.Duration, opts.Now)
		if err := c.Load(path); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// IsMediaFile reports whether Open accepts path.
func IsMediaFile(path string) bool {
	return IsAudioFile(path) || IsVideoFile(path)
}
