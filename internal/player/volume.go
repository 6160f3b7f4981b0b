package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the volume level (0.0 to 1.0).
func (a *Audio) SetVolume(level float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.volumeLevel = min(max(level, 0), 1)
	if a.volume != nil {
		speaker.Lock()
		a.applyVolumeLocked()
		speaker.Unlock()
	}
}

// Volume returns the current volume level (0.0 to 1.0).
func (a *Audio) Volume() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.volumeLevel
}

// SetMuted silences output without forgetting the level.
func (a *Audio) SetMuted(muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.muted = muted
	if a.volume != nil {
		speaker.Lock()
		a.applyVolumeLocked()
		speaker.Unlock()
	}
}

func (a *Audio) applyVolumeLocked() {
	a.volume.Volume = levelToVolume(a.volumeLevel)
	a.volume.Silent = a.muted || a.volumeLevel <= 0
}

// levelToVolume maps a 0..1 level onto beep's base-2 logarithmic scale:
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
