package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is used when the speaker is first opened by something
// other than a decoded stream (e.g. the engagement cue).
const DefaultSampleRate beep.SampleRate = 44100

var (
	speakerMu   sync.Mutex
	speakerRate beep.SampleRate
)

// Speaker opens the shared audio output at rate unless it is already open,
// and returns the rate it actually runs at. Streams at other rates must be
// resampled by the caller.
func Speaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if speakerRate != 0 {
		return speakerRate, nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, fmt.Errorf("init speaker: %w", err)
	}
	speakerRate = rate
	return rate, nil
}
