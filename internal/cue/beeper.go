package cue

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/engage/internal/player"
)

const (
	DefaultFrequency = 880.0
	DefaultLength    = 250 * time.Millisecond
)

// BeeperOptions configures a Beeper.
type BeeperOptions struct {
	FrequencyHz float64
	Length      time.Duration
	// Volume is a beep exponent (base 2); 0 leaves the tone unchanged.
	Volume float64
	Logger *log.Logger
}

// Beeper plays a short sine tone through the shared speaker.
type Beeper struct {
	freq   float64
	length time.Duration
	volume float64
	logger *log.Logger

	// play hands the tone to the output; replaced in tests.
	play func(beep.Streamer, beep.SampleRate) error
}

// NewBeeper creates a tone cue. Zero options fall back to the defaults.
func NewBeeper(opts BeeperOptions) *Beeper {
	if opts.FrequencyHz <= 0 {
		opts.FrequencyHz = DefaultFrequency
	}
	if opts.Length <= 0 {
		opts.Length = DefaultLength
	}
	return &Beeper{
		freq:   opts.FrequencyHz,
		length: opts.Length,
		volume: opts.Volume,
		logger: loggerOrDefault(opts.Logger),
		play:   playOnSpeaker,
	}
}

// PlayCue implements engagement.Cue. Audio errors are logged, never
// returned: a missing sound device must not block the prompt.
func (b *Beeper) PlayCue() {
	if err := b.Beep(); err != nil {
		b.logger.Debug("cue tone", "err", err)
	}
}

// Beep plays the tone once.
func (b *Beeper) Beep() error {
	rate, err := player.Speaker(player.DefaultSampleRate)
	if err != nil {
		return err
	}
	s, err := b.tone(rate)
	if err != nil {
		return err
	}
	return b.play(s, rate)
}

func (b *Beeper) tone(rate beep.SampleRate) (beep.Streamer, error) {
	sine, err := generators.SineTone(rate, b.freq)
	if err != nil {
		return nil, fmt.Errorf("sine tone %.0fHz: %w", b.freq, err)
	}
	var s beep.Streamer = beep.Take(rate.N(b.length), sine)
	if b.volume != 0 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: b.volume}
	}
	return s, nil
}

func playOnSpeaker(s beep.Streamer, _ beep.SampleRate) error {
	speaker.Play(s)
	return nil
}
