package player

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extWAV  = ".wav"
	extOGG  = ".ogg"
)

// Audio plays decodable audio through the shared beep speaker.
type Audio struct {
	mu sync.Mutex

	state       State
	file        *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	volume      *effects.Volume
	volumeLevel float64
	muted       bool
	info        *MediaInfo
	finished    chan struct{}
}

// NewAudio creates an idle audio engine.
func NewAudio() *Audio {
	return &Audio{state: Stopped, volumeLevel: 1}
}

// IsAudioFile reports whether path has an extension Audio can decode.
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extWAV, extOGG:
		return true
	}
	return false
}

// Load decodes path and queues it on the speaker, paused at the start.
func (a *Audio) Load(path string) error {
	a.Stop()

	ext := strings.ToLower(filepath.Ext(path))
	if !IsAudioFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupported, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case extMP3:
		streamer, format, err = decodeMP3(f)
	case extFLAC:
		streamer, format, err = flac.Decode(f)
	case extWAV:
		streamer, format, err = wav.Decode(f)
	case extOGG:
		streamer, format, err = decodeOgg(f)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	rate, err := Speaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		f.Close()
		return err
	}

	var out beep.Streamer = streamer
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	info, _ := ReadMediaInfo(path)
	info.Duration = format.SampleRate.D(streamer.Len())

	a.mu.Lock()
	a.file = f
	a.streamer = streamer
	a.format = format
	a.ctrl = &beep.Ctrl{Streamer: out, Paused: true}
	a.volume = &effects.Volume{Streamer: a.ctrl, Base: 2}
	a.applyVolumeLocked()
	a.info = info
	a.finished = make(chan struct{})
	a.state = Paused
	finished := a.finished
	volume := a.volume
	a.mu.Unlock()

	speaker.Play(beep.Seq(volume, beep.Callback(func() {
		close(finished)
	})))
	return nil
}

// Play resumes the loaded stream.
func (a *Audio) Play() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.IsActive() {
		return ErrNoMedia
	}
	if !a.state.CanResume() {
		return nil
	}
	select {
	case <-a.finished:
		return ErrFinished
	default:
	}

	speaker.Lock()
	a.ctrl.Paused = false
	speaker.Unlock()
	a.state = Playing
	return nil
}

// Pause halts the stream in place.
func (a *Audio) Pause() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.state.CanPause() {
		return nil
	}
	speaker.Lock()
	a.ctrl.Paused = true
	speaker.Unlock()
	a.state = Paused
	return nil
}

// Stop unloads the media and releases the file.
func (a *Audio) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == Stopped {
		return
	}
	speaker.Clear()
	if a.streamer != nil {
		a.streamer.Close()
		a.streamer = nil
	}
	if a.file != nil {
		a.file.Close()
		a.file = nil
	}
	a.ctrl = nil
	a.volume = nil
	a.info = nil
	a.state = Stopped
}

// State returns the engine state.
func (a *Audio) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Position returns the current stream position.
func (a *Audio) Position() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := a.streamer.Position()
	speaker.Unlock()
	return a.format.SampleRate.D(pos)
}

// Duration returns the length of the loaded stream.
func (a *Audio) Duration() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.info == nil {
		return 0
	}
	return a.info.Duration
}

// Info returns metadata of the loaded media, or nil.
func (a *Audio) Info() *MediaInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.info
}

// Finished is closed when the loaded stream plays to the end.
func (a *Audio) Finished() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.finished
}

// Close stops playback.
func (a *Audio) Close() error {
	a.Stop()
	return nil
}
