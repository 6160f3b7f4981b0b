// Package engagement implements the engagement-prompt controller: it pauses
// playback at a fixed interval, holds it until the viewer submits a rating,
// and records every play/pause/engagement transition.
package engagement

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultPromptInterval is used when Options.PromptInterval is unset.
const DefaultPromptInterval = 4 * time.Second

// Accepted rating range.
const (
	MinLevel = 1
	MaxLevel = 5
)

// Options configures a Controller.
type Options struct {
	// PromptInterval is truncated to whole seconds, minimum one second.
	PromptInterval time.Duration
	// StartPlaying sets the initial playback intent. Media is loaded paused
	// by default.
	StartPlaying bool
	Now          func() time.Time
	Logger       *log.Logger
}

// Controller is the single owner of playback intent and prompt state.
// Ticks and commands may arrive from different goroutines; every input is
// processed under one mutex so transitions never interleave.
type Controller struct {
	mu sync.Mutex

	engine Engine
	cue    Cue
	sink   Sink
	logger *log.Logger
	now    func() time.Time

	interval         int
	start            time.Time
	playback         PlaybackState
	prompt           PromptState
	lastPromptSecond int
	position         time.Duration
	duration         time.Duration
	emitted          int

	subs   []*Subscription
	closed bool
}

// New creates a controller. A nil cue or sink is replaced by a no-op.
func New(engine Engine, cue Cue, sink Sink, opts Options) *Controller {
	if cue == nil {
		cue = nopCue{}
	}
	if sink == nil {
		sink = nopSink{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	interval := DefaultPromptInterval
	if opts.PromptInterval > 0 {
		interval = opts.PromptInterval
	}

	c := &Controller{
		engine:   engine,
		cue:      cue,
		sink:     sink,
		logger:   opts.Logger,
		now:      opts.Now,
		interval: max(int(interval/time.Second), 1),
		playback: Paused,
		prompt:   Idle,
	}
	if opts.StartPlaying {
		c.playback = Playing
	}
	c.start = c.now()
	return c
}

// Start returns the session start time.
func (c *Controller) Start() time.Time {
	return c.start
}

// Interval returns the prompt interval in whole seconds.
func (c *Controller) Interval() int {
	return c.interval
}

// Tick processes a position report from the playback engine.
// When the whole-second position lands on a new multiple of the prompt
// interval, the cue fires and, if playing, playback is paused until a
// rating arrives.
func (c *Controller) Tick(position, duration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.position = max(position, 0)
	c.duration = max(duration, 0)

	whole := int(math.Floor(c.position.Seconds()))
	if whole <= 0 || whole%c.interval != 0 || whole == c.lastPromptSecond {
		return nil
	}

	c.logger.Debug("engagement prompt due", "second", whole, "state", c.playback)
	c.cue.PlayCue()
	c.lastPromptSecond = whole

	if c.playback != Playing {
		return nil
	}
	if err := c.engine.Pause(); err != nil {
		return fmt.Errorf("pause for engagement input: %w", err)
	}
	c.playback = Paused
	c.prompt = AwaitingRating
	return c.emitLocked(KindPause, DetailAutoPause)
}

// Toggle flips between playing and paused. It is ignored while a rating is
// pending. The returned bool reports whether the command was accepted.
func (c *Controller) Toggle() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prompt == AwaitingRating {
		c.logger.Debug("toggle ignored while awaiting rating")
		return false, nil
	}
	c.refreshLocked()
	return c.toggleLocked()
}

// SetPlaying toggles only when playback differs from want, checking and
// switching under one lock. It is ignored while a rating is pending.
func (c *Controller) SetPlaying(want bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prompt == AwaitingRating {
		c.logger.Debug("set playing ignored while awaiting rating", "want", want)
		return false, nil
	}
	c.refreshLocked()
	if (c.playback == Playing) == want {
		return false, nil
	}
	return c.toggleLocked()
}

func (c *Controller) toggleLocked() (bool, error) {
	switch c.playback {
	case Paused:
		if err := c.engine.Play(); err != nil {
			return false, fmt.Errorf("play: %w", err)
		}
		c.playback = Playing
		return true, c.emitLocked(KindPlay, DetailManualPlay)
	default:
		if err := c.engine.Pause(); err != nil {
			return false, fmt.Errorf("pause: %w", err)
		}
		c.playback = Paused
		return true, c.emitLocked(KindPause, DetailManualPause)
	}
}

// Rate submits an engagement level. Levels outside MinLevel..MaxLevel and
// ratings sent while no prompt is pending are discarded without an event.
func (c *Controller) Rate(level int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prompt != AwaitingRating || level < MinLevel || level > MaxLevel {
		c.logger.Debug("rating ignored", "level", level, "prompt", c.prompt)
		return false, nil
	}
	c.refreshLocked()

	var errs []error
	c.prompt = Idle
	if err := c.emitLocked(KindEngagement, LevelDetail(level)); err != nil {
		errs = append(errs, err)
	}

	if c.playback == Paused {
		if err := c.engine.Play(); err != nil {
			errs = append(errs, fmt.Errorf("resume after engagement input: %w", err))
			c.notifyStateLocked()
			return true, errors.Join(errs...)
		}
		c.playback = Playing
		if err := c.emitLocked(KindPlay, DetailResume); err != nil {
			errs = append(errs, err)
		}
	}
	return true, errors.Join(errs...)
}

// RateKey parses a single-digit rating from key or line input and submits
// it. Anything that is not one digit is ignored like an out-of-range level.
func (c *Controller) RateKey(s string) (bool, error) {
	s = strings.TrimSpace(s)
	if len(s) != 1 {
		return false, nil
	}
	level, err := strconv.Atoi(s)
	if err != nil {
		return false, nil //nolint:nilerr // malformed input is ignored
	}
	return c.Rate(level)
}

// RequestRating locks playback behind a rating immediately, outside the
// regular interval. It is ignored while a rating is already pending.
func (c *Controller) RequestRating() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.prompt == AwaitingRating {
		return false, nil
	}
	c.refreshLocked()

	if c.playback == Playing {
		if err := c.engine.Pause(); err != nil {
			return false, fmt.Errorf("pause for engagement input: %w", err)
		}
		c.playback = Paused
		c.prompt = AwaitingRating
		c.cue.PlayCue()
		return true, c.emitLocked(KindPause, DetailRequestPause)
	}

	// Already paused: lock without logging a pause that did not happen.
	c.prompt = AwaitingRating
	c.cue.PlayCue()
	c.notifyStateLocked()
	return true, nil
}

// Snapshot returns a consistent copy of the controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Playback:         c.playback,
		Prompt:           c.prompt,
		Position:         c.position.Seconds(),
		Duration:         c.duration.Seconds(),
		LastPromptSecond: c.lastPromptSecond,
	}
}

// Emitted returns the number of events handed to the sink.
func (c *Controller) Emitted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emitted
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	sub := newSubscription()
	if c.closed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Close ends all subscriptions. The controller keeps accepting input.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
}

// refreshLocked pulls the current position from the engine so command
// events carry the video time at which they happened.
func (c *Controller) refreshLocked() {
	c.position = max(c.engine.Position(), 0)
	c.duration = max(c.engine.Duration(), 0)
}

// emitLocked builds an event from the current state and hands it to the
// sink. Callers mutate state first.
func (c *Controller) emitLocked(kind Kind, detail string) error {
	now := c.now()
	e := Event{
		Timestamp: now,
		Elapsed:   now.Sub(c.start),
		VideoTime: FormatTime(c.position),
		Kind:      kind,
		Detail:    detail,
	}
	c.emitted++
	c.logger.Info("event", "kind", e.Kind, "detail", e.Detail, "video", e.VideoTime)

	err := c.sink.Append(e)
	if err != nil {
		c.logger.Error("record event", "kind", e.Kind, "err", err)
		err = fmt.Errorf("record %s event: %w", kind, err)
	}

	for _, sub := range c.subs {
		sub.sendEvent(e)
	}
	c.notifyStateLocked()
	return err
}

func (c *Controller) notifyStateLocked() {
	change := StateChange{Playback: c.playback, Prompt: c.prompt}
	for _, sub := range c.subs {
		sub.sendState(change)
	}
}
