package gaze

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

const (
	// DefaultRate matches the tracker's native output rate.
	DefaultRate = 30.0
	// DefaultDisconnectedEvery throttles the offline warning.
	DefaultDisconnectedEvery = 2 * time.Second
)

// Options configures a Session.
type Options struct {
	RateHz            float64
	DisconnectedEvery time.Duration
	Now               func() time.Time
	Logger            *log.Logger
}

// Session polls a Tracker on its own goroutine and buffers every sample.
// A session runs once: Start after Stop is a no-op.
type Session struct {
	tracker  Tracker
	interval time.Duration
	rate     float64
	warnGap  time.Duration
	now      func() time.Time
	logger   *log.Logger

	mu      sync.Mutex
	samples []Sample
	lost    int
	started time.Time
	stopped time.Time
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSession creates an idle sampler for tracker.
func NewSession(tracker Tracker, opts Options) *Session {
	if opts.RateHz <= 0 {
		opts.RateHz = DefaultRate
	}
	if opts.DisconnectedEvery <= 0 {
		opts.DisconnectedEvery = DefaultDisconnectedEvery
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Session{
		tracker:  tracker,
		interval: time.Duration(float64(time.Second) / opts.RateHz),
		rate:     opts.RateHz,
		warnGap:  opts.DisconnectedEvery,
		now:      opts.Now,
		logger:   opts.Logger,
	}
}

// Start launches the sampling goroutine. It stops when ctx is cancelled or
// Stop is called.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.started = s.now()
	go s.run(ctx, s.done)
}

// Stop ends sampling and waits for the goroutine to exit.
func (s *Session) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if done == nil {
		return
	}
	cancel()
	<-done

	s.mu.Lock()
	if s.stopped.IsZero() {
		s.stopped = s.now()
	}
	s.mu.Unlock()
}

// Running reports whether the sampler goroutine is active.
func (s *Session) Running() bool {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Samples returns a copy of the recorded samples.
func (s *Session) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sample(nil), s.samples...)
}

// Summary returns counts and timing of the run.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Samples: len(s.samples),
		Lost:    s.lost,
		RateHz:  s.rate,
		Started: s.started,
		Stopped: s.stopped,
	}
}

func (s *Session) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var lastWarn time.Time
	for {
		s.poll(&lastWarn)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Session) poll(lastWarn *time.Time) {
	now := s.now()
	if !s.tracker.Connected() {
		if lastWarn.IsZero() || now.Sub(*lastWarn) >= s.warnGap {
			s.logger.Warn("No connection with tracker server")
			*lastWarn = now
		}
		return
	}

	g, err := s.tracker.ScreenGaze()
	if err != nil {
		s.logger.Debug("read gaze", "err", err)
		return
	}
	sample := Sample{Timestamp: now, X: g.X, Y: g.Y, Lost: g.Lost}
	if g.Lost {
		sample.X, sample.Y = 0, 0
	}

	s.mu.Lock()
	s.samples = append(s.samples, sample)
	if sample.Lost {
		s.lost++
	}
	s.mu.Unlock()
}
