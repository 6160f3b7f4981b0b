// Package session opens the record sinks for one playback run: the text
// record on disk and, when enabled, the sqlite history.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/eventlog"
	"github.com/llehouerou/engage/internal/state"
)

// Recorder owns the sinks of one session.
type Recorder struct {
	file   *eventlog.File
	store  state.Interface
	id     string
	sink   engagement.Sink
	logger *log.Logger
}

// Begin creates the text record in dir and registers the session in store.
// A nil store keeps only the text record. A store failure is logged and the
// session continues with the text record alone.
func Begin(dir string, store state.Interface, start time.Time, mediaPath string, logger *log.Logger) (*Recorder, error) {
	if logger == nil {
		logger = log.Default()
	}
	file, err := eventlog.Create(dir, start, mediaPath)
	if err != nil {
		return nil, err
	}

	r := &Recorder{file: file, logger: logger, sink: file}
	if store == nil {
		return r, nil
	}

	id, err := store.BeginSession(state.KindPlayback, mediaPath, file.Path(), start)
	if err != nil {
		logger.Warn("session history disabled", "err", err)
		return r, nil
	}
	r.store = store
	r.id = id
	r.sink = eventlog.Multi{file, store.Sink(id)}
	return r, nil
}

// Sink returns the sink the controller should append to.
func (r *Recorder) Sink() engagement.Sink {
	return r.sink
}

// Path returns the text record location.
func (r *Recorder) Path() string {
	return r.file.Path()
}

// ID returns the history session ID, or "" without a store.
func (r *Recorder) ID() string {
	return r.id
}

// Finish marks the session ended in the history.
func (r *Recorder) Finish(end time.Time) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.FinishSession(r.id, end); err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	return nil
}

// Summary counts the recorded events by kind, read back from the text
// record.
func (r *Recorder) Summary() (map[engagement.Kind]int, error) {
	rec, err := eventlog.ParseFile(r.file.Path())
	if err != nil {
		return nil, err
	}
	counts := make(map[engagement.Kind]int)
	for _, e := range rec.Events {
		counts[e.Kind]++
	}
	return counts, nil
}

// ErrNoHistory is returned by History without a store.
var ErrNoHistory = errors.New("session history disabled")

// History returns the events stored for this session.
func (r *Recorder) History() ([]engagement.Event, error) {
	if r.store == nil {
		return nil, ErrNoHistory
	}
	return r.store.Events(r.id)
}
