// internal/state/mock.go
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/gaze"
)

// Mock is a test double for Manager.
type Mock struct {
	mu        sync.Mutex
	sessions  []Session
	events    map[string][]engagement.Event
	gazeRuns  []GazeRun
	appendErr error
	beginErr  error
	closed    bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{events: make(map[string][]engagement.Event)}
}

func (m *Mock) BeginSession(kind SessionKind, mediaPath, recordPath string, start time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beginErr != nil {
		return "", m.beginErr
	}
	id := fmt.Sprintf("session-%d", len(m.sessions)+1)
	m.sessions = append(m.sessions, Session{
		ID:         id,
		Kind:       kind,
		MediaPath:  mediaPath,
		RecordPath: recordPath,
		StartedAt:  start,
	})
	return id, nil
}

func (m *Mock) FinishSession(id string, end time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			m.sessions[i].EndedAt = end
			return nil
		}
	}
	return fmt.Errorf("finish session %s: %w", id, ErrUnknownSession)
}

func (m *Mock) Sink(sessionID string) engagement.Sink {
	return engagement.SinkFunc(func(e engagement.Event) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.appendErr != nil {
			return m.appendErr
		}
		m.events[sessionID] = append(m.events[sessionID], e)
		return nil
	})
}

func (m *Mock) Events(sessionID string) ([]engagement.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]engagement.Event(nil), m.events[sessionID]...), nil
}

func (m *Mock) Sessions(_ int) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Session, len(m.sessions))
	for i, s := range m.sessions {
		s.Events = len(m.events[s.ID])
		out[len(out)-1-i] = s
	}
	return out, nil
}

func (m *Mock) RecordGazeRun(sessionID string, summary gaze.Summary, dataPath string) error {
	m.mu.Lock()
	m.gazeRuns = append(m.gazeRuns, GazeRun{
		SessionID: sessionID,
		Samples:   summary.Samples,
		Lost:      summary.Lost,
		StartedAt: summary.Started,
		StoppedAt: summary.Stopped,
		DataPath:  dataPath,
	})
	m.mu.Unlock()
	return m.FinishSession(sessionID, summary.Stopped)
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetAppendError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendErr = err
}

func (m *Mock) SetBeginError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beginErr = err
}

func (m *Mock) GazeRuns() []GazeRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]GazeRun(nil), m.gazeRuns...)
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
