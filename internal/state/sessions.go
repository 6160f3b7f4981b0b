package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/engage/internal/db"
	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/gaze"
)

// SessionKind distinguishes playback sessions from gaze recordings.
type SessionKind string

const (
	KindPlayback SessionKind = "play"
	KindGaze     SessionKind = "gaze"
)

// ErrUnknownSession is returned when a session ID has no row.
var ErrUnknownSession = errors.New("unknown session")

// Session is one row of the sessions table.
type Session struct {
	ID         string
	Kind       SessionKind
	MediaPath  string
	RecordPath string
	StartedAt  time.Time
	EndedAt    time.Time // zero while the session is open
	Events     int
}

// Finished reports whether the session has an end time.
func (s Session) Finished() bool {
	return !s.EndedAt.IsZero()
}

// GazeRun is one stored eye-tracking run.
type GazeRun struct {
	SessionID string
	Samples   int
	Lost      int
	StartedAt time.Time
	StoppedAt time.Time
	DataPath  string
}

// BeginSession inserts a new open session and returns its ID.
func (m *Manager) BeginSession(kind SessionKind, mediaPath, recordPath string, start time.Time) (string, error) {
	id := uuid.NewString()
	_, err := m.db.Exec(`
		INSERT INTO sessions (id, kind, media_path, record_path, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, string(kind), mediaPath, recordPath, start.UnixNano())
	if err != nil {
		return "", fmt.Errorf("begin session: %w", err)
	}
	return id, nil
}

// FinishSession sets the end time of a session.
func (m *Manager) FinishSession(id string, end time.Time) error {
	return finishSession(m.db, id, end)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func finishSession(e execer, id string, end time.Time) error {
	res, err := e.Exec(`UPDATE sessions SET ended_at = ? WHERE id = ?`, db.NullUnixNano(end), id)
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finish session %s: %w", id, ErrUnknownSession)
	}
	return nil
}

// AppendEvent stores one engagement event for a session.
func (m *Manager) AppendEvent(sessionID string, e engagement.Event) error {
	_, err := m.db.Exec(`
		INSERT INTO engagement_events (session_id, timestamp, elapsed_ns, video_time, kind, detail)
		VALUES (?, ?, ?, ?, ?, ?)
	`, sessionID, e.Timestamp.UnixNano(), int64(e.Elapsed), e.VideoTime, string(e.Kind), e.Detail)
	if err != nil {
		return fmt.Errorf("store event: %w", err)
	}
	return nil
}

// Sink returns an engagement.Sink that appends to sessionID.
func (m *Manager) Sink(sessionID string) engagement.Sink {
	return engagement.SinkFunc(func(e engagement.Event) error {
		return m.AppendEvent(sessionID, e)
	})
}

// Events returns the events of a session in insertion order.
func (m *Manager) Events(sessionID string) ([]engagement.Event, error) {
	rows, err := m.db.Query(`
		SELECT timestamp, elapsed_ns, video_time, kind, detail
		FROM engagement_events
		WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []engagement.Event
	for rows.Next() {
		var ts, elapsed int64
		var kind string
		var e engagement.Event
		if err := rows.Scan(&ts, &elapsed, &e.VideoTime, &kind, &e.Detail); err != nil {
			return nil, err
		}
		e.Timestamp = time.Unix(0, ts)
		e.Elapsed = time.Duration(elapsed)
		e.Kind = engagement.Kind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// Sessions returns the most recent sessions first. limit <= 0 returns all.
func (m *Manager) Sessions(limit int) ([]Session, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := m.db.Query(`
		SELECT s.id, s.kind, s.media_path, s.record_path, s.started_at, s.ended_at,
			(SELECT COUNT(*) FROM engagement_events e WHERE e.session_id = s.id)
		FROM sessions s
		ORDER BY s.started_at DESC, s.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var kind string
		var started int64
		var ended sql.NullInt64
		if err := rows.Scan(&s.ID, &kind, &s.MediaPath, &s.RecordPath, &started, &ended, &s.Events); err != nil {
			return nil, err
		}
		s.Kind = SessionKind(kind)
		s.StartedAt = time.Unix(0, started)
		s.EndedAt = db.UnixNano(ended)
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// RecordGazeRun stores a finished gaze run and closes its session in one
// transaction.
func (m *Manager) RecordGazeRun(sessionID string, summary gaze.Summary, dataPath string) error {
	return db.WithTx(m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO gaze_runs (session_id, samples, lost, started_at, stopped_at, data_path)
			VALUES (?, ?, ?, ?, ?, ?)
		`, sessionID, summary.Samples, summary.Lost,
			summary.Started.UnixNano(), summary.Stopped.UnixNano(), dataPath)
		if err != nil {
			return fmt.Errorf("store gaze run: %w", err)
		}
		return finishSession(tx, sessionID, summary.Stopped)
	})
}

// GazeRuns returns the gaze runs stored for a session.
func (m *Manager) GazeRuns(sessionID string) ([]GazeRun, error) {
	rows, err := m.db.Query(`
		SELECT session_id, samples, lost, started_at, stopped_at, data_path
		FROM gaze_runs
		WHERE session_id = ?
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []GazeRun
	for rows.Next() {
		var r GazeRun
		var started, stopped int64
		if err := rows.Scan(&r.SessionID, &r.Samples, &r.Lost, &started, &stopped, &r.DataPath); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(0, started)
		r.StoppedAt = time.Unix(0, stopped)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
