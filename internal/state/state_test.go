package state

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/gaze"
)

// setupTestManager opens an in-memory database with the schema initialized.
func setupTestManager(t *testing.T) *Manager {
	t.Helper()

	m, err := OpenPath(memoryPath)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

var testStart = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

func testEvent(offset time.Duration, kind engagement.Kind, detail string) engagement.Event {
	return engagement.Event{
		Timestamp: testStart.Add(offset),
		Elapsed:   offset,
		VideoTime: engagement.FormatTime(offset),
		Kind:      kind,
		Detail:    detail,
	}
}

func TestInitSchema_Idempotent(t *testing.T) {
	m := setupTestManager(t)

	if err := initSchema(m.DB()); err != nil {
		t.Fatalf("second initSchema failed: %v", err)
	}

	var count int
	if err := m.DB().QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("schema_version rows = %d, want 1", count)
	}
}

func TestOpenPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "engage.db")

	m, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	id, err := m.BeginSession(KindPlayback, "", "", testStart)
	if err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}
	m.Close()

	reopened, err := OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	sessions, err := reopened.Sessions(0)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != id {
		t.Errorf("sessions = %+v, want one session %s", sessions, id)
	}
}

func TestBeginAndFinishSession(t *testing.T) {
	m := setupTestManager(t)

	id, err := m.BeginSession(KindPlayback, "/videos/a.mp4", "record/a.txt", testStart)
	if err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty session id")
	}

	sessions, err := m.Sessions(0)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	s := sessions[0]
	if s.Kind != KindPlayback || s.MediaPath != "/videos/a.mp4" || s.RecordPath != "record/a.txt" {
		t.Errorf("session = %+v", s)
	}
	if !s.StartedAt.Equal(testStart) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, testStart)
	}
	if s.Finished() {
		t.Error("new session should be open")
	}

	end := testStart.Add(time.Minute)
	if err := m.FinishSession(id, end); err != nil {
		t.Fatalf("FinishSession failed: %v", err)
	}
	sessions, _ = m.Sessions(0)
	if !sessions[0].EndedAt.Equal(end) {
		t.Errorf("EndedAt = %v, want %v", sessions[0].EndedAt, end)
	}
}

func TestFinishSession_Unknown(t *testing.T) {
	m := setupTestManager(t)

	err := m.FinishSession("missing", testStart)
	if !errors.Is(err, ErrUnknownSession) {
		t.Errorf("err = %v, want ErrUnknownSession", err)
	}
}

func TestSink_AppendsInOrder(t *testing.T) {
	m := setupTestManager(t)
	id, err := m.BeginSession(KindPlayback, "", "", testStart)
	if err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}

	want := []engagement.Event{
		testEvent(time.Second, engagement.KindPlay, engagement.DetailManualPlay),
		testEvent(4*time.Second, engagement.KindPause, engagement.DetailAutoPause),
		testEvent(5500*time.Millisecond, engagement.KindEngagement, engagement.LevelDetail(2)),
		testEvent(5500*time.Millisecond, engagement.KindPlay, engagement.DetailResume),
	}
	sink := m.Sink(id)
	for _, e := range want {
		if err := sink.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := m.Events(id)
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len(events) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Timestamp.Equal(want[i].Timestamp) ||
			got[i].Elapsed != want[i].Elapsed ||
			got[i].VideoTime != want[i].VideoTime ||
			got[i].Kind != want[i].Kind ||
			got[i].Detail != want[i].Detail {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	sessions, _ := m.Sessions(1)
	if sessions[0].Events != len(want) {
		t.Errorf("session event count = %d, want %d", sessions[0].Events, len(want))
	}
}

func TestSink_UnknownSessionFails(t *testing.T) {
	m := setupTestManager(t)

	err := m.Sink("missing").Append(testEvent(0, engagement.KindPlay, ""))
	if err == nil {
		t.Error("expected foreign key error for unknown session")
	}
}

func TestSessions_NewestFirstWithLimit(t *testing.T) {
	m := setupTestManager(t)

	var ids []string
	for i := range 3 {
		id, err := m.BeginSession(KindPlayback, "", "", testStart.Add(time.Duration(i)*time.Hour))
		if err != nil {
			t.Fatalf("BeginSession failed: %v", err)
		}
		ids = append(ids, id)
	}

	sessions, err := m.Sessions(2)
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}
	if sessions[0].ID != ids[2] || sessions[1].ID != ids[1] {
		t.Errorf("order = [%s %s], want [%s %s]", sessions[0].ID, sessions[1].ID, ids[2], ids[1])
	}
}

func TestRecordGazeRun(t *testing.T) {
	m := setupTestManager(t)
	id, err := m.BeginSession(KindGaze, "", "", testStart)
	if err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}

	summary := gaze.Summary{
		Samples: 300,
		Lost:    12,
		Started: testStart,
		Stopped: testStart.Add(10 * time.Second),
	}
	if err := m.RecordGazeRun(id, summary, "eye_tracking_data_x.csv"); err != nil {
		t.Fatalf("RecordGazeRun failed: %v", err)
	}

	runs, err := m.GazeRuns(id)
	if err != nil {
		t.Fatalf("GazeRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(runs) = %d, want 1", len(runs))
	}
	if runs[0].Samples != 300 || runs[0].Lost != 12 || runs[0].DataPath != "eye_tracking_data_x.csv" {
		t.Errorf("run = %+v", runs[0])
	}

	sessions, _ := m.Sessions(0)
	if !sessions[0].EndedAt.Equal(summary.Stopped) {
		t.Errorf("EndedAt = %v, want %v", sessions[0].EndedAt, summary.Stopped)
	}
}

func TestRecordGazeRun_RollsBackOnUnknownSession(t *testing.T) {
	m := setupTestManager(t)

	err := m.RecordGazeRun("missing", gaze.Summary{Started: testStart, Stopped: testStart}, "")
	if err == nil {
		t.Fatal("expected error for unknown session")
	}

	var count int
	if err := m.DB().QueryRow(`SELECT COUNT(*) FROM gaze_runs`).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Errorf("gaze_runs rows = %d, want 0", count)
	}
}

func TestMock_RecordsSessions(t *testing.T) {
	m := NewMock()

	id, err := m.BeginSession(KindPlayback, "a.mp4", "", testStart)
	if err != nil {
		t.Fatalf("BeginSession failed: %v", err)
	}
	if err := m.Sink(id).Append(testEvent(0, engagement.KindPlay, "")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	appendErr := errors.New("disk full")
	m.SetAppendError(appendErr)
	if err := m.Sink(id).Append(testEvent(0, engagement.KindPause, "")); !errors.Is(err, appendErr) {
		t.Errorf("Append err = %v, want %v", err, appendErr)
	}

	events, _ := m.Events(id)
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1", len(events))
	}
	if err := m.FinishSession("missing", testStart); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("FinishSession err = %v, want ErrUnknownSession", err)
	}
	_ = m.Close()
	if !m.IsClosed() {
		t.Error("expected mock to be closed")
	}
}
