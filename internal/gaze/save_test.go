package gaze

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/synctest"
	"time"
)

func TestWriteCSV(t *testing.T) {
	at := time.Unix(1741944413, 500_000_000)
	samples := []Sample{
		{Timestamp: at, X: 640.25, Y: 360, Lost: false},
		{Timestamp: at.Add(time.Second / 4), Lost: true},
	}

	var b strings.Builder
	if err := WriteCSV(&b, samples); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	want := "timestamp,x,y,lost\n" +
		"1741944413.5,640.25,360,false\n" +
		"1741944413.75,0,0,true\n"
	if got := b.String(); got != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var b strings.Builder
	if err := WriteCSV(&b, nil); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if got := b.String(); got != "timestamp,x,y,lost\n" {
		t.Errorf("WriteCSV() = %q, want header only", got)
	}
}

func recordedSession(t *testing.T) *Session {
	t.Helper()
	var s *Session
	synctest.Test(t, func(t *testing.T) {
		tracker := &fakeTracker{connected: true, gaze: Gaze{X: 1, Y: 2}}
		s = NewSession(tracker, Options{RateHz: 10, Logger: quietLogger()})
		s.Start(context.Background())
		time.Sleep(450 * time.Millisecond)
		synctest.Wait()
		s.Stop()
	})
	return s
}

func TestSaveRun(t *testing.T) {
	s := recordedSession(t)
	dir := filepath.Join(t.TempDir(), "gaze")

	run, err := SaveRun(dir, s, "session-1")
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	stamp := s.Summary().Stopped.Format(stampLayout)
	if want := filepath.Join(dir, "eye_tracking_data_"+stamp+".csv"); run.DataPath != want {
		t.Errorf("DataPath = %q, want %q", run.DataPath, want)
	}

	data, err := os.ReadFile(run.DataPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 6 {
		t.Errorf("csv lines = %d, want header + 5 samples", len(lines))
	}

	m, err := ReadManifest(run.ManifestPath)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if m.DataFile != filepath.Base(run.DataPath) || m.Samples != 5 || m.SessionID != "session-1" {
		t.Errorf("manifest = %+v", m)
	}
	if m.Duration != 450*time.Millisecond {
		t.Errorf("manifest duration = %v, want 450ms", m.Duration)
	}
	if m.RateHz != 10 {
		t.Errorf("manifest rate = %v, want 10", m.RateHz)
	}
}

func TestSaveRun_SuffixesTakenNames(t *testing.T) {
	s := recordedSession(t)
	dir := t.TempDir()

	first, err := SaveRun(dir, s, "")
	if err != nil {
		t.Fatalf("first SaveRun failed: %v", err)
	}
	before, err := os.ReadFile(first.DataPath)
	if err != nil {
		t.Fatalf("read first csv: %v", err)
	}

	second, err := SaveRun(dir, s, "")
	if err != nil {
		t.Fatalf("second SaveRun failed: %v", err)
	}
	stem := dataPrefix + s.Summary().Stopped.Format(stampLayout) + "-1"
	if want := filepath.Join(dir, stem+".csv"); second.DataPath != want {
		t.Errorf("second DataPath = %q, want %q", second.DataPath, want)
	}
	if want := filepath.Join(dir, stem+".yaml"); second.ManifestPath != want {
		t.Errorf("second ManifestPath = %q, want %q", second.ManifestPath, want)
	}

	after, err := os.ReadFile(first.DataPath)
	if err != nil {
		t.Fatalf("reread first csv: %v", err)
	}
	if string(after) != string(before) {
		t.Error("first csv changed after the second save")
	}
	m, err := ReadManifest(second.ManifestPath)
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if m.DataFile != stem+".csv" || m.Samples != 5 {
		t.Errorf("second manifest = %+v", m)
	}
}

func TestSaveRun_StrayManifestTakesStem(t *testing.T) {
	s := recordedSession(t)
	dir := t.TempDir()
	base := dataPrefix + s.Summary().Stopped.Format(stampLayout)
	if err := os.WriteFile(filepath.Join(dir, base+".yaml"), []byte("keep: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	run, err := SaveRun(dir, s, "")
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if want := filepath.Join(dir, base+"-1.csv"); run.DataPath != want {
		t.Errorf("DataPath = %q, want %q", run.DataPath, want)
	}
	if _, err := os.Stat(filepath.Join(dir, base+".csv")); !os.IsNotExist(err) {
		t.Errorf("csv under the taken stem should not be left behind, stat err = %v", err)
	}
}
