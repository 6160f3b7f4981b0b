package gaze

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamTracker_KeepsLatestReading(t *testing.T) {
	pr, pw := io.Pipe()
	tr := NewStreamTracker(pr, quietLogger())

	if tr.Connected() {
		t.Fatal("tracker should be offline before the first reading")
	}
	if _, err := tr.ScreenGaze(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("ScreenGaze() err = %v, want ErrNotConnected", err)
	}

	go func() {
		_, _ = io.WriteString(pw, `{"connected":true,"x":100,"y":200,"lost":false}`+"\n")
		_, _ = io.WriteString(pw, "not json\n")
		_, _ = io.WriteString(pw, `{"connected":true,"x":300.5,"y":400,"lost":true}`+"\n")
		pw.Close()
	}()

	<-tr.Done()

	if tr.Connected() {
		t.Error("tracker should be offline after the bridge output ends")
	}
}

func TestStreamTracker_ReportsGaze(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	tr := NewStreamTracker(pr, quietLogger())

	go func() {
		_, _ = io.WriteString(pw, `{"connected":true,"x":300.5,"y":400,"lost":true}`+"\n")
	}()
	waitFor(t, tr.Connected)

	g, err := tr.ScreenGaze()
	if err != nil {
		t.Fatalf("ScreenGaze() failed: %v", err)
	}
	if g.X != 300.5 || g.Y != 400 || !g.Lost {
		t.Errorf("gaze = %+v", g)
	}
}

func TestStreamTracker_ServerOffline(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	tr := NewStreamTracker(pr, quietLogger())

	go func() {
		_, _ = io.WriteString(pw, `{"connected":false}`+"\n")
	}()
	time.Sleep(20 * time.Millisecond)

	if tr.Connected() {
		t.Error("Connected() = true, want false")
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close() on stream tracker failed: %v", err)
	}
}

func TestStartBridge_EmptyCommand(t *testing.T) {
	if _, err := StartBridge(context.Background(), nil, quietLogger()); err == nil {
		t.Error("expected error for empty command")
	}
}
