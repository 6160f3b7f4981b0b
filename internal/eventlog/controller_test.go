package eventlog

import (
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/engage/internal/engagement"
)

type steppedEngine struct{}

func (steppedEngine) Play() error             { return nil }
func (steppedEngine) Pause() error            { return nil }
func (steppedEngine) Position() time.Duration { return 0 }
func (steppedEngine) Duration() time.Duration { return time.Minute }

// A controller writing straight into a record leaves exactly one header
// and one entry per accepted command or trigger.
func TestFile_RecordsEveryAcceptedEvent(t *testing.T) {
	clock := sessionStart
	var f *File
	ctl := engagement.New(steppedEngine{}, nil, engagement.SinkFunc(func(e engagement.Event) error {
		return f.Append(e)
	}), engagement.Options{
		PromptInterval: 4 * time.Second,
		StartPlaying:   true,
		Now:            func() time.Time { return clock },
		Logger:         log.New(io.Discard),
	})
	f, err := Create(t.TempDir(), ctl.Start(), "/videos/lecture.mp4")
	require.NoError(t, err)

	tick := func(second int) {
		t.Helper()
		clock = clock.Add(time.Second)
		require.NoError(t, ctl.Tick(time.Duration(second)*time.Second, time.Minute))
	}
	rate := func(level int, want bool) {
		t.Helper()
		accepted, err := ctl.Rate(level)
		require.NoError(t, err)
		assert.Equal(t, want, accepted, "Rate(%d)", level)
	}
	toggle := func(want bool) {
		t.Helper()
		accepted, err := ctl.Toggle()
		require.NoError(t, err)
		assert.Equal(t, want, accepted, "Toggle()")
	}

	for s := 1; s <= 3; s++ {
		tick(s)
	}
	rate(3, false) // idle
	tick(4)        // auto pause
	toggle(false)  // locked
	rate(7, false) // out of range
	rate(0, false)
	rate(3, true) // engagement + resume
	rate(3, false)
	tick(4) // same second
	for s := 5; s <= 8; s++ {
		tick(s) // auto pause at 8
	}
	rate(5, true)
	toggle(true) // manual pause
	tick(12)     // cue only while paused
	toggle(true) // manual play

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	text := string(data)

	assert.Equal(t, 1, strings.Count(text, labelSessionStart+": "), "header count")
	assert.Equal(t, 1, strings.Count(text, labelVideoFile+": "), "header count")
	events := strings.Count(text, labelEvent+": ")
	assert.Equal(t, ctl.Emitted(), events)
	assert.Equal(t, 8, events)

	rec, err := ParseFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 5}, rec.Ratings())
	assert.Equal(t, 3, rec.Count(engagement.KindPlay))
	assert.Equal(t, 3, rec.Count(engagement.KindPause))
}
