package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/eventlog"
)

func TestSummarize(t *testing.T) {
	rec := &eventlog.Record{
		Start:     time.Date(2026, 3, 1, 10, 0, 0, 0, time.Local),
		VideoPath: "/videos/lecture.mp4",
		Events: []engagement.Event{
			{Kind: engagement.KindPlay, Elapsed: 2 * time.Second},
			{Kind: engagement.KindPause, Elapsed: 6 * time.Second},
			{Kind: engagement.KindEngagement, Detail: "Level: 4", Elapsed: 9 * time.Second},
			{Kind: engagement.KindPlay, Elapsed: 9 * time.Second},
			{Kind: engagement.KindPause, Elapsed: 13 * time.Second},
			{Kind: engagement.KindEngagement, Detail: "Level: 2", Elapsed: 15 * time.Second},
		},
	}

	var buf bytes.Buffer
	summarize(&buf, "record/2026-03-01_10-00-00.txt", rec)
	out := buf.String()

	for _, want := range []string{
		"media:    /videos/lecture.mp4",
		"length:   15s",
		"events:   2 play, 2 pause, 2 engagement",
		"ratings:  2, mean 3.00",
		"    4 | " + strings.Repeat("#", histogramWidth) + " 1",
		"    3 | " + strings.Repeat(" ", histogramWidth) + " 0",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummarize_NoRatings(t *testing.T) {
	var buf bytes.Buffer
	summarize(&buf, "empty.txt", &eventlog.Record{Start: time.Now()})
	if !strings.Contains(buf.String(), "ratings:  none") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSummarize_OutOfRangeRatingsExcludedFromMean(t *testing.T) {
	rec := &eventlog.Record{
		Start: time.Now(),
		Events: []engagement.Event{
			{Kind: engagement.KindEngagement, Detail: "Level: 4"},
			{Kind: engagement.KindEngagement, Detail: "Level: 9"},
			{Kind: engagement.KindEngagement, Detail: "Level: 2"},
		},
	}

	var buf bytes.Buffer
	summarize(&buf, "edited.txt", rec)
	out := buf.String()

	for _, want := range []string{"skipped:  1 out-of-range ratings", "ratings:  2, mean 3.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSummarize_OnlyOutOfRangeRatings(t *testing.T) {
	rec := &eventlog.Record{
		Start:  time.Now(),
		Events: []engagement.Event{{Kind: engagement.KindEngagement, Detail: "Level: 0"}},
	}

	var buf bytes.Buffer
	summarize(&buf, "edited.txt", rec)
	if out := buf.String(); !strings.Contains(out, "ratings:  none in range") || strings.Contains(out, "NaN") {
		t.Errorf("output = %q", out)
	}
}
