// Command recordstat summarizes engagement session records: event counts,
// session length and a histogram of the ratings.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/eventlog"
)

const histogramWidth = 30

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: recordstat RECORD...")
		os.Exit(2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "recordstat"})
	failed := false
	for _, path := range os.Args[1:] {
		rec, err := eventlog.ParseFile(path)
		if err != nil {
			logger.Error("parse record", "path", path, "err", err)
			failed = true
			continue
		}
		summarize(os.Stdout, path, rec)
	}
	if failed {
		os.Exit(1)
	}
}

func summarize(w io.Writer, path string, rec *eventlog.Record) {
	fmt.Fprintln(w, path)
	if rec.VideoPath != "" {
		fmt.Fprintf(w, "  media:    %s\n", rec.VideoPath)
	}
	fmt.Fprintf(w, "  started:  %s (%s)\n", rec.Start.Format(time.DateTime), humanize.Time(rec.Start))
	if n := len(rec.Events); n > 0 {
		fmt.Fprintf(w, "  length:   %s\n", rec.Events[n-1].Elapsed.Round(time.Second))
	}
	fmt.Fprintf(w, "  events:   %d play, %d pause, %d engagement\n",
		rec.Count(engagement.KindPlay),
		rec.Count(engagement.KindPause),
		rec.Count(engagement.KindEngagement))

	ratings := rec.Ratings()
	if len(ratings) == 0 {
		fmt.Fprintln(w, "  ratings:  none")
		return
	}

	counts := make([]int, engagement.MaxLevel+1)
	sum, valid := 0, 0
	for _, level := range ratings {
		if level >= engagement.MinLevel && level <= engagement.MaxLevel {
			counts[level]++
			sum += level
			valid++
		}
	}
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	if skipped := len(ratings) - valid; skipped > 0 {
		fmt.Fprintf(w, "  skipped:  %d out-of-range ratings\n", skipped)
	}
	if valid == 0 {
		fmt.Fprintln(w, "  ratings:  none in range")
		return
	}
	fmt.Fprintf(w, "  ratings:  %d, mean %.2f\n", valid, float64(sum)/float64(valid))
	for level := engagement.MinLevel; level <= engagement.MaxLevel; level++ {
		bar := 0
		if peak > 0 {
			bar = counts[level] * histogramWidth / peak
		}
		fmt.Fprintf(w, "    %d | %-*s %d\n", level, histogramWidth, strings.Repeat("#", bar), counts[level])
	}
}
