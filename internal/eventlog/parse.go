package eventlog

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/llehouerou/engage/internal/engagement"
)

// Record is a session record read back from disk.
type Record struct {
	Start     time.Time
	VideoPath string // empty when the session had no media
	Events    []engagement.Event
}

// Ratings returns the levels of all engagement events in order.
func (r *Record) Ratings() []int {
	var levels []int
	for _, e := range r.Events {
		if e.Kind != engagement.KindEngagement {
			continue
		}
		var level int
		if _, err := fmt.Sscanf(e.Detail, "Level: %d", &level); err == nil {
			levels = append(levels, level)
		}
	}
	return levels
}

// Count returns how many events of kind the record holds.
func (r *Record) Count(kind engagement.Kind) int {
	n := 0
	for _, e := range r.Events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Parse reads a record produced by File. Unknown labels are skipped so
// older or hand-edited records still load.
func Parse(r io.Reader) (*Record, error) {
	rec := &Record{}
	sc := bufio.NewScanner(r)

	var block []string
	header := true
	lineNo := 0
	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		defer func() { block = block[:0] }()
		if header {
			header = false
			return parseHeader(rec, block)
		}
		e, err := parseEvent(block)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		rec.Events = append(rec.Events, e)
		return nil
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return rec, nil
}

func parseHeader(rec *Record, lines []string) error {
	for _, line := range lines {
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch label {
		case labelVideoFile:
			if value != noVideo {
				rec.VideoPath = value
			}
		case labelStartTime:
			t, err := parseEpoch(value)
			if err != nil {
				return fmt.Errorf("header start time: %w", err)
			}
			rec.Start = t
		}
	}
	return nil
}

func parseEvent(lines []string) (engagement.Event, error) {
	var e engagement.Event
	for _, line := range lines {
		label, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		switch label {
		case labelTimestamp:
			t, err := parseEpoch(value)
			if err != nil {
				return e, fmt.Errorf("timestamp: %w", err)
			}
			e.Timestamp = t
		case labelElapsed:
			s, err := strconv.ParseFloat(strings.TrimSuffix(value, "s"), 64)
			if err != nil {
				return e, fmt.Errorf("elapsed time: %w", err)
			}
			e.Elapsed = engagement.Seconds(s)
		case labelVideoTime:
			e.VideoTime = value
		case labelEvent:
			e.Kind = engagement.Kind(value)
		case labelDetails:
			e.Detail = value
		}
	}
	if e.Kind == "" {
		return e, fmt.Errorf("entry without %q field", labelEvent)
	}
	return e, nil
}

func parseEpoch(s string) (time.Time, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, err
	}
	sec, frac := math.Modf(v)
	return time.Unix(int64(sec), int64(math.Round(frac*1e9))), nil
}

// ParseFile opens and parses the record at path.
func ParseFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return rec, nil
}
