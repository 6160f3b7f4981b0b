// Package eventlog writes the human-readable session record: a header block
// followed by one multi-line entry per engagement event. The file is only
// ever appended to, and every append opens, writes, syncs and closes it.
package eventlog

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/llehouerou/engage/internal/engagement"
)

const (
	fileStampLayout   = "2006-01-02_15-04-05"
	headerStampLayout = "2006-01-02 15:04:05"
	noVideo           = "(none)"
	maxNameAttempts   = 100
)

// Field labels. Order and spelling are the persisted contract.
const (
	labelSessionStart = "Session start"
	labelVideoFile    = "Video file"
	labelStartTime    = "Start time"
	labelTimestamp    = "Timestamp"
	labelElapsed      = "Elapsed time"
	labelVideoTime    = "Video time"
	labelEvent        = "Event"
	labelDetails      = "Details"
)

// File is an append-only session record on disk.
type File struct {
	mu   sync.Mutex
	path string
}

// Verify File implements engagement.Sink at compile time.
var _ engagement.Sink = (*File)(nil)

// Create makes a new record in dir named after start and writes the header.
// An existing record is never reused; a numeric suffix is added instead.
func Create(dir string, start time.Time, videoPath string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create record dir: %w", err)
	}

	stamp := start.Format(fileStampLayout)
	var f *os.File
	var path string
	for i := range maxNameAttempts {
		name := stamp + ".txt"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.txt", stamp, i)
		}
		path = filepath.Join(dir, name)
		var err error
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create record: %w", err)
		}
	}
	if f == nil {
		return nil, fmt.Errorf("create record: no free name for %s in %s", stamp, dir)
	}

	if videoPath == "" {
		videoPath = noVideo
	}
	var b strings.Builder
	writeField(&b, labelSessionStart, start.Format(headerStampLayout))
	writeField(&b, labelVideoFile, videoPath)
	writeField(&b, labelStartTime, formatFloat(epoch(start)))
	b.WriteByte('\n')

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return nil, fmt.Errorf("write record header: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close record: %w", err)
	}
	return &File{path: path}, nil
}

// Path returns the record location.
func (f *File) Path() string {
	return f.path
}

// Append writes one event entry. A failed append leaves earlier entries
// intact and is not retried.
func (f *File) Append(e engagement.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	out, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open record: %w", err)
	}
	w := bufio.NewWriter(out)
	_, _ = w.WriteString(FormatEvent(e))
	if err := w.Flush(); err != nil {
		out.Close()
		return fmt.Errorf("append record: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return fmt.Errorf("sync record: %w", err)
	}
	return out.Close()
}

// FormatEvent renders one entry including its trailing blank line.
func FormatEvent(e engagement.Event) string {
	var b strings.Builder
	writeField(&b, labelTimestamp, formatFloat(e.Epoch()))
	writeField(&b, labelElapsed, formatFloat(e.ElapsedSeconds())+"s")
	writeField(&b, labelVideoTime, e.VideoTime)
	writeField(&b, labelEvent, string(e.Kind))
	if e.Detail != "" {
		writeField(&b, labelDetails, e.Detail)
	}
	b.WriteByte('\n')
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteByte('\n')
}

func epoch(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
