package gaze

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dataPrefix      = "eye_tracking_data_"
	stampLayout     = "2006-01-02_15-04-05"
	maxNameAttempts = 100
)

var csvHeader = []string{"timestamp", "x", "y", "lost"}

// WriteCSV writes samples with a header row. Timestamps are fractional
// unix seconds.
func WriteCSV(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		err := cw.Write([]string{
			strconv.FormatFloat(unixSeconds(s.Timestamp), 'f', -1, 64),
			strconv.FormatFloat(s.X, 'f', -1, 64),
			strconv.FormatFloat(s.Y, 'f', -1, 64),
			strconv.FormatBool(s.Lost),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Manifest is written next to the CSV and describes the run.
type Manifest struct {
	DataFile  string        `yaml:"data_file"`
	Samples   int           `yaml:"samples"`
	Lost      int           `yaml:"lost"`
	RateHz    float64       `yaml:"rate_hz"`
	Started   time.Time     `yaml:"started"`
	Stopped   time.Time     `yaml:"stopped"`
	Duration  time.Duration `yaml:"duration"`
	SessionID string        `yaml:"session_id,omitempty"`
}

// Run holds the paths written by SaveRun.
type Run struct {
	DataPath     string
	ManifestPath string
	Summary      Summary
}

// SaveRun writes the session samples and manifest into dir. Existing files
// are never overwritten: when the stamp is taken a -N suffix is added, and
// both files share the same stem.
func SaveRun(dir string, s *Session, sessionID string) (Run, error) {
	summary := s.Summary()
	stamp := summary.Stopped
	if stamp.IsZero() {
		stamp = time.Now()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Run{}, fmt.Errorf("create gaze dir: %w", err)
	}
	data, manifest, err := createRunFiles(dir, dataPrefix+stamp.Format(stampLayout))
	if err != nil {
		return Run{}, fmt.Errorf("save gaze data: %w", err)
	}
	run := Run{
		DataPath:     data.Name(),
		ManifestPath: manifest.Name(),
		Summary:      summary,
	}

	if err := writeAndClose(data, func(w io.Writer) error {
		return WriteCSV(w, s.Samples())
	}); err != nil {
		manifest.Close()
		return Run{}, fmt.Errorf("save gaze data: %w", err)
	}

	m := Manifest{
		DataFile:  filepath.Base(run.DataPath),
		Samples:   summary.Samples,
		Lost:      summary.Lost,
		RateHz:    summary.RateHz,
		Started:   summary.Started,
		Stopped:   summary.Stopped,
		Duration:  summary.Duration(),
		SessionID: sessionID,
	}
	if err := writeAndClose(manifest, func(w io.Writer) error {
		enc := yaml.NewEncoder(w)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	}); err != nil {
		return Run{}, fmt.Errorf("save gaze manifest: %w", err)
	}
	return run, nil
}

// createRunFiles exclusively creates <stem>.csv and <stem>.yaml, trying
// <base>, <base>-1, <base>-2 and so on until neither name is taken.
func createRunFiles(dir, base string) (data, manifest *os.File, err error) {
	for i := range maxNameAttempts {
		stem := base
		if i > 0 {
			stem = fmt.Sprintf("%s-%d", base, i)
		}
		data, err = createExclusive(filepath.Join(dir, stem+".csv"))
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		manifest, err = createExclusive(filepath.Join(dir, stem+".yaml"))
		if err == nil {
			return data, manifest, nil
		}
		data.Close()
		_ = os.Remove(data.Name())
		if !errors.Is(err, os.ErrExist) {
			return nil, nil, err
		}
	}
	return nil, nil, fmt.Errorf("no free name for %s in %s", base, dir)
}

// ReadManifest loads a manifest written by SaveRun.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	err = yaml.Unmarshal(data, &m)
	return m, err
}

func unixSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/float64(time.Second)
}

func createExclusive(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

func writeAndClose(f *os.File, write func(io.Writer) error) error {
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
