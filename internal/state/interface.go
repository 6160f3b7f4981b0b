// internal/state/interface.go
package state

import (
	"time"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/gaze"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	BeginSession(kind SessionKind, mediaPath, recordPath string, start time.Time) (string, error)
	FinishSession(id string, end time.Time) error
	Sink(sessionID string) engagement.Sink
	Events(sessionID string) ([]engagement.Event, error)
	Sessions(limit int) ([]Session, error)
	RecordGazeRun(sessionID string, summary gaze.Summary, dataPath string) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
