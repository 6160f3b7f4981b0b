package eventlog

import (
	"errors"

	"github.com/llehouerou/engage/internal/engagement"
)

// Multi fans an event out to several sinks. Every sink is attempted; the
// failures are joined.
type Multi []engagement.Sink

// Append implements engagement.Sink.
func (m Multi) Append(e engagement.Event) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Append(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
