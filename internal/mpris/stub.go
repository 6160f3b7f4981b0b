//go:build !linux

package mpris

import (
	"github.com/charmbracelet/log"

	"github.com/llehouerou/engage/internal/player"
)

// Adapter does nothing where there is no session D-Bus to publish on.
type Adapter struct {
	c *control
}

// New wires the control layer but never publishes it.
func New(ctl Controller, engine player.Interface, logger *log.Logger) (*Adapter, error) {
	if logger != nil {
		logger.Debug("mpris disabled on this platform")
	}
	return &Adapter{c: newControl(ctl, engine)}, nil
}

// Close is a no-op.
func (a *Adapter) Close() error {
	return nil
}
