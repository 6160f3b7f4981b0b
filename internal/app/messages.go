// Package app contains the bubbletea model of the interactive player.
package app

import (
	"time"

	"github.com/llehouerou/engage/internal/engagement"
)

// TickMsg is sent periodically to feed the playback position to the controller.
type TickMsg time.Time

// EventMsg carries an event emitted by the controller.
type EventMsg engagement.Event

// StateChangedMsg is sent after every accepted controller transition.
type StateChangedMsg engagement.StateChange

// ServiceClosedMsg is sent when the controller subscription ends.
type ServiceClosedMsg struct{}
