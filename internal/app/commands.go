package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickCmd returns a command that sends TickMsg after interval.
func TickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WatchEvents returns a command that waits for the next controller
// notification and converts it to a tea.Msg.
func (m Model) WatchEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.Events:
			return EventMsg(e)
		case s := <-sub.StateChanged:
			return StateChangedMsg(s)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}
