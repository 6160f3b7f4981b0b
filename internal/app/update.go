package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/errmsg"
	"github.com/llehouerou/engage/internal/keymap"
)

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case TickMsg:
		return m.handleTick()
	case EventMsg:
		e := engagement.Event(msg)
		m.lastEvent = &e
		m.refresh()
		return m, m.WatchEvents()
	case StateChangedMsg:
		m.refresh()
		return m, m.WatchEvents()
	case ServiceClosedMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	err := m.ctl.Tick(m.engine.Position(), m.engine.Duration())
	m.setError(errmsg.OpTick, err)
	m.refresh()
	return m, TickCmd(m.interval)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	locked := m.ctl.Snapshot().Prompt == engagement.AwaitingRating

	switch m.keys.Resolve(key, keymap.Active(locked)...) { //nolint:exhaustive // unbound keys are ignored
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	case keymap.ActionStatus:
		report := engagement.TimeReport(m.engine.Position(), m.engine.Duration())
		m.statusLine = strings.ReplaceAll(report, "\n", "   ")
	case keymap.ActionPlayPause:
		accepted, err := m.ctl.Toggle()
		m.commandResult(errmsg.OpToggle, accepted, err)
	case keymap.ActionRequestRating:
		accepted, err := m.ctl.RequestRating()
		m.commandResult(errmsg.OpRequestRating, accepted, err)
	case keymap.ActionRate:
		accepted, err := m.ctl.RateKey(key)
		m.commandResult(errmsg.OpRate, accepted, err)
		if accepted && m.onRated != nil {
			m.onRated()
		}
	}
	m.refresh()
	return m, nil
}

// commandResult clears a stale error once a command goes through.
func (m *Model) commandResult(op errmsg.Op, accepted bool, err error) {
	if accepted && err == nil {
		m.errLine = ""
	}
	m.setError(op, err)
}

func (m *Model) setError(op errmsg.Op, err error) {
	if err == nil {
		return
	}
	m.errLine = errmsg.Format(op, err)
	m.logger.Error("command failed", "op", op, "err", err)
}
