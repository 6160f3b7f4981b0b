// Package cue signals the viewer that an engagement rating is due.
package cue

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/llehouerou/engage/internal/engagement"
)

// Multi fires every configured cue concurrently so a slow notifier never
// delays playback control.
type Multi struct {
	cues []engagement.Cue
	wg   sync.WaitGroup
}

// NewMulti drops nil entries. With no cues left, PlayCue does nothing.
func NewMulti(cues ...engagement.Cue) *Multi {
	m := &Multi{}
	for _, c := range cues {
		if c != nil {
			m.cues = append(m.cues, c)
		}
	}
	return m
}

// Len returns the number of configured cues.
func (m *Multi) Len() int {
	return len(m.cues)
}

// PlayCue implements engagement.Cue.
func (m *Multi) PlayCue() {
	for _, c := range m.cues {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			c.PlayCue()
		}()
	}
}

// Wait blocks until every cue started so far has returned.
func (m *Multi) Wait() {
	m.wg.Wait()
}

func loggerOrDefault(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}
	return l
}
