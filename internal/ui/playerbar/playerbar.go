// Package playerbar renders the player panel: media title, a large clock
// and the progress bar.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/ui/render"
	"github.com/llehouerou/engage/internal/ui/styles"
)

const (
	playSymbol   = "▶"
	pauseSymbol  = "⏸"
	lockedSymbol = "◆"

	unknownTime = "--:--"
)

// State holds everything needed to render the player bar.
type State struct {
	Title    string
	Playing  bool
	Locked   bool
	Position time.Duration
	Duration time.Duration
}

// NewState builds a State from a controller snapshot.
func NewState(title string, snap engagement.Snapshot) State {
	return State{
		Title:    title,
		Playing:  snap.Playback == engagement.Playing,
		Locked:   snap.Locked(),
		Position: engagement.Seconds(snap.Position),
		Duration: engagement.Seconds(snap.Duration),
	}
}

// Ratio returns the played fraction, zero when the duration is unknown.
func (s State) Ratio() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return min(max(float64(s.Position)/float64(s.Duration), 0), 1)
}

// Status returns the symbol and label for the playback state.
func (s State) Status() (symbol, label string) {
	switch {
	case s.Locked:
		return lockedSymbol, "Waiting for rating"
	case s.Playing:
		return playSymbol, "Playing"
	default:
		return pauseSymbol, "Paused"
	}
}

// Bar renders progress bars at a given width.
type Bar struct {
	model progress.Model
}

// NewBar creates a progress bar using the theme's accent gradient.
func NewBar() Bar {
	t := styles.T()
	return Bar{model: progress.New(
		progress.WithGradient(string(t.FgSubtle), string(t.Primary)),
		progress.WithoutPercentage(),
	)}
}

// Render returns the framed player panel for the given outer width.
func (b Bar) Render(s State, width int) string {
	st := styles.T().S()
	inner := max(width-4, 10) // border + padding

	symbol, label := s.Status()
	statusStyle := st.Paused
	switch {
	case s.Locked:
		statusStyle = st.Warning
	case s.Playing:
		statusStyle = st.Playing
	}
	status := statusStyle.Render(symbol + " " + label)

	title := s.Title
	if title == "" {
		title = "No media"
	}
	title = render.Truncate(title, max(inner-lipgloss.Width(status)-1, 1))
	header := render.Row(st.Title.Render(title), status, inner)

	clock := render.Center(st.Clock.Render(engagement.FormatTime(s.Position)), inner)

	times := engagement.FormatTime(s.Position) + " / " + formatTotal(s.Duration)
	barWidth := inner - lipgloss.Width(times) - 2
	var line string
	if barWidth < 5 {
		line = times
	} else {
		b.model.Width = barWidth
		line = b.model.ViewAs(s.Ratio()) + "  " + st.Muted.Render(times)
	}

	return st.Panel.Width(width - 2).Render(strings.Join([]string{header, "", clock, "", line}, "\n"))
}

func formatTotal(d time.Duration) string {
	if d <= 0 {
		return unknownTime
	}
	return engagement.FormatTime(d)
}
