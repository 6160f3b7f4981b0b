package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/engage/internal/engagement"
	"github.com/llehouerou/engage/internal/ui/playerbar"
	"github.com/llehouerou/engage/internal/ui/styles"
)

const (
	minWidth = 30

	promptQuestion = "Please rate your engagement"
	promptLow      = "strongly disagree"
	promptHigh     = "strongly agree"
)

// View renders the player.
func (m Model) View() string {
	t := styles.T()
	st := t.S()
	width := max(m.Width, minWidth)

	sections := []string{
		styles.Gradient("engage", t.Primary, t.Secondary),
		m.bar.Render(playerbar.NewState(m.title, m.snap), width),
	}
	if m.snap.Locked() {
		sections = append(sections, renderPrompt(width))
	}
	if m.lastEvent != nil {
		sections = append(sections, st.Muted.Render(describeEvent(*m.lastEvent)))
	}
	if m.statusLine != "" {
		sections = append(sections, st.Base.Render(m.statusLine))
	}
	if m.errLine != "" {
		sections = append(sections, st.Error.Render(m.errLine))
	}
	sections = append(sections, m.help.View(m.keyMap))

	return strings.Join(sections, "\n")
}

// renderPrompt renders the rating panel shown while playback is locked.
func renderPrompt(width int) string {
	t := styles.T()
	st := t.S()

	levels := make([]string, 0, engagement.MaxLevel)
	for level := engagement.MinLevel; level <= engagement.MaxLevel; level++ {
		levels = append(levels, lipgloss.NewStyle().
			Foreground(t.LevelColor(level)).
			Bold(true).
			Render(strconv.Itoa(level)))
	}
	scale := st.Muted.Render(promptLow) + "  " +
		strings.Join(levels, "  ") + "  " +
		st.Muted.Render(promptHigh)

	body := lipgloss.JoinVertical(lipgloss.Center, promptQuestion, scale)
	return st.Prompt.Width(width - 2).Align(lipgloss.Center).Render(body)
}

func describeEvent(e engagement.Event) string {
	s := "Last: " + string(e.Kind) + " at " + e.VideoTime
	if e.Detail != "" {
		s += " (" + e.Detail + ")"
	}
	return s
}
