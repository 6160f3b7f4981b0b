package styles

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Gradient renders bold text with a horizontal color gradient, one color
// step per grapheme cluster.
func Gradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	if len(clusters) == 0 {
		return ""
	}

	steps := Blend(len(clusters), from, to)
	var b strings.Builder
	for i, cluster := range clusters {
		b.WriteString(lipgloss.NewStyle().Foreground(steps[i]).Bold(true).Render(cluster))
	}
	return b.String()
}

// Blend returns n colors from "from" to "to", blended in HCL space. The
// endpoints are returned as given; non-hex colors blend as a neutral gray.
func Blend(n int, from, to lipgloss.Color) []lipgloss.Color {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []lipgloss.Color{from}
	}
	c1 := toColorful(from)
	c2 := toColorful(to)
	out := make([]lipgloss.Color, n)
	out[0], out[n-1] = from, to
	for i := 1; i < n-1; i++ {
		out[i] = lipgloss.Color(c1.BlendHcl(c2, float64(i)/float64(n-1)).Clamped().Hex())
	}
	return out
}

// LevelColor returns the color for an engagement level on a red to green
// scale. Levels are clamped to 1..5.
func (t *Theme) LevelColor(level int) lipgloss.Color {
	level = min(max(level, 1), 5)
	return Blend(5, t.Error, t.Success)[level-1]
}

func toColorful(c lipgloss.Color) colorful.Color {
	if cf, err := colorful.Hex(string(c)); err == nil {
		return cf
	}
	cf, _ := colorful.MakeColor(color.Gray{Y: 128})
	return cf
}
