package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/algoquest/internal/core"
	"github.com/vovakirdan/algoquest/internal/progress"
)

// Palette maps semantic colors to terminal styles.
type Palette map[core.Color]lipgloss.Style

// Colors as {light background, dark background} pairs.
var paletteColors = map[core.Color][2]string{
	core.ColorDim:      {"250", "240"},
	core.ColorPlayer:   {"21", "14"},
	core.ColorActive:   {"28", "10"},
	core.ColorArtifact: {"130", "11"},
	core.ColorResolved: {"90", "13"},
	core.ColorHazard:   {"160", "9"},
	core.ColorAccent:   {"57", "229"},
	core.ColorWarning:  {"166", "208"},
}

// NewPalette builds the palette for a theme. ThemeAuto adapts to the
// terminal background.
func NewPalette(theme progress.Theme) Palette {
	p := Palette{core.ColorDefault: lipgloss.NewStyle()}
	for c, pair := range paletteColors {
		var fg lipgloss.TerminalColor
		switch theme {
		case progress.ThemeLight:
			fg = lipgloss.Color(pair[0])
		case progress.ThemeDark:
			fg = lipgloss.Color(pair[1])
		default:
			fg = lipgloss.AdaptiveColor{Light: pair[0], Dark: pair[1]}
		}
		p[c] = lipgloss.NewStyle().Foreground(fg)
	}
	p[core.ColorPlayer] = p[core.ColorPlayer].Bold(true)
	p[core.ColorAccent] = p[core.ColorAccent].Bold(true)
	return p
}

// Style returns the style for c, falling back to the default style.
func (p Palette) Style(c core.Color) lipgloss.Style {
	if s, ok := p[c]; ok {
		return s
	}
	return p[core.ColorDefault]
}

// RenderScreen converts a screen to styled text. Adjacent cells of the same
// color are rendered as one run.
func (p Palette) RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}
		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}
			sb.WriteString(p.Style(color).Render(run.String()))
		}
	}
	return sb.String()
}
