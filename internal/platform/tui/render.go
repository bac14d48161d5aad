package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-duel/internal/core"
)

// Palette holds one lipgloss style per semantic cell color.
type Palette [core.ColorCue + 1]lipgloss.Style

func fg(c string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

// DefaultPalette is the ANSI 256 palette of the arena view.
var DefaultPalette = Palette{
	core.ColorDefault: lipgloss.NewStyle(),
	core.ColorText:    fg("15"),
	core.ColorMuted:   fg("245"),
	core.ColorWall:    fg("240"),
	core.ColorGood:    fg("10").Bold(true),
	core.ColorBad:     fg("9").Bold(true),
	core.ColorWarn:    fg("11"),
	core.ColorAim:     fg("208"),
	core.ColorInfo:    fg("14"),
	core.ColorCue:     fg("13"),
}

func (p *Palette) style(c core.Color) lipgloss.Style {
	if int(c) >= len(p) {
		return p[core.ColorDefault]
	}
	return p[c]
}

// Render converts a Screen buffer to a styled string. Runs of cells with
// the same color share one escape sequence.
func (p *Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			color := s.GetCell(x, y).Color
			run.Reset()
			for ; x < s.Width(); x++ {
				cell := s.GetCell(x, y)
				if cell.Color != color {
					break
				}
				run.WriteRune(cell.Rune)
			}
			sb.WriteString(p.style(color).Render(run.String()))
		}
	}
	return sb.String()
}
