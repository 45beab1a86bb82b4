package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-crossy/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = func() map[core.Color]lipgloss.Style {
	styles := make(map[core.Color]lipgloss.Style)
	for _, c := range core.Colors() {
		style := lipgloss.NewStyle()
		if code := c.ANSI(); code != "" {
			style = style.Foreground(lipgloss.Color(code))
		}
		styles[c] = style
	}
	return styles
}()

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same color share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := 0; y < s.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// replaceLastLine swaps the final line of a rendered frame. Used for
// widgets that render their own escape sequences, like text inputs.
func replaceLastLine(frame, line string) string {
	i := strings.LastIndexByte(frame, '\n')
	if i < 0 {
		return line
	}
	return frame[:i+1] + line
}
