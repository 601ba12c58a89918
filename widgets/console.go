package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-surface/theme"
)

// CellWidth is the LCD width of one strip.
const CellWidth = 7

// RenderLCD draws the two LCD rows inside a rounded border
func RenderLCD(rows [2]string, width int, fg, border lipgloss.Color) string {
	body := PadRow(rows[0], width) + "\n" + PadRow(rows[1], width)
	return lipgloss.NewStyle().
		Foreground(fg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(body)
}

// PadRow truncates or pads s to exactly w runes
func PadRow(s string, w int) string {
	r := []rune(s)
	if len(r) >= w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

// MeterCells reports which of height segments are lit for a 0-1 level,
// bottom segment first
func MeterCells(level float64, height int) []bool {
	n := int(math.Round(level * float64(height)))
	cells := make([]bool, height)
	for i := range cells {
		cells[i] = i < n
	}
	return cells
}

// RenderMeters draws one vertical meter per strip, top row first
func RenderMeters(levels []float64, height int, th *theme.Theme) string {
	cols := make([][]bool, len(levels))
	for i, l := range levels {
		cols[i] = MeterCells(l, height)
	}
	empty := lipgloss.NewStyle().Foreground(th.Muted())
	colors := th.MeterColors(height)

	var lines []string
	for row := height - 1; row >= 0; row-- {
		lit := lipgloss.NewStyle().Foreground(colors[row])
		var line strings.Builder
		for _, c := range cols {
			cell := empty.Render(string(th.Symbols.MeterEmpty))
			if c[row] {
				cell = lit.Render(string(th.Symbols.MeterFull))
			}
			line.WriteString(center(cell, 1))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderLEDs draws a labelled row of strip LEDs
func RenderLEDs(label string, on []bool, color lipgloss.Color, th *theme.Theme) string {
	litStyle := lipgloss.NewStyle().Foreground(color)
	offStyle := lipgloss.NewStyle().Foreground(th.Muted())

	var line strings.Builder
	for _, o := range on {
		if o {
			line.WriteString(center(litStyle.Render(string(th.Symbols.LEDOn)), 1))
		} else {
			line.WriteString(center(offStyle.Render(string(th.Symbols.LEDOff)), 1))
		}
	}
	line.WriteString(" " + offStyle.Render(label))
	return line.String()
}

// RenderStripNames draws the strip names with a cursor on the focused strip
func RenderStripNames(names []string, cursor int, th *theme.Theme) string {
	normal := lipgloss.NewStyle().Foreground(th.FG())
	focused := lipgloss.NewStyle().Foreground(th.Cursor()).Bold(true)

	var line strings.Builder
	for i, n := range names {
		cell := PadRow(n, CellWidth-1)
		if i == cursor {
			line.WriteString(focused.Render(string(th.Symbols.Cursor) + cell))
		} else {
			line.WriteString(normal.Render(" " + cell))
		}
	}
	return line.String()
}

// center places a rendered cell of visible width w in the middle of a strip
func center(cell string, w int) string {
	left := (CellWidth - w) / 2
	return strings.Repeat(" ", left) + cell + strings.Repeat(" ", CellWidth-w-left)
}
