package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Console LEDs
	LEDOn    rune // ● lit
	LEDOff   rune // ○ dark
	LEDBlink rune // ◐ blinking (armed while recording)

	// Level meters
	MeterFull  rune // █ lit segment
	MeterEmpty rune // ░ unlit segment

	// Strip cursor
	Cursor rune // ▶ keyboard focus
	Master rune // ◆ master strip
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			LEDOn:    '●',
			LEDOff:   '○',
			LEDBlink: '◐',

			MeterFull:  '█',
			MeterEmpty: '░',

			Cursor: '▶',
			Master: '◆',
		},
	}
}

// Role is a position on the palette ramp (0-1).
type Role float64

const (
	RoleBG      Role = 0.0 // deep purple
	RoleSurface Role = 0.1 // dark purple
	RoleMuted   Role = 0.2 // purple-magenta
	RoleFG      Role = 0.4 // pink-purple (readable)
	RoleAccent  Role = 0.5 // vivid magenta
	RoleCursor  Role = 0.6 // rose pink
	RoleActive  Role = 0.7 // soft red, meter peak
	RoleWarning Role = 0.8 // orange
	RoleSuccess Role = 1.0 // bright yellow, meter floor
)

func (t *Theme) Role(r Role) lipgloss.Color { return t.Color(float64(r)) }

func (t *Theme) BG() lipgloss.Color      { return t.Role(RoleBG) }
func (t *Theme) FG() lipgloss.Color      { return t.Role(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Role(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Role(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Role(RoleActive) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Role(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.Role(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Role(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

// MeterColors returns one colour per meter segment, bottom first, running
// from the success colour up to the active colour.
func (t *Theme) MeterColors(segments int) []lipgloss.Color {
	ramp := t.Palette.Ramp(float64(RoleSuccess), float64(RoleActive), segments)
	out := make([]lipgloss.Color, len(ramp))
	for i, c := range ramp {
		out[i] = rgbToLipgloss(c)
	}
	return out
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
