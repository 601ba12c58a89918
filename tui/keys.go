package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key makes a binding whose help shows the first key.
func Key(help string, keyboardKey ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keyboardKey...), key.WithHelp(keyboardKey[0], help))
}

// button is a key that presses a console button. Strip buttons add the
// focused strip to the note.
type button struct {
	binding key.Binding
	note    uint8
	strip   bool
}

type keyMap struct {
	Quit      key.Binding
	Help      key.Binding
	NextStrip key.Binding
	PrevStrip key.Binding
	JogLeft   key.Binding
	JogRight  key.Binding
	KnobUp    key.Binding
	KnobDown  key.Binding
	FaderUp   key.Binding
	FaderDown key.Binding
	Shift     key.Binding
	Redraw    key.Binding

	buttons []button
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:      Key("quit", "q", "ctrl+c"),
		Help:      Key("help", "?"),
		NextStrip: Key("next strip", "tab"),
		PrevStrip: Key("prev strip", "shift+tab"),
		JogLeft:   Key("jog back", "left"),
		JogRight:  Key("jog forward", "right"),
		KnobUp:    Key("knob up", "up"),
		KnobDown:  Key("knob down", "down"),
		FaderUp:   Key("fader up", "+", "="),
		FaderDown: Key("fader down", "-", "_"),
		Shift:     Key("toggle shift", "S"),
		Redraw:    Key("redraw console", "ctrl+r"),

		buttons: []button{
			{Key("play", " ", "space"), 0x5E, false},
			{Key("stop", "s"), 0x5D, false},
			{Key("record", "r"), 0x5F, false},
			{Key("rewind", ","), 0x5B, false},
			{Key("forward", "."), 0x5C, false},
			{Key("bank left", "["), 0x2E, false},
			{Key("bank right", "]"), 0x2F, false},
			{Key("track left", "{"), 0x30, false},
			{Key("track right", "}"), 0x31, false},
			{Key("pan page", "1"), 0x28, false},
			{Key("stereo page", "2"), 0x29, false},
			{Key("sends page", "3"), 0x2A, false},
			{Key("effects page", "4"), 0x2B, false},
			{Key("EQ page", "5"), 0x2C, false},
			{Key("free page", "6"), 0x2D, false},
			{Key("flip", "f"), 0x32, false},
			{Key("smoothing", "c"), 0x33, false},
			{Key("meter mode", "d"), 0x34, false},
			{Key("time format", "t"), 0x35, false},
			{Key("undo jog", "u"), 0x3C, false},
			{Key("tempo jog", "x"), 0x41, false},
			{Key("move jog", "v"), 0x46, false},
			{Key("marker jog", "n"), 0x48, false},
			{Key("window jog", "w"), 0x4C, false},
			{Key("arm", "a"), 0x00, true},
			{Key("solo", "o"), 0x08, true},
			{Key("mute", "m"), 0x10, true},
			{Key("select", "enter"), 0x18, true},
			{Key("knob press", "k"), 0x20, true},
		},
	}
}

// note returns the console note a key presses.
func (k keyMap) note(msg tea.KeyMsg, strip int) (uint8, bool) {
	for _, b := range k.buttons {
		if key.Matches(msg, b.binding) {
			if b.strip {
				return b.note + uint8(strip), true
			}
			return b.note, true
		}
	}
	return 0, false
}

func (k keyMap) button(help string) key.Binding {
	for _, b := range k.buttons {
		if b.binding.Help().Desc == help {
			return b.binding
		}
	}
	return key.Binding{}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.button("play"), k.button("stop"), k.JogLeft, k.KnobUp, k.FaderUp, k.NextStrip, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	var transport, pages, modes, strip []key.Binding
	for _, b := range k.buttons {
		switch {
		case b.strip:
			strip = append(strip, b.binding)
		case b.note >= 0x5B:
			transport = append(transport, b.binding)
		case b.note >= 0x28 && b.note <= 0x2D:
			pages = append(pages, b.binding)
		default:
			modes = append(modes, b.binding)
		}
	}
	strip = append(strip, k.NextStrip, k.PrevStrip, k.KnobUp, k.KnobDown, k.FaderUp, k.FaderDown)
	transport = append(transport, k.JogLeft, k.JogRight, k.Shift)
	return [][]key.Binding{transport, pages, modes, strip, {k.Redraw, k.Help, k.Quit}}
}
