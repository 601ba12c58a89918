package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"go-surface/host"
	"go-surface/surface"
)

func TestTurnEvent(t *testing.T) {
	for _, tt := range []struct {
		delta int
		want  uint8
	}{
		{1, 0x01},
		{5, 0x05},
		{-1, 0x41},
		{-3, 0x43},
	} {
		ev := turnEvent(ccJog, tt.delta)
		if ev.Kind != surface.KindControlChange || ev.Data1 != ccJog || ev.Data2 != tt.want {
			t.Errorf("turnEvent(%d) = %+v", tt.delta, ev)
		}
		if got := surface.DecodeRelative(ev.Data2); got != tt.delta {
			t.Errorf("decoded %d, want %d", got, tt.delta)
		}
	}
}

func TestFaderEvents(t *testing.T) {
	evs := faderEvents(2, 0x1234)
	if len(evs) != 3 {
		t.Fatalf("got %d events", len(evs))
	}
	if evs[0].Data1 != 0x6A || evs[0].Data2 == 0 || evs[2].Data2 != 0 {
		t.Errorf("touch events = %+v / %+v", evs[0], evs[2])
	}
	bend := evs[1]
	if bend.Kind != surface.KindPitchBend || bend.Channel != 2 || int(bend.Data1)|int(bend.Data2)<<7 != 0x1234 {
		t.Errorf("bend = %+v", bend)
	}

	if b := faderEvents(0, surface.RawMax+500)[1]; int(b.Data1)|int(b.Data2)<<7 != surface.RawMax {
		t.Errorf("fader not clamped: %+v", b)
	}
	if b := faderEvents(0, -10)[1]; b.Data1 != 0 || b.Data2 != 0 {
		t.Errorf("fader not clamped at zero: %+v", b)
	}
}

func TestPressEvents(t *testing.T) {
	evs := pressEvents(0x5E)
	if len(evs) != 2 || evs[0].Data2 != velocityPressed || evs[1].Data2 != 0 {
		t.Errorf("press = %+v", evs)
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestKeyNotes(t *testing.T) {
	k := defaultKeyMap()
	for _, tt := range []struct {
		msg   tea.KeyMsg
		strip int
		want  uint8
		ok    bool
	}{
		{runeKey('s'), 0, 0x5D, true},
		{runeKey(']'), 3, 0x2F, true},
		{runeKey('3'), 0, 0x2A, true},
		{runeKey('a'), 0, 0x00, true},
		{runeKey('o'), 5, 0x0D, true},
		{runeKey('m'), 7, 0x17, true},
		{runeKey('k'), 2, 0x22, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, 1, 0x19, true},
		{runeKey('z'), 0, 0, false},
	} {
		got, ok := k.note(tt.msg, tt.strip)
		if got != tt.want || ok != tt.ok {
			t.Errorf("note(%q, %d) = %#x, %v; want %#x, %v", tt.msg.String(), tt.strip, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFullHelpCoversButtons(t *testing.T) {
	k := defaultKeyMap()
	n := 0
	for _, group := range k.FullHelp() {
		n += len(group)
	}
	if want := len(k.buttons) + 12; n != want {
		t.Errorf("full help has %d bindings, want %d", n, want)
	}
	if !key.Matches(tea.KeyMsg{Type: tea.KeyCtrlR}, k.Redraw) {
		t.Error("ctrl+r does not redraw")
	}
	for _, b := range k.ShortHelp() {
		if b.Help().Key == "" {
			t.Error("short help has an empty binding")
		}
	}
}

func TestKeyboardEventsReachHost(t *testing.T) {
	h := host.New(host.DefaultOptions())
	s := surface.New(h, surface.DefaultOptions())
	s.Init()

	handle := func(name string, ev surface.Event) {
		t.Helper()
		res, err := s.Handle(ev)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !res.Handled {
			t.Errorf("%s: %s not handled", name, ev)
		}
	}

	for _, ev := range pressEvents(0x5E) {
		handle("play", ev)
	}
	if !h.Playing() {
		t.Error("play key did not start the host")
	}

	handle("shift", shiftEvent(true))
	if !s.State().Shift {
		t.Error("shift not latched")
	}
	handle("shift", shiftEvent(false))

	evs := faderEvents(0, 4000)
	handle("touch", evs[0])
	if s.State().FaderHold() != 1 {
		t.Errorf("fader hold = %d after touch", s.State().FaderHold())
	}
	handle("bend", evs[1])
	handle("release", evs[2])
	if s.State().FaderHold() != 0 {
		t.Errorf("fader hold = %d after release", s.State().FaderHold())
	}

	handle("jog", turnEvent(ccJog, 1))
}
