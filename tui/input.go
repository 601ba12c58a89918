package tui

import "go-surface/surface"

const (
	ccKnobFirst     = 0x10
	ccJog           = 0x3C
	noteShift       = 0x54
	noteTouchFirst  = 0x68
	faderStep       = 512
	velocityPressed = 0x7F
)

// keyboard marks simulated input as live, system-processed events.
var keyboard = surface.Flags{System: true, LiveInput: true}

// pressEvents is a button press and release.
func pressEvents(note uint8) []surface.Event {
	return []surface.Event{
		{Kind: surface.KindNoteOn, Data1: note, Data2: velocityPressed, Flags: keyboard},
		{Kind: surface.KindNoteOn, Data1: note, Data2: 0, Flags: keyboard},
	}
}

// turnEvent is one relative step of a knob or the jog wheel.
func turnEvent(cc uint8, delta int) surface.Event {
	v := uint8(delta)
	if delta < 0 {
		v = 0x40 | uint8(-delta)
	}
	return surface.Event{Kind: surface.KindControlChange, Data1: cc, Data2: v, Flags: keyboard}
}

// faderEvents touches a fader, moves it to raw and lets go.
func faderEvents(strip, raw int) []surface.Event {
	raw = min(max(raw, 0), surface.RawMax)
	touch := uint8(noteTouchFirst + strip)
	return []surface.Event{
		{Kind: surface.KindNoteOn, Data1: touch, Data2: velocityPressed, Flags: keyboard},
		{Kind: surface.KindPitchBend, Channel: uint8(strip), Data1: uint8(raw & 0x7F), Data2: uint8(raw >> 7), Flags: keyboard},
		{Kind: surface.KindNoteOn, Data1: touch, Data2: 0, Flags: keyboard},
	}
}

func shiftEvent(on bool) surface.Event {
	ev := surface.Event{Kind: surface.KindNoteOn, Data1: noteShift, Flags: keyboard}
	if on {
		ev.Data2 = velocityPressed
	}
	return ev
}
