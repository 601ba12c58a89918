package surface

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// Kind classifies an inbound surface message.
type Kind int

const (
	KindSysEx Kind = iota
	KindControlChange
	KindPitchBend
	KindNoteOn
	KindNoteOff
)

func (k Kind) String() string {
	switch k {
	case KindSysEx:
		return "sysex"
	case KindControlChange:
		return "cc"
	case KindPitchBend:
		return "pitchbend"
	case KindNoteOn:
		return "noteon"
	case KindNoteOff:
		return "noteoff"
	}
	return "unknown"
}

// Flags carries the host's processing flags for an event.
type Flags struct {
	System    bool // event arrived through normal system processing
	LiveInput bool // event comes from a player, not playback
}

// Event is one inbound message from the surface. It is never mutated by
// the router.
type Event struct {
	Kind    Kind
	Channel uint8
	Data1   uint8
	Data2   uint8
	SysEx   []byte // payload without F0/F7
	Flags   Flags
}

func (e Event) String() string {
	if e.Kind == KindSysEx {
		return fmt.Sprintf("sysex % X", e.SysEx)
	}
	return fmt.Sprintf("%s ch=%d d1=0x%02X d2=0x%02X", e.Kind, e.Channel, e.Data1, e.Data2)
}

// press reports whether a button event is a press rather than a release.
func (e Event) press() bool {
	return e.Kind == KindNoteOn && e.Data2 > 0
}

// FromMessage converts a raw MIDI message into an Event. Messages the
// surface never sends (clock, program change, ...) return false.
func FromMessage(msg midi.Message, flags Flags) (Event, bool) {
	var ch, d1, d2 uint8
	var bt []byte
	var rel int16
	var abs uint16

	switch {
	case msg.GetSysEx(&bt):
		return Event{Kind: KindSysEx, SysEx: bt, Flags: flags}, true
	case msg.GetControlChange(&ch, &d1, &d2):
		return Event{Kind: KindControlChange, Channel: ch, Data1: d1, Data2: d2, Flags: flags}, true
	case msg.GetPitchBend(&ch, &rel, &abs):
		return Event{Kind: KindPitchBend, Channel: ch, Data1: uint8(abs & 0x7F), Data2: uint8(abs >> 7), Flags: flags}, true
	case msg.GetNoteOn(&ch, &d1, &d2):
		return Event{Kind: KindNoteOn, Channel: ch, Data1: d1, Data2: d2, Flags: flags}, true
	case msg.GetNoteOff(&ch, &d1, &d2):
		return Event{Kind: KindNoteOff, Channel: ch, Data1: d1, Data2: d2, Flags: flags}, true
	}
	return Event{}, false
}

// Dispatch is a message forwarded to an extender unit.
type Dispatch struct {
	Receiver int
	Msg      midi.Message
}

// Result is everything one call into the surface produced.
type Result struct {
	Handled  bool
	Out      []midi.Message // frames for the surface
	Dispatch []Dispatch     // frames for extenders
	Hints    []string       // temp messages shown on the LCD
}

// Empty reports whether the call produced no output at all.
func (r Result) Empty() bool {
	return len(r.Out) == 0 && len(r.Dispatch) == 0 && len(r.Hints) == 0
}

// sink collects output for the call in progress and remembers the last
// frame sent per slot so unchanged LEDs, rings and faders are not resent.
type sink struct {
	msgs     []midi.Message
	dispatch []Dispatch
	hints    []string
	last     map[int]midi.Message
}

func newSink() *sink {
	return &sink{last: make(map[int]midi.Message)}
}

func (k *sink) send(msg midi.Message) {
	k.msgs = append(k.msgs, msg)
}

// sendNew sends msg only if it differs from what slot last carried.
func (k *sink) sendNew(slot int, msg midi.Message) {
	if prev, ok := k.last[slot]; ok && string(prev) == string(msg) {
		return
	}
	k.last[slot] = msg
	k.msgs = append(k.msgs, msg)
}

func (k *sink) forward(receiver int, msg midi.Message) {
	k.dispatch = append(k.dispatch, Dispatch{Receiver: receiver, Msg: msg})
}

func (k *sink) hint(text string) {
	k.hints = append(k.hints, text)
}

// reset forgets the send-on-change cache so the next refresh resends all.
func (k *sink) reset() {
	k.last = make(map[int]midi.Message)
}

func (k *sink) take(handled bool) Result {
	r := Result{Handled: handled, Out: k.msgs, Dispatch: k.dispatch, Hints: k.hints}
	k.msgs, k.dispatch, k.hints = nil, nil, nil
	return r
}
