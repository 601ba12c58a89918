package surface

import (
	"fmt"
	"strconv"
)

type transportCall struct {
	cmd   TransportCmd
	value int
}

type automateCall struct {
	id, value int
	src       Source
}

type syncCall struct {
	kind  string
	index int
	value float64
}

// fakeHost is an in-memory Host that records every command it receives.
type fakeHost struct {
	names    []string
	selected int
	values   map[int]int
	armed    map[int]bool
	solo     map[int]bool
	muted    map[int]bool
	sends    map[[2]int]bool
	peaks    map[int]float64
	freeVals map[int]float64

	playing, recording, minutes bool
	global                      bool
	hint                        string
	timeText                    string

	transport  []transportCall
	automated  []automateCall
	increments map[int]float64
	tempo      []float64
	selections []SelectDomain
	free       []FreeControl
	syncs      []syncCall

	err error
}

func newFakeHost(tracks int) *fakeHost {
	names := make([]string, tracks)
	names[0] = "Master"
	for i := 1; i < tracks; i++ {
		names[i] = fmt.Sprintf("Insert %d", i)
	}
	return &fakeHost{
		names:      names,
		values:     make(map[int]int),
		armed:      make(map[int]bool),
		solo:       make(map[int]bool),
		muted:      make(map[int]bool),
		sends:      make(map[[2]int]bool),
		peaks:      make(map[int]float64),
		freeVals:   make(map[int]float64),
		increments: make(map[int]float64),
	}
}

func (h *fakeHost) TrackCount() int { return len(h.names) }

func (h *fakeHost) TrackName(track int) string {
	if track < 0 || track >= len(h.names) {
		return ""
	}
	return h.names[track]
}

func (h *fakeHost) TrackNumber(name string) int {
	for i, n := range h.names {
		if n == name {
			return i
		}
	}
	return -1
}

func (h *fakeHost) SelectedTrack() int { return h.selected }

func (h *fakeHost) TrackPluginID(track, slot int) int { return track*1000 + slot*100 }

func (h *fakeHost) SendActive(from, to int) bool { return h.sends[[2]int{from, to}] }
func (h *fakeHost) TrackPeak(track int) float64  { return h.peaks[track] }
func (h *fakeHost) TrackArmed(track int) bool    { return h.armed[track] }
func (h *fakeHost) TrackSolo(track int) bool     { return h.solo[track] }
func (h *fakeHost) TrackMuted(track int) bool    { return h.muted[track] }

func (h *fakeHost) EventName(id int) string  { return fmt.Sprintf("event %d", id) }
func (h *fakeHost) EventValue(id int) int    { return h.values[id] }
func (h *fakeHost) SmoothedValue(id int) int { return h.values[id] }
func (h *fakeHost) FormatEventValue(id, value int) string {
	return strconv.Itoa(value)
}

func (h *fakeHost) AutomateEvent(id, value int, src Source, smoothing int) error {
	if h.err != nil {
		return h.err
	}
	h.values[id] = value
	h.automated = append(h.automated, automateCall{id: id, value: value, src: src})
	return nil
}

func (h *fakeHost) IncrementEvent(id int, step float64, smoothing int) error {
	if h.err != nil {
		return h.err
	}
	h.increments[id] += step
	h.values[id] += int(step * HostMax)
	return nil
}

func (h *fakeHost) ToggleArm(track int) error   { h.armed[track] = !h.armed[track]; return h.err }
func (h *fakeHost) ToggleSolo(track int) error  { h.solo[track] = !h.solo[track]; return h.err }
func (h *fakeHost) ToggleMute(track int) error  { h.muted[track] = !h.muted[track]; return h.err }
func (h *fakeHost) SelectTrack(track int) error { h.selected = track; return h.err }

func (h *fakeHost) SetTrackVolume(track int, v float64) error {
	h.syncs = append(h.syncs, syncCall{"volume", track, v})
	return h.err
}

func (h *fakeHost) SetTrackPan(track int, v float64) error {
	h.syncs = append(h.syncs, syncCall{"pan", track, v})
	return h.err
}

func (h *fakeHost) SetChannelVolume(ch int, v float64) error {
	h.syncs = append(h.syncs, syncCall{"channel volume", ch, v})
	return h.err
}

func (h *fakeHost) SetChannelPan(ch int, v float64) error {
	h.syncs = append(h.syncs, syncCall{"channel pan", ch, v})
	return h.err
}

func (h *fakeHost) GlobalTransport(cmd TransportCmd, value int, flags Flags) (bool, error) {
	h.transport = append(h.transport, transportCall{cmd, value})
	return h.global, h.err
}

func (h *fakeHost) Playing() bool   { return h.playing }
func (h *fakeHost) Recording() bool { return h.recording }

func (h *fakeHost) IncrementTempo(step float64, live bool) error {
	h.tempo = append(h.tempo, step)
	return h.err
}

func (h *fakeHost) TempoText() string { return "120.000" }

func (h *fakeHost) ToggleTimeFormat() error {
	h.minutes = !h.minutes
	return h.err
}

func (h *fakeHost) TimeFormatMinutes() bool { return h.minutes }
func (h *fakeHost) TimeText() string        { return h.timeText }

func (h *fakeHost) MoveSelection(domain SelectDomain, step int) (string, error) {
	h.selections = append(h.selections, domain)
	return "thing", h.err
}

func (h *fakeHost) ProcessFreeControl(c FreeControl) error {
	h.free = append(h.free, c)
	return h.err
}

func (h *fakeHost) FreeControlValue(id int) float64 {
	if v, ok := h.freeVals[id]; ok {
		return v
	}
	return -1
}

func (h *fakeHost) HintMessage() string { return h.hint }

func (h *fakeHost) HintValue(value, max int) string {
	return fmt.Sprintf("%d%%", value*100/max)
}

func (h *fakeHost) UndoLevelHint() string  { return "3/10" }
func (h *fakeHost) FocusedCaption() string { return "Mixer" }
func (h *fakeHost) Title() string          { return "Host" }
func (h *fakeHost) Version() string        { return "1.0" }

// newTestSurface returns an initialised surface over a host with n tracks.
func newTestSurface(n int) (*Surface, *fakeHost) {
	h := newFakeHost(n)
	s := New(h, DefaultOptions())
	s.Init()
	return s, h
}

func note(n, vel uint8) Event {
	return Event{Kind: KindNoteOn, Data1: n, Data2: vel, Flags: Flags{System: true}}
}

func press(n uint8) Event   { return note(n, 0x7F) }
func release(n uint8) Event { return note(n, 0) }

func cc(n, v uint8) Event {
	return Event{Kind: KindControlChange, Data1: n, Data2: v, Flags: Flags{System: true}}
}

func bend(ch uint8, raw int) Event {
	return Event{Kind: KindPitchBend, Channel: ch, Data1: uint8(raw & 0x7F), Data2: uint8(raw >> 7 & 0x7F)}
}
