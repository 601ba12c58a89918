// Package surface implements the control-surface protocol: it turns raw
// console events into host commands and renders host state back onto the
// console's LCD, LEDs, rings, meters and motor faders.
//
// A Surface is not safe for concurrent use. Every call returns the frames
// it produced in a Result; nothing is written to a port directly.
package surface

import (
	"fmt"
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// SyncTarget selects where console fader sync frames are applied.
type SyncTarget int

const (
	TargetMixer   SyncTarget = iota // mixer track volume/pan
	TargetChannel                   // channel rack volume/pan
)

// Options configures a Surface.
type Options struct {
	Extenders        int
	ExtenderSide     Side
	RowWidth         int
	SyncTarget       SyncTarget
	PreferPanFrames  bool
	BacklightMinutes int
	SmoothSpeed      int
	Clicking         bool
}

// DefaultOptions returns the settings of a standalone console.
func DefaultOptions() Options {
	return Options{
		RowWidth:         DefaultRowWidth,
		BacklightMinutes: 2,
		SmoothSpeed:      defaultSmoothSpeed,
		Clicking:         true,
	}
}

// RefreshFlag selects what Refresh redraws.
type RefreshFlag uint8

const (
	RefreshSelection RefreshFlag = 1 << iota
	RefreshDisplay
	RefreshControls
	RefreshLEDs

	RefreshAll = RefreshSelection | RefreshDisplay | RefreshControls | RefreshLEDs
)

// Surface is the control-surface state machine for one console.
type Surface struct {
	host    Host
	opts    Options
	state   State
	cols    ColumnBank
	free    FreeBank
	codec   Codec
	display *Display
	out     *sink
}

// New creates a Surface bound to host. Call Init before routing events.
func New(host Host, opts Options) *Surface {
	if opts.RowWidth <= 0 {
		opts.RowWidth = DefaultRowWidth
	}
	if opts.Extenders < 0 {
		opts.Extenders = 0
	}
	out := newSink()
	codec := Codec{Width: opts.RowWidth, PreferPan: opts.PreferPanFrames}
	s := &Surface{
		host:    host,
		opts:    opts,
		free:    NewFreeBank(),
		codec:   codec,
		display: newDisplay(codec, out),
		out:     out,
	}
	s.state.ExtenderSide = opts.ExtenderSide
	return s
}

// Init puts the console into a known state and greets the user.
func (s *Surface) Init() Result {
	s.state.FirstTracks[0] = 1
	s.state.FirstTrackIdx = 0
	s.state.SmoothSpeed = s.opts.SmoothSpeed
	s.state.Clicking = s.opts.Clicking
	s.free.Reset()
	s.display.time.Reset()
	s.out.reset()

	s.out.send(TouchlessFrame(true))
	s.out.send(BacklightFrame(byte(s.opts.BacklightMinutes)))
	s.out.send(ClickFrame(s.state.Clicking))
	s.updateMeterMode()
	s.setPage(s.state.Page)
	s.display.SendTemp(fmt.Sprintf("Linked to %s (%s)", s.host.Title(), s.host.Version()), 2000)
	return s.out.take(true)
}

// DeInit blanks the console. A non-zero closedAt leaves a closing note
// on the top row.
func (s *Surface) DeInit(closedAt time.Time) Result {
	for m := 0; m < NumStrips; m++ {
		s.out.send(MeterModeFrame(byte(m), 0))
	}
	text := ""
	if !closedAt.IsZero() {
		text = fmt.Sprintf("%s session closed at %s", s.host.Title(), closedAt.Format(time.ANSIC))
	}
	s.display.sendRow(text, 0)
	s.display.sendRow("", 1)
	s.display.updateTime("")
	s.sendAssignment("  ")
	return s.out.take(true)
}

// Idle runs one display tick: meter levels, the temp-message countdown
// and the time display. Call it every 48ms.
func (s *Surface) Idle() Result {
	s.sendMeters()
	s.display.Tick(s.state.FaderHold() > 0)
	s.display.updateTime(s.host.TimeText())
	return s.out.take(true)
}

// UpdateMeters samples host peak levels into the strips. Levels are sent
// on the next Idle.
func (s *Surface) UpdateMeters() {
	if s.state.Page == PageFree {
		return
	}
	for m := 0; m < NumStrips; m++ {
		col := &s.cols.cols[m]
		level := int(s.host.TrackPeak(col.TrackNum)*float64(s.display.meterMax) + 0.5)
		col.Peak = max(col.Peak, level)
	}
}

// Refresh redraws the parts selected by flags.
func (s *Surface) Refresh(flags RefreshFlag) Result {
	if flags&RefreshSelection != 0 {
		s.updateSelection()
	}
	if flags&RefreshDisplay != 0 {
		s.assignColumns()
		s.updateTextDisplay()
	}
	if flags&RefreshControls != 0 {
		s.refreshControls()
	}
	if flags&RefreshLEDs != 0 {
		s.updateLEDs()
	}
	return s.out.take(true)
}

// Redraw resends the whole console, including everything the
// send-on-change cache would skip. Use it after the console lost its state.
func (s *Surface) Redraw() Result {
	s.out.reset()
	s.display.time.Reset()
	s.cols.MarkDirty(-1)
	for row := 0; row < 2; row++ {
		s.display.sendRow(s.display.Row(row), row)
	}
	s.updateSelection()
	s.refreshControls()
	s.updateLEDs()
	s.display.updateTime(s.host.TimeText())
	return s.out.take(true)
}

// DirtyTrack marks the strips showing track for the next control refresh.
// track < 0 marks every strip.
func (s *Surface) DirtyTrack(track int) {
	s.cols.MarkDirty(track)
}

var beatLevels = [3]byte{0, 0x7F, 0x7F}

// BeatIndicator flashes the play LED. v is 0 (off), 1 (bar) or 2 (beat).
func (s *Surface) BeatIndicator(v int) Result {
	if v < 0 || v >= len(beatLevels) {
		v = 0
	}
	s.out.sendNew(slotBeat, midi.NoteOn(0, notePlay, beatLevels[v]))
	return s.out.take(true)
}

// SendTempMessage shows text for about ms milliseconds. The LCD is
// updated on the next Idle.
func (s *Surface) SendTempMessage(text string, ms int) Result {
	s.display.SendTemp(text, ms)
	return s.out.take(true)
}

// Snapshot is a copy of the surface state for display elsewhere.
type Snapshot struct {
	State       State
	Columns     [NumColumns]Column
	Rows        [2]string
	TempText    string
	Countdown   int
	MeterMode   MeterMode // effective mode
	MeterMax    int
	ActivityMax int
}

// Snapshot copies the current state.
func (s *Surface) Snapshot() Snapshot {
	return Snapshot{
		State:       s.state,
		Columns:     s.cols.cols,
		Rows:        [2]string{s.display.Row(0), s.display.Row(1)},
		TempText:    s.display.TempText(),
		Countdown:   s.display.Countdown(),
		MeterMode:   s.display.Mode(),
		MeterMax:    s.display.MeterMax(),
		ActivityMax: s.display.ActivityMax(),
	}
}

// State returns a copy of the mode and modifier state.
func (s *Surface) State() State { return s.state }

// Column returns a copy of strip i.
func (s *Surface) Column(i int) (Column, bool) {
	col := s.cols.Column(i)
	if col == nil {
		return Column{}, false
	}
	return *col, true
}

// FreeValue returns free slot i.
func (s *Surface) FreeValue(i int) int { return s.free.Get(i) }
