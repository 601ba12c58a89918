package surface

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// Handle routes one inbound event. Events the surface does not recognise
// come back with Handled false and produce no side effects. Host errors
// are returned as they are; output produced before the error is kept.
func (s *Surface) Handle(ev Event) (Result, error) {
	var handled bool
	var err error

	switch ev.Kind {
	case KindSysEx:
		handled, err = true, s.handleSysEx(ev.SysEx)
	case KindControlChange:
		handled, err = s.handleCC(ev)
	case KindPitchBend:
		handled, err = s.handleFader(ev)
	case KindNoteOn, KindNoteOff:
		handled, err = s.handleNote(ev)
	}
	return s.out.take(handled), err
}

func (s *Surface) handleSysEx(frame []byte) error {
	sync, ok := s.codec.Decode(frame)
	if !ok {
		return nil
	}
	toChannel := s.opts.SyncTarget == TargetChannel
	switch sync.Kind {
	case SyncFader:
		if toChannel {
			return s.host.SetChannelVolume(sync.Channel, sync.Value)
		}
		return s.host.SetTrackVolume(sync.Channel, sync.Value)
	case SyncPan:
		if toChannel {
			return s.host.SetChannelPan(sync.Channel, sync.Value)
		}
		return s.host.SetTrackPan(sync.Channel, sync.Value)
	case SyncMaster:
		return s.host.SetTrackVolume(max(s.host.TrackNumber("Master"), 0), sync.Value)
	}
	return nil
}

func (s *Surface) handleCC(ev Event) (bool, error) {
	if ev.Channel != 0 {
		return false, nil
	}
	delta := DecodeRelative(ev.Data2)
	switch {
	case ev.Data1 == ccJog:
		return true, s.jog(delta, ev.Flags)
	case ev.Data1 >= ccKnobFirst && ev.Data1 <= ccKnobLast:
		i := int(ev.Data1 - ccKnobFirst)
		if s.state.Page == PageFree {
			return true, s.turnFreeKnob(i, delta)
		}
		return true, s.setKnobValue(i, delta)
	}
	return false, nil
}

func (s *Surface) turnFreeKnob(i, delta int) error {
	col := &s.cols.cols[i]
	col.Peak = s.display.activityMax
	id := col.BaseEventID + btoi(col.KnobHeld)
	s.display.SendTemp(fmt.Sprintf("Free knob %d: %c", id, stepGlyph(delta)), 500)
	err := s.host.ProcessFreeControl(FreeControl{ID: id, Value: delta, Increment: true})
	s.updateCol(i)
	return err
}

func (s *Surface) setKnobValue(i, delta int) error {
	col := &s.cols.cols[i]
	if col.KnobEventID < 0 || col.KnobMode >= RingOff {
		return nil
	}
	if err := s.host.IncrementEvent(col.KnobEventID, KnobStep(delta), s.state.SmoothSpeed); err != nil {
		return err
	}
	s.hintValue(col.KnobName, col.KnobEventID)
	s.updateCol(i)
	return nil
}

func (s *Surface) handleFader(ev Event) (bool, error) {
	ch := int(ev.Channel)
	if ch >= NumColumns {
		return false, nil
	}
	raw := int(ev.Data1&0x7F) | int(ev.Data2&0x7F)<<7
	col := &s.cols.cols[ch]

	if s.state.Page == PageFree {
		col.Peak = s.display.activityMax
		s.free.Set(col.TrackNum, raw)
		id := col.BaseEventID + 7
		value := (raw << 16) / RawMax
		s.display.SendTemp(fmt.Sprintf("Free slider %d: %s", id, s.host.HintValue(value, freeScale)), 500)
		err := s.host.ProcessFreeControl(FreeControl{ID: id, Value: value})
		s.updateCol(ch)
		return true, err
	}

	if col.SliderEventID < 0 {
		return false, nil
	}
	if err := s.host.AutomateEvent(col.SliderEventID, RawToHostLevel(raw), SourceMIDIController, s.state.SmoothSpeed); err != nil {
		return true, err
	}
	s.hintValue(col.SliderName, col.SliderEventID)
	return true, nil
}

// hintValue shows "<name>: <formatted smoothed value>".
func (s *Surface) hintValue(name string, id int) {
	v := s.host.SmoothedValue(id)
	if txt := s.host.FormatEventValue(id, v); txt != "" {
		name += ": " + txt
	}
	s.display.SendTemp(name, 500)
}

type noteHandler func(s *Surface, ev Event) error

// noteHandlers maps every button note the surface understands.
var noteHandlers = buildNoteHandlers()

func buildNoteHandlers() map[uint8]noteHandler {
	t := map[uint8]noteHandler{
		noteShift:       (*Surface).onShift,
		noteScrub:       (*Surface).onScrub,
		noteFlip:        (*Surface).onFlip,
		noteSmoothing:   (*Surface).onSmoothing,
		noteDisplayMode: (*Surface).onDisplayMode,
		noteTimeFormat:  (*Surface).onTimeFormat,
		noteBankLeft:    (*Surface).onBank,
		noteBankRight:   (*Surface).onBank,
		noteTrackLeft:   (*Surface).onTrackStep,
		noteTrackRight:  (*Surface).onTrackStep,
		noteRewind:      (*Surface).onTransport,
		noteForward:     (*Surface).onTransport,
		noteStop:        (*Surface).onTransport,
		notePlay:        (*Surface).onTransport,
		noteRecord:      (*Surface).onTransport,
	}
	for n := 0; n < numPages; n++ {
		t[uint8(notePageFirst+n)] = (*Surface).onPage
	}
	for n := noteUp; n <= noteRight; n++ {
		t[uint8(n)] = (*Surface).onArrow
	}
	for _, src := range jogSources {
		t[uint8(src)] = (*Surface).onJogSource
	}
	for n := 0; n < NumStrips; n++ {
		t[uint8(noteArmFirst+n)] = (*Surface).onStripButton
		t[uint8(noteSoloFirst+n)] = (*Surface).onStripButton
		t[uint8(noteMuteFirst+n)] = (*Surface).onStripButton
		t[uint8(noteSelectFirst+n)] = (*Surface).onStripButton
		t[uint8(noteKnobPressFirst+n)] = (*Surface).onKnobPress
	}
	for n := noteFaderTouchFirst; n <= noteFaderTouchLast; n++ {
		t[uint8(n)] = (*Surface).onFaderTouch
	}
	return t
}

var transportNotes = map[uint8]TransportCmd{
	noteRewind:  CmdRewind,
	noteForward: CmdFastForward,
	noteStop:    CmdStop,
	notePlay:    CmdPlay,
	noteRecord:  CmdRecord,
}

func (s *Surface) handleNote(ev Event) (bool, error) {
	if ev.Kind == KindNoteOff {
		ev.Kind, ev.Data2 = KindNoteOn, 0
	}
	if !ev.Flags.System {
		return false, nil
	}
	if s.state.Shift && ev.Data1 >= noteF1 && ev.Data1 <= noteF8 {
		cmd := CmdF1 + TransportCmd(ev.Data1-noteF1)
		_, err := s.host.GlobalTransport(cmd, pressValue(ev), ev.Flags)
		return true, err
	}
	h, ok := noteHandlers[ev.Data1]
	if !ok {
		return false, nil
	}
	return true, h(s, ev)
}

// pressValue is the transport value for a button: 2 pressed, 0 released.
func pressValue(ev Event) int {
	return btoi(ev.Data2 > 0) * 2
}

// echo lights the button's own LED with the incoming velocity.
func (s *Surface) echo(ev Event) {
	msg := midi.NoteOn(0, ev.Data1, ev.Data2)
	s.out.last[int(ev.Data1)] = msg
	s.out.send(msg)
}

// forward repeats a button press to every extender.
func (s *Surface) forward(ev Event) {
	for n := 0; n < s.opts.Extenders; n++ {
		s.out.forward(n, midi.NoteOn(0, ev.Data1, ev.Data2))
	}
}

func (s *Surface) onShift(ev Event) error {
	s.state.Shift = ev.Data2 > 0
	s.echo(ev)
	return nil
}

func (s *Surface) onScrub(ev Event) error {
	if ev.press() {
		s.state.Scrub = !s.state.Scrub
		s.updateLEDs()
	}
	return nil
}

func (s *Surface) onFlip(ev Event) error {
	if !ev.press() {
		return nil
	}
	s.state.Flip = !s.state.Flip
	s.forward(ev)
	s.assignColumns()
	s.updateLEDs()
	return nil
}

func (s *Surface) onSmoothing(ev Event) error {
	if !ev.press() {
		return nil
	}
	if s.state.Shift {
		s.state.Clicking = !s.state.Clicking
		s.out.send(ClickFrame(s.state.Clicking))
		s.display.SendTemp("Button clicking "+onOff(s.state.Clicking), 1000)
		return nil
	}
	if s.state.SmoothSpeed == 0 {
		s.state.SmoothSpeed = defaultSmoothSpeed
	} else {
		s.state.SmoothSpeed = 0
	}
	s.updateLEDs()
	s.display.SendTemp("Control smoothing "+onOff(s.state.SmoothSpeed > 0), 1000)
	return nil
}

func (s *Surface) onDisplayMode(ev Event) error {
	if !ev.press() {
		return nil
	}
	if s.state.Shift {
		s.state.ExtenderSide = 1 - s.state.ExtenderSide
		s.state.FirstTracks[s.state.FirstTrackIdx] = 1
		s.setPage(s.state.Page)
		s.display.SendTemp("Extender on "+s.state.ExtenderSide.String(), 1500)
		return nil
	}
	s.state.MeterMode = (s.state.MeterMode + 1) % numMeterModes
	s.display.SendTemp(s.state.MeterMode.String(), 1000)
	s.updateMeterMode()
	s.forward(ev)
	return nil
}

func (s *Surface) onTimeFormat(ev Event) error {
	if !ev.press() {
		return nil
	}
	if err := s.host.ToggleTimeFormat(); err != nil {
		return err
	}
	s.updateLEDs()
	return nil
}

func (s *Surface) onBank(ev Event) error {
	return s.stepBank(ev, NumStrips)
}

func (s *Surface) onTrackStep(ev Event) error {
	return s.stepBank(ev, 1)
}

// stepBank scrolls the visible tracks by step, doubled with shift.
func (s *Surface) stepBank(ev Event, step int) error {
	if !ev.press() {
		return nil
	}
	if s.state.Shift {
		step *= 2
	}
	if ev.Data1 == noteBankLeft || ev.Data1 == noteTrackLeft {
		step = -step
	}
	s.setFirstTrack(s.state.FirstTrack() + step)
	s.forward(ev)
	return nil
}

func (s *Surface) onPage(ev Event) error {
	if !ev.press() {
		return nil
	}
	p := Page(ev.Data1 - notePageFirst)
	s.display.SendTemp(p.String(), 500)
	s.setPage(p)
	s.forward(ev)
	return nil
}

func (s *Surface) onTransport(ev Event) error {
	_, err := s.host.GlobalTransport(transportNotes[ev.Data1], pressValue(ev), ev.Flags)
	return err
}

func (s *Surface) onArrow(ev Event) error {
	n := int(ev.Data1 - noteUp)
	if s.state.JogSource == JogNone {
		_, err := s.host.GlobalTransport(CmdUp+TransportCmd(n), pressValue(ev), ev.Flags)
		return err
	}
	if ev.press() {
		return s.jog(arrowSteps[n], ev.Flags)
	}
	return nil
}

func (s *Surface) onJogSource(ev Event) error {
	src := JogSource(ev.Data1)
	if src == JogZoom || src == JogWindow {
		s.echo(ev)
	}
	if !ev.press() {
		if s.state.JogSource == src {
			s.setJogSource(JogNone)
		}
		return nil
	}
	s.setJogSource(src)
	return s.jog(0, ev.Flags)
}

func (s *Surface) onStripButton(ev Event) error {
	if !ev.press() {
		return nil
	}
	n := int(ev.Data1 & 7)
	group := int(ev.Data1 >> 3)
	col := &s.cols.cols[n]

	if s.state.Page == PageFree {
		return s.host.ProcessFreeControl(FreeControl{ID: col.BaseEventID + 3 + group, Value: 1})
	}

	var err error
	switch group {
	case 0:
		err = s.host.ToggleArm(col.TrackNum)
	case 1:
		err = s.host.ToggleSolo(col.TrackNum)
	case 2:
		err = s.host.ToggleMute(col.TrackNum)
	case 3:
		err = s.host.SelectTrack(col.TrackNum)
		if err == nil {
			s.updateSelection()
			return nil
		}
	}
	if err != nil {
		return err
	}
	s.updateCol(n)
	return nil
}

func (s *Surface) onKnobPress(ev Event) error {
	n := int(ev.Data1 - noteKnobPressFirst)
	col := &s.cols.cols[n]
	if s.state.Page == PageFree {
		col.KnobHeld = ev.Data2 > 0
		s.updateCol(n)
		return nil
	}
	if !ev.press() || col.KnobResetEventID < 0 {
		return nil
	}
	if err := s.host.AutomateEvent(col.KnobResetEventID, col.KnobResetValue, SourceMIDIController, s.state.SmoothSpeed); err != nil {
		return err
	}
	s.hintValue(col.KnobName, col.KnobResetEventID)
	s.updateCol(n)
	return nil
}

func (s *Surface) onFaderTouch(ev Event) error {
	n := int(ev.Data1 - noteFaderTouchFirst)
	if n >= NumColumns {
		return nil
	}
	s.state.Touched[n] = ev.Data2 > 0
	if !s.state.Touched[n] {
		// snap the motor fader to the host value on release
		s.updateCol(n)
	}
	return nil
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
