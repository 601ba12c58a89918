package surface

import (
	"fmt"
	"math"
	"strings"

	"gitlab.com/gomidi/midi/v2"
)

const (
	ledOff   = 0x00
	ledOn    = 0x7F
	ledBlink = 0x01
)

func (s *Surface) bankSize() int {
	if s.state.Page == PageFree {
		return numFreeTracks
	}
	return max(s.host.TrackCount(), 1)
}

func (s *Surface) assignColumns() {
	offset := 0
	if s.opts.Extenders > 0 && s.state.ExtenderSide == ExtenderLeft {
		offset = s.opts.Extenders * NumStrips
	}
	s.cols.Assign(bankLayout{
		page:   s.state.Page,
		first:  s.state.FirstTrack(),
		offset: offset,
		flip:   s.state.Flip,
	}, s.host)
}

// setFirstTrack scrolls the active bank so v is the first visible track.
// The strips are left dirty for the next control refresh.
func (s *Surface) setFirstTrack(v int) {
	count := s.bankSize()
	first := (v%count + count) % count
	s.state.FirstTracks[s.state.FirstTrackIdx] = first
	if s.state.Page == PageFree {
		s.sendAssignment(fmt.Sprintf("%2d", first+1))
	} else {
		s.sendAssignment(fmt.Sprintf("%2d", first))
	}
	s.assignColumns()
	s.updateTextDisplay()
}

func (s *Surface) setPage(p Page) {
	if p < 0 || p >= numPages {
		return
	}
	old := s.state.Page
	s.state.Page = p
	s.state.FirstTrackIdx = btoi(p == PageFree)
	s.setFirstTrack(s.state.FirstTrack())
	s.dispatchFirstTracks()
	if old == PageFree || p == PageFree {
		s.updateMeterMode()
	}
	s.updateLEDs()
}

// dispatchFirstTracks tells each extender which track it starts at.
func (s *Surface) dispatchFirstTracks() {
	first := s.state.FirstTrack()
	for n := 0; n < s.opts.Extenders; n++ {
		track := first + n*NumStrips
		if s.state.ExtenderSide == ExtenderRight {
			track = first + (n+1)*NumStrips
		}
		s.out.forward(n, midi.NoteOn(0, byte(track&0x7F), ledOn))
	}
}

func (s *Surface) sendAssignment(text string) {
	if len(text) > 2 {
		text = text[len(text)-2:]
	}
	for _, msg := range AssignmentFrames(text) {
		s.out.send(msg)
	}
}

func (s *Surface) updateMeterMode() {
	cur := s.state.MeterMode
	if s.state.Page == PageFree {
		cur = MeterVertical
	}
	s.display.setMode(cur)
	if cur != MeterHorizontal {
		s.updateTextDisplay()
	}
	s.display.finishMode()
}

// updateTextDisplay renders the track-name row: seven characters per strip.
func (s *Surface) updateTextDisplay() {
	var b strings.Builder
	for m := 0; m < NumStrips; m++ {
		col := &s.cols.cols[m]
		var cell string
		if s.state.Page == PageFree {
			cell = fmt.Sprintf("  %2d", col.TrackNum+1)
		} else {
			cell = s.host.TrackName(col.TrackNum)
			if len(cell) > 6 {
				cell = cell[:6]
			}
		}
		fmt.Fprintf(&b, "%-7s", cell)
	}
	s.display.setNames(b.String())
}

func (s *Surface) refreshControls() {
	for i := range s.cols.cols {
		if s.cols.cols[i].Dirty {
			s.updateCol(i)
		}
	}
}

// updateCol sends the ring, button LEDs and motor fader of strip n.
func (s *Surface) updateCol(n int) {
	col := &s.cols.cols[n]
	col.Dirty = false
	base := col.LastValueIndex

	if s.state.Page == PageFree {
		s.sendFader(n, s.free.Get(col.TrackNum))
		if n < NumStrips {
			var ring int
			if d := s.host.FreeControlValue(col.BaseEventID + btoi(col.KnobHeld)); d >= 0 {
				ring = 1 + int(math.Round(d*10))
			} else {
				ring = btoi(col.KnobHeld) * (11 + 2<<4)
			}
			s.out.sendNew(base+slotRing, midi.ControlChange(0, byte(ccRingFirst+n), byte(ring&0x7F)))
		}
		return
	}

	sv := 0
	if col.SliderEventID >= 0 {
		sv = s.host.EventValue(col.SliderEventID)
	}
	if n < NumStrips {
		kv := 0
		if col.KnobEventID >= 0 {
			kv = s.host.EventValue(col.KnobEventID)
		}
		ring := col.ringValue(kv, sv)
		s.out.sendNew(base+slotRing, midi.ControlChange(0, byte(ccRingFirst+n), byte(ring&0x7F)))

		arm := ledOff
		if s.host.TrackArmed(col.TrackNum) {
			arm = ledOn
			if s.host.Recording() {
				arm = ledBlink
			}
		}
		s.out.sendNew(base+slotArm, midi.NoteOn(0, byte(noteArmFirst+n), byte(arm)))
		s.stripLED(base+slotSolo, noteSoloFirst+n, s.host.TrackSolo(col.TrackNum))
		s.stripLED(base+slotMute, noteMuteFirst+n, s.host.TrackMuted(col.TrackNum))
		s.stripLED(base+slotSelect, noteSelectFirst+n, s.host.SelectedTrack() == col.TrackNum)
	}
	s.sendFader(n, HostLevelToRaw(sv))
}

// sendFader moves motor fader n unless a finger is on it.
func (s *Surface) sendFader(n, raw int) {
	if s.state.Touched[n] {
		return
	}
	raw = min(max(raw, 0), RawMax)
	s.out.sendNew(columnSlot(n)+slotFader, midi.Pitchbend(uint8(n), int16(raw-0x2000)))
}

func (s *Surface) stripLED(slot, note int, on bool) {
	s.out.sendNew(slot, midi.NoteOn(0, byte(note), byte(ledOn*btoi(on))))
}

func (s *Surface) led(note uint8, on bool) {
	s.stripLED(int(note), int(note), on)
}

func (s *Surface) updateLEDs() {
	s.led(noteStop, !s.host.Playing())
	s.led(noteRecord, s.host.Recording())
	minutes := s.host.TimeFormatMinutes()
	s.led(noteSMPTE, minutes)
	s.led(noteBeats, !minutes)
	for p := 0; p < numPages; p++ {
		s.led(uint8(notePageFirst+p), Page(p) == s.state.Page)
	}
	s.led(noteScrub, s.state.Scrub)
	s.led(noteSmoothing, s.state.SmoothSpeed > 0)
	s.led(noteFlip, s.state.Flip)
	for _, src := range jogSources {
		s.led(uint8(src), src == s.state.JogSource)
	}
}

// updateSelection follows a host track selection change. Pages that act
// on the selected track rebind; the others only move the select LEDs.
func (s *Surface) updateSelection() {
	switch s.state.Page {
	case PageSends, PageFX, PageEQ:
		s.assignColumns()
		return
	case PageFree:
		return
	}
	sel := s.host.SelectedTrack()
	for m := 0; m < NumStrips; m++ {
		col := &s.cols.cols[m]
		s.stripLED(col.LastValueIndex+slotSelect, noteSelectFirst+m, col.TrackNum == sel)
	}
}

// sendMeters emits the level accumulated since the last tick for each
// strip. Repeated zero levels are sent once.
func (s *Surface) sendMeters() {
	free := s.state.Page == PageFree
	for m := 0; m < NumStrips; m++ {
		col := &s.cols.cols[m]
		col.Tag = min(max(col.Peak, 0), s.display.meterMax)
		col.Peak = 0
		if col.Tag == 0 {
			if col.ZeroPeak {
				continue
			}
			col.ZeroPeak = true
		} else {
			col.ZeroPeak = free
		}
		s.out.send(MeterLevel(m, col.Tag))
	}
}
