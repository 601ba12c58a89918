package surface

import "fmt"

type jogAction int

const (
	jogTransport jogAction = iota
	jogSelect
	jogTempo
	jogFree
)

// jogPlan is what a jog movement should do for a given source and
// modifier state.
type jogPlan struct {
	action jogAction
	cmd    TransportCmd
	run    bool // issue cmd to the host
	label  string
	domain SelectDomain
	freeID int
}

// planJog decides the jog action. It depends only on its arguments.
func planJog(src JogSource, shift, scrub bool, delta int) jogPlan {
	switch src {
	case JogNone:
		return jogPlan{cmd: CmdJog + TransportCmd(btoi(shift != scrub)), run: true}
	case JogMove:
		return jogPlan{cmd: CmdMoveJog, run: true}
	case JogMarker:
		p := jogPlan{cmd: CmdMarkerJumpJog, run: delta != 0, label: "Marker jump"}
		if shift {
			p.cmd = CmdMarkerSelJog
			p.label = "Marker selection"
		}
		return p
	case JogUndo:
		return jogPlan{cmd: CmdUndoJog, run: delta != 0, label: "Undo history"}
	case JogZoom:
		return jogPlan{cmd: CmdHZoomJog + TransportCmd(btoi(shift)), run: delta != 0}
	case JogWindow:
		return jogPlan{cmd: CmdWindowJog, run: delta != 0}
	case JogPattern, JogMixer, JogChannel:
		return jogPlan{action: jogSelect, domain: SelectDomain(2 - int(src-JogPattern))}
	case JogTempo:
		return jogPlan{action: jogTempo}
	case JogFree1, JogFree2, JogFree3, JogFree4:
		return jogPlan{action: jogFree, freeID: freeJogBase + int(src-JogFree1)}
	}
	return jogPlan{}
}

// jog moves the wheel target of the latched source by delta.
func (s *Surface) jog(delta int, flags Flags) error {
	src := s.state.JogSource
	p := planJog(src, s.state.Shift, s.state.Scrub, delta)

	switch p.action {
	case jogSelect:
		name, err := s.host.MoveSelection(p.domain, delta)
		if err != nil {
			return err
		}
		s.sendJogHint(selectLabels[p.domain] + name)
		return nil

	case jogTempo:
		if delta != 0 {
			if err := s.host.IncrementTempo(KnobStep(delta), flags.LiveInput); err != nil {
				return err
			}
		}
		s.sendJogHint("Tempo: " + s.host.TempoText())
		return nil

	case jogFree:
		if delta == 0 {
			s.sendJogHint(fmt.Sprintf("Free jog %d", p.freeID))
			return nil
		}
		s.sendJogHint(fmt.Sprintf("Free jog %d: %c", p.freeID, stepGlyph(delta)))
		return s.host.ProcessFreeControl(FreeControl{ID: p.freeID, Value: delta, Increment: true})
	}

	global := false
	if p.run {
		var err error
		global, err = s.host.GlobalTransport(p.cmd, delta, flags)
		if err != nil {
			return err
		}
	}

	switch src {
	case JogMarker:
		text := p.label
		if global {
			text = s.host.HintMessage()
		}
		s.sendJogHint(text)
	case JogUndo:
		text := p.label
		if global {
			text = s.host.HintMessage()
		}
		s.sendJogHint(text + " (level " + s.host.UndoLevelHint() + ")")
	case JogWindow:
		if c := s.host.FocusedCaption(); c != "" {
			s.sendJogHint("Current window: " + c)
		}
	}
	return nil
}

func (s *Surface) sendJogHint(text string) {
	s.display.SendTemp(arrowsGlyph+text, 500)
}

// setJogSource latches src and relights the source LEDs.
func (s *Surface) setJogSource(src JogSource) {
	s.state.JogSource = src
	s.updateLEDs()
}

// stepGlyph is the LCD arrow character for the direction of delta.
func stepGlyph(delta int) byte {
	return byte(0x7E + btoi(delta < 0))
}
