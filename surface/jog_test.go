package surface

import (
	"strings"
	"testing"
)

func TestPlanJog(t *testing.T) {
	for _, tt := range []struct {
		name         string
		src          JogSource
		shift, scrub bool
		delta        int
		want         jogPlan
	}{
		{"plain", JogNone, false, false, 1, jogPlan{cmd: CmdJog, run: true}},
		{"shift", JogNone, true, false, 1, jogPlan{cmd: CmdJog2, run: true}},
		{"scrub", JogNone, false, true, 1, jogPlan{cmd: CmdJog2, run: true}},
		{"shift scrub", JogNone, true, true, 1, jogPlan{cmd: CmdJog, run: true}},
		{"move", JogMove, false, false, 0, jogPlan{cmd: CmdMoveJog, run: true}},
		{"marker press", JogMarker, false, false, 0, jogPlan{cmd: CmdMarkerJumpJog, label: "Marker jump"}},
		{"marker select", JogMarker, true, false, -1, jogPlan{cmd: CmdMarkerSelJog, run: true, label: "Marker selection"}},
		{"undo", JogUndo, false, false, 1, jogPlan{cmd: CmdUndoJog, run: true, label: "Undo history"}},
		{"hzoom", JogZoom, false, false, 1, jogPlan{cmd: CmdHZoomJog, run: true}},
		{"vzoom", JogZoom, true, false, 1, jogPlan{cmd: CmdVZoomJog, run: true}},
		{"window", JogWindow, false, false, 1, jogPlan{cmd: CmdWindowJog, run: true}},
		{"pattern", JogPattern, false, false, 1, jogPlan{action: jogSelect, domain: SelectPattern}},
		{"mixer", JogMixer, false, false, 1, jogPlan{action: jogSelect, domain: SelectMixer}},
		{"channel", JogChannel, false, false, 1, jogPlan{action: jogSelect, domain: SelectChannel}},
		{"tempo", JogTempo, false, false, 1, jogPlan{action: jogTempo}},
		{"free 3", JogFree3, false, false, 1, jogPlan{action: jogFree, freeID: freeJogBase + 2}},
	} {
		if got := planJog(tt.src, tt.shift, tt.scrub, tt.delta); got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestJogSourceLatch(t *testing.T) {
	s, h := newTestSurface(20)

	s.Handle(press(uint8(JogMixer)))
	if got := s.State().JogSource; got != JogMixer {
		t.Fatalf("source = %v, want mixer", got)
	}
	if len(h.selections) != 1 || h.selections[0] != SelectMixer {
		t.Errorf("selections = %v", h.selections)
	}

	s.Handle(press(uint8(JogTempo)))
	if got := s.State().JogSource; got != JogTempo {
		t.Fatalf("source = %v, want tempo", got)
	}
	s.Handle(release(uint8(JogMixer)))
	if got := s.State().JogSource; got != JogTempo {
		t.Fatalf("releasing mixer unlatched %v", got)
	}
	s.Handle(release(uint8(JogTempo)))
	if got := s.State().JogSource; got != JogNone {
		t.Fatalf("source = %v after release, want none", got)
	}
}

func TestJogWheel(t *testing.T) {
	s, h := newTestSurface(20)

	s.Handle(cc(ccJog, 0x41))
	if len(h.transport) != 1 || h.transport[0] != (transportCall{CmdJog, -1}) {
		t.Fatalf("transport = %v", h.transport)
	}

	s.Handle(press(noteShift))
	s.Handle(cc(ccJog, 0x01))
	if h.transport[1] != (transportCall{CmdJog2, 1}) {
		t.Errorf("shifted jog = %v", h.transport[1])
	}
	s.Handle(release(noteShift))

	s.Handle(press(uint8(JogTempo)))
	s.Handle(cc(ccJog, 0x01))
	if len(h.tempo) != 1 || h.tempo[0] != KnobStep(1) {
		t.Errorf("tempo steps = %v", h.tempo)
	}
}

func TestJogMarkerHint(t *testing.T) {
	s, h := newTestSurface(20)
	r, _ := s.Handle(press(uint8(JogMarker)))
	if len(h.transport) != 0 {
		t.Errorf("latching the marker source ran %v", h.transport)
	}
	if len(r.Hints) == 0 || r.Hints[len(r.Hints)-1] != arrowsGlyph+"Marker jump" {
		t.Errorf("hints = %q", r.Hints)
	}

	h.global = true
	h.hint = "Marker #2"
	r, _ = s.Handle(cc(ccJog, 0x01))
	if len(h.transport) != 1 || h.transport[0] != (transportCall{CmdMarkerJumpJog, 1}) {
		t.Errorf("transport = %v", h.transport)
	}
	if len(r.Hints) == 0 || r.Hints[0] != arrowsGlyph+"Marker #2" {
		t.Errorf("hints = %q", r.Hints)
	}
}

func TestJogUndoHint(t *testing.T) {
	s, _ := newTestSurface(20)
	r, _ := s.Handle(press(uint8(JogUndo)))
	if len(r.Hints) == 0 || !strings.HasSuffix(r.Hints[0], "Undo history (level 3/10)") {
		t.Errorf("hints = %q", r.Hints)
	}
}

func TestJogFree(t *testing.T) {
	s, h := newTestSurface(20)
	s.Handle(press(uint8(JogFree3)))
	if len(h.free) != 0 {
		t.Errorf("latching sent %v", h.free)
	}
	s.Handle(cc(ccJog, 0x02))
	want := FreeControl{ID: freeJogBase + 2, Value: 2, Increment: true}
	if len(h.free) != 1 || h.free[0] != want {
		t.Errorf("free = %v, want %v", h.free, want)
	}
}

func TestArrowKeys(t *testing.T) {
	s, h := newTestSurface(20)
	s.Handle(press(noteUp))
	s.Handle(release(noteUp))
	if len(h.transport) != 2 || h.transport[0] != (transportCall{CmdUp, 2}) || h.transport[1] != (transportCall{CmdUp, 0}) {
		t.Fatalf("transport = %v", h.transport)
	}

	s.Handle(press(uint8(JogTempo)))
	s.Handle(press(noteUp + 1))
	if len(h.tempo) != 1 || h.tempo[0] != KnobStep(arrowSteps[1]) {
		t.Errorf("tempo = %v", h.tempo)
	}
}
