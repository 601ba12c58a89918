package host

import (
	"fmt"
	"math"

	"go-surface/surface"
)

const (
	beatsPerBar = 4
	barTicks    = beatsPerBar * ppq
	zoomMax     = 10
)

// GlobalTransport runs a transport or navigation command. Button commands
// act on press (value > 0); jog commands step by value.
func (h *Sim) GlobalTransport(cmd surface.TransportCmd, value int, flags surface.Flags) (bool, error) {
	switch cmd {
	case surface.CmdStop:
		if value > 0 {
			h.playing, h.recording = false, false
			h.pos = 0
			h.setHint("Stop")
		}
	case surface.CmdPlay:
		if value > 0 {
			h.playing = !h.playing
			if h.playing {
				h.setHint("Play")
			} else {
				h.setHint("Pause")
			}
		}
	case surface.CmdRecord:
		if value > 0 {
			h.recording = !h.recording
			if h.recording {
				h.setHint("Record on")
			} else {
				h.setHint("Record off")
			}
		}
	case surface.CmdRewind:
		if value > 0 {
			h.seek(-barTicks)
		}
	case surface.CmdFastForward:
		if value > 0 {
			h.seek(barTicks)
		}
	case surface.CmdJog, surface.CmdMoveJog:
		h.seek(value * ppq)
	case surface.CmdJog2:
		h.seek(value * ppq / 4)
	case surface.CmdMarkerJumpJog:
		h.jumpMarker(value)
	case surface.CmdMarkerSelJog:
		h.jumpMarker(value)
		if m := h.markerAt(); m >= 0 {
			h.setHint("Selected %s", h.markers[m].Name)
		}
	case surface.CmdUndoJog:
		if value == 0 {
			return false, nil
		}
		h.undoPos = min(max(h.undoPos+value, 0), len(h.undo)-1)
		h.setHint("Undo: %s", h.undo[h.undoPos])
	case surface.CmdHZoomJog, surface.CmdVZoomJog:
		z := &h.zoom[cmd-surface.CmdHZoomJog]
		*z = min(max(*z+value, -zoomMax), zoomMax)
		h.setHint("Zoom %d", *z)
	case surface.CmdWindowJog:
		h.focus = ((h.focus+value)%len(h.windows) + len(h.windows)) % len(h.windows)
		h.setHint("Window: %s", h.windows[h.focus])
	case surface.CmdUp, surface.CmdDown, surface.CmdLeft, surface.CmdRight:
		if value <= 0 {
			return false, nil
		}
		return h.arrow(cmd), nil
	default:
		if cmd < surface.CmdF1 || cmd > surface.CmdF8 {
			return false, fmt.Errorf("transport %v: unsupported", cmd)
		}
		if value > 0 {
			h.focus = int(cmd - surface.CmdF1)
			h.setHint("Window: %s", h.windows[h.focus])
		}
	}
	h.markDirty(surface.RefreshLEDs)
	return true, nil
}

// arrow moves the selection in the focused window.
func (h *Sim) arrow(cmd surface.TransportCmd) bool {
	step := 1
	if cmd == surface.CmdUp || cmd == surface.CmdLeft {
		step = -1
	}
	switch h.windows[h.focus] {
	case "Mixer":
		h.selected = min(max(h.selected+step, 0), len(h.tracks)-1)
		h.setHint("Mixer track: %s", h.tracks[h.selected].Name)
	case "Channel rack":
		h.selChan = min(max(h.selChan+step, 0), len(h.channels)-1)
		h.setHint("Channel: %s", h.channels[h.selChan].Name)
	default:
		return false
	}
	h.markDirty(surface.RefreshSelection)
	return true
}

func (h *Sim) seek(ticks int) {
	h.pos = max(h.pos+float64(ticks), 0)
}

// jumpMarker moves step markers away from the current position.
func (h *Sim) jumpMarker(step int) {
	if len(h.markers) == 0 || step == 0 {
		return
	}
	cur := h.markerAt()
	var next int
	switch {
	case step > 0:
		next = min(cur+step, len(h.markers)-1)
	case cur >= 0 && float64(h.markers[cur].Tick) < h.pos:
		next = max(cur+step+1, 0)
	default:
		next = max(cur+step, 0)
	}
	h.pos = float64(h.markers[next].Tick)
	h.setHint("Marker: %s", h.markers[next].Name)
}

// markerAt is the last marker at or before the position, or -1.
func (h *Sim) markerAt() int {
	n := -1
	for i, m := range h.markers {
		if float64(m.Tick) <= h.pos {
			n = i
		}
	}
	return n
}

func (h *Sim) Playing() bool   { return h.playing }
func (h *Sim) Recording() bool { return h.recording }

// IncrementTempo changes the tempo by step, where a step of 1 is 100 BPM.
func (h *Sim) IncrementTempo(step float64, live bool) error {
	h.tempo = min(max(h.tempo+step*100, minTempo), maxTempo)
	h.tempo = math.Round(h.tempo*1000) / 1000
	h.setHint("Tempo: %s", h.TempoText())
	return nil
}

// Tempo returns the current tempo in BPM.
func (h *Sim) Tempo() float64 { return h.tempo }

func (h *Sim) TempoText() string { return fmt.Sprintf("%.3f", h.tempo) }

func (h *Sim) ToggleTimeFormat() error {
	h.minutes = !h.minutes
	h.markDirty(surface.RefreshLEDs)
	return nil
}

func (h *Sim) TimeFormatMinutes() bool { return h.minutes }

// TimeText is the song position laid out for the timecode display:
// bar, beat and tick, or minutes, seconds and milliseconds.
func (h *Sim) TimeText() string {
	if h.minutes {
		ms := int(h.pos / ppq * 60 / h.tempo * 1000)
		return fmt.Sprintf("%3d %02d %03d", ms/60000, ms/1000%60, ms%1000)
	}
	t := int(h.pos)
	return fmt.Sprintf("%3d %2d %3d", t/barTicks+1, t%barTicks/ppq+1, t%ppq)
}
