package host

import (
	"fmt"
	"math"
	"time"

	"go-surface/surface"
)

// Event ids: track<<12 | slot<<8 | offset. Slot 0 is the mixer strip
// itself; slots 1..9 are effect slots.
const (
	slotShift  = 8
	trackShift = 12
	numSlots   = 10
	offsetMask = 1<<slotShift - 1
	slotMask   = 1<<(trackShift-slotShift) - 1
)

// TrackPluginID is the first event id of a slot on a track.
func TrackPluginID(track, slot int) int {
	return track<<trackShift | slot<<slotShift
}

func splitID(id int) (track, slot, offset int) {
	return id >> trackShift, id >> slotShift & slotMask, id & offsetMask
}

// volumeDefault is the 0 dB fader position.
const volumeDefault = 12800 * surface.HostMax / 16000

type param struct {
	value  int
	target int
	speed  int // ms for a full-scale move, 0 jumps
}

func (h *Sim) validEvent(id int) bool {
	if id < 0 {
		return false
	}
	track, slot, offset := splitID(id)
	if track >= len(h.tracks) || slot >= numSlots {
		return false
	}
	if slot > 0 {
		return offset == surface.RecPlugMixLevel
	}
	switch {
	case offset <= surface.RecMixerSS:
		return true
	case offset >= surface.RecMixerEQGain && offset < surface.RecMixerEQGain+3,
		offset >= surface.RecMixerEQFreq && offset < surface.RecMixerEQFreq+3,
		offset >= surface.RecMixerEQQ && offset < surface.RecMixerEQQ+3:
		return true
	case offset >= surface.RecMixerSendFirst:
		return offset-surface.RecMixerSendFirst < len(h.tracks)
	}
	return false
}

func defaultValue(id int) int {
	_, slot, offset := splitID(id)
	switch {
	case slot > 0:
		return surface.HostMax
	case offset == surface.RecMixerVol:
		return volumeDefault
	case offset >= surface.RecMixerSendFirst:
		return 0
	}
	return surface.HostMax / 2
}

func (h *Sim) param(id int) *param {
	p, ok := h.params[id]
	if !ok {
		v := defaultValue(id)
		p = &param{value: v, target: v}
		h.params[id] = p
	}
	return p
}

func (h *Sim) paramValue(id int) int {
	if p, ok := h.params[id]; ok {
		return p.value
	}
	return defaultValue(id)
}

// stepParams moves smoothed parameters toward their targets.
func (h *Sim) stepParams(d time.Duration) bool {
	moved := false
	for _, p := range h.params {
		if p.value == p.target {
			continue
		}
		step := surface.HostMax
		if p.speed > 0 {
			step = max(int(float64(surface.HostMax)*float64(d.Milliseconds())/float64(p.speed)), 1)
		}
		if p.value < p.target {
			p.value = min(p.value+step, p.target)
		} else {
			p.value = max(p.value-step, p.target)
		}
		moved = true
	}
	return moved
}

func (h *Sim) TrackCount() int { return len(h.tracks) }

func (h *Sim) TrackName(n int) string {
	if n < 0 || n >= len(h.tracks) {
		return ""
	}
	return h.tracks[n].Name
}

func (h *Sim) TrackNumber(name string) int {
	for i := range h.tracks {
		if h.tracks[i].Name == name {
			return i
		}
	}
	return -1
}

func (h *Sim) SelectedTrack() int { return h.selected }

func (h *Sim) TrackPluginID(track, slot int) int { return TrackPluginID(track, slot) }

func (h *Sim) SendActive(from, to int) bool { return h.sends[[2]int{from, to}] }

func (h *Sim) TrackPeak(n int) float64 {
	if n < 0 || n >= len(h.tracks) {
		return 0
	}
	return h.tracks[n].Peak
}

func (h *Sim) TrackArmed(n int) bool { return n >= 0 && n < len(h.tracks) && h.tracks[n].Armed }
func (h *Sim) TrackSolo(n int) bool  { return n >= 0 && n < len(h.tracks) && h.tracks[n].Solo }
func (h *Sim) TrackMuted(n int) bool { return n >= 0 && n < len(h.tracks) && h.tracks[n].Muted }

// EventName describes an automatable event, or "" if there is none.
func (h *Sim) EventName(id int) string {
	if !h.validEvent(id) {
		return ""
	}
	track, slot, offset := splitID(id)
	name := h.tracks[track].Name
	if slot > 0 {
		plugin := h.tracks[track].Plugin[slot]
		if plugin == "" {
			plugin = fmt.Sprintf("Slot %d", slot)
		}
		return fmt.Sprintf("%s - %s mix", name, plugin)
	}
	switch {
	case offset == surface.RecMixerVol:
		return name + " - Vol"
	case offset == surface.RecMixerPan:
		return name + " - Pan"
	case offset == surface.RecMixerSS:
		return name + " - Sep"
	case offset >= surface.RecMixerSendFirst:
		return fmt.Sprintf("%s - Send to %s", name, h.tracks[offset-surface.RecMixerSendFirst].Name)
	case offset >= surface.RecMixerEQQ:
		return fmt.Sprintf("%s - EQ Q %d", name, offset-surface.RecMixerEQQ+1)
	case offset >= surface.RecMixerEQFreq:
		return fmt.Sprintf("%s - EQ Freq %d", name, offset-surface.RecMixerEQFreq+1)
	}
	return fmt.Sprintf("%s - EQ Gain %d", name, offset-surface.RecMixerEQGain+1)
}

func (h *Sim) EventValue(id int) int {
	if !h.validEvent(id) {
		return 0
	}
	return h.paramValue(id)
}

func (h *Sim) SmoothedValue(id int) int {
	if !h.validEvent(id) {
		return 0
	}
	if p, ok := h.params[id]; ok {
		return p.target
	}
	return defaultValue(id)
}

// FormatEventValue renders a value the way the host's hint bar would.
func (h *Sim) FormatEventValue(id, value int) string {
	if !h.validEvent(id) {
		return ""
	}
	_, slot, offset := splitID(id)
	frac := float64(value) / surface.HostMax
	if slot == 0 && (offset == surface.RecMixerPan || offset == surface.RecMixerSS) {
		p := int(math.Round((frac - 0.5) * 200))
		switch {
		case p == 0:
			return "Centered"
		case p < 0:
			return fmt.Sprintf("%d%% left", -p)
		}
		return fmt.Sprintf("%d%% right", p)
	}
	if slot == 0 && offset == surface.RecMixerVol {
		if value <= 0 {
			return "-inf dB"
		}
		return fmt.Sprintf("%.1f dB", 20*math.Log10(float64(value)/volumeDefault))
	}
	return fmt.Sprintf("%d%%", int(math.Round(frac*100)))
}

// AutomateEvent sets an event to value. A non-zero smoothing glides there.
func (h *Sim) AutomateEvent(id, value int, src surface.Source, smoothing int) error {
	if !h.validEvent(id) {
		return fmt.Errorf("automate %d: %w", id, ErrNoEvent)
	}
	h.set(id, value, smoothing)
	return nil
}

// IncrementEvent moves an event by step, a fraction of full scale.
func (h *Sim) IncrementEvent(id int, step float64, smoothing int) error {
	if !h.validEvent(id) {
		return fmt.Errorf("increment %d: %w", id, ErrNoEvent)
	}
	p := h.param(id)
	h.set(id, p.target+int(math.Round(step*surface.HostMax)), smoothing)
	return nil
}

func (h *Sim) set(id, value, smoothing int) {
	value = min(max(value, 0), surface.HostMax)
	p := h.param(id)
	p.target = value
	p.speed = smoothing
	if smoothing <= 0 {
		p.value = value
	}
	track, slot, offset := splitID(id)
	if slot == 0 && offset >= surface.RecMixerSendFirst {
		h.sends[[2]int{track, offset - surface.RecMixerSendFirst}] = value > 0
	}
	h.markDirty(surface.RefreshControls)
}

func (h *Sim) trackOK(n int) error {
	if n < 0 || n >= len(h.tracks) {
		return fmt.Errorf("track %d: %w", n, ErrNoTrack)
	}
	return nil
}

func (h *Sim) ToggleArm(n int) error {
	if err := h.trackOK(n); err != nil {
		return err
	}
	h.tracks[n].Armed = !h.tracks[n].Armed
	h.pushUndo("Arm " + h.tracks[n].Name)
	h.markDirty(surface.RefreshControls)
	return nil
}

// ToggleSolo solos n alone, or clears the solo if n was soloed.
func (h *Sim) ToggleSolo(n int) error {
	if err := h.trackOK(n); err != nil {
		return err
	}
	on := !h.tracks[n].Solo
	for i := range h.tracks {
		h.tracks[i].Solo = false
	}
	h.tracks[n].Solo = on
	h.pushUndo("Solo " + h.tracks[n].Name)
	h.markDirty(surface.RefreshControls)
	return nil
}

func (h *Sim) ToggleMute(n int) error {
	if err := h.trackOK(n); err != nil {
		return err
	}
	h.tracks[n].Muted = !h.tracks[n].Muted
	h.pushUndo("Mute " + h.tracks[n].Name)
	h.markDirty(surface.RefreshControls)
	return nil
}

func (h *Sim) SelectTrack(n int) error {
	if err := h.trackOK(n); err != nil {
		return err
	}
	h.selected = n
	h.markDirty(surface.RefreshSelection)
	return nil
}

// SetTrackVolume sets a mixer track from a normalized [0,1] volume.
func (h *Sim) SetTrackVolume(n int, v float64) error {
	if err := h.trackOK(n); err != nil {
		return err
	}
	h.set(TrackPluginID(n, 0)+surface.RecMixerVol, int(math.Round(v*surface.HostMax)), 0)
	return nil
}

// SetTrackPan sets a mixer track from a [-1,1] pan.
func (h *Sim) SetTrackPan(n int, pan float64) error {
	if err := h.trackOK(n); err != nil {
		return err
	}
	h.set(TrackPluginID(n, 0)+surface.RecMixerPan, int(math.Round((pan+1)/2*surface.HostMax)), 0)
	return nil
}

func (h *Sim) chanOK(n int) error {
	if n < 0 || n >= len(h.channels) {
		return fmt.Errorf("channel %d: %w", n, ErrNoChannel)
	}
	return nil
}

func (h *Sim) SetChannelVolume(n int, v float64) error {
	if err := h.chanOK(n); err != nil {
		return err
	}
	h.channels[n].Volume = min(max(v, 0), 1)
	return nil
}

func (h *Sim) SetChannelPan(n int, pan float64) error {
	if err := h.chanOK(n); err != nil {
		return err
	}
	h.channels[n].Pan = min(max(pan, -1), 1)
	return nil
}

// Channel returns the volume and pan of channel n.
func (h *Sim) Channel(n int) (name string, volume, pan float64, ok bool) {
	if h.chanOK(n) != nil {
		return "", 0, 0, false
	}
	c := h.channels[n]
	return c.Name, c.Volume, c.Pan, true
}
