package host

import (
	"fmt"

	"go-surface/surface"
)

const numPatterns = 99

// MoveSelection steps the selected channel, mixer track or pattern and
// returns the new selection's name.
func (h *Sim) MoveSelection(domain surface.SelectDomain, step int) (string, error) {
	var name string
	switch domain {
	case surface.SelectChannel:
		h.selChan = min(max(h.selChan+step, 0), len(h.channels)-1)
		name = h.channels[h.selChan].Name
	case surface.SelectMixer:
		h.selected = min(max(h.selected+step, 0), len(h.tracks)-1)
		name = h.tracks[h.selected].Name
	case surface.SelectPattern:
		h.pattern = min(max(h.pattern+step, 0), numPatterns-1)
		name = fmt.Sprintf("Pattern %d", h.pattern+1)
	default:
		return "", fmt.Errorf("select domain %d: unsupported", domain)
	}
	if step != 0 {
		h.markDirty(surface.RefreshSelection)
	}
	return name, nil
}

// SelectedChannel is the channel rack selection.
func (h *Sim) SelectedChannel() int { return h.selChan }

// ProcessFreeControl updates a free remote control. Increments move by
// 1/64 per step, absolute values are out of 1<<16, and an absolute value
// of 1 is a button press that toggles the control.
func (h *Sim) ProcessFreeControl(c surface.FreeControl) error {
	if c.ID < 0 {
		return fmt.Errorf("free control %d: %w", c.ID, ErrNoEvent)
	}
	v := h.free[c.ID]
	switch {
	case c.Increment:
		v += float64(c.Value) / 64
	case c.Value == 1:
		if v > 0 {
			v = 0
		} else {
			v = 1
		}
	default:
		v = float64(c.Value) / (1 << 16)
	}
	h.free[c.ID] = min(max(v, 0), 1)
	h.setHint("Free control %d: %s", c.ID, h.HintValue(int(h.free[c.ID]*1000), 1000))
	return nil
}

func (h *Sim) FreeControlValue(id int) float64 {
	if v, ok := h.free[id]; ok {
		return v
	}
	return -1
}
