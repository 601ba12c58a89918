package surface

import (
	"fmt"
	"math"
)

// Column is the binding of one physical strip to host targets.
type Column struct {
	TrackNum         int
	BaseEventID      int
	KnobEventID      int
	KnobPressEventID int
	KnobResetEventID int
	KnobResetValue   int
	KnobMode         int
	KnobCenter       int
	KnobName         string
	SliderEventID    int
	SliderName       string
	Peak             int
	Tag              int // last meter level sent
	LastValueIndex   int // first output slot owned by the column
	ZeroPeak         bool
	Dirty            bool
	KnobHeld         bool
}

// ColumnBank holds the nine strip bindings. Index 8 is the master strip
// (or the extra free slot on the free page).
type ColumnBank struct {
	cols [NumColumns]Column
}

// Column returns strip i, or nil when i is out of range.
func (b *ColumnBank) Column(i int) *Column {
	if i < 0 || i >= NumColumns {
		return nil
	}
	return &b.cols[i]
}

// MarkDirty flags every strip showing track. track < 0 flags all strips.
func (b *ColumnBank) MarkDirty(track int) {
	for i := range b.cols {
		if track < 0 || b.cols[i].TrackNum == track {
			b.cols[i].Dirty = true
		}
	}
}

// DirtyCount returns how many strips need a refresh.
func (b *ColumnBank) DirtyCount() int {
	n := 0
	for i := range b.cols {
		if b.cols[i].Dirty {
			n++
		}
	}
	return n
}

// bankLayout is everything Assign needs besides the host.
type bankLayout struct {
	page   Page
	first  int
	offset int // extra strips skipped for extenders on the left
	flip   bool
}

const sendResetLevel = 12800 * HostMax / 16000

// Assign recomputes all nine bindings and marks them dirty.
func (b *ColumnBank) Assign(l bankLayout, h Mixer) {
	if l.page == PageFree {
		for m := range b.cols {
			b.assignFree(m, l)
		}
		return
	}

	count := h.TrackCount()
	if count <= 0 {
		count = 1
	}
	sel := h.SelectedTrack()
	for m := range b.cols {
		col := &b.cols[m]
		if m == NumColumns-1 {
			col.TrackNum = max(h.TrackNumber("Master"), 0)
		} else {
			col.TrackNum = (l.first + l.offset + m) % count
		}
		name := h.TrackName(col.TrackNum)
		col.BaseEventID = h.TrackPluginID(col.TrackNum, 0)
		col.SliderEventID = col.BaseEventID + RecMixerVol
		col.SliderName = name + " - Vol"
		col.KnobEventID = -1
		col.KnobPressEventID = -1
		col.KnobResetEventID = -1
		col.KnobResetValue = HostMax >> 1
		col.KnobName = ""
		col.KnobMode = RingPan
		col.KnobCenter = -1

		if m < NumStrips {
			switch l.page {
			case PagePan:
				col.KnobEventID = col.BaseEventID + RecMixerPan
				col.KnobResetEventID = col.KnobEventID
				col.KnobName = name + " - Pan"
			case PageStereo:
				col.KnobEventID = col.BaseEventID + RecMixerSS
				col.KnobResetEventID = col.KnobEventID
				col.KnobName = name + " - Sep"
			case PageSends:
				cur := h.TrackPluginID(sel, 0)
				col.KnobEventID = cur + RecMixerSendFirst + col.TrackNum
				col.KnobPressEventID = col.KnobEventID
				col.KnobResetEventID = col.KnobEventID
				col.KnobName = h.EventName(col.KnobEventID)
				col.KnobResetValue = sendResetLevel
				col.KnobCenter = btoi(h.SendActive(sel, col.TrackNum))
				if col.KnobCenter == 0 {
					col.KnobMode = RingOff
				} else {
					col.KnobMode = RingVolume
				}
			case PageFX:
				cur := h.TrackPluginID(sel, m)
				col.KnobEventID = cur + RecPlugMixLevel
				col.KnobPressEventID = col.KnobEventID
				col.KnobResetEventID = col.KnobEventID
				col.KnobName = h.EventName(col.KnobEventID)
				col.KnobResetValue = HostMax
				col.KnobMode = RingVolume
			case PageEQ:
				b.assignEQ(col, m, h.TrackPluginID(sel, 0), h)
			}
		}

		if l.flip && m < NumStrips {
			col.KnobEventID, col.SliderEventID = col.SliderEventID, col.KnobEventID
			col.KnobName, col.SliderName = col.SliderName, col.KnobName
			col.KnobMode = RingVolume
			col.KnobCenter = -1
			col.KnobResetValue = sendResetLevel
			col.KnobResetEventID = col.KnobEventID
		}

		col.LastValueIndex = columnSlot(m)
		col.Peak = 0
		col.ZeroPeak = false
		col.Dirty = true
	}
}

func (b *ColumnBank) assignEQ(col *Column, m, cur int, h Mixer) {
	switch {
	case m < 3:
		col.SliderEventID = cur + RecMixerEQGain + m
		col.SliderName = h.EventName(col.SliderEventID)
		col.KnobEventID = cur + RecMixerEQFreq + m
		col.KnobResetEventID = col.SliderEventID
		col.KnobName = h.EventName(col.KnobEventID)
		col.KnobMode = RingVolume
	case m < 6:
		col.SliderEventID = -1
		col.SliderName = ""
		col.KnobEventID = cur + RecMixerEQQ + m - 3
		col.KnobResetEventID = col.KnobEventID
		col.KnobName = h.EventName(col.KnobEventID)
		col.KnobMode = RingVolume
	default:
		col.SliderEventID = -1
		col.SliderName = ""
		col.KnobMode = RingOff
	}
}

func (b *ColumnBank) assignFree(m int, l bankLayout) {
	col := &b.cols[m]
	if m == NumColumns-1 {
		col.TrackNum = numFreeTracks
	} else {
		col.TrackNum = (l.first + m) % numFreeTracks
	}
	col.KnobName = fmt.Sprintf("Knob %d", col.TrackNum+1)
	col.SliderName = fmt.Sprintf("Slider %d", col.TrackNum+1)
	col.BaseEventID = freeEventBase + col.TrackNum*8
	col.KnobEventID = -1
	col.KnobPressEventID = -1
	col.KnobResetEventID = -1
	col.SliderEventID = -1
	col.KnobMode = RingParameter
	col.KnobCenter = -1
	col.LastValueIndex = columnSlot(m)
	col.Peak = 0
	col.ZeroPeak = false
	col.Dirty = true
}

// ringValue is the LED collar CC value for a mixer-page strip.
func (c *Column) ringValue(knob, slider int) int {
	if c.KnobEventID < 0 {
		return 0
	}
	center := c.KnobCenter
	if center < 0 {
		if c.KnobResetEventID == c.KnobEventID {
			center = btoi(knob != c.KnobResetValue)
		} else {
			center = btoi(slider != c.KnobResetValue)
		}
	}
	if c.KnobMode >= RingOff {
		return center << 6
	}
	var pos int
	if c.KnobMode < RingVolume {
		pos = 1 + int(math.Round(float64(knob)*10/HostMax))
	} else {
		pos = int(math.Round(float64(knob) * 11 / HostMax))
	}
	return pos + c.KnobMode<<4 + center<<6
}

// Output slots for the send-on-change cache. Notes use their own number.
const (
	slotBeat      = 0x80
	slotColumns   = 0x100
	slotRing      = 0
	slotArm       = 1
	slotSolo      = 2
	slotMute      = 3
	slotSelect    = 4
	slotFader     = 5
	slotsPerStrip = 8
)

func columnSlot(m int) int {
	return slotColumns + m*slotsPerStrip
}

// FreeBank holds the 65 free-control fader values.
type FreeBank struct {
	vals [numFreeTracks + 1]int
}

// NumFreeSlots is the number of free-control fader slots.
const NumFreeSlots = numFreeTracks + 1

// FreeCenter is the default value for every free slot.
const FreeCenter = 8192

// NewFreeBank returns a bank with every slot centered.
func NewFreeBank() FreeBank {
	var f FreeBank
	f.Reset()
	return f
}

// Reset centers every slot.
func (f *FreeBank) Reset() {
	for i := range f.vals {
		f.vals[i] = FreeCenter
	}
}

// Get returns slot i, or FreeCenter when i is out of range.
func (f *FreeBank) Get(i int) int {
	if i < 0 || i >= len(f.vals) {
		return FreeCenter
	}
	return f.vals[i]
}

// Set stores v, clamped to 14 bits. Out-of-range slots are ignored.
func (f *FreeBank) Set(i, v int) {
	if i < 0 || i >= len(f.vals) {
		return
	}
	f.vals[i] = min(max(v, 0), RawMax)
}
