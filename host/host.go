// Package host is an in-memory host application for driving a surface
// without a DAW: a mixer with sends, EQ and effect slots, a channel rack,
// a transport with markers and undo history, and free remote controls.
//
// A Sim is not safe for concurrent use; the bridge calls it from one
// goroutine.
package host

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go-surface/surface"
)

var (
	ErrNoTrack   = errors.New("no such track")
	ErrNoChannel = errors.New("no such channel")
	ErrNoEvent   = errors.New("no such event")
)

var _ surface.Host = (*Sim)(nil)

// Options sizes a Sim.
type Options struct {
	Tracks     int // mixer inserts, master excluded
	TrackNames []string
	Channels   int
	Tempo      int
}

// DefaultOptions returns a 16-insert, 16-channel project at 120 BPM.
func DefaultOptions() Options {
	return Options{Tracks: 16, Channels: 16, Tempo: 120}
}

const (
	version = "0.1"
	ppq     = 96

	minTempo = 20
	maxTempo = 300
)

// Sim is the simulated host.
type Sim struct {
	tracks   []track
	channels []channel
	selected int
	selChan  int
	pattern  int

	params map[int]*param
	sends  map[[2]int]bool
	free   map[int]float64

	playing   bool
	recording bool
	minutes   bool
	tempo     float64
	pos       float64 // ticks
	lastBeat  int
	phase     float64

	markers []marker
	undo    []string
	undoPos int
	zoom    [2]int
	windows []string
	focus   int

	hint  string
	dirty surface.RefreshFlag
}

type track struct {
	Name   string
	Armed  bool
	Solo   bool
	Muted  bool
	Peak   float64
	Plugin [numSlots]string
}

type channel struct {
	Name   string
	Volume float64
	Pan    float64
}

type marker struct {
	Name string
	Tick int
}

// New creates a Sim. Track 0 is always the master.
func New(o Options) *Sim {
	if o.Tracks <= 0 {
		o.Tracks = DefaultOptions().Tracks
	}
	if o.Channels <= 0 {
		o.Channels = DefaultOptions().Channels
	}
	if o.Tempo <= 0 {
		o.Tempo = DefaultOptions().Tempo
	}

	h := &Sim{
		params:   make(map[int]*param),
		sends:    make(map[[2]int]bool),
		free:     make(map[int]float64),
		tempo:    float64(o.Tempo),
		lastBeat: -1,
		windows:  []string{"Playlist", "Mixer", "Channel rack", "Piano roll", "Browser", "Plugin picker", "Tempo tapper", "Help"},
	}
	h.tracks = make([]track, o.Tracks+1)
	h.tracks[0].Name = "Master"
	for i := 1; i < len(h.tracks); i++ {
		h.tracks[i].Name = fmt.Sprintf("Insert %d", i)
		if i-1 < len(o.TrackNames) && o.TrackNames[i-1] != "" {
			h.tracks[i].Name = o.TrackNames[i-1]
		}
	}
	h.tracks[1].Plugin[1] = "Reverb"
	h.tracks[1].Plugin[2] = "Delay"

	h.channels = make([]channel, o.Channels)
	for i := range h.channels {
		h.channels[i] = channel{Name: fmt.Sprintf("Channel %d", i+1), Volume: 0.78, Pan: 0}
	}

	for bar := 0; bar < 4; bar++ {
		h.markers = append(h.markers, marker{Name: fmt.Sprintf("Part %c", 'A'+bar), Tick: bar * 8 * 4 * ppq})
	}
	h.pushUndo("New project")
	return h
}

// Title is the host application name.
func (h *Sim) Title() string { return "go-surface host" }

// Version is the host version string.
func (h *Sim) Version() string { return version }

func (h *Sim) HintMessage() string { return h.hint }

// HintValue formats value out of max as a percentage.
func (h *Sim) HintValue(value, max int) string {
	if max <= 0 {
		return "0%"
	}
	return fmt.Sprintf("%d%%", int(math.Round(float64(value)*100/float64(max))))
}

func (h *Sim) UndoLevelHint() string {
	return fmt.Sprintf("%d/%d", h.undoPos+1, len(h.undo))
}

func (h *Sim) FocusedCaption() string {
	if h.focus < 0 || h.focus >= len(h.windows) {
		return ""
	}
	return h.windows[h.focus]
}

func (h *Sim) setHint(format string, args ...any) {
	h.hint = fmt.Sprintf(format, args...)
}

func (h *Sim) markDirty(f surface.RefreshFlag) {
	h.dirty |= f
}

func (h *Sim) pushUndo(name string) {
	h.undo = append(h.undo[:min(h.undoPos+1, len(h.undo))], name)
	h.undoPos = len(h.undo) - 1
}

// Beat values returned by Advance.
const (
	BeatNone = -1
	BeatOff  = 0
	BeatBar  = 1
	BeatBeat = 2
)

// Advance moves the simulation forward by d: playback position, smoothed
// parameters and peak levels. It returns the beat indicator value when it
// changed (or BeatNone) and what the surface should redraw.
func (h *Sim) Advance(d time.Duration) (beat int, dirty surface.RefreshFlag) {
	beat = BeatNone
	if h.playing {
		h.pos += d.Seconds() * h.tempo / 60 * ppq
		b := int(h.pos) / ppq
		half := int(h.pos)%ppq < ppq/2
		cur := BeatOff
		if half {
			cur = BeatBeat
			if b%4 == 0 {
				cur = BeatBar
			}
		}
		if cur != h.lastBeat {
			beat, h.lastBeat = cur, cur
		}
	} else if h.lastBeat > 0 {
		beat, h.lastBeat = BeatOff, BeatOff
	}

	if h.stepParams(d) {
		h.markDirty(surface.RefreshControls)
	}
	h.updatePeaks(d)

	dirty, h.dirty = h.dirty, 0
	return beat, dirty
}

func (h *Sim) updatePeaks(d time.Duration) {
	h.phase += d.Seconds() * 2 * math.Pi
	for i := range h.tracks {
		t := &h.tracks[i]
		if !h.playing || t.Muted {
			t.Peak = 0
			continue
		}
		vol := float64(h.paramValue(TrackPluginID(i, 0)+surface.RecMixerVol)) / surface.HostMax
		wave := 0.6 + 0.4*math.Abs(math.Sin(h.phase+float64(i)))
		t.Peak = min(vol*wave, 1)
	}
}
