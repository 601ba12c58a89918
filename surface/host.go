package surface

// Source tags where an automation change came from.
type Source int

const (
	SourceController     Source = iota // relative knob movement
	SourceMIDIController               // absolute fader or reset
)

// TransportCmd is a global transport or navigation command.
type TransportCmd int

// The ordering matters: modifier variants sit directly after their base
// command so base+1 selects them.
const (
	CmdJog TransportCmd = iota
	CmdJog2
	CmdMoveJog
	CmdMarkerJumpJog
	CmdMarkerSelJog
	CmdUndoJog
	CmdHZoomJog
	CmdVZoomJog
	CmdWindowJog
	CmdStop
	CmdPlay
	CmdRecord
	CmdRewind
	CmdFastForward
	CmdUp
	CmdDown
	CmdLeft
	CmdRight
	CmdF1
	CmdF2
	CmdF3
	CmdF4
	CmdF5
	CmdF6
	CmdF7
	CmdF8
)

var cmdNames = [...]string{
	"jog", "jog2", "move jog", "marker jump", "marker select", "undo jog",
	"hzoom", "vzoom", "window jog", "stop", "play", "record", "rewind",
	"fast forward", "up", "down", "left", "right",
	"F1", "F2", "F3", "F4", "F5", "F6", "F7", "F8",
}

func (c TransportCmd) String() string {
	if c < 0 || int(c) >= len(cmdNames) {
		return "unknown"
	}
	return cmdNames[c]
}

// SelectDomain is what a selection jog moves through.
type SelectDomain int

const (
	SelectChannel SelectDomain = iota
	SelectMixer
	SelectPattern
)

var selectLabels = [...]string{"Channel: ", "Mixer track: ", "Pattern: "}

// FreeControl is a value sent to one of the host's free remote controls.
type FreeControl struct {
	ID        int
	Value     int  // relative delta when Increment, absolute otherwise
	Increment bool // Value is a signed step
}

// Mixer is the host's mixer command surface.
type Mixer interface {
	TrackCount() int
	TrackName(track int) string
	TrackNumber(name string) int
	SelectedTrack() int
	TrackPluginID(track, slot int) int
	SendActive(from, to int) bool
	TrackPeak(track int) float64
	TrackArmed(track int) bool
	TrackSolo(track int) bool
	TrackMuted(track int) bool

	EventName(id int) string
	EventValue(id int) int
	SmoothedValue(id int) int
	FormatEventValue(id, value int) string

	AutomateEvent(id, value int, src Source, smoothing int) error
	IncrementEvent(id int, step float64, smoothing int) error

	ToggleArm(track int) error
	ToggleSolo(track int) error
	ToggleMute(track int) error
	SelectTrack(track int) error

	SetTrackVolume(track int, volume float64) error
	SetTrackPan(track int, pan float64) error
	SetChannelVolume(channel int, volume float64) error
	SetChannelPan(channel int, pan float64) error
}

// Transport is the host's transport and tempo command surface.
type Transport interface {
	// GlobalTransport runs cmd and reports whether the host handled it
	// globally, in which case HintMessage describes the result.
	GlobalTransport(cmd TransportCmd, value int, flags Flags) (bool, error)
	Playing() bool
	Recording() bool
	IncrementTempo(step float64, live bool) error
	TempoText() string
	ToggleTimeFormat() error
	TimeFormatMinutes() bool
	TimeText() string
}

// Selector covers selection jogs and free remote controls.
type Selector interface {
	MoveSelection(domain SelectDomain, step int) (string, error)
	ProcessFreeControl(c FreeControl) error
	// FreeControlValue returns the normalized value bound to id, or -1.
	FreeControlValue(id int) float64
}

// UI covers host-side hint formatting.
type UI interface {
	HintMessage() string
	HintValue(value, max int) string
	UndoLevelHint() string
	FocusedCaption() string
	Title() string
	Version() string
}

// Host is everything the surface needs from the host application.
type Host interface {
	Mixer
	Transport
	Selector
	UI
}
