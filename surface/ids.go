package surface

// Page selects what the knob row and faders are bound to.
type Page int

const (
	PagePan Page = iota
	PageStereo
	PageSends
	PageFX
	PageEQ
	PageFree

	numPages = 6
)

var pageNames = [numPages]string{
	"Panning (press to reset)",
	"Stereo separation (press to reset)",
	"Sends for selected track (press to enable)",
	"Effects for selected track (press to enable)",
	"EQ for selected track (press to reset)",
	"Lotsa free controls",
}

func (p Page) String() string {
	if p < 0 || p >= numPages {
		return "unknown page"
	}
	return pageNames[p]
}

// MeterMode selects how the LCD shows level meters.
type MeterMode int

const (
	MeterHorizontal MeterMode = iota
	MeterVertical
	MeterDisabled

	numMeterModes = 3
)

var meterModeNames = [numMeterModes]string{
	"Horizontal meters mode",
	"Vertical meters mode",
	"Disabled meters mode",
}

func (m MeterMode) String() string {
	if m < 0 || m >= numMeterModes {
		return "unknown meters mode"
	}
	return meterModeNames[m]
}

// Side is where an attached extender unit sits relative to the main surface.
type Side int

const (
	ExtenderLeft Side = iota
	ExtenderRight
)

func (s Side) String() string {
	if s == ExtenderRight {
		return "right"
	}
	return "left"
}

// JogSource is the latched button that retargets the jog wheel. The value
// is the button's note number; JogNone means nothing is latched.
type JogSource uint8

const (
	JogNone    JogSource = 0
	JogUndo    JogSource = 0x3C
	JogPattern JogSource = 0x3E
	JogMixer   JogSource = 0x3F
	JogChannel JogSource = 0x40
	JogTempo   JogSource = 0x41
	JogFree1   JogSource = 0x42
	JogFree2   JogSource = 0x43
	JogFree3   JogSource = 0x44
	JogFree4   JogSource = 0x45
	JogMove    JogSource = 0x46
	JogMarker  JogSource = 0x48
	JogWindow  JogSource = 0x4C
	JogZoom    JogSource = 0x64
)

var jogSources = []JogSource{
	JogUndo, JogPattern, JogMixer, JogChannel, JogTempo,
	JogFree1, JogFree2, JogFree3, JogFree4,
	JogMarker, JogZoom, JogMove, JogWindow,
}

var jogSourceNames = map[JogSource]string{
	JogNone:    "none",
	JogUndo:    "undo",
	JogPattern: "pattern",
	JogMixer:   "mixer",
	JogChannel: "channel",
	JogTempo:   "tempo",
	JogFree1:   "free 1",
	JogFree2:   "free 2",
	JogFree3:   "free 3",
	JogFree4:   "free 4",
	JogMove:    "move",
	JogMarker:  "marker",
	JogWindow:  "window",
	JogZoom:    "zoom",
}

func (j JogSource) String() string {
	if s, ok := jogSourceNames[j]; ok {
		return s
	}
	return "unknown"
}

// Control change numbers.
const (
	ccKnobFirst  = 0x10
	ccKnobLast   = 0x17
	ccRingFirst  = 0x30
	ccJog        = 0x3C
	ccTimeFirst  = 0x49 // counts down per digit
	ccAssignment = 0x4B // counts down per character
)

// Note numbers.
const (
	noteArmFirst        = 0x00
	noteSoloFirst       = 0x08
	noteMuteFirst       = 0x10
	noteSelectFirst     = 0x18
	noteKnobPressFirst  = 0x20
	notePageFirst       = 0x28
	noteBankLeft        = 0x2E
	noteBankRight       = 0x2F
	noteTrackLeft       = 0x30
	noteTrackRight      = 0x31
	noteFlip            = 0x32
	noteSmoothing       = 0x33
	noteDisplayMode     = 0x34
	noteTimeFormat      = 0x35
	noteF1              = 0x36
	noteF8              = 0x3D
	noteShift           = 0x54
	noteRewind          = 0x5B
	noteForward         = 0x5C
	noteStop            = 0x5D
	notePlay            = 0x5E
	noteRecord          = 0x5F
	noteUp              = 0x60
	noteRight           = 0x63
	noteScrub           = 0x65
	noteFaderTouchFirst = 0x68
	noteFaderTouchLast  = 0x70
	noteSMPTE           = 0x71
	noteBeats           = 0x72
)

// Free-control event ids on the host side.
const (
	freeEventBase = 400
	freeJogBase   = 390
	freeScale     = 1 << 16
)

// Automation offsets from a track's plugin id.
const (
	RecMixerVol       = 0
	RecMixerPan       = 1
	RecMixerSS        = 2
	RecMixerEQGain    = 4
	RecMixerEQFreq    = 8
	RecMixerEQQ       = 12
	RecPlugMixLevel   = 16
	RecMixerSendFirst = 32
)

// Ring display modes for the knob LED collars.
const (
	RingParameter = iota
	RingPan
	RingVolume
	RingSpread
	RingOff
)

const (
	// NumColumns is the number of physical fader strips, master included.
	NumColumns = 9
	// NumStrips is the number of strips with a knob, LCD cell and meter.
	NumStrips = 8

	numFreeTracks = 64

	defaultSmoothSpeed = 469

	// tickMillis is the period of the display idle tick.
	tickMillis = 48

	arrowsGlyph = "\x7f\x7e\x32"
)

var arrowSteps = [4]int{2, -2, -1, 1}
