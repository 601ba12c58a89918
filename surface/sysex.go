package surface

import (
	"bytes"

	"gitlab.com/gomidi/midi/v2"
)

// Outbound SysEx operations (after the 00 00 66 14 header).
const (
	opClick          = 0x0A
	opBacklight      = 0x0B
	opTouchless      = 0x0C
	opText           = 0x12
	opMeterMode      = 0x20
	opGlobalMeterLCD = 0x21
)

// DefaultRowWidth is the number of characters in one LCD row.
const DefaultRowWidth = 0x37 + 1

var (
	outHeader    = []byte{0x00, 0x00, 0x66, 0x14}
	faderHeader  = []byte{0x00, 0x20, 0x32, 0x20, 0x01, 0x00}
	masterHeader = []byte{0x00, 0x20, 0x32, 0x00, 0x20, 0x02, 0x40, 0x01}
)

// SyncKind is the kind of console-side fader sync frame.
type SyncKind int

const (
	SyncFader SyncKind = iota
	SyncMaster
	SyncPan
)

func (k SyncKind) String() string {
	switch k {
	case SyncFader:
		return "fader"
	case SyncMaster:
		return "master"
	case SyncPan:
		return "pan"
	}
	return "unknown"
}

// Sync is a decoded console fader/pan update.
type Sync struct {
	Kind    SyncKind
	Channel int     // console channel, unused for master
	Value   float64 // volume in [0,1] or pan in [-1,1]
}

// Codec encodes LCD/meter frames and decodes console sync frames.
type Codec struct {
	// Width is the LCD row width in characters.
	Width int
	// PreferPan decodes exact 8-byte frames on the shared fader header as
	// pan instead of fader.
	PreferPan bool
}

// NewCodec returns a codec for the standard 56-character rows.
func NewCodec() Codec {
	return Codec{Width: DefaultRowWidth}
}

// Decode classifies a SysEx payload. Frames that match no known layout,
// or address a channel outside 0..31, return false.
func (c Codec) Decode(frame []byte) (Sync, bool) {
	frame = trimSysEx(frame)
	if c.PreferPan && len(frame) == 8 {
		if s, ok := DecodePan(frame); ok {
			return s, true
		}
	}
	if s, ok := DecodeFader(frame); ok {
		return s, true
	}
	if s, ok := DecodeMaster(frame); ok {
		return s, true
	}
	if s, ok := DecodePan(frame); ok {
		return s, true
	}
	return Sync{}, false
}

// DecodeFader reads 00 20 32 20 01 00 <ch> <val>.
func DecodeFader(frame []byte) (Sync, bool) {
	frame = trimSysEx(frame)
	if len(frame) < 8 || !bytes.Equal(frame[:6], faderHeader) {
		return Sync{}, false
	}
	ch := int(frame[6])
	if ch >= 32 {
		return Sync{}, false
	}
	return Sync{Kind: SyncFader, Channel: ch, Value: float64(frame[7]) / 127}, true
}

// DecodeMaster reads 00 20 32 00 20 02 40 01 xx xx <hi> <lo>.
func DecodeMaster(frame []byte) (Sync, bool) {
	frame = trimSysEx(frame)
	if len(frame) < 12 || !bytes.Equal(frame[:8], masterHeader) {
		return Sync{}, false
	}
	v := int(frame[10]&0x7F)<<7 | int(frame[11]&0x7F)
	return Sync{Kind: SyncMaster, Value: float64(v) / RawMax}, true
}

// DecodePan reads an exactly 8-byte frame on the fader header.
func DecodePan(frame []byte) (Sync, bool) {
	frame = trimSysEx(frame)
	if len(frame) != 8 || !bytes.Equal(frame[:6], faderHeader) {
		return Sync{}, false
	}
	ch := int(frame[6])
	if ch >= 32 {
		return Sync{}, false
	}
	return Sync{Kind: SyncPan, Channel: ch, Value: (float64(frame[7]) - 64) / 64}, true
}

func trimSysEx(frame []byte) []byte {
	if len(frame) > 0 && frame[0] == 0xF0 {
		frame = frame[1:]
	}
	if len(frame) > 0 && frame[len(frame)-1] == 0xF7 {
		frame = frame[:len(frame)-1]
	}
	return frame
}

func command(op byte, args ...byte) midi.Message {
	b := make([]byte, 0, len(outHeader)+1+len(args))
	b = append(b, outHeader...)
	b = append(b, op)
	b = append(b, args...)
	return midi.SysEx(b)
}

// Text builds an LCD row update. The text is padded with spaces (or cut)
// to exactly Width characters; bytes outside 7-bit ASCII become '?'.
func (c Codec) Text(row int, text string) midi.Message {
	w := c.Width
	if w <= 0 {
		w = DefaultRowWidth
	}
	args := make([]byte, 0, w+1)
	args = append(args, byte(w*row)&0x7F)
	args = append(args, padRow(text, w)...)
	return command(opText, args...)
}

func padRow(text string, w int) []byte {
	b := make([]byte, w)
	for i := range b {
		b[i] = ' '
	}
	for i := 0; i < len(text) && i < w; i++ {
		ch := text[i]
		if ch > 0x7F {
			ch = '?'
		}
		b[i] = ch
	}
	return b
}

// MeterModeFrame sets one strip's meter behaviour.
func MeterModeFrame(strip, mode byte) midi.Message {
	return command(opMeterMode, strip, mode)
}

// GlobalMeterFrame switches the LCD meters between horizontal and vertical.
func GlobalMeterFrame(vertical bool) midi.Message {
	return command(opGlobalMeterLCD, byte(btoi(vertical)))
}

// BacklightFrame sets the LCD backlight timeout in minutes.
func BacklightFrame(minutes byte) midi.Message {
	return command(opBacklight, minutes)
}

// ClickFrame enables or disables the button click.
func ClickFrame(on bool) midi.Message {
	return command(opClick, byte(btoi(on)))
}

// TouchlessFrame enables touchless motor faders.
func TouchlessFrame(on bool) midi.Message {
	return command(opTouchless, byte(btoi(on)))
}

// MeterLevel is a channel pressure message carrying one strip's level.
func MeterLevel(strip, level int) midi.Message {
	return midi.AfterTouch(0, byte(strip<<4|level&0xF))
}

// TimeDisplay drives the 10-digit time display, sending only digits that
// changed since the last update.
type TimeDisplay struct {
	last [10]byte
}

// Update renders text and returns one CC per changed digit.
func (t *TimeDisplay) Update(text string) []midi.Message {
	var next [10]byte
	for i := 0; i < len(text) && i < len(next); i++ {
		next[i] = text[i] & 0x7F
	}
	var out []midi.Message
	for i := range next {
		if next[i] != t.last[i] {
			out = append(out, midi.ControlChange(0, byte(ccTimeFirst-i), next[i]))
		}
	}
	t.last = next
	return out
}

// Reset forgets the displayed digits.
func (t *TimeDisplay) Reset() {
	t.last = [10]byte{}
}

// AssignmentFrames renders the two-character assignment display.
func AssignmentFrames(text string) []midi.Message {
	s := []byte(text + "\x00\x00")
	return []midi.Message{
		midi.ControlChange(0, ccAssignment, s[0]&0x7F),
		midi.ControlChange(0, ccAssignment-1, s[1]&0x7F),
	}
}
