package surface

import "strings"

// Display schedules the two LCD rows: a persistent track-name row and a
// temporary message that reverts after a countdown of idle ticks.
type Display struct {
	codec Codec
	out   *sink

	texts     [2]string // 0: track names, 1: temp message
	countdown int       // ticks left on the temp message, -1 when disabled
	dirty     bool

	mode        MeterMode // effective mode
	meterMax    int
	activityMax int

	lcd  [2]string // what each physical row shows
	time TimeDisplay
}

func newDisplay(codec Codec, out *sink) *Display {
	return &Display{codec: codec, out: out}
}

// SendTemp shows text in place of the track names for roughly ms
// milliseconds. Outside horizontal mode the message stays up.
func (d *Display) SendTemp(text string, ms int) {
	if d.mode == MeterHorizontal {
		d.countdown = ms/tickMillis + 1
	}
	d.texts[1] = text
	d.dirty = true
	d.out.hint(text)
}

// Tick advances the countdown by one idle period. held pauses it while a
// fader is being touched.
func (d *Display) Tick(held bool) {
	if d.dirty {
		d.updateTemp()
		d.dirty = false
	}
	if d.countdown > 0 && !held {
		d.countdown--
		if d.countdown == 0 {
			d.updateTemp()
		}
	}
}

func (d *Display) updateTemp() {
	d.sendRow(d.texts[btoi(d.countdown != 0)], 0)
}

func (d *Display) sendRow(text string, row int) {
	if row < 0 || row > 1 {
		return
	}
	d.out.send(d.codec.Text(row, text))
	d.lcd[row] = string(padRow(text, d.codec.Width))
}

// setNames stores the track-name row and shows it where the mode puts it.
func (d *Display) setNames(names string) {
	d.texts[0] = names
	if d.mode == MeterHorizontal {
		if d.countdown == 0 {
			d.updateTemp()
		}
		return
	}
	d.sendRow(names, 1)
}

// setMode applies an effective meter mode. Row 1 is redrawn by the caller
// through setNames when the mode shows names there.
func (d *Display) setMode(mode MeterMode) {
	d.mode = mode
	vertical := btoi(mode == MeterVertical)
	d.meterMax = 0xD + vertical
	d.activityMax = 0xD - vertical*6

	for m := 0; m < NumStrips; m++ {
		d.out.send(MeterLevel(m, 0xF))
	}
	for m := 0; m < NumStrips; m++ {
		d.out.send(MeterModeFrame(byte(m), 0))
	}
	if mode != MeterHorizontal {
		d.countdown = -1
	} else {
		d.countdown = 500/tickMillis + 1
		d.sendRow(splitMarks(), 1)
	}
}

// finishMode sends the LCD-wide meter settings after the rows are drawn.
func (d *Display) finishMode() {
	d.out.send(GlobalMeterFrame(d.mode != MeterHorizontal))
	n := byte(1 + 2)
	if d.mode == MeterDisabled {
		n = 1
	}
	for m := 0; m < NumStrips; m++ {
		d.out.send(MeterModeFrame(byte(m), n))
	}
}

func splitMarks() string {
	return strings.Repeat("      .", NumStrips)
}

// updateTime sends the digits of text that changed.
func (d *Display) updateTime(text string) {
	for _, msg := range d.time.Update(text) {
		d.out.send(msg)
	}
}

// Mode returns the effective meter mode.
func (d *Display) Mode() MeterMode { return d.mode }

// Countdown returns the ticks left on the temp message.
func (d *Display) Countdown() int { return d.countdown }

// MeterMax is the largest meter level for the current mode.
func (d *Display) MeterMax() int { return d.meterMax }

// ActivityMax is the level used to flash a strip on free-page activity.
func (d *Display) ActivityMax() int { return d.activityMax }

// Row returns what LCD row i currently shows.
func (d *Display) Row(i int) string {
	if i < 0 || i > 1 {
		return ""
	}
	return d.lcd[i]
}

// TempText returns the last temp message.
func (d *Display) TempText() string { return d.texts[1] }
